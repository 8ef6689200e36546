package kubric

import (
	"errors"
	"testing"
)

func TestHex(t *testing.T) {
	white := Hex(0xffffff)
	assertNear(t, "white.R", white.R, 1)
	assertNear(t, "white.A", white.A, 1)

	black := Hex(0)
	assertNear(t, "black.G", black.G, 0)

	// sRGB 0.5 is about 0.214 linear
	grey := Hex(0x808080)
	if grey.R < 0.2 || grey.R > 0.23 {
		t.Errorf("grey.R = %v, want ~0.216", grey.R)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if c != Hex(0xff0000) {
		t.Errorf("ParseHex = %v, Hex = %v", c, Hex(0xff0000))
	}
	if _, err := ParseHex("red"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
}

func TestRenderConfig(t *testing.T) {
	var got string
	c := NewRenderConfig(WithOnRenderWrite(func(p string) { got = p }))
	c.OnRenderWrite("x")
	if got != "x" {
		t.Error("callback not installed")
	}
	if NewRenderConfig().OnRenderWrite != nil {
		t.Error("empty config has a callback")
	}
	if o := DefaultImportOptions(); o.AxisForward != "Y" || o.AxisUp != "Z" {
		t.Errorf("DefaultImportOptions = %+v", o)
	}
}
