package kubric

import (
	"errors"
	"testing"
)

func TestPerspectiveCamera(t *testing.T) {
	r := &recorder{}
	c, err := NewPerspectiveCamera("cam", 35, r)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "FocalLength", c.FocalLength(), 35)
	assertNear(t, "SensorWidth", c.SensorWidth(), DefaultSensorWidth)
	if r.last(PropFocalLength) != 35.0 {
		t.Errorf("focal push = %v", r.last(PropFocalLength))
	}
	if _, ok := c.Orthographic(); ok {
		t.Error("perspective camera reported orthographic")
	}
	var _ Camera = c

	if err := c.SetFocalLength(0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("zero focal length err = %v", err)
	}
	assertNear(t, "FocalLength after reject", c.FocalLength(), 35)
	if _, err := NewPerspectiveCamera("bad", -1, nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative focal length err = %v", err)
	}
}

func TestOrthographicCamera(t *testing.T) {
	r := &recorder{}
	c, err := NewOrthographicCamera("ortho", -2, 2, 1, -1, 0.1, 100, r)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "Width", c.Width(), 4)
	assertNear(t, "Height", c.Height(), 2)
	assertNear(t, "Aspect", c.Aspect(), 2)
	if got := r.last(PropOrthoBounds); got != [4]float64{-2, 2, 1, -1} {
		t.Errorf("bounds push = %v", got)
	}
	if got := r.last(PropClip); got != [2]float64{0.1, 100} {
		t.Errorf("clip push = %v", got)
	}
	if o, ok := c.Orthographic(); !ok || o != c {
		t.Error("Orthographic() did not return the camera")
	}

	if err := c.SetBounds(1, 1, 1, -1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("empty frustum err = %v", err)
	}
	if err := c.SetClip(10, 1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("inverted clip err = %v", err)
	}
	l, rt, top, b := c.Bounds()
	if l != -2 || rt != 2 || top != 1 || b != -1 {
		t.Errorf("bounds changed after reject: %v %v %v %v", l, rt, top, b)
	}
}
