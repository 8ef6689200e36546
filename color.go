package kubric

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA color. Components are not clamped above 1 so
// emitters can exceed display white. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// Hex converts a 0xRRGGBB sRGB value, as three.js writes colors, to an
// opaque linear color.
func Hex(v uint32) Color {
	c, _ := ParseHex(fmt.Sprintf("#%06x", v&0xffffff))
	return c
}

// ParseHex converts a "#rrggbb" or "#rgb" sRGB string to an opaque linear
// color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidValue, s, err)
	}
	r, g, b := c.LinearRgb()
	return Color{r, g, b, 1}, nil
}

// RGB returns the color channels as a vector.
func (c Color) RGB() mgl64.Vec3 { return mgl64.Vec3{c.R, c.G, c.B} }

// RGBA returns the four components in order.
func (c Color) RGBA() [4]float64 { return [4]float64{c.R, c.G, c.B, c.A} }

func (c Color) validate() error {
	for _, v := range c.RGBA() {
		if !finite(v) || v < 0 {
			return fmt.Errorf("%w: color %v", ErrInvalidValue, c)
		}
	}
	return nil
}
