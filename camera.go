package kubric

import "fmt"

// Camera is a node the scene can be rendered through.
type Camera interface {
	Node
	// Orthographic returns the camera's orthographic state, or false for a
	// perspective camera.
	Orthographic() (*OrthographicCamera, bool)
}

// PerspectiveCamera projects through a pinhole with a focal length and
// sensor width in millimetres.
type PerspectiveCamera struct {
	Object3D

	focalLength float64
	sensorWidth float64
}

// DefaultSensorWidth is the sensor width of a new perspective camera in
// millimetres.
const DefaultSensorWidth = 36.0

// NewPerspectiveCamera returns a camera at the origin looking down -Z.
func NewPerspectiveCamera(name string, focalLength float64, b Binding) (*PerspectiveCamera, error) {
	c := &PerspectiveCamera{}
	if err := c.init(name, b); err != nil {
		return nil, err
	}
	if err := c.SetSensorWidth(DefaultSensorWidth); err != nil {
		return nil, err
	}
	if err := c.SetFocalLength(focalLength); err != nil {
		return nil, err
	}
	return c, nil
}

// Orthographic implements [Camera].
func (c *PerspectiveCamera) Orthographic() (*OrthographicCamera, bool) { return nil, false }

// FocalLength returns the focal length in millimetres.
func (c *PerspectiveCamera) FocalLength() float64 { return c.focalLength }

// SetFocalLength stores and pushes the focal length. It must be positive.
func (c *PerspectiveCamera) SetFocalLength(mm float64) error {
	if err := checkPositive("focal length", mm); err != nil {
		return err
	}
	c.focalLength = mm
	return c.binding.Push(PropFocalLength, c.focalLength)
}

// SensorWidth returns the sensor width in millimetres.
func (c *PerspectiveCamera) SensorWidth() float64 { return c.sensorWidth }

// SetSensorWidth stores and pushes the sensor width. It must be positive.
func (c *PerspectiveCamera) SetSensorWidth(mm float64) error {
	if err := checkPositive("sensor width", mm); err != nil {
		return err
	}
	c.sensorWidth = mm
	return c.binding.Push(PropSensorWidth, c.sensorWidth)
}

// OrthographicCamera projects the box bounded by left/right/top/bottom and
// near/far along -Z.
type OrthographicCamera struct {
	Object3D

	left, right, top, bottom float64
	near, far                float64
}

// NewOrthographicCamera returns a camera at the origin looking down -Z.
func NewOrthographicCamera(name string, left, right, top, bottom, near, far float64, b Binding) (*OrthographicCamera, error) {
	c := &OrthographicCamera{}
	if err := c.init(name, b); err != nil {
		return nil, err
	}
	if err := c.SetBounds(left, right, top, bottom); err != nil {
		return nil, err
	}
	if err := c.SetClip(near, far); err != nil {
		return nil, err
	}
	return c, nil
}

// Orthographic implements [Camera].
func (c *OrthographicCamera) Orthographic() (*OrthographicCamera, bool) { return c, true }

// Bounds returns the frustum edges.
func (c *OrthographicCamera) Bounds() (left, right, top, bottom float64) {
	return c.left, c.right, c.top, c.bottom
}

// SetBounds stores and pushes the frustum edges. right must exceed left and
// top must exceed bottom.
func (c *OrthographicCamera) SetBounds(left, right, top, bottom float64) error {
	for _, v := range []float64{left, right, top, bottom} {
		if !finite(v) {
			return fmt.Errorf("%w: orthographic bound %v", ErrInvalidValue, v)
		}
	}
	if right <= left || top <= bottom {
		return fmt.Errorf("%w: empty orthographic frustum [%v, %v] x [%v, %v]", ErrInvalidValue, left, right, bottom, top)
	}
	c.left, c.right, c.top, c.bottom = left, right, top, bottom
	return c.binding.Push(PropOrthoBounds, [4]float64{c.left, c.right, c.top, c.bottom})
}

// Width returns right - left.
func (c *OrthographicCamera) Width() float64 { return c.right - c.left }

// Height returns top - bottom.
func (c *OrthographicCamera) Height() float64 { return c.top - c.bottom }

// Aspect returns Width / Height.
func (c *OrthographicCamera) Aspect() float64 { return c.Width() / c.Height() }

// Clip returns the near and far planes.
func (c *OrthographicCamera) Clip() (near, far float64) { return c.near, c.far }

// SetClip stores and pushes the clip planes. 0 <= near < far.
func (c *OrthographicCamera) SetClip(near, far float64) error {
	if !finite(near) || !finite(far) || near < 0 || far <= near {
		return fmt.Errorf("%w: clip range [%v, %v]", ErrInvalidValue, near, far)
	}
	c.near, c.far = near, far
	return c.binding.Push(PropClip, [2]float64{c.near, c.far})
}
