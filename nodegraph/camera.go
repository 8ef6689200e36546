package nodegraph

import (
	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// newCameraObject allocates an unlinked camera object with fresh camera
// data of type typ.
func newCameraObject(ctx *native.Context, name string, typ native.CameraType) (*binding, error) {
	obj, err := ctx.NewObject(name, ctx.NewCamera(name))
	if err != nil {
		return nil, err
	}
	obj.Camera.Type = typ
	return wrap(obj), nil
}

// PerspectiveCamera is a perspective camera object. It is not part of the
// scene until added.
type PerspectiveCamera struct {
	*kubric.PerspectiveCamera
	obj *native.Object
}

// NewPerspectiveCamera creates the camera object and its camera data.
func NewPerspectiveCamera(ctx *native.Context, name string, focalLength float64) (*PerspectiveCamera, error) {
	b, err := newCameraObject(ctx, name, native.CameraPerspective)
	if err != nil {
		return nil, err
	}
	b.push[kubric.PropFocalLength] = func(v any) error {
		b.object().Camera.Lens = v.(float64)
		return nil
	}
	b.push[kubric.PropSensorWidth] = func(v any) error {
		b.object().Camera.SensorWidth = v.(float64)
		return nil
	}
	c, err := kubric.NewPerspectiveCamera(b.obj.Name, focalLength, b)
	if err != nil {
		return nil, err
	}
	return &PerspectiveCamera{PerspectiveCamera: c, obj: b.obj}, nil
}

// Native returns the camera object.
func (c *PerspectiveCamera) Native() *native.Object { return c.obj }

// OrthographicCamera is an orthographic camera object. The native ortho
// scale follows the frustum width; the image aspect is fixed at render
// time.
type OrthographicCamera struct {
	*kubric.OrthographicCamera
	obj *native.Object
}

// NewOrthographicCamera creates the camera object and its camera data.
func NewOrthographicCamera(ctx *native.Context, name string, left, right, top, bottom, near, far float64) (*OrthographicCamera, error) {
	b, err := newCameraObject(ctx, name, native.CameraOrthographic)
	if err != nil {
		return nil, err
	}
	b.push[kubric.PropOrthoBounds] = func(v any) error {
		lrtb := v.([4]float64)
		b.object().Camera.OrthoScale = lrtb[1] - lrtb[0]
		return nil
	}
	b.push[kubric.PropClip] = func(v any) error {
		clip := v.([2]float64)
		cd := b.object().Camera
		cd.ClipStart, cd.ClipEnd = clip[0], clip[1]
		return nil
	}
	c, err := kubric.NewOrthographicCamera(b.obj.Name, left, right, top, bottom, near, far, b)
	if err != nil {
		return nil, err
	}
	return &OrthographicCamera{OrthographicCamera: c, obj: b.obj}, nil
}

// Native returns the camera object.
func (c *OrthographicCamera) Native() *native.Object { return c.obj }
