package nodegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

type pushFunc func(value any) error

// binding is the push table of one native entity. Properties without an
// entry are accepted and dropped.
type binding struct {
	name string
	obj  *native.Object
	push map[kubric.Property]pushFunc
}

// dataPaths maps animatable properties onto native animation data paths.
var dataPaths = map[kubric.Property]string{
	kubric.PropPosition:   native.PathLocation,
	kubric.PropQuaternion: native.PathRotationQuaternion,
	kubric.PropScale:      native.PathScale,
}

func (b *binding) Push(p kubric.Property, v any) error {
	f, ok := b.push[p]
	if !ok {
		return nil
	}
	return f(v)
}

func (b *binding) Keyframe(p kubric.Property, frame int) error {
	path, ok := dataPaths[p]
	if !ok {
		return fmt.Errorf("%w: %s has no animation data path", kubric.ErrPrecondition, p)
	}
	o := b.object()
	if err := o.KeyframeInsert(path, frame); err != nil {
		return err
	}
	kubric.Logger().Debug("keyframe inserted", "object", o.Name, "path", path, "frame", frame)
	return nil
}

// object returns the native object. A push before it exists is a bug in
// the constructor that issued it.
func (b *binding) object() *native.Object {
	if b.obj == nil {
		panic(fmt.Sprintf("nodegraph: %s pushed before its native object exists", b.name))
	}
	return b.obj
}

// wrap switches obj to quaternion rotation and returns a binding that
// mirrors the transform into it.
func wrap(obj *native.Object) *binding {
	b := &binding{name: "object", obj: obj, push: map[kubric.Property]pushFunc{}}
	if obj != nil {
		b.name = obj.Name
		obj.RotationMode = native.RotationQuaternion
	}
	b.push[kubric.PropPosition] = func(v any) error {
		b.object().Location = v.(mgl64.Vec3)
		return nil
	}
	b.push[kubric.PropScale] = func(v any) error {
		b.object().Scale = v.(mgl64.Vec3)
		return nil
	}
	b.push[kubric.PropQuaternion] = func(v any) error {
		b.object().RotationQuaternion = v.(mgl64.Quat)
		return nil
	}
	return b
}

// Native is implemented by every node backed by a native object.
type Native interface {
	kubric.Node
	Native() *native.Object
}

// Object3D is a kubric object wrapping a native object.
type Object3D struct {
	*kubric.Object3D
	obj *native.Object
}

// WrapObject binds obj to a new Object3D. The object is reset to the origin
// with unit scale and identity rotation.
func WrapObject(obj *native.Object) (*Object3D, error) {
	b := wrap(obj)
	o, err := kubric.NewObject3D(b.name, b)
	if err != nil {
		return nil, err
	}
	return &Object3D{Object3D: o, obj: obj}, nil
}

// Native returns the wrapped object.
func (o *Object3D) Native() *native.Object { return o.obj }
