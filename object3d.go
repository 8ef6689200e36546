package kubric

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is anything that can be placed in a [Scene].
type Node interface {
	// Object returns the node's transform state.
	Object() *Object3D
}

// Object3D is the transform shared by every placeable entity. The zero
// value is not usable; call [NewObject3D] or a typed constructor.
type Object3D struct {
	Name string

	position   mgl64.Vec3
	scale      mgl64.Vec3
	quaternion mgl64.Quat

	binding Binding
}

// NewObject3D returns an object at the origin with unit scale and identity
// rotation. The defaults are pushed to b, so a backend must have its native
// object ready before calling.
func NewObject3D(name string, b Binding) (*Object3D, error) {
	o := &Object3D{}
	if err := o.init(name, b); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Object3D) init(name string, b Binding) error {
	o.Name = name
	o.binding = orUnbound(b)
	if err := o.SetPosition(mgl64.Vec3{}); err != nil {
		return err
	}
	if err := o.SetScale(mgl64.Vec3{1, 1, 1}); err != nil {
		return err
	}
	return o.SetQuaternion(mgl64.QuatIdent())
}

// Object implements [Node].
func (o *Object3D) Object() *Object3D { return o }

// Binding returns the binding property writes are pushed to.
func (o *Object3D) Binding() Binding { return o.binding }

// Position returns the stored position.
func (o *Object3D) Position() mgl64.Vec3 { return o.position }

// SetPosition stores v and pushes it.
func (o *Object3D) SetPosition(v mgl64.Vec3) error {
	if err := checkPosition(v); err != nil {
		return err
	}
	o.position = v
	return o.binding.Push(PropPosition, o.position)
}

// Scale returns the stored scale.
func (o *Object3D) Scale() mgl64.Vec3 { return o.scale }

// SetScale stores v and pushes it. Every component must be non-zero.
func (o *Object3D) SetScale(v mgl64.Vec3) error {
	if err := checkScale(v); err != nil {
		return err
	}
	o.scale = v
	return o.binding.Push(PropScale, o.scale)
}

// Quaternion returns the stored unit quaternion.
func (o *Object3D) Quaternion() mgl64.Quat { return o.quaternion }

// SetQuaternion normalizes q, stores it and pushes it.
func (o *Object3D) SetQuaternion(q mgl64.Quat) error {
	q, err := normalizeQuat(q)
	if err != nil {
		return err
	}
	o.quaternion = q
	return o.binding.Push(PropQuaternion, o.quaternion)
}

// LookAt rotates the object so its local -Z axis points at (x, y, z) with
// local +Y as close to world +Z as possible. Looking straight up or down
// keeps local +Y toward world +Y instead. When the target is the object's
// own position nothing changes.
func (o *Object3D) LookAt(x, y, z float64) error {
	target := mgl64.Vec3{x, y, z}
	if err := checkPosition(target); err != nil {
		return err
	}
	q, ok := lookRotation(o.position, target)
	if !ok {
		return nil
	}
	return o.SetQuaternion(q)
}

// KeyframeInsert records the stored value of member ("position",
// "quaternion" or "scale") at frame. Inserting at a frame that already has
// a keyframe replaces it.
func (o *Object3D) KeyframeInsert(member string, frame int) error {
	prop, ok := animatable[member]
	if !ok {
		return fmt.Errorf("%w: %q is not animatable, want one of %s", ErrPrecondition, member, animatableNames())
	}
	return o.binding.Keyframe(prop, frame)
}

func animatableNames() string {
	names := make([]string, 0, len(animatable))
	for n := range animatable {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
