package native

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ObjectType identifies what kind of data an Object carries.
type ObjectType string

const (
	ObjectEmpty  ObjectType = "EMPTY"
	ObjectMesh   ObjectType = "MESH"
	ObjectCamera ObjectType = "CAMERA"
	ObjectLight  ObjectType = "LIGHT"
)

// RotationMode selects which rotation property drives an object's
// orientation.
type RotationMode string

const (
	RotationXYZ        RotationMode = "XYZ"
	RotationQuaternion RotationMode = "QUATERNION"
)

// Animation data paths understood by [Object.KeyframeInsert].
const (
	PathLocation           = "location"
	PathScale              = "scale"
	PathRotationQuaternion = "rotation_quaternion"
	PathRotationEuler      = "rotation_euler"
)

// CyclesObject holds per-object path-tracer flags.
type CyclesObject struct {
	IsShadowCatcher bool `yaml:"is_shadow_catcher"`
}

// Object is a scene entity: a transform plus an optional data block.
type Object struct {
	Name string
	Type ObjectType

	Location           mgl64.Vec3
	Scale              mgl64.Vec3
	RotationMode       RotationMode
	RotationQuaternion mgl64.Quat // W first, as the backend stores it
	RotationEuler      mgl64.Vec3

	// Exactly one of these is set, matching Type (none for ObjectEmpty).
	Mesh   *MeshData
	Camera *CameraData
	Light  *LightData

	Cycles    CyclesObject
	Animation *AnimationData

	owner    *Context
	selected bool
}

func newObject(owner *Context, name string, typ ObjectType) *Object {
	return &Object{
		Name:               name,
		Type:               typ,
		Scale:              mgl64.Vec3{1, 1, 1},
		RotationMode:       RotationXYZ,
		RotationQuaternion: mgl64.QuatIdent(),
		owner:              owner,
	}
}

// Selected reports whether the object is part of the current selection.
func (o *Object) Selected() bool { return o.selected }

// Rotation returns the orientation selected by RotationMode.
func (o *Object) Rotation() mgl64.Quat {
	return rotationOf(o.RotationMode, o.RotationQuaternion, o.RotationEuler)
}

func rotationOf(mode RotationMode, q mgl64.Quat, euler mgl64.Vec3) mgl64.Quat {
	if mode == RotationQuaternion {
		if q.Len() == 0 {
			return mgl64.QuatIdent()
		}
		return q.Normalize()
	}
	// XYZ euler: X applied first.
	return mgl64.AnglesToQuat(euler[2], euler[1], euler[0], mgl64.ZYX)
}

// MatrixWorld returns Translate * Rotate * Scale for the current transform.
func (o *Object) MatrixWorld() mgl64.Mat4 {
	return composeMatrix(o.Location, o.Rotation(), o.Scale)
}

// MatrixWorldAt returns the world matrix the object's animation produces at
// frame, without modifying the object.
func (o *Object) MatrixWorldAt(frame float64) mgl64.Mat4 {
	loc, q, euler, scale := o.evaluate(frame)
	return composeMatrix(loc, rotationOf(o.RotationMode, q, euler), scale)
}

func composeMatrix(loc mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(loc[0], loc[1], loc[2])
	s := mgl64.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(rot.Mat4()).Mul4(s)
}

// channel describes an animatable property: its width and accessors.
type channel struct {
	size int
	get  func(o *Object, i int) float64
}

var channels = map[string]channel{
	PathLocation: {3, func(o *Object, i int) float64 { return o.Location[i] }},
	PathScale:    {3, func(o *Object, i int) float64 { return o.Scale[i] }},
	PathRotationEuler: {3, func(o *Object, i int) float64 {
		return o.RotationEuler[i]
	}},
	PathRotationQuaternion: {4, func(o *Object, i int) float64 {
		if i == 0 {
			return o.RotationQuaternion.W
		}
		return o.RotationQuaternion.V[i-1]
	}},
}

// KeyframeInsert records the current value of the property at dataPath on
// every component's FCurve at frame. Keyframing rotation_quaternion is
// rejected unless the object is in QUATERNION rotation mode.
func (o *Object) KeyframeInsert(dataPath string, frame int) error {
	ch, ok := channels[dataPath]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPath, dataPath)
	}
	if dataPath == PathRotationQuaternion && o.RotationMode != RotationQuaternion {
		return fmt.Errorf("%w: object %q is in %s mode", ErrRotationMode, o.Name, o.RotationMode)
	}
	interp := InterpolationBezier
	if o.owner != nil && o.owner.Preferences.KeyframeInterpolation != "" {
		interp = o.owner.Preferences.KeyframeInterpolation
	}
	if o.Animation == nil {
		o.Animation = &AnimationData{}
	}
	for i := 0; i < ch.size; i++ {
		o.Animation.ensure(dataPath, i).Insert(float64(frame), ch.get(o, i), interp)
	}
	return nil
}

// evaluate returns the animated transform at frame. Components without an
// FCurve keep their current value.
func (o *Object) evaluate(frame float64) (loc mgl64.Vec3, q mgl64.Quat, euler, scale mgl64.Vec3) {
	loc, q, euler, scale = o.Location, o.RotationQuaternion, o.RotationEuler, o.Scale
	ad := o.Animation
	if ad == nil {
		return
	}
	for i := 0; i < 3; i++ {
		if fc := ad.Find(PathLocation, i); fc != nil {
			loc[i] = fc.Evaluate(frame)
		}
		if fc := ad.Find(PathScale, i); fc != nil {
			scale[i] = fc.Evaluate(frame)
		}
		if fc := ad.Find(PathRotationEuler, i); fc != nil {
			euler[i] = fc.Evaluate(frame)
		}
	}
	keyedQuat := false
	for i := 0; i < 4; i++ {
		fc := ad.Find(PathRotationQuaternion, i)
		if fc == nil {
			continue
		}
		keyedQuat = true
		if i == 0 {
			q.W = fc.Evaluate(frame)
		} else {
			q.V[i-1] = fc.Evaluate(frame)
		}
	}
	if l := q.Len(); keyedQuat && l > 0 && math.Abs(l-1) > 1e-12 {
		q = q.Normalize()
	}
	return
}

// applyAnimation writes the animated transform at frame into the object.
func (o *Object) applyAnimation(frame float64) {
	if o.Animation == nil {
		return
	}
	o.Location, o.RotationQuaternion, o.RotationEuler, o.Scale = o.evaluate(frame)
}
