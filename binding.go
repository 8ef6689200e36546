package kubric

// Property names a pushable entity property.
type Property string

const (
	PropPosition       Property = "position"
	PropQuaternion     Property = "quaternion"
	PropScale          Property = "scale"
	PropFocalLength    Property = "focal_length"
	PropSensorWidth    Property = "sensor_width"
	PropOrthoBounds    Property = "ortho_bounds" // [4]float64{left, right, top, bottom}
	PropClip           Property = "clip"         // [2]float64{near, far}
	PropColor          Property = "color"
	PropIntensity      Property = "intensity"
	PropShadowSoftness Property = "shadow_softness"
	PropWidth          Property = "width"
	PropHeight         Property = "height"
	PropFrameStart     Property = "frame_start"
	PropFrameEnd       Property = "frame_end"
)

// Animatable members accepted by [Object3D.KeyframeInsert].
var animatable = map[string]Property{
	"position":   PropPosition,
	"quaternion": PropQuaternion,
	"scale":      PropScale,
}

// Binding connects an entity to its backend-native state. Push receives a
// property value after it has been validated and stored; Keyframe records
// the pushed value of an animatable property at frame.
type Binding interface {
	Push(prop Property, value any) error
	Keyframe(prop Property, frame int) error
}

type unbound struct{}

func (unbound) Push(Property, any) error     { return nil }
func (unbound) Keyframe(Property, int) error { return nil }

// Unbound accepts and drops every push and keyframe. Entities constructed
// with a nil Binding use it.
var Unbound Binding = unbound{}

func orUnbound(b Binding) Binding {
	if b == nil {
		return Unbound
	}
	return b
}
