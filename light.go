package kubric

// AmbientLight lights every surface uniformly. It has no transform; a
// backend maps it onto the world environment.
type AmbientLight struct {
	color     Color
	intensity float64
	binding   Binding
}

// DefaultAmbientColor is the color of a new ambient light (0x030303).
var DefaultAmbientColor = Hex(0x030303)

// NewAmbientLight returns an ambient light with color c and intensity.
func NewAmbientLight(c Color, intensity float64, b Binding) (*AmbientLight, error) {
	l := &AmbientLight{binding: orUnbound(b)}
	if err := l.SetColor(c); err != nil {
		return nil, err
	}
	if err := l.SetIntensity(intensity); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *AmbientLight) Color() Color { return l.color }

func (l *AmbientLight) SetColor(c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	l.color = c
	return l.binding.Push(PropColor, l.color)
}

func (l *AmbientLight) Intensity() float64 { return l.intensity }

func (l *AmbientLight) SetIntensity(v float64) error {
	if err := checkNonNegative("intensity", v); err != nil {
		return err
	}
	l.intensity = v
	return l.binding.Push(PropIntensity, l.intensity)
}

// light is the state shared by the positioned light types.
type light struct {
	Object3D
	color     Color
	intensity float64
}

func (l *light) initLight(name string, c Color, intensity float64, b Binding) error {
	if err := l.init(name, b); err != nil {
		return err
	}
	if err := l.SetColor(c); err != nil {
		return err
	}
	return l.SetIntensity(intensity)
}

// Color returns the light color.
func (l *light) Color() Color { return l.color }

// SetColor stores and pushes the light color.
func (l *light) SetColor(c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	l.color = c
	return l.binding.Push(PropColor, l.color)
}

// Intensity returns the light intensity.
func (l *light) Intensity() float64 { return l.intensity }

// SetIntensity stores and pushes the intensity. It must not be negative.
func (l *light) SetIntensity(v float64) error {
	if err := checkNonNegative("intensity", v); err != nil {
		return err
	}
	l.intensity = v
	return l.binding.Push(PropIntensity, l.intensity)
}

// DirectionalLight shines along its local -Z axis from infinitely far away.
// Point it with [Object3D.LookAt].
type DirectionalLight struct {
	light
	shadowSoftness float64
}

// DefaultShadowSoftness is the angular diameter of a new directional light.
const DefaultShadowSoftness = 0.1

// NewDirectionalLight returns a directional light shining down -Z.
func NewDirectionalLight(name string, c Color, intensity float64, b Binding) (*DirectionalLight, error) {
	l := &DirectionalLight{}
	if err := l.initLight(name, c, intensity, b); err != nil {
		return nil, err
	}
	if err := l.SetShadowSoftness(DefaultShadowSoftness); err != nil {
		return nil, err
	}
	return l, nil
}

// ShadowSoftness returns the angular diameter of the light source in
// radians.
func (l *DirectionalLight) ShadowSoftness() float64 { return l.shadowSoftness }

// SetShadowSoftness stores and pushes the angular diameter in radians.
func (l *DirectionalLight) SetShadowSoftness(rad float64) error {
	if err := checkNonNegative("shadow softness", rad); err != nil {
		return err
	}
	l.shadowSoftness = rad
	return l.binding.Push(PropShadowSoftness, l.shadowSoftness)
}

// RectAreaLight emits from a width x height rectangle facing its local -Z.
type RectAreaLight struct {
	light
	width, height float64
}

// NewRectAreaLight returns a rectangular emitter facing -Z.
func NewRectAreaLight(name string, c Color, intensity, width, height float64, b Binding) (*RectAreaLight, error) {
	l := &RectAreaLight{}
	if err := l.initLight(name, c, intensity, b); err != nil {
		return nil, err
	}
	if err := l.SetWidth(width); err != nil {
		return nil, err
	}
	if err := l.SetHeight(height); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *RectAreaLight) Width() float64 { return l.width }

func (l *RectAreaLight) SetWidth(v float64) error {
	if err := checkPositive("width", v); err != nil {
		return err
	}
	l.width = v
	return l.binding.Push(PropWidth, l.width)
}

func (l *RectAreaLight) Height() float64 { return l.height }

func (l *RectAreaLight) SetHeight(v float64) error {
	if err := checkPositive("height", v); err != nil {
		return err
	}
	l.height = v
	return l.binding.Push(PropHeight, l.height)
}
