package kubric

// Shading is how a material asks the backend to shade a surface.
type Shading uint8

const (
	ShadingBasic  Shading = iota // backend default
	ShadingSmooth                // interpolated vertex normals
	ShadingFlat                  // one normal per face
	ShadingShadow                // invisible except for received shadows
)

// MaterialSpecs are the optional parameters of a material. Nil fields keep
// the material's default.
type MaterialSpecs struct {
	Color         *Color
	ReceiveShadow *bool
}

// Material describes the appearance of a [Mesh].
type Material interface {
	Color() Color
	Shading() Shading
}

type material struct {
	color Color
}

func newMaterial(specs MaterialSpecs) material {
	m := material{color: ColorWhite}
	if specs.Color != nil {
		m.color = *specs.Color
	}
	return m
}

func (m *material) Color() Color { return m.color }

// MeshBasicMaterial is unlit in three.js; backends give it their default
// surface.
type MeshBasicMaterial struct{ material }

func NewMeshBasicMaterial(specs MaterialSpecs) *MeshBasicMaterial {
	return &MeshBasicMaterial{newMaterial(specs)}
}

func (*MeshBasicMaterial) Shading() Shading { return ShadingBasic }

// MeshPhongMaterial is a smooth-shaded surface.
type MeshPhongMaterial struct{ material }

func NewMeshPhongMaterial(specs MaterialSpecs) *MeshPhongMaterial {
	return &MeshPhongMaterial{newMaterial(specs)}
}

func (*MeshPhongMaterial) Shading() Shading { return ShadingSmooth }

// MeshFlatMaterial is a flat-shaded surface.
type MeshFlatMaterial struct{ material }

func NewMeshFlatMaterial(specs MaterialSpecs) *MeshFlatMaterial {
	return &MeshFlatMaterial{newMaterial(specs)}
}

func (*MeshFlatMaterial) Shading() Shading { return ShadingFlat }

// ShadowMaterial shows only the shadows other objects cast on it.
type ShadowMaterial struct {
	material
	receiveShadow bool
}

// NewShadowMaterial returns a shadow material. ReceiveShadow defaults to
// true.
func NewShadowMaterial(specs MaterialSpecs) *ShadowMaterial {
	m := &ShadowMaterial{material: newMaterial(specs), receiveShadow: true}
	if specs.ReceiveShadow != nil {
		m.receiveShadow = *specs.ReceiveShadow
	}
	return m
}

func (*ShadowMaterial) Shading() Shading { return ShadingShadow }

// ReceiveShadow reports whether the surface catches shadows.
func (m *ShadowMaterial) ReceiveShadow() bool { return m.receiveShadow }
