package nodegraph

import (
	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// Material is a kubric material backed by a native material data block.
// Apply runs after the material is assigned to a mesh object, for settings
// that live on the object rather than the material.
type Material interface {
	kubric.Material
	Native() *native.Material
	Apply(ctx *native.Context, obj *native.Object)
}

type nativeMaterial struct {
	mat *native.Material
}

func newNativeMaterial(ctx *native.Context, m kubric.Material) nativeMaterial {
	mat := ctx.NewMaterial("Material")
	c := m.Color()
	mat.DiffuseColor = [4]float64{c.R, c.G, c.B, c.A}
	return nativeMaterial{mat: mat}
}

func (m nativeMaterial) Native() *native.Material { return m.mat }

// MeshBasicMaterial keeps the backend's default shading.
type MeshBasicMaterial struct {
	*kubric.MeshBasicMaterial
	nativeMaterial
}

func NewMeshBasicMaterial(ctx *native.Context, specs kubric.MaterialSpecs) *MeshBasicMaterial {
	m := kubric.NewMeshBasicMaterial(specs)
	return &MeshBasicMaterial{MeshBasicMaterial: m, nativeMaterial: newNativeMaterial(ctx, m)}
}

func (*MeshBasicMaterial) Apply(*native.Context, *native.Object) {}

// MeshPhongMaterial smooth-shades the mesh it is applied to.
type MeshPhongMaterial struct {
	*kubric.MeshPhongMaterial
	nativeMaterial
}

func NewMeshPhongMaterial(ctx *native.Context, specs kubric.MaterialSpecs) *MeshPhongMaterial {
	m := kubric.NewMeshPhongMaterial(specs)
	return &MeshPhongMaterial{MeshPhongMaterial: m, nativeMaterial: newNativeMaterial(ctx, m)}
}

func (*MeshPhongMaterial) Apply(ctx *native.Context, obj *native.Object) {
	ctx.SelectOnly(obj)
	ctx.ShadeSmooth()
}

// MeshFlatMaterial flat-shades the mesh it is applied to.
type MeshFlatMaterial struct {
	*kubric.MeshFlatMaterial
	nativeMaterial
}

func NewMeshFlatMaterial(ctx *native.Context, specs kubric.MaterialSpecs) *MeshFlatMaterial {
	m := kubric.NewMeshFlatMaterial(specs)
	return &MeshFlatMaterial{MeshFlatMaterial: m, nativeMaterial: newNativeMaterial(ctx, m)}
}

func (*MeshFlatMaterial) Apply(ctx *native.Context, obj *native.Object) {
	ctx.SelectOnly(obj)
	ctx.ShadeFlat()
}

// ShadowMaterial turns the mesh it is applied to into a shadow catcher.
type ShadowMaterial struct {
	*kubric.ShadowMaterial
	nativeMaterial
}

func NewShadowMaterial(ctx *native.Context, specs kubric.MaterialSpecs) *ShadowMaterial {
	m := kubric.NewShadowMaterial(specs)
	return &ShadowMaterial{ShadowMaterial: m, nativeMaterial: newNativeMaterial(ctx, m)}
}

func (m *ShadowMaterial) Apply(_ *native.Context, obj *native.Object) {
	if m.ReceiveShadow() {
		obj.Cycles.IsShadowCatcher = true
	}
}
