package nodegraph

import (
	"fmt"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// AmbientLight drives the color and strength of the world's "Background"
// node. It has no native object.
type AmbientLight struct {
	*kubric.AmbientLight
}

// NewAmbientLight binds an ambient light to the scene world. The world tree
// must have a node named "Background", as the startup scene does; it is
// resolved on every push so a rebuilt world tree is picked up.
func NewAmbientLight(ctx *native.Context, c kubric.Color, intensity float64) (*AmbientLight, error) {
	background := func() (*native.Node, error) {
		w := ctx.Scene.World
		if w == nil || w.NodeTree == nil || w.NodeTree.Node("Background") == nil {
			return nil, fmt.Errorf("%w: world has no Background node", kubric.ErrPrecondition)
		}
		return w.NodeTree.Node("Background"), nil
	}
	b := &binding{name: "ambient light", push: map[kubric.Property]pushFunc{
		kubric.PropColor: func(v any) error {
			n, err := background()
			if err != nil {
				return err
			}
			rgba := v.(kubric.Color).RGBA()
			n.Input("Color").DefaultValue = rgba[:]
			return nil
		},
		kubric.PropIntensity: func(v any) error {
			n, err := background()
			if err != nil {
				return err
			}
			n.Input("Strength").DefaultValue = []float64{v.(float64)}
			return nil
		},
	}}
	l, err := kubric.NewAmbientLight(c, intensity, b)
	if err != nil {
		return nil, err
	}
	return &AmbientLight{AmbientLight: l}, nil
}

// lightPushes adds the color and intensity entries shared by every light
// object.
func lightPushes(b *binding) {
	b.push[kubric.PropColor] = func(v any) error {
		b.object().Light.Color = v.(kubric.Color).RGB()
		return nil
	}
	b.push[kubric.PropIntensity] = func(v any) error {
		b.object().Light.Energy = v.(float64)
		return nil
	}
}

func newLightObject(ctx *native.Context, name string, typ native.LightType) (*binding, error) {
	obj, err := ctx.NewObject(name, ctx.NewLight(name, typ))
	if err != nil {
		return nil, err
	}
	b := wrap(obj)
	lightPushes(b)
	return b, nil
}

// DirectionalLight is a sun light object.
type DirectionalLight struct {
	*kubric.DirectionalLight
	obj *native.Object
}

// NewDirectionalLight creates a sun object named "Sun" (uniquified).
func NewDirectionalLight(ctx *native.Context, c kubric.Color, intensity float64) (*DirectionalLight, error) {
	b, err := newLightObject(ctx, "Sun", native.LightSun)
	if err != nil {
		return nil, err
	}
	b.push[kubric.PropShadowSoftness] = func(v any) error {
		b.object().Light.Angle = v.(float64)
		return nil
	}
	l, err := kubric.NewDirectionalLight(b.obj.Name, c, intensity, b)
	if err != nil {
		return nil, err
	}
	return &DirectionalLight{DirectionalLight: l, obj: b.obj}, nil
}

// Native returns the light object.
func (l *DirectionalLight) Native() *native.Object { return l.obj }

// RectAreaLight is a rectangular area light object.
type RectAreaLight struct {
	*kubric.RectAreaLight
	obj *native.Object
}

// NewRectAreaLight creates an area object named "Area" (uniquified).
func NewRectAreaLight(ctx *native.Context, c kubric.Color, intensity, width, height float64) (*RectAreaLight, error) {
	b, err := newLightObject(ctx, "Area", native.LightArea)
	if err != nil {
		return nil, err
	}
	b.obj.Light.Shape = "RECTANGLE"
	b.push[kubric.PropWidth] = func(v any) error {
		b.object().Light.Size = v.(float64)
		return nil
	}
	b.push[kubric.PropHeight] = func(v any) error {
		b.object().Light.SizeY = v.(float64)
		return nil
	}
	l, err := kubric.NewRectAreaLight(b.obj.Name, c, intensity, width, height, b)
	if err != nil {
		return nil, err
	}
	return &RectAreaLight{RectAreaLight: l, obj: b.obj}, nil
}

// Native returns the light object.
func (l *RectAreaLight) Native() *native.Object { return l.obj }
