package raster

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric/native"
)

// worldRadiance evaluates the world shading graph as a uniform emitter.
// cameraRay selects the branch a Light Path node's "Is Camera Ray" output
// drives.
func worldRadiance(w *native.World, cameraRay bool) mgl64.Vec3 {
	if w == nil || w.NodeTree == nil {
		return mgl64.Vec3{}
	}
	t := w.NodeTree
	for _, out := range t.NodesOfType(native.NodeOutputWorld) {
		if l := t.LinkInto(out.Input("Surface")); l != nil {
			return shaderRadiance(t, l.From.Node(), cameraRay, 0)
		}
	}
	return mgl64.Vec3{}
}

const maxGraphDepth = 32

func shaderRadiance(t *native.NodeTree, n *native.Node, cameraRay bool, depth int) mgl64.Vec3 {
	if depth > maxGraphDepth {
		return mgl64.Vec3{}
	}
	switch n.Type {
	case native.NodeBackground:
		c := colorInput(t, n.Input("Color"))
		return c.Mul(floatInput(t, n.Input("Strength"), cameraRay))
	case native.NodeMixShader:
		fac := floatInput(t, n.Inputs[0], cameraRay)
		var a, b mgl64.Vec3
		if l := t.LinkInto(n.Inputs[1]); l != nil {
			a = shaderRadiance(t, l.From.Node(), cameraRay, depth+1)
		}
		if l := t.LinkInto(n.Inputs[2]); l != nil {
			b = shaderRadiance(t, l.From.Node(), cameraRay, depth+1)
		}
		return a.Mul(1 - fac).Add(b.Mul(fac))
	}
	return mgl64.Vec3{}
}

func colorInput(t *native.NodeTree, s *native.Socket) mgl64.Vec3 {
	if s == nil {
		return mgl64.Vec3{}
	}
	if l := t.LinkInto(s); l != nil {
		if n := l.From.Node(); n.Type == native.NodeTexEnvironment && n.Image != nil {
			return n.Image.Mean
		}
		return mgl64.Vec3{}
	}
	if len(s.DefaultValue) >= 3 {
		return mgl64.Vec3{s.DefaultValue[0], s.DefaultValue[1], s.DefaultValue[2]}
	}
	return mgl64.Vec3{}
}

func floatInput(t *native.NodeTree, s *native.Socket, cameraRay bool) float64 {
	if s == nil {
		return 0
	}
	if l := t.LinkInto(s); l != nil {
		if l.From.Node().Type == native.NodeLightPath && l.From.Name == "Is Camera Ray" && cameraRay {
			return 1
		}
		return 0
	}
	if len(s.DefaultValue) > 0 {
		return s.DefaultValue[0]
	}
	return 0
}
