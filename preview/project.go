package preview

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/kubric/native"
)

// ambient is the shade of faces turned away from every sun.
const ambient = 0.25

// Triangle is a projected, flat-shaded mesh face.
type Triangle struct {
	Points [3]mgl64.Vec2 // pixels, origin top-left
	Depth  float64       // mean distance along the view axis
	Color  mgl64.Vec3    // linear RGB after shading
}

// Project returns the faces of every linked mesh as seen by the scene camera
// in a width x height viewport, sorted back to front. Faces with a corner
// behind the near clip plane are dropped. It returns nil without a camera.
func Project(s *native.Scene, width, height int) []Triangle {
	if s.Camera == nil || s.Camera.Camera == nil || width <= 0 || height <= 0 {
		return nil
	}
	cam := s.Camera.Camera
	view := s.Camera.MatrixWorld().Inv()
	viewProj := cam.Projection(width, height).Mul4(view)
	suns := sunDirections(s.Collection.Objects)

	var out []Triangle
	for _, o := range s.Collection.Objects {
		if o.Type != native.ObjectMesh || o.Mesh == nil || o.Cycles.IsShadowCatcher {
			continue
		}
		world := o.MatrixWorld()
		base := baseColor(o.Mesh)
		for _, tri := range o.Mesh.Triangles() {
			var (
				t       Triangle
				p       [3]mgl64.Vec3
				visible = true
			)
			for i, vi := range tri {
				p[i] = world.Mul4x1(o.Mesh.Vertices[vi].Vec4(1)).Vec3()
				c := viewProj.Mul4x1(p[i].Vec4(1))
				d := -view.Mul4x1(p[i].Vec4(1))[2]
				if d < cam.ClipStart || c[3] == 0 {
					visible = false
					break
				}
				t.Points[i] = mgl64.Vec2{
					(c[0]/c[3] + 1) / 2 * float64(width),
					(1 - c[1]/c[3]) / 2 * float64(height),
				}
				t.Depth += d / 3
			}
			if !visible {
				continue
			}
			n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
			if n.Len() == 0 {
				continue
			}
			t.Color = base.Mul(shade(n.Normalize(), suns))
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

// sunDirections returns the direction each sun light shines towards.
func sunDirections(objs []*native.Object) []mgl64.Vec3 {
	var dirs []mgl64.Vec3
	for _, o := range objs {
		if o.Type != native.ObjectLight || o.Light == nil || o.Light.Type != native.LightSun {
			continue
		}
		dirs = append(dirs, o.MatrixWorld().Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3().Normalize())
	}
	return dirs
}

// shade is a two-sided Lambert term. Without suns every face is lit fully.
func shade(n mgl64.Vec3, suns []mgl64.Vec3) float64 {
	if len(suns) == 0 {
		return 1
	}
	lit := 0.0
	for _, d := range suns {
		lit = max(lit, math.Abs(n.Dot(d)))
	}
	return ambient + (1-ambient)*lit
}

func baseColor(m *native.MeshData) mgl64.Vec3 {
	if len(m.Materials) > 0 && m.Materials[0] != nil {
		c := m.Materials[0].DiffuseColor
		return mgl64.Vec3{c[0], c[1], c[2]}
	}
	return mgl64.Vec3{0.8, 0.8, 0.8}
}

// vertices converts triangles into ebiten vertices and indices sampling a
// white pixel, colored in display (sRGB) space. dst and idx are reused when
// large enough.
func vertices(tris []Triangle, dst []ebiten.Vertex, idx []uint16) ([]ebiten.Vertex, []uint16) {
	dst, idx = dst[:0], idx[:0]
	for _, t := range tris {
		if len(dst)+3 > math.MaxUint16 {
			break
		}
		r, g, b := toDisplay(t.Color[0]), toDisplay(t.Color[1]), toDisplay(t.Color[2])
		for _, p := range t.Points {
			idx = append(idx, uint16(len(dst)))
			dst = append(dst, ebiten.Vertex{
				DstX:   float32(p[0]),
				DstY:   float32(p[1]),
				SrcX:   0.5,
				SrcY:   0.5,
				ColorR: r,
				ColorG: g,
				ColorB: b,
				ColorA: 1,
			})
		}
	}
	return dst, idx
}

func toDisplay(c float64) float32 {
	c = min(max(c, 0), 1)
	if c <= 0.0031308 {
		return float32(12.92 * c)
	}
	return float32(1.055*math.Pow(c, 1/2.4) - 0.055)
}
