package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric/native"
)

// drawer rasterizes one mesh object into the frame buffers.
type drawer struct {
	fb  *frameBuffers
	obj *native.Object

	world, prev, next  mgl64.Mat4
	vp, vpPrev, vpNext viewport

	lights   []light
	ambient  mgl64.Vec3
	exposure float64
	albedo   mgl64.Vec3
	cryptoID float32
	holdout  bool
	bgAlpha  float32
	bg       mgl64.Vec3

	clipStart, clipEnd float64
	camPos, camBack    mgl64.Vec3
}

type corner struct {
	local  mgl64.Vec3
	world  mgl64.Vec3
	normal mgl64.Vec3
	screen mgl64.Vec2
	invW   float64
	depth  float64
}

func (d *drawer) draw() {
	m := d.obj.Mesh
	camWorld := d.vp.view.Inv()
	d.camPos = camWorld.Col(3).Vec3()
	d.camBack = camWorld.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3()
	normalMat := d.world.Mat3().Inv().Transpose()
	var vnormals []mgl64.Vec3
	if m.Smooth {
		vnormals = vertexNormals(m)
	}
	for _, face := range m.Faces {
		for i := 1; i+1 < len(face); i++ {
			tri := [3]int{face[0], face[i], face[i+1]}
			var cs [3]corner
			visible := true
			for k, vi := range tri {
				c := &cs[k]
				c.local = m.Vertices[vi]
				c.world = d.world.Mul4x1(c.local.Vec4(1)).Vec3()
				c.screen, c.invW, c.depth = d.vp.project(c.world)
				if c.depth < d.clipStart || c.depth > d.clipEnd || math.IsInf(c.invW, 0) {
					visible = false
				}
			}
			if !visible {
				continue
			}
			flat := cs[1].world.Sub(cs[0].world).Cross(cs[2].world.Sub(cs[0].world))
			if flat.Len() == 0 {
				continue
			}
			flat = flat.Normalize()
			for k, vi := range tri {
				if vnormals != nil {
					cs[k].normal = normalMat.Mul3x1(vnormals[vi]).Normalize()
				} else {
					cs[k].normal = flat
				}
			}
			d.triangle(cs)
		}
	}
}

// vertexNormals averages the area-weighted normals of the faces around each
// vertex, in object space.
func vertexNormals(m *native.MeshData) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(m.Vertices))
	for _, t := range m.Triangles() {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range t {
			out[i] = out[i].Add(n)
		}
	}
	for i, n := range out {
		if n.Len() > 0 {
			out[i] = n.Normalize()
		} else {
			out[i] = mgl64.Vec3{0, 0, 1}
		}
	}
	return out
}

func edge(a, b, p mgl64.Vec2) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func (d *drawer) triangle(cs [3]corner) {
	a, b, c := cs[0].screen, cs[1].screen, cs[2].screen
	area := edge(a, b, c)
	if area == 0 {
		return
	}
	fb := d.fb
	minX := max(0, int(math.Floor(min(a[0], b[0], c[0]))))
	maxX := min(fb.w-1, int(math.Ceil(max(a[0], b[0], c[0]))))
	minY := max(0, int(math.Floor(min(a[1], b[1], c[1]))))
	maxY := min(fb.h-1, int(math.Ceil(max(a[1], b[1], c[1]))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}
			w0 := edge(b, c, p) / area
			w1 := edge(c, a, p) / area
			w2 := edge(a, b, p) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			// perspective-correct barycentrics
			q0, q1, q2 := w0*cs[0].invW, w1*cs[1].invW, w2*cs[2].invW
			if !d.vp.ortho {
				sum := q0 + q1 + q2
				w0, w1, w2 = q0/sum, q1/sum, q2/sum
			}
			depth := w0*cs[0].depth + w1*cs[1].depth + w2*cs[2].depth
			i := y*fb.w + x
			if depth >= float64(fb.depth[i]) {
				continue
			}
			fb.depth[i] = float32(depth)
			d.shade(i, p, cs, w0, w1, w2)
		}
	}
}

func (d *drawer) shade(i int, pixel mgl64.Vec2, cs [3]corner, w0, w1, w2 float64) {
	fb := d.fb
	pos := cs[0].world.Mul(w0).Add(cs[1].world.Mul(w1)).Add(cs[2].world.Mul(w2))
	n := cs[0].normal.Mul(w0).Add(cs[1].normal.Mul(w1)).Add(cs[2].normal.Mul(w2))
	if n.Len() > 0 {
		n = n.Normalize()
	}
	// two-sided: shade the side facing the camera
	toCam := d.camPos.Sub(pos)
	if d.vp.ortho {
		toCam = d.camBack
	}
	shadeN := n
	if shadeN.Dot(toCam) < 0 {
		shadeN = shadeN.Mul(-1)
	}

	var col mgl64.Vec3
	var alpha float32 = 1
	if d.holdout {
		col, alpha = d.bg, d.bgAlpha
	} else {
		// a uniform environment of radiance L delivers irradiance pi*L
		e := d.ambient.Mul(math.Pi)
		for _, l := range d.lights {
			e = e.Add(l.irradiance(pos, shadeN))
		}
		col = mgl64.Vec3{d.albedo[0] * e[0], d.albedo[1] * e[1], d.albedo[2] * e[2]}.Mul(d.exposure / math.Pi)
	}
	fb.image[4*i] = float32(col[0])
	fb.image[4*i+1] = float32(col[1])
	fb.image[4*i+2] = float32(col[2])
	fb.image[4*i+3] = alpha

	fb.normal[3*i] = float32(n[0])
	fb.normal[3*i+1] = float32(n[1])
	fb.normal[3*i+2] = float32(n[2])

	fb.uv[3*i] = float32(w1)
	fb.uv[3*i+1] = float32(w2)
	fb.uv[3*i+2] = 1

	local := cs[0].local.Mul(w0).Add(cs[1].local.Mul(w1)).Add(cs[2].local.Mul(w2))
	prev, _, _ := d.vpPrev.project(d.prev.Mul4x1(local.Vec4(1)).Vec3())
	next, _, _ := d.vpNext.project(d.next.Mul4x1(local.Vec4(1)).Vec3())
	fb.vector[4*i] = float32(pixel[0] - prev[0])
	fb.vector[4*i+1] = float32(pixel[1] - prev[1])
	fb.vector[4*i+2] = float32(next[0] - pixel[0])
	fb.vector[4*i+3] = float32(next[1] - pixel[1])

	fb.crypto[4*i] = d.cryptoID
	fb.crypto[4*i+1] = 1
	fb.crypto[4*i+2] = 0
	fb.crypto[4*i+3] = 0
}
