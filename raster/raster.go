// Package raster is a software render engine for native scenes.
//
// It z-buffers the fan-triangulated meshes of every linked object through
// the scene camera and shades them with a Lambert model lit by sun, point and
// area lights plus the world background as a uniform ambient term. Besides
// the color image it produces the data passes a dataset needs: camera
// distance, screen-space motion, surface coordinates, world normals and
// cryptomatte object ids.
//
// Every pixel is sampled once at its centre; there is no anti-aliasing and
// no shadowing. Triangles reaching outside the camera clip range are
// dropped whole.
package raster

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric/native"
)

// Name is the engine name scenes select it by.
const Name = "raster"

// BackgroundDepth is the Depth pass value of pixels no surface covers.
const BackgroundDepth = 1e10

var ErrNoCameraData = errors.New("raster: camera object has no camera data")

// Engine renders native scenes in software. The zero value is not usable;
// call New.
type Engine struct {
	devices []native.Device
}

// Option configures an Engine.
type Option func(*Engine)

// WithDevices replaces the advertised compute devices.
func WithDevices(devs ...native.Device) Option {
	return func(e *Engine) { e.devices = devs }
}

// New returns an engine advertising a single CPU device.
func New(opts ...Option) *Engine {
	e := &Engine{devices: []native.Device{{
		ID:   "CPU",
		Name: fmt.Sprintf("%s %d threads", runtime.GOARCH, runtime.NumCPU()),
		Type: "CPU",
	}}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements native.Engine.
func (e *Engine) Name() string { return Name }

// Devices implements native.Engine.
func (e *Engine) Devices() []native.Device {
	return append([]native.Device(nil), e.devices...)
}

// viewport maps world points to pixels for one camera pose.
type viewport struct {
	view, viewProj mgl64.Mat4
	width, height  float64
	ortho          bool
}

func newViewport(cam *native.CameraData, camWorld mgl64.Mat4, w, h int) viewport {
	view := camWorld.Inv()
	return viewport{
		view:     view,
		viewProj: cam.Projection(w, h).Mul4(view),
		width:    float64(w),
		height:   float64(h),
		ortho:    cam.Type == native.CameraOrthographic,
	}
}

// project returns the pixel position of p, the reciprocal clip w used for
// perspective-correct interpolation and the distance along the view axis.
func (v viewport) project(p mgl64.Vec3) (screen mgl64.Vec2, invW, depth float64) {
	c := v.viewProj.Mul4x1(p.Vec4(1))
	depth = -v.view.Mul4x1(p.Vec4(1))[2]
	invW = 1 / c[3]
	ndcX, ndcY := c[0]*invW, c[1]*invW
	return mgl64.Vec2{(ndcX + 1) / 2 * v.width, (1 - ndcY) / 2 * v.height}, invW, depth
}

type light struct {
	typ      native.LightType
	position mgl64.Vec3
	facing   mgl64.Vec3 // emission direction (local -Z)
	radiance mgl64.Vec3
}

func collectLights(objs []*native.Object) []light {
	var out []light
	for _, o := range objs {
		if o.Type != native.ObjectLight || o.Light == nil {
			continue
		}
		m := o.MatrixWorld()
		out = append(out, light{
			typ:      o.Light.Type,
			position: m.Col(3).Vec3(),
			facing:   m.Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3().Normalize(),
			radiance: o.Light.Color.Mul(o.Light.Energy),
		})
	}
	return out
}

// irradiance returns the light arriving at p with normal n, cosine weighted.
func (l light) irradiance(p, n mgl64.Vec3) mgl64.Vec3 {
	switch l.typ {
	case native.LightSun:
		return l.radiance.Mul(max(0, n.Dot(l.facing.Mul(-1))))
	default:
		d := l.position.Sub(p)
		dist2 := d.Dot(d)
		if dist2 == 0 {
			return mgl64.Vec3{}
		}
		dir := d.Mul(1 / math.Sqrt(dist2))
		cos := max(0, n.Dot(dir))
		if l.typ == native.LightArea || l.typ == native.LightSpot {
			cos *= max(0, dir.Mul(-1).Dot(l.facing))
		}
		return l.radiance.Mul(cos / (4 * math.Pi * dist2))
	}
}

type frameBuffers struct {
	w, h   int
	image  []float32
	depth  []float32
	vector []float32
	uv     []float32
	normal []float32
	crypto []float32
}

func newFrameBuffers(w, h int, bg mgl64.Vec3, alpha float32) *frameBuffers {
	n := w * h
	fb := &frameBuffers{
		w: w, h: h,
		image:  make([]float32, 4*n),
		depth:  make([]float32, n),
		vector: make([]float32, 4*n),
		uv:     make([]float32, 3*n),
		normal: make([]float32, 3*n),
		crypto: make([]float32, 4*n),
	}
	for i := 0; i < n; i++ {
		fb.image[4*i] = float32(bg[0])
		fb.image[4*i+1] = float32(bg[1])
		fb.image[4*i+2] = float32(bg[2])
		fb.image[4*i+3] = alpha
		fb.depth[i] = BackgroundDepth
	}
	return fb
}

func (fb *frameBuffers) result() *native.RenderResult {
	return &native.RenderResult{Width: fb.w, Height: fb.h, Passes: []*native.Pass{
		{Name: native.PassImage, Channels: []string{"R", "G", "B", "A"}, Data: fb.image},
		{Name: native.PassDepth, Channels: []string{"Z"}, Data: fb.depth},
		{Name: native.PassVector, Channels: []string{"X", "Y", "Z", "W"}, Data: fb.vector},
		{Name: native.PassUV, Channels: []string{"U", "V", "A"}, Data: fb.uv},
		{Name: native.PassNormal, Channels: []string{"X", "Y", "Z"}, Data: fb.normal},
		{Name: native.PassCryptoObject00, Channels: []string{"R", "G", "B", "A"}, Data: fb.crypto},
	}}
}

// RenderFrame implements native.Engine.
func (e *Engine) RenderFrame(s *native.Scene, frame int) (*native.RenderResult, error) {
	cam := s.Camera
	if cam == nil {
		return nil, native.ErrNoCamera
	}
	if cam.Camera == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoCameraData, cam.Name)
	}
	w, h := s.Render.Size()
	f := float64(frame)
	vpNow := newViewport(cam.Camera, cam.MatrixWorld(), w, h)
	vpPrev := newViewport(cam.Camera, cam.MatrixWorldAt(f-1), w, h)
	vpNext := newViewport(cam.Camera, cam.MatrixWorldAt(f+1), w, h)

	exposure := s.Cycles.FilmExposure
	if exposure <= 0 {
		exposure = 1
	}
	bg := worldRadiance(s.World, true).Mul(exposure)
	ambient := worldRadiance(s.World, false)
	var bgAlpha float32 = 1
	if s.Render.FilmTransparent {
		bgAlpha = 0
	}
	fb := newFrameBuffers(w, h, bg, bgAlpha)
	lights := collectLights(s.Collection.Objects)

	for _, o := range s.Collection.Objects {
		if o.Type != native.ObjectMesh || o.Mesh == nil || len(o.Mesh.Faces) == 0 {
			continue
		}
		d := &drawer{
			fb:        fb,
			obj:       o,
			world:     o.MatrixWorld(),
			prev:      o.MatrixWorldAt(f - 1),
			next:      o.MatrixWorldAt(f + 1),
			vp:        vpNow,
			vpPrev:    vpPrev,
			vpNext:    vpNext,
			lights:    lights,
			ambient:   ambient,
			exposure:  exposure,
			albedo:    albedo(o.Mesh),
			cryptoID:  CryptoID(o.Name),
			holdout:   o.Cycles.IsShadowCatcher,
			bgAlpha:   bgAlpha,
			bg:        bg,
			clipStart: cam.Camera.ClipStart,
			clipEnd:   cam.Camera.ClipEnd,
		}
		d.draw()
	}
	return fb.result(), nil
}

func albedo(m *native.MeshData) mgl64.Vec3 {
	if len(m.Materials) > 0 && m.Materials[0] != nil {
		c := m.Materials[0].DiffuseColor
		return mgl64.Vec3{c[0], c[1], c[2]}
	}
	return mgl64.Vec3{0.8, 0.8, 0.8}
}
