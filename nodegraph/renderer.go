package nodegraph

import (
	"fmt"
	"log/slog"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
	"github.com/phanxgames/kubric/raster"
)

// Options configure a Renderer.
type Options struct {
	// Engine renders frames. Defaults to the raster engine.
	Engine native.Engine
	// Encoder writes movies. Defaults to the ffmpeg binary on PATH.
	Encoder native.Encoder

	Samples      int
	MaxBounces   int
	FilmExposure float64
	Denoise      bool

	// DeviceType is the compute device type to render on ("CPU", "CUDA",
	// ...). The engine must offer it.
	DeviceType string
	// UseBothCPUGPU also enables CPU devices when DeviceType is a GPU type.
	UseBothCPUGPU bool
}

// DefaultOptions returns the quality settings datasets are rendered with.
func DefaultOptions() Options {
	return Options{
		Samples:      128,
		MaxBounces:   6,
		FilmExposure: 1.5,
		Denoise:      true,
		DeviceType:   "CPU",
	}
}

// ExrLayers are the render passes SetUpEXROutput writes, in slot order.
var ExrLayers = []string{
	native.PassImage,
	native.PassDepth,
	native.PassVector,
	native.PassUV,
	native.PassNormal,
	native.PassCryptoObject00,
}

// Renderer owns the native context every entity of one scene is created
// against.
type Renderer struct {
	ctx    *native.Context
	opts   Options
	width  int
	height int
	log    *slog.Logger
}

var _ kubric.Renderer = (*Renderer)(nil)

// NewRenderer creates a native context, empties it and applies opts.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Engine == nil {
		opts.Engine = raster.New()
	}
	log := kubric.Logger()
	nopts := []native.Option{native.WithEngine(opts.Engine), native.WithLogger(log)}
	if opts.Encoder != nil {
		nopts = append(nopts, native.WithEncoder(opts.Encoder))
	}
	r := &Renderer{ctx: native.New(nopts...), opts: opts, log: log}
	if err := r.reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// reset clears the scene and re-applies the engine, quality, pass, device
// and size settings, all of which live in the scene.
func (r *Renderer) reset() error {
	r.ctx.ReadHomefile()
	r.ctx.SelectAll()
	r.ctx.DeleteSelected()

	s := r.ctx.Scene
	if r.width > 0 {
		s.Render.ResolutionX, s.Render.ResolutionY = r.width, r.height
	}
	s.Render.Engine = r.opts.Engine.Name()
	if r.opts.Samples > 0 {
		s.Cycles.Samples = r.opts.Samples
	}
	if r.opts.MaxBounces > 0 {
		s.Cycles.MaxBounces = r.opts.MaxBounces
	}
	if r.opts.FilmExposure > 0 {
		s.Cycles.FilmExposure = r.opts.FilmExposure
	}

	vl := s.ViewLayer("View Layer")
	if vl == nil {
		return fmt.Errorf("%w: scene has no \"View Layer\"", kubric.ErrPrecondition)
	}
	vl.UseDenoising = r.opts.Denoise
	vl.UsePassVector = true
	vl.UsePassUV = true
	vl.UsePassNormal = true
	vl.UsePassCryptoObject = true
	vl.PassCryptoDepth = 2

	device := r.opts.DeviceType
	if device == "" {
		device = "CPU"
	}
	return r.ctx.UseDevices(device, r.opts.UseBothCPUGPU)
}

// Context returns the native context entities are created against.
func (r *Renderer) Context() *native.Context { return r.ctx }

// ClearScene reloads the startup scene, deletes every object in it and
// re-applies the renderer's options and size. The world background and EXR
// output are dropped. Entities created earlier are left dangling.
func (r *Renderer) ClearScene() error {
	return r.reset()
}

// Size returns the last size set, or 0, 0.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// SetSize sets the output resolution.
func (r *Renderer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", kubric.ErrInvalidValue, width, height)
	}
	r.width, r.height = width, height
	r.ctx.Scene.Render.ResolutionX = width
	r.ctx.Scene.Render.ResolutionY = height
	return nil
}

// SetBackgroundTransparent makes pixels not covered by a surface
// transparent in rendered images.
func (r *Renderer) SetBackgroundTransparent(transparent bool) {
	r.ctx.Scene.Render.FilmTransparent = transparent
}

// SetClearColor always fails: the background is part of the world shading
// graph. Use SetUpBackground.
func (r *Renderer) SetClearColor(kubric.Color) error {
	return fmt.Errorf("%w: clear color, use SetUpBackground", kubric.ErrNotImplementable)
}

// DefaultCameraView switches the viewport to look through the scene camera.
func (r *Renderer) DefaultCameraView() {
	r.ctx.Screen.ViewPerspective = "CAMERA"
}

// SetUpBackground rebuilds the world shading graph. An HDRI lights the
// scene through a rotatable environment texture; a color alone becomes a
// flat background; with both, camera rays see the color and every other
// ray sees the HDRI.
func (r *Renderer) SetUpBackground(opts kubric.BackgroundOptions) error {
	if opts.HDRIPath == "" && opts.Color == nil {
		return fmt.Errorf("%w: background needs an HDRI path or a color", kubric.ErrPrecondition)
	}
	var hdri *native.Image
	if opts.HDRIPath != "" {
		var err error
		if hdri, err = r.ctx.LoadImage(opts.HDRIPath, true); err != nil {
			return err
		}
	}

	world := r.ctx.Scene.World
	world.UseNodes = true
	if world.NodeTree == nil {
		world.NodeTree = &native.NodeTree{Name: "Shader Nodetree"}
	}
	g := &graph{tree: world.NodeTree}
	g.tree.Clear()

	out := g.node(native.NodeOutputWorld, 1100, 0)
	var lightBg, cameraBg *native.Node
	if hdri != nil {
		coord := g.node(native.NodeTexCoord, 0, 0)
		mapping := g.node(native.NodeMapping, 200, 0)
		env := g.node(native.NodeTexEnvironment, 400, 0)
		lightBg = g.node(native.NodeBackground, 700, 0)
		if g.err != nil {
			return g.err
		}

		g.link(coord.Output("Generated"), mapping.Input("Vector"))
		g.link(mapping.Output("Vector"), env.Input("Vector"))
		g.link(env.Output("Color"), lightBg.Input("Color"))

		env.Image = hdri
		rot := opts.HDRIRotation
		mapping.Input("Rotation").DefaultValue = []float64{rot[0], rot[1], rot[2]}
		if opts.Color == nil {
			g.link(lightBg.Output("Background"), out.Input("Surface"))
		}
	}
	if opts.Color != nil {
		cameraBg = g.node(native.NodeBackground, 700, -120)
		if g.err != nil {
			return g.err
		}
		rgba := opts.Color.RGBA()
		cameraBg.Input("Color").DefaultValue = rgba[:]
		if hdri == nil {
			g.link(cameraBg.Output("Background"), out.Input("Surface"))
		}
	}
	if lightBg != nil && cameraBg != nil {
		mix := g.node(native.NodeMixShader, 900, 0)
		lightPath := g.node(native.NodeLightPath, 700, 350)
		if g.err != nil {
			return g.err
		}
		g.link(lightPath.Output("Is Camera Ray"), mix.Input("Fac"))
		g.link(lightBg.Output("Background"), mix.Inputs[1])
		g.link(cameraBg.Output("Background"), mix.Inputs[2])
		g.link(mix.Output("Shader"), out.Input("Surface"))
	}
	if g.err != nil {
		return g.err
	}
	r.log.Debug("world background built", "nodes", len(g.tree.Nodes), "links", len(g.tree.Links), "hdri", opts.HDRIPath)
	return nil
}

// SetUpEXROutput writes the render passes of every frame into a
// multi-layer EXR under path. A previous EXR output is replaced.
func (r *Renderer) SetUpEXROutput(path string) error {
	s := r.ctx.Scene
	s.UseNodes = true
	if s.NodeTree == nil {
		s.NodeTree = &native.NodeTree{Name: "Compositing Nodetree"}
	}
	g := &graph{tree: s.NodeTree}
	for _, n := range g.tree.NodesOfType(native.NodeOutputFile) {
		g.tree.RemoveNode(n)
	}
	layers := g.tree.Node("Render Layers")
	if layers == nil {
		layers = g.node(native.NodeRenderLayers, 0, 0)
	}
	out := g.node(native.NodeOutputFile, 400, 200)
	if g.err != nil {
		return g.err
	}
	out.Format.FileFormat = "OPEN_EXR_MULTILAYER"
	out.BasePath = path
	out.ClearFileSlots()
	for _, l := range ExrLayers {
		slot, err := out.NewFileSlot(l)
		if err != nil {
			return err
		}
		g.link(layers.Output(l), slot)
	}
	if g.err != nil {
		return g.err
	}
	r.log.Debug("exr output configured", "path", path, "layers", len(ExrLayers))
	return nil
}

// graph builds a node tree, keeping the first error.
type graph struct {
	tree *native.NodeTree
	err  error
}

func (g *graph) node(typ string, x, y float64) *native.Node {
	n, err := g.tree.NewNode(typ)
	if err != nil {
		if g.err == nil {
			g.err = err
		}
		return &native.Node{Type: typ}
	}
	n.Location = [2]float64{x, y}
	return n
}

func (g *graph) link(from, to *native.Socket) {
	if g.err != nil {
		return
	}
	if _, err := g.tree.NewLink(from, to); err != nil {
		g.err = err
	}
}
