package native

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Collection is the set of objects linked into a scene.
type Collection struct {
	Name    string
	Objects []*Object
}

// Link adds o to the collection. Linking an object twice is an error.
func (c *Collection) Link(o *Object) error {
	if c.Contains(o) {
		return fmt.Errorf("%w: %q", ErrAlreadyLinked, o.Name)
	}
	c.Objects = append(c.Objects, o)
	return nil
}

// Unlink removes o from the collection.
func (c *Collection) Unlink(o *Object) error {
	i := slices.Index(c.Objects, o)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotLinked, o.Name)
	}
	c.Objects = slices.Delete(c.Objects, i, i+1)
	return nil
}

// Contains reports whether o is linked.
func (c *Collection) Contains(o *Object) bool {
	return slices.Contains(c.Objects, o)
}

// World holds the background shading graph.
type World struct {
	Name     string
	UseNodes bool
	NodeTree *NodeTree
}

// Scene is the renderable scene: linked objects, frame range, output and
// pass settings, world and compositor graphs.
type Scene struct {
	Name         string
	FrameStart   int
	FrameEnd     int
	FrameCurrent int
	Camera       *Object
	Collection   *Collection
	Render       RenderSettings
	Cycles       CyclesSettings
	ViewLayers   []*ViewLayer
	World        *World

	// UseNodes enables the compositor graph in NodeTree.
	UseNodes bool
	NodeTree *NodeTree
}

// ViewLayer returns the view layer named name, or nil.
func (s *Scene) ViewLayer(name string) *ViewLayer {
	for _, vl := range s.ViewLayers {
		if vl.Name == name {
			return vl
		}
	}
	return nil
}

// Handlers are callbacks fired by operators.
type Handlers struct {
	// RenderWrite runs after every frame an animation render writes. The
	// scene's FrameCurrent is the frame just written.
	RenderWrite []func(*Scene)
}

// Context is the complete state of one backend session.
type Context struct {
	Objects   []*Object
	Meshes    []*MeshData
	Cameras   []*CameraData
	Lights    []*LightData
	Materials []*Material
	Images    []*Image

	Scene       *Scene
	Preferences Preferences
	Screen      Screen
	Handlers    Handlers

	engines map[string]Engine
	encoder Encoder
	active  *Object
	result  *RenderResult
	log     *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithEngine registers a render engine under its name.
func WithEngine(e Engine) Option {
	return func(c *Context) { c.engines[e.Name()] = e }
}

// WithEncoder replaces the movie encoder.
func WithEncoder(e Encoder) Option {
	return func(c *Context) { c.encoder = e }
}

// WithLogger sets the logger used by operators.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Context holding the startup scene (see [Context.ReadHomefile]).
func New(opts ...Option) *Context {
	c := &Context{
		engines:     map[string]Engine{},
		encoder:     FFmpeg{Binary: "ffmpeg"},
		log:         slog.New(slog.DiscardHandler),
		Preferences: Preferences{ComputeDeviceType: "NONE", KeyframeInterpolation: InterpolationBezier},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ReadHomefile()
	return c
}

// ReadHomefile discards all data and loads the startup scene: a 2m cube, a
// camera and a point light. Preferences, engines and handlers survive.
func (c *Context) ReadHomefile() {
	c.Objects, c.Meshes, c.Cameras, c.Lights, c.Materials, c.Images = nil, nil, nil, nil, nil, nil
	c.active, c.result = nil, nil
	c.Screen = Screen{ViewPerspective: "PERSP"}
	c.Scene = newScene()

	cube := c.PrimitiveCubeAdd(2)
	mat := c.NewMaterial("Material")
	cube.Mesh.Materials = append(cube.Mesh.Materials, mat)

	cam, _ := c.NewObject("Camera", c.NewCamera("Camera"))
	cam.Location = mgl64.Vec3{7.3589, -6.9258, 4.9583}
	cam.RotationEuler = mgl64.Vec3{1.1093, 0, 0.8149}
	_ = c.Scene.Collection.Link(cam)
	c.Scene.Camera = cam

	light, _ := c.NewObject("Light", c.NewLight("Light", LightPoint))
	light.Light.Energy = 1000
	light.Location = mgl64.Vec3{4.0762, 1.0055, 5.9039}
	light.RotationEuler = mgl64.Vec3{0.6503, 0.0552, 1.8665}
	_ = c.Scene.Collection.Link(light)

	c.SelectOnly(cube)
	c.log.Debug("read homefile", "objects", len(c.Objects))
}

func newScene() *Scene {
	s := &Scene{
		Name:         "Scene",
		FrameStart:   1,
		FrameEnd:     250,
		FrameCurrent: 1,
		Collection:   &Collection{Name: "Scene Collection"},
		Render:       defaultRenderSettings(),
		Cycles:       CyclesSettings{Samples: 128, MaxBounces: 12, FilmExposure: 1, Device: "CPU"},
		ViewLayers:   []*ViewLayer{{Name: "View Layer", UsePassCombined: true, UsePassZ: true, PassCryptoDepth: 6}},
		World:        &World{Name: "World", UseNodes: true, NodeTree: &NodeTree{Name: "Shader Nodetree"}},
		NodeTree:     &NodeTree{Name: "Compositing Nodetree"},
	}
	out, _ := s.World.NodeTree.NewNode(NodeOutputWorld)
	out.Location = [2]float64{300, 0}
	bg, _ := s.World.NodeTree.NewNode(NodeBackground)
	bg.Input("Color").DefaultValue = []float64{0.0509, 0.0509, 0.0509, 1}
	_, _ = s.World.NodeTree.NewLink(bg.Output("Background"), out.Input("Surface"))

	rl, _ := s.NodeTree.NewNode(NodeRenderLayers)
	comp, _ := s.NodeTree.NewNode(NodeComposite)
	comp.Location = [2]float64{300, 0}
	_, _ = s.NodeTree.NewLink(rl.Output("Image"), comp.Input("Image"))
	return s
}

// Object returns the object named name, or nil.
func (c *Context) Object(name string) *Object {
	for _, o := range c.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// NewObject allocates an object for data, which is nil (an empty) or one of
// *MeshData, *CameraData and *LightData. The object is not linked into the
// scene.
func (c *Context) NewObject(name string, data any) (*Object, error) {
	var o *Object
	switch d := data.(type) {
	case nil:
		o = newObject(c, "", ObjectEmpty)
	case *MeshData:
		o = newObject(c, "", ObjectMesh)
		o.Mesh = d
	case *CameraData:
		o = newObject(c, "", ObjectCamera)
		o.Camera = d
	case *LightData:
		o = newObject(c, "", ObjectLight)
		o.Light = d
	default:
		return nil, fmt.Errorf("native: cannot create object from %T", data)
	}
	o.Name = uniqueName(name, func(n string) bool { return c.Object(n) != nil })
	c.Objects = append(c.Objects, o)
	return o, nil
}

// RenameObject renames o, suffixing the name if another object holds it.
func (c *Context) RenameObject(o *Object, name string) {
	if o.Name == name {
		return
	}
	o.Name = uniqueName(name, func(n string) bool { return c.Object(n) != nil })
}

// NewMesh allocates an empty mesh data block.
func (c *Context) NewMesh(name string) *MeshData {
	m := &MeshData{Name: uniqueName(name, func(n string) bool {
		return slices.ContainsFunc(c.Meshes, func(m *MeshData) bool { return m.Name == n })
	})}
	c.Meshes = append(c.Meshes, m)
	return m
}

// NewCamera allocates a perspective camera data block.
func (c *Context) NewCamera(name string) *CameraData {
	cd := newCameraData(uniqueName(name, func(n string) bool {
		return slices.ContainsFunc(c.Cameras, func(cd *CameraData) bool { return cd.Name == n })
	}))
	c.Cameras = append(c.Cameras, cd)
	return cd
}

// NewLight allocates a light data block of type typ.
func (c *Context) NewLight(name string, typ LightType) *LightData {
	ld := newLightData(uniqueName(name, func(n string) bool {
		return slices.ContainsFunc(c.Lights, func(ld *LightData) bool { return ld.Name == n })
	}), typ)
	c.Lights = append(c.Lights, ld)
	return ld
}

// NewMaterial allocates a material data block.
func (c *Context) NewMaterial(name string) *Material {
	m := newMaterial(uniqueName(name, func(n string) bool { return c.Material(n) != nil }))
	c.Materials = append(c.Materials, m)
	return m
}

// Material returns the material named name, or nil.
func (c *Context) Material(name string) *Material {
	for _, m := range c.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// LoadImage loads the image file at path. With checkExisting, an image
// already loaded from the same file is returned instead. Errors opening the
// file are returned unchanged.
func (c *Context) LoadImage(path string, checkExisting bool) (*Image, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if checkExisting {
		for _, im := range c.Images {
			if im.Filepath == abs {
				return im, nil
			}
		}
	}
	name := uniqueName(filepath.Base(path), func(n string) bool {
		return slices.ContainsFunc(c.Images, func(im *Image) bool { return im.Name == n })
	})
	im, err := loadImage(name, abs)
	if err != nil {
		return nil, err
	}
	c.Images = append(c.Images, im)
	return im, nil
}

// ActiveObject returns the active object, or nil.
func (c *Context) ActiveObject() *Object { return c.active }

// SetActive makes o the active object. o may be nil.
func (c *Context) SetActive(o *Object) { c.active = o }

// SelectAll selects every object linked into the scene.
func (c *Context) SelectAll() {
	for _, o := range c.Scene.Collection.Objects {
		o.selected = true
	}
}

// DeselectAll clears the selection.
func (c *Context) DeselectAll() {
	for _, o := range c.Objects {
		o.selected = false
	}
}

// SelectOnly makes o the sole selected object and the active object.
func (c *Context) SelectOnly(o *Object) {
	c.DeselectAll()
	o.selected = true
	c.active = o
}

// SelectedObjects returns the selected objects linked into the scene.
func (c *Context) SelectedObjects() []*Object {
	var out []*Object
	for _, o := range c.Scene.Collection.Objects {
		if o.selected {
			out = append(out, o)
		}
	}
	return out
}

// DeleteSelected removes every selected object from the scene and from the
// session. Data blocks the objects referenced are kept.
func (c *Context) DeleteSelected() {
	sel := c.SelectedObjects()
	for _, o := range sel {
		_ = c.Scene.Collection.Unlink(o)
		if c.Scene.Camera == o {
			c.Scene.Camera = nil
		}
		if c.active == o {
			c.active = nil
		}
		o.owner = nil
	}
	c.Objects = slices.DeleteFunc(c.Objects, func(o *Object) bool { return slices.Contains(sel, o) })
	c.log.Debug("deleted objects", "count", len(sel))
}

// FrameSet makes frame current and evaluates every animated object at it.
func (c *Context) FrameSet(frame int) {
	c.Scene.FrameCurrent = frame
	for _, o := range c.Objects {
		o.applyAnimation(float64(frame))
	}
}
