package nodegraph

import (
	"fmt"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// Scene mirrors its frame range into the native scene and links added
// nodes into the scene collection.
type Scene struct {
	*kubric.Scene
	ctx *native.Context
}

// NewScene sets the native frame rate to 24 fps and binds the frame range.
func NewScene(ctx *native.Context) (*Scene, error) {
	ctx.Scene.Render.FPS = 24
	ctx.Scene.Render.FPSBase = 1
	b := &binding{name: "scene", push: map[kubric.Property]pushFunc{
		kubric.PropFrameStart: func(v any) error {
			ctx.Scene.FrameStart = v.(int)
			return nil
		},
		kubric.PropFrameEnd: func(v any) error {
			ctx.Scene.FrameEnd = v.(int)
			return nil
		},
	}}
	s, err := kubric.NewScene(b)
	if err != nil {
		return nil, err
	}
	return &Scene{Scene: s, ctx: ctx}, nil
}

// AddFromFile imports the OBJ file at path, which must hold exactly one
// object, and wraps that object. Imported objects are already linked; do
// not Add them again.
func (s *Scene) AddFromFile(path string, opts kubric.ImportOptions) (*Object3D, error) {
	def := kubric.DefaultImportOptions()
	if opts.AxisForward == "" {
		opts.AxisForward = def.AxisForward
	}
	if opts.AxisUp == "" {
		opts.AxisUp = def.AxisUp
	}
	objs, err := s.ctx.ImportOBJ(path, opts.AxisForward, opts.AxisUp)
	if err != nil {
		return nil, err
	}
	if len(objs) != 1 {
		return nil, fmt.Errorf("%w: %s holds %d objects, want 1", kubric.ErrPrecondition, path, len(objs))
	}
	obj := objs[0]
	if opts.Name != "" {
		s.ctx.RenameObject(obj, opts.Name)
	}
	o, err := WrapObject(obj)
	if err != nil {
		return nil, err
	}
	s.Track(o)
	return o, nil
}

// Add links the node's native object into the scene collection. Nodes whose
// creation already linked them (meshes, imports) fail with
// native.ErrAlreadyLinked.
func (s *Scene) Add(n kubric.Node) error {
	nn, ok := n.(Native)
	if !ok {
		return fmt.Errorf("%w: %T has no native object", kubric.ErrPrecondition, n)
	}
	if err := s.ctx.Scene.Collection.Link(nn.Native()); err != nil {
		return err
	}
	s.Track(n)
	return nil
}

// FrameSet evaluates every animated object at frame.
func (s *Scene) FrameSet(frame int) { s.ctx.FrameSet(frame) }
