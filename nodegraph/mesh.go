package nodegraph

import (
	"fmt"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// Mesh is a mesh object showing one geometry with one material.
type Mesh struct {
	*kubric.Mesh
	obj *native.Object
}

// NewMesh realizes g as a mesh object. A primitive geometry already has
// one, which the mesh adopts; a buffer geometry is validated and copied into
// a new mesh object. Either way the object ends up linked, selected and
// active, with m assigned and applied.
func NewMesh(ctx *native.Context, g kubric.Geometry, m Material) (*Mesh, error) {
	if g == nil || m == nil {
		return nil, fmt.Errorf("%w: mesh needs a geometry and a material", kubric.ErrPrecondition)
	}
	var obj *native.Object
	switch g.Kind() {
	case kubric.GeometryPrimitive:
		p, ok := g.(primitive)
		if !ok {
			return nil, fmt.Errorf("%w: primitive geometry %T was not created by this backend", kubric.ErrPrecondition, g)
		}
		var err error
		if obj, err = p.adopt(); err != nil {
			return nil, err
		}
	case kubric.GeometryBuffered:
		bg, ok := g.(*kubric.BufferGeometry)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported buffer geometry %T", kubric.ErrPrecondition, g)
		}
		if err := bg.Validate(); err != nil {
			return nil, err
		}
		var err error
		if obj, err = ctx.ObjectAdd(native.ObjectMesh); err != nil {
			return nil, err
		}
		if err := obj.Mesh.FromPydata(bg.Vertices(), nil, bg.Faces()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: geometry kind %v", kubric.ErrPrecondition, g.Kind())
	}

	km, err := kubric.NewMesh(obj.Name, g, m, wrap(obj))
	if err != nil {
		return nil, err
	}
	obj.Mesh.Materials = append(obj.Mesh.Materials, m.Native())
	m.Apply(ctx, obj)
	kubric.Logger().Debug("mesh created", "object", obj.Name, "geometry", g.Kind(), "vertices", len(obj.Mesh.Vertices))
	return &Mesh{Mesh: km, obj: obj}, nil
}

// Native returns the mesh object.
func (m *Mesh) Native() *native.Object { return m.obj }
