package nodegraph

import (
	"fmt"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// primitive is a geometry the backend realized as a native object when it
// was declared. A mesh adopts that object instead of creating another.
type primitive interface {
	kubric.Geometry
	adopt() (*native.Object, error)
}

// primitiveObject is the native object of a primitive geometry and whether a
// mesh has adopted it.
type primitiveObject struct {
	obj     *native.Object
	adopted bool
}

func (p *primitiveObject) adopt() (*native.Object, error) {
	if p.adopted {
		return nil, fmt.Errorf("%w: geometry %q already belongs to a mesh", kubric.ErrPrecondition, p.obj.Name)
	}
	p.adopted = true
	return p.obj, nil
}

// Native returns the object the primitive operator created.
func (p *primitiveObject) Native() *native.Object { return p.obj }

// BoxGeometry is a cube added to the scene as soon as it is declared.
type BoxGeometry struct {
	*kubric.BoxGeometry
	primitiveObject
}

// NewBoxGeometry adds a cube of edge width. The backend only builds cubes:
// width, height and depth must be equal.
func NewBoxGeometry(ctx *native.Context, width, height, depth float64) (*BoxGeometry, error) {
	g, err := kubric.NewBoxGeometry(width, height, depth)
	if err != nil {
		return nil, err
	}
	if width != height || width != depth {
		return nil, fmt.Errorf("%w: only cubes are supported, got %vx%vx%v", kubric.ErrPrecondition, width, height, depth)
	}
	obj := ctx.PrimitiveCubeAdd(width)
	return &BoxGeometry{BoxGeometry: g, primitiveObject: primitiveObject{obj: obj}}, nil
}

// PlaneGeometry is a square added to the scene as soon as it is declared.
type PlaneGeometry struct {
	*kubric.PlaneGeometry
	primitiveObject
}

// NewPlaneGeometry adds a square plane of edge width. The backend supports
// neither subdivision nor rectangles.
func NewPlaneGeometry(ctx *native.Context, width, height float64, widthSegments, heightSegments int) (*PlaneGeometry, error) {
	g, err := kubric.NewPlaneGeometry(width, height, widthSegments, heightSegments)
	if err != nil {
		return nil, err
	}
	if widthSegments != 1 || heightSegments != 1 {
		return nil, fmt.Errorf("%w: plane subdivision %dx%d", kubric.ErrPrecondition, widthSegments, heightSegments)
	}
	if width != height {
		return nil, fmt.Errorf("%w: only square planes are supported, got %vx%v", kubric.ErrPrecondition, width, height)
	}
	obj := ctx.PrimitivePlaneAdd(width)
	return &PlaneGeometry{PlaneGeometry: g, primitiveObject: primitiveObject{obj: obj}}, nil
}
