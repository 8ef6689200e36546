package kubric

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// GeometryKind tells how a backend realizes a geometry.
type GeometryKind uint8

const (
	// GeometryPrimitive geometries are parametric shapes a backend may
	// allocate a native object for as soon as they are declared.
	GeometryPrimitive GeometryKind = iota
	// GeometryBuffered geometries carry explicit vertex and index data that
	// a mesh turns into a native object.
	GeometryBuffered
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryPrimitive:
		return "primitive"
	case GeometryBuffered:
		return "buffered"
	}
	return fmt.Sprintf("GeometryKind(%d)", uint8(k))
}

// Geometry is the shape of a [Mesh].
type Geometry interface {
	Kind() GeometryKind
}

// BoxGeometry is an axis-aligned box centred on the origin.
type BoxGeometry struct {
	Width, Height, Depth float64
}

// NewBoxGeometry validates the box extents.
func NewBoxGeometry(width, height, depth float64) (*BoxGeometry, error) {
	for _, v := range []float64{width, height, depth} {
		if err := checkPositive("box extent", v); err != nil {
			return nil, err
		}
	}
	return &BoxGeometry{Width: width, Height: height, Depth: depth}, nil
}

// Kind implements [Geometry].
func (*BoxGeometry) Kind() GeometryKind { return GeometryPrimitive }

// PlaneGeometry is a rectangle in the XY plane centred on the origin,
// subdivided into WidthSegments x HeightSegments quads.
type PlaneGeometry struct {
	Width, Height                 float64
	WidthSegments, HeightSegments int
}

// NewPlaneGeometry validates the plane extents and subdivision.
func NewPlaneGeometry(width, height float64, widthSegments, heightSegments int) (*PlaneGeometry, error) {
	if err := checkPositive("plane width", width); err != nil {
		return nil, err
	}
	if err := checkPositive("plane height", height); err != nil {
		return nil, err
	}
	if widthSegments < 1 || heightSegments < 1 {
		return nil, fmt.Errorf("%w: plane segments %dx%d", ErrInvalidValue, widthSegments, heightSegments)
	}
	return &PlaneGeometry{Width: width, Height: height, WidthSegments: widthSegments, HeightSegments: heightSegments}, nil
}

// Kind implements [Geometry].
func (*PlaneGeometry) Kind() GeometryKind { return GeometryPrimitive }

// BufferAttribute is a flat array of fixed-size items, one per vertex.
type BufferAttribute struct {
	Array    []float64
	ItemSize int
}

// NewBufferAttribute checks that array holds whole items of itemSize.
func NewBufferAttribute(array []float64, itemSize int) (*BufferAttribute, error) {
	if itemSize < 1 || len(array)%itemSize != 0 {
		return nil, fmt.Errorf("%w: %d values do not make items of %d", ErrInvalidValue, len(array), itemSize)
	}
	for _, v := range array {
		if !finite(v) {
			return nil, fmt.Errorf("%w: attribute value %v", ErrInvalidValue, v)
		}
	}
	return &BufferAttribute{Array: array, ItemSize: itemSize}, nil
}

// Count returns the number of items.
func (a *BufferAttribute) Count() int {
	if a.ItemSize == 0 {
		return 0
	}
	return len(a.Array) / a.ItemSize
}

// Vec3 returns item i of a 3-component attribute.
func (a *BufferAttribute) Vec3(i int) mgl64.Vec3 {
	j := i * a.ItemSize
	return mgl64.Vec3{a.Array[j], a.Array[j+1], a.Array[j+2]}
}

// BufferGeometry is explicit triangle geometry: named vertex attributes and
// a flat index of three vertex numbers per triangle.
type BufferGeometry struct {
	index      []uint32
	attributes map[string]*BufferAttribute
}

// NewBufferGeometry returns an empty geometry.
func NewBufferGeometry() *BufferGeometry {
	return &BufferGeometry{attributes: map[string]*BufferAttribute{}}
}

// Kind implements [Geometry].
func (*BufferGeometry) Kind() GeometryKind { return GeometryBuffered }

// SetIndex replaces the triangle index.
func (g *BufferGeometry) SetIndex(index []uint32) { g.index = index }

// Index returns the triangle index.
func (g *BufferGeometry) Index() []uint32 { return g.index }

// SetAttribute replaces the attribute called name.
func (g *BufferGeometry) SetAttribute(name string, a *BufferAttribute) {
	g.attributes[name] = a
}

// Attribute returns the attribute called name, or nil.
func (g *BufferGeometry) Attribute(name string) *BufferAttribute { return g.attributes[name] }

// AttributeNames returns the attribute names in sorted order.
func (g *BufferGeometry) AttributeNames() []string {
	return slices.Sorted(maps.Keys(g.attributes))
}

// Validate checks that a 3-component "position" attribute exists, that the
// index holds whole triangles and that every index addresses a vertex.
func (g *BufferGeometry) Validate() error {
	pos := g.attributes["position"]
	if pos == nil {
		return fmt.Errorf("%w: buffer geometry has no position attribute", ErrPrecondition)
	}
	if pos.ItemSize != 3 {
		return fmt.Errorf("%w: position item size %d, want 3", ErrPrecondition, pos.ItemSize)
	}
	if len(g.index)%3 != 0 {
		return fmt.Errorf("%w: index length %d is not a multiple of 3", ErrPrecondition, len(g.index))
	}
	n := pos.Count()
	for i, v := range g.index {
		if int(v) >= n {
			return fmt.Errorf("%w: index[%d] = %d, only %d vertices", ErrPrecondition, i, v, n)
		}
	}
	return nil
}

// Vertices returns the positions as vectors.
func (g *BufferGeometry) Vertices() []mgl64.Vec3 {
	pos := g.attributes["position"]
	if pos == nil {
		return nil
	}
	out := make([]mgl64.Vec3, pos.Count())
	for i := range out {
		out[i] = pos.Vec3(i)
	}
	return out
}

// Faces returns the index grouped into triangles.
func (g *BufferGeometry) Faces() [][]int {
	out := make([][]int, 0, len(g.index)/3)
	for i := 0; i+2 < len(g.index); i += 3 {
		out = append(out, []int{int(g.index[i]), int(g.index[i+1]), int(g.index[i+2])})
	}
	return out
}
