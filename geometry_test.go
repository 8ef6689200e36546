package kubric

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func triangle(t *testing.T) *BufferGeometry {
	t.Helper()
	pos, err := NewBufferAttribute([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	g := NewBufferGeometry()
	g.SetAttribute("position", pos)
	g.SetIndex([]uint32{0, 1, 2})
	return g
}

func TestBufferGeometry(t *testing.T) {
	g := triangle(t)
	if err := g.Validate(); err != nil {
		t.Fatal(err)
	}
	if g.Kind() != GeometryBuffered {
		t.Errorf("Kind = %v", g.Kind())
	}
	v := g.Vertices()
	if len(v) != 3 || v[1] != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Vertices = %v", v)
	}
	f := g.Faces()
	if len(f) != 1 || f[0][2] != 2 {
		t.Errorf("Faces = %v", f)
	}
	if names := g.AttributeNames(); len(names) != 1 || names[0] != "position" {
		t.Errorf("AttributeNames = %v", names)
	}
}

func TestBufferGeometryValidate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *BufferGeometry)
	}{
		{"index out of range", func(g *BufferGeometry) { g.SetIndex([]uint32{0, 1, 3}) }},
		{"partial triangle", func(g *BufferGeometry) { g.SetIndex([]uint32{0, 1}) }},
		{"no position", func(g *BufferGeometry) { g.SetAttribute("position", nil) }},
		{"wrong item size", func(g *BufferGeometry) {
			a, _ := NewBufferAttribute([]float64{0, 0, 1, 1, 2, 2}, 2)
			g.SetAttribute("position", a)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := triangle(t)
			tt.setup(g)
			if err := g.Validate(); !errors.Is(err, ErrPrecondition) {
				t.Errorf("err = %v, want ErrPrecondition", err)
			}
		})
	}
}

func TestNewBufferAttribute(t *testing.T) {
	if _, err := NewBufferAttribute([]float64{1, 2, 3, 4}, 3); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ragged array err = %v", err)
	}
	a, err := NewBufferAttribute([]float64{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if a.Count() != 2 {
		t.Errorf("Count = %d", a.Count())
	}
}

func TestPrimitiveGeometries(t *testing.T) {
	box, err := NewBoxGeometry(1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if box.Kind() != GeometryPrimitive {
		t.Errorf("box Kind = %v", box.Kind())
	}
	if _, err := NewBoxGeometry(1, 0, 1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("flat box err = %v", err)
	}
	plane, err := NewPlaneGeometry(2, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if plane.Kind().String() != "primitive" {
		t.Errorf("plane Kind = %v", plane.Kind())
	}
	if _, err := NewPlaneGeometry(2, 2, 0, 1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("zero segments err = %v", err)
	}
}
