package kubric

import "fmt"

// Mesh places one geometry with one material in the scene.
type Mesh struct {
	Object3D

	geometry Geometry
	material Material
}

// NewMesh returns a mesh at the origin. A buffered geometry is validated
// first.
func NewMesh(name string, g Geometry, m Material, b Binding) (*Mesh, error) {
	if g == nil || m == nil {
		return nil, fmt.Errorf("%w: mesh needs a geometry and a material", ErrPrecondition)
	}
	if bg, ok := g.(*BufferGeometry); ok {
		if err := bg.Validate(); err != nil {
			return nil, err
		}
	}
	msh := &Mesh{geometry: g, material: m}
	if err := msh.init(name, b); err != nil {
		return nil, err
	}
	return msh, nil
}

// Geometry returns the mesh shape.
func (m *Mesh) Geometry() Geometry { return m.geometry }

// Material returns the mesh appearance.
func (m *Mesh) Material() Material { return m.material }
