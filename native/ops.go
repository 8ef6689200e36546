package native

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric/internal/wavefront"
)

// addObject links a fresh object into the scene and makes it the only
// selected and the active object, as the add operators do.
func (c *Context) addObject(name string, data any) (*Object, error) {
	o, err := c.NewObject(name, data)
	if err != nil {
		return nil, err
	}
	if err := c.Scene.Collection.Link(o); err != nil {
		return nil, err
	}
	c.SelectOnly(o)
	return o, nil
}

// PrimitiveCubeAdd adds a cube with edge length size centred on the origin.
// The new object is linked, selected and active.
func (c *Context) PrimitiveCubeAdd(size float64) *Object {
	h := size / 2
	m := c.NewMesh("Cube")
	_ = m.FromPydata(
		[]mgl64.Vec3{
			{h, h, h}, {h, h, -h}, {h, -h, h}, {h, -h, -h},
			{-h, h, h}, {-h, h, -h}, {-h, -h, h}, {-h, -h, -h},
		},
		nil,
		[][]int{
			{0, 4, 6, 2}, {3, 2, 6, 7}, {7, 6, 4, 5},
			{5, 1, 3, 7}, {1, 0, 2, 3}, {5, 4, 0, 1},
		},
	)
	o, _ := c.addObject("Cube", m)
	c.log.Debug("primitive added", "object", o.Name, "size", size)
	return o
}

// PrimitivePlaneAdd adds a square of edge length size in the XY plane. The
// new object is linked, selected and active.
func (c *Context) PrimitivePlaneAdd(size float64) *Object {
	h := size / 2
	m := c.NewMesh("Plane")
	_ = m.FromPydata(
		[]mgl64.Vec3{{-h, -h, 0}, {h, -h, 0}, {-h, h, 0}, {h, h, 0}},
		nil,
		[][]int{{0, 1, 3, 2}},
	)
	o, _ := c.addObject("Plane", m)
	c.log.Debug("primitive added", "object", o.Name, "size", size)
	return o
}

// ObjectAdd adds an object of type typ with fresh, empty data. The new
// object is linked, selected and active.
func (c *Context) ObjectAdd(typ ObjectType) (*Object, error) {
	switch typ {
	case ObjectEmpty:
		return c.addObject("Empty", nil)
	case ObjectMesh:
		return c.addObject("Mesh", c.NewMesh("Mesh"))
	case ObjectCamera:
		return c.addObject("Camera", c.NewCamera("Camera"))
	case ObjectLight:
		return c.addObject("Point", c.NewLight("Point", LightPoint))
	}
	return nil, fmt.Errorf("native: unknown object type %q", typ)
}

// ShadeSmooth marks the meshes of the selected objects, and of the active
// object, as smooth shaded.
func (c *Context) ShadeSmooth() { c.setSmooth(true) }

// ShadeFlat marks the meshes of the selected objects, and of the active
// object, as flat shaded.
func (c *Context) ShadeFlat() { c.setSmooth(false) }

func (c *Context) setSmooth(smooth bool) {
	targets := c.SelectedObjects()
	if c.active != nil {
		targets = append(targets, c.active)
	}
	for _, o := range targets {
		if o.Mesh != nil {
			o.Mesh.Smooth = smooth
		}
	}
}

// ImportOBJ imports every object of the OBJ file at path. forward and up name
// the file's forward and up axes ("X", "-Y", ...); geometry is rotated so
// that they become +Y and +Z. The imported objects are linked and become the
// selection; the first one is active.
func (c *Context) ImportOBJ(path, forward, up string) ([]*Object, error) {
	conv, err := AxisConversion(forward, up)
	if err != nil {
		return nil, err
	}
	parsed, err := wavefront.ParseFile(path)
	if err != nil {
		return nil, err
	}
	c.DeselectAll()
	var out []*Object
	for _, po := range parsed {
		verts := make([]mgl64.Vec3, len(po.Vertices))
		for i, v := range po.Vertices {
			verts[i] = conv.Mul3x1(mgl64.Vec3(v))
		}
		m := c.NewMesh(po.Name)
		if err := m.FromPydata(verts, nil, po.Faces); err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		m.Smooth = po.Smooth
		for _, name := range po.Materials {
			mat := c.Material(name)
			if mat == nil {
				mat = c.NewMaterial(name)
			}
			m.Materials = append(m.Materials, mat)
		}
		o, err := c.NewObject(po.Name, m)
		if err != nil {
			return nil, err
		}
		if err := c.Scene.Collection.Link(o); err != nil {
			return nil, err
		}
		o.selected = true
		out = append(out, o)
	}
	if len(out) > 0 {
		c.active = out[0]
	}
	c.log.Debug("imported obj", "path", path, "objects", len(out))
	return out, nil
}

var axisVectors = map[string]mgl64.Vec3{
	"X": {1, 0, 0}, "Y": {0, 1, 0}, "Z": {0, 0, 1},
	"-X": {-1, 0, 0}, "-Y": {0, -1, 0}, "-Z": {0, 0, -1},
}

// AxisConversion returns the rotation taking a file whose forward and up
// axes are forward and up into the backend convention (forward +Y, up +Z).
func AxisConversion(forward, up string) (mgl64.Mat3, error) {
	f, ok := axisVectors[strings.ToUpper(forward)]
	if !ok {
		return mgl64.Mat3{}, fmt.Errorf("%w: forward %q", ErrBadAxis, forward)
	}
	u, ok := axisVectors[strings.ToUpper(up)]
	if !ok {
		return mgl64.Mat3{}, fmt.Errorf("%w: up %q", ErrBadAxis, up)
	}
	if f.Dot(u) != 0 {
		return mgl64.Mat3{}, fmt.Errorf("%w: forward %s and up %s share an axis", ErrBadAxis, forward, up)
	}
	return mgl64.Mat3FromRows(f.Cross(u), f, u), nil
}
