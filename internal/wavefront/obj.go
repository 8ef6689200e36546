// Package wavefront reads Wavefront OBJ mesh files into per-object meshes.
//
// Parsing is done by gwob, which triangulates polygons and resolves
// relative indices into one shared vertex buffer. Groups that share a name
// are folded into one Object with its own compacted vertex list, so an
// object split by "usemtl" statements comes back whole.
package wavefront

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/udhos/gwob"
)

// ErrBadIndex reports a face referencing a vertex the file does not have.
var ErrBadIndex = errors.New("wavefront: face index out of range")

// Object is one named object in an OBJ file. Faces are triangles.
type Object struct {
	Name      string
	Vertices  [][3]float64
	Faces     [][]int
	Smooth    bool
	Materials []string

	remap map[int]int
}

func (o *Object) vertex(global int, obj *gwob.Obj) int {
	if local, ok := o.remap[global]; ok {
		return local
	}
	x, y, z := obj.VertexCoordinates(global)
	local := len(o.Vertices)
	o.Vertices = append(o.Vertices, [3]float64{float64(x), float64(y), float64(z)})
	o.remap[global] = local
	return local
}

// ParseFile parses the OBJ file at path. The file's base name is used for
// geometry that precedes any "o" or "g" statement.
func ParseFile(path string) ([]*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	objs, err := Parse(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return objs, nil
}

// Parse reads OBJ data from r. Objects without faces are dropped.
func Parse(r io.Reader, defaultName string) ([]*Object, error) {
	obj, err := gwob.NewObjFromReader(defaultName, bufio.NewReader(r), &gwob.ObjParserOptions{
		IgnoreNormals: true,
	})
	if err != nil {
		return nil, fmt.Errorf("wavefront: %w", err)
	}
	count := obj.NumberOfElements()

	var (
		objects []*Object
		byName  = make(map[string]*Object)
	)
	for _, g := range obj.Groups {
		if g.IndexCount < 3 {
			continue
		}
		name := g.Name
		if name == "" {
			name = defaultName
		}
		o, ok := byName[name]
		if !ok {
			o = &Object{Name: name, remap: make(map[int]int)}
			byName[name] = o
			objects = append(objects, o)
		}
		if g.Smooth != 0 {
			o.Smooth = true
		}
		if g.Usemtl != "" && !slices.Contains(o.Materials, g.Usemtl) {
			o.Materials = append(o.Materials, g.Usemtl)
		}
		idx := obj.Indices[g.IndexBegin : g.IndexBegin+g.IndexCount]
		for i := 0; i+2 < len(idx); i += 3 {
			face := make([]int, 3)
			for c := range face {
				if idx[i+c] < 0 || idx[i+c] >= count {
					return nil, fmt.Errorf("%w: %d of %d", ErrBadIndex, idx[i+c], count)
				}
				face[c] = o.vertex(idx[i+c], obj)
			}
			o.Faces = append(o.Faces, face)
		}
	}
	for _, o := range objects {
		o.remap = nil
	}
	return objects, nil
}
