package wavefront

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pair = `# two objects
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
o Tri
usemtl Rubber
f 1 2 3
o Quad
s 1
f 1/1/1 2/2/1 4/3/1 3/4/1
`

func TestParseObjects(t *testing.T) {
	objs, err := Parse(strings.NewReader(pair), "file")
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 2 {
		t.Fatalf("objects = %d, want 2", len(objs))
	}

	tri := objs[0]
	if tri.Name != "Tri" || len(tri.Vertices) != 3 || len(tri.Faces) != 1 {
		t.Errorf("tri = %q, %d verts, %d faces", tri.Name, len(tri.Vertices), len(tri.Faces))
	}
	if len(tri.Materials) != 1 || tri.Materials[0] != "Rubber" {
		t.Errorf("materials = %v", tri.Materials)
	}

	quad := objs[1]
	if !quad.Smooth {
		t.Error("quad should be smooth")
	}
	if len(quad.Faces) != 2 {
		t.Fatalf("quad faces = %v, want two triangles", quad.Faces)
	}
	if len(quad.Vertices) != 4 {
		t.Errorf("quad vertices = %v, want 4 shared corners", quad.Vertices)
	}
	var sawCorner bool
	for _, f := range quad.Faces {
		for _, i := range f {
			if quad.Vertices[i] == [3]float64{1, 1, 0} {
				sawCorner = true
			}
		}
	}
	if !sawCorner {
		t.Error("corner (1,1,0) is not referenced")
	}
}

func TestParseDefaultName(t *testing.T) {
	objs, err := Parse(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"), "floor")
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 1 || objs[0].Name != "floor" {
		t.Fatalf("objects = %+v", objs)
	}
	o := objs[0]
	if len(o.Faces) != 1 {
		t.Fatalf("faces = %v", o.Faces)
	}
	if got := o.Vertices[o.Faces[0][2]]; got != [3]float64{0, 1, 0} {
		t.Errorf("last corner = %v, want (0,1,0)", got)
	}
}

func TestParseFoldsMaterialGroups(t *testing.T) {
	src := "o Rock\nv 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nusemtl A\nf 1 2 3\nusemtl B\nf 2 4 3\n"
	objs, err := Parse(strings.NewReader(src), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 1 {
		t.Fatalf("objects = %+v, want one Rock", objs)
	}
	rock := objs[0]
	if len(rock.Faces) != 2 || len(rock.Vertices) != 4 {
		t.Errorf("rock = %d faces, %d vertices", len(rock.Faces), len(rock.Vertices))
	}
	if len(rock.Materials) != 2 || rock.Materials[0] != "A" || rock.Materials[1] != "B" {
		t.Errorf("materials = %v", rock.Materials)
	}
}

func TestParseDropsEmptyObjects(t *testing.T) {
	objs, err := Parse(strings.NewReader("o Empty\nv 0 0 0\nv 1 0 0\nv 0 1 0\no Real\nf 1 2 3\n"), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 1 || objs[0].Name != "Real" {
		t.Errorf("objects = %+v", objs)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "none.obj"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestParseFileNamesAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	objs, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 1 || objs[0].Name != "table" {
		t.Errorf("objects = %+v", objs)
	}
}
