package native

import (
	"fmt"
	"image"
	_ "image/jpeg" // environment textures
	_ "image/png"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraType selects the projection of a camera data block.
type CameraType string

const (
	CameraPerspective  CameraType = "PERSP"
	CameraOrthographic CameraType = "ORTHO"
)

// CameraData holds projection parameters. Lens and SensorWidth are in
// millimetres; OrthoScale spans the larger image dimension in scene units.
type CameraData struct {
	Name        string     `yaml:"name"`
	Type        CameraType `yaml:"type"`
	Lens        float64    `yaml:"lens"`
	SensorWidth float64    `yaml:"sensor_width"`
	OrthoScale  float64    `yaml:"ortho_scale"`
	ClipStart   float64    `yaml:"clip_start"`
	ClipEnd     float64    `yaml:"clip_end"`
}

func newCameraData(name string) *CameraData {
	return &CameraData{
		Name:        name,
		Type:        CameraPerspective,
		Lens:        50,
		SensorWidth: 36,
		OrthoScale:  6,
		ClipStart:   0.1,
		ClipEnd:     1000,
	}
}

// Projection returns the clip-space projection for an image of the given
// size. The sensor (or ortho scale) spans the larger dimension.
func (cd *CameraData) Projection(width, height int) mgl64.Mat4 {
	aspect := float64(width) / float64(height)
	if cd.Type == CameraOrthographic {
		halfW, halfH := cd.OrthoScale/2, cd.OrthoScale/2
		if aspect >= 1 {
			halfH = halfW / aspect
		} else {
			halfW = halfH * aspect
		}
		return mgl64.Ortho(-halfW, halfW, -halfH, halfH, cd.ClipStart, cd.ClipEnd)
	}
	fov := 2 * math.Atan(cd.SensorWidth/(2*cd.Lens))
	fovy := fov
	if aspect >= 1 {
		fovy = 2 * math.Atan(math.Tan(fov/2)/aspect)
	}
	return mgl64.Perspective(fovy, aspect, cd.ClipStart, cd.ClipEnd)
}

// LightType selects the emitter shape of a light data block.
type LightType string

const (
	LightPoint LightType = "POINT"
	LightSun   LightType = "SUN"
	LightArea  LightType = "AREA"
	LightSpot  LightType = "SPOT"
)

// LightData holds photometric parameters. Energy is watts for point and area
// lights and irradiance for suns. Angle is the sun's angular diameter in
// radians. Size and SizeY are the area emitter's extent.
type LightData struct {
	Name   string     `yaml:"name"`
	Type   LightType  `yaml:"type"`
	Color  mgl64.Vec3 `yaml:"color"`
	Energy float64    `yaml:"energy"`
	Angle  float64    `yaml:"angle"`
	Shape  string     `yaml:"shape"`
	Size   float64    `yaml:"size"`
	SizeY  float64    `yaml:"size_y"`
}

func newLightData(name string, typ LightType) *LightData {
	ld := &LightData{
		Name:   name,
		Type:   typ,
		Color:  mgl64.Vec3{1, 1, 1},
		Energy: 10,
		Angle:  0.00918,
		Shape:  "SQUARE",
		Size:   0.25,
		SizeY:  0.25,
	}
	if typ == LightSun {
		ld.Energy = 1
	}
	return ld
}

// Material is a surface appearance data block.
type Material struct {
	Name         string     `yaml:"name"`
	DiffuseColor [4]float64 `yaml:"diffuse_color"`
	Roughness    float64    `yaml:"roughness"`
	Metallic     float64    `yaml:"metallic"`
}

func newMaterial(name string) *Material {
	return &Material{Name: name, DiffuseColor: [4]float64{0.8, 0.8, 0.8, 1}, Roughness: 0.4}
}

// MeshData is polygon geometry. Faces index into Vertices.
type MeshData struct {
	Name      string
	Vertices  []mgl64.Vec3
	Edges     [][2]int
	Faces     [][]int
	Smooth    bool
	Materials []*Material
}

// FromPydata replaces the mesh geometry. Every edge and face index must
// address an existing vertex and faces need at least three corners; on error
// the mesh is left unchanged.
func (m *MeshData) FromPydata(vertices []mgl64.Vec3, edges [][2]int, faces [][]int) error {
	n := len(vertices)
	for i, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return fmt.Errorf("%w: edge %d %v with %d vertices", ErrBadIndex, i, e, n)
		}
	}
	for i, f := range faces {
		if len(f) < 3 {
			return fmt.Errorf("%w: face %d has %d corners", ErrBadIndex, i, len(f))
		}
		for _, v := range f {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: face %d %v with %d vertices", ErrBadIndex, i, f, n)
			}
		}
	}
	m.Vertices = append([]mgl64.Vec3(nil), vertices...)
	m.Edges = append([][2]int(nil), edges...)
	m.Faces = make([][]int, len(faces))
	for i, f := range faces {
		m.Faces[i] = append([]int(nil), f...)
	}
	return nil
}

// Triangles fan-triangulates every face.
func (m *MeshData) Triangles() [][3]int {
	var tris [][3]int
	for _, f := range m.Faces {
		for i := 1; i+1 < len(f); i++ {
			tris = append(tris, [3]int{f[0], f[i], f[i+1]})
		}
	}
	return tris
}

// Image is a loaded image data block. Mean is the average linear color,
// used by engines that treat environment maps as uniform emitters.
type Image struct {
	Name     string     `yaml:"name"`
	Filepath string     `yaml:"filepath"`
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	Mean     mgl64.Vec3 `yaml:"mean"`
}

// loadImage decodes the file at path. Formats without a registered decoder
// are kept with a neutral mean so that shading graphs stay valid.
func loadImage(name, path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img := &Image{Name: name, Filepath: path, Mean: mgl64.Vec3{0.5, 0.5, 0.5}}
	decoded, _, err := image.Decode(f)
	if err != nil {
		return img, nil
	}
	b := decoded.Bounds()
	img.Width, img.Height = b.Dx(), b.Dy()
	var sum mgl64.Vec3
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := decoded.At(x, y).RGBA()
			sum = sum.Add(mgl64.Vec3{srgbToLinear(float64(r) / 0xffff), srgbToLinear(float64(g) / 0xffff), srgbToLinear(float64(bl) / 0xffff)})
		}
	}
	if n := float64(img.Width * img.Height); n > 0 {
		img.Mean = sum.Mul(1 / n)
	}
	return img, nil
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}
