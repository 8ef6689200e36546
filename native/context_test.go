package native

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoadsStartupScene(t *testing.T) {
	c := New()

	require.Len(t, c.Objects, 3)
	assert.NotNil(t, c.Object("Cube"))
	assert.NotNil(t, c.Object("Light"))
	require.NotNil(t, c.Scene.Camera)
	assert.Equal(t, "Camera", c.Scene.Camera.Name)
	assert.Len(t, c.Scene.Collection.Objects, 3)
	assert.Equal(t, 1, c.Scene.FrameStart)
	assert.Equal(t, 250, c.Scene.FrameEnd)
	assert.Same(t, c.Object("Cube"), c.ActiveObject())

	bg := c.Scene.World.NodeTree.Node("Background")
	require.NotNil(t, bg)
	assert.NotNil(t, c.Scene.World.NodeTree.LinkInto(c.Scene.World.NodeTree.Node("World Output").Input("Surface")))
	assert.NotNil(t, c.Scene.NodeTree.Node("Render Layers"))
}

func TestSelectAllDeleteClearsScene(t *testing.T) {
	c := New()
	c.SelectAll()
	assert.Len(t, c.SelectedObjects(), 3)

	c.DeleteSelected()
	assert.Empty(t, c.Objects)
	assert.Empty(t, c.Scene.Collection.Objects)
	assert.Nil(t, c.Scene.Camera)
	assert.Nil(t, c.ActiveObject())
	assert.NotEmpty(t, c.Meshes, "data blocks survive object deletion")
}

func TestSelectAllSkipsUnlinkedObjects(t *testing.T) {
	c := New()
	o, err := c.NewObject("Loose", nil)
	require.NoError(t, err)

	c.SelectAll()
	assert.False(t, o.Selected())
}

func TestReadHomefileKeepsPreferences(t *testing.T) {
	c := New()
	c.Preferences.ComputeDeviceType = "CUDA"
	c.PrimitivePlaneAdd(2)
	c.ReadHomefile()

	assert.Equal(t, "CUDA", c.Preferences.ComputeDeviceType)
	assert.Nil(t, c.Object("Plane"))
}

func TestObjectNamesAreUnique(t *testing.T) {
	c := New()
	a, _ := c.NewObject("Sun", nil)
	b, _ := c.NewObject("Sun", nil)
	d, _ := c.NewObject("Sun", nil)

	assert.Equal(t, "Sun", a.Name)
	assert.Equal(t, "Sun.001", b.Name)
	assert.Equal(t, "Sun.002", d.Name)

	c.RenameObject(d, "Sun")
	assert.Equal(t, "Sun.002", d.Name)
	c.RenameObject(d, "Moon")
	assert.Equal(t, "Moon", d.Name)
}

func TestNewObjectRejectsUnknownData(t *testing.T) {
	_, err := New().NewObject("x", 42)
	assert.Error(t, err)
}

func TestCollectionLinkTwice(t *testing.T) {
	c := New()
	o, _ := c.NewObject("Sun", c.NewLight("Sun", LightSun))
	require.NoError(t, c.Scene.Collection.Link(o))
	assert.ErrorIs(t, c.Scene.Collection.Link(o), ErrAlreadyLinked)

	require.NoError(t, c.Scene.Collection.Unlink(o))
	assert.ErrorIs(t, c.Scene.Collection.Unlink(o), ErrNotLinked)
}

func TestFrameSetEvaluatesAnimation(t *testing.T) {
	c := New()
	c.Preferences.KeyframeInterpolation = InterpolationLinear
	o, _ := c.NewObject("Ball", nil)
	require.NoError(t, o.KeyframeInsert(PathLocation, 0))
	o.Location = mgl64.Vec3{0, 0, 4}
	require.NoError(t, o.KeyframeInsert(PathLocation, 4))

	c.FrameSet(1)
	assert.Equal(t, 1, c.Scene.FrameCurrent)
	assert.InDelta(t, 1.0, o.Location[2], 1e-6)
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sky.hdr")
	require.NoError(t, os.WriteFile(path, []byte("#?RADIANCE\n"), 0o644))

	c := New()
	a, err := c.LoadImage(path, true)
	require.NoError(t, err)
	assert.Equal(t, "sky.hdr", a.Name)
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0.5}, a.Mean)

	b, err := c.LoadImage(path, true)
	require.NoError(t, err)
	assert.Same(t, a, b)

	d, err := c.LoadImage(path, false)
	require.NoError(t, err)
	assert.Equal(t, "sky.hdr.001", d.Name)
}

func TestLoadImageMissingFile(t *testing.T) {
	_, err := New().LoadImage(filepath.Join(t.TempDir(), "nope.exr"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
