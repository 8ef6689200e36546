package native

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/kubric/internal/exr"
)

// flatEngine renders every pixel in one color and records the frames it saw.
type flatEngine struct {
	color  [4]float32
	frames []int
	fail   error
}

func (e *flatEngine) Name() string { return "flat" }

func (e *flatEngine) Devices() []Device {
	return []Device{{ID: "cpu0", Name: "CPU", Type: "CPU"}, {ID: "gpu0", Name: "Fake GPU", Type: "CUDA"}}
}

func (e *flatEngine) RenderFrame(s *Scene, frame int) (*RenderResult, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	e.frames = append(e.frames, frame)
	w, h := s.Render.Size()
	img := make([]float32, 4*w*h)
	depth := make([]float32, w*h)
	for i := 0; i < w*h; i++ {
		copy(img[4*i:], e.color[:])
		depth[i] = float32(frame)
	}
	return &RenderResult{Width: w, Height: h, Passes: []*Pass{
		{Name: PassImage, Channels: []string{"R", "G", "B", "A"}, Data: img},
		{Name: PassDepth, Channels: []string{"Z"}, Data: depth},
	}}, nil
}

type recordingEncoder struct {
	path   string
	opts   MovieOptions
	frames int
	closed bool
}

func (r *recordingEncoder) Begin(path string, opts MovieOptions) (MovieWriter, error) {
	r.path, r.opts = path, opts
	return r, nil
}

func (r *recordingEncoder) WriteFrame(image.Image) error { r.frames++; return nil }
func (r *recordingEncoder) Close() error                 { r.closed = true; return nil }

func newTestContext(t *testing.T, e Engine, opts ...Option) *Context {
	t.Helper()
	c := New(append([]Option{WithEngine(e)}, opts...)...)
	c.Scene.Render.Engine = e.Name()
	c.Scene.Render.ResolutionX, c.Scene.Render.ResolutionY = 4, 2
	return c
}

func TestRenderNeedsCameraAndEngine(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Render(RenderOptions{}), ErrNoEngine)

	c = newTestContext(t, &flatEngine{})
	c.Scene.Camera = nil
	assert.ErrorIs(t, c.Render(RenderOptions{}), ErrNoCamera)
}

func TestRenderStill(t *testing.T) {
	e := &flatEngine{color: [4]float32{1, 0, 0, 1}}
	c := newTestContext(t, e)
	c.Scene.FrameCurrent = 7
	c.Scene.Render.Filepath = filepath.Join(t.TempDir(), "still.png")

	require.NoError(t, c.Render(RenderOptions{WriteStill: true}))
	assert.Equal(t, []int{7}, e.frames)

	f, err := os.Open(c.Scene.Render.Filepath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, g, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestRenderAnimationWritesSequence(t *testing.T) {
	e := &flatEngine{color: [4]float32{0, 0, 0, 1}}
	c := newTestContext(t, e)
	dir := t.TempDir()
	c.Scene.Render.Filepath = filepath.Join(dir, "frame_")
	c.Scene.FrameStart, c.Scene.FrameEnd, c.Scene.FrameCurrent = 2, 4, 9

	var written []string
	c.Handlers.RenderWrite = append(c.Handlers.RenderWrite, func(s *Scene) {
		written = append(written, s.Render.FramePath(s.FrameCurrent))
	})
	require.NoError(t, c.Render(RenderOptions{WriteStill: true, Animation: true}))

	assert.Equal(t, []int{2, 3, 4}, e.frames)
	require.Len(t, written, 3)
	assert.Equal(t, filepath.Join(dir, "frame_0003.png"), written[1])
	for _, p := range written {
		assert.FileExists(t, p)
	}
	assert.Equal(t, 9, c.Scene.FrameCurrent, "current frame is restored")
}

func TestRenderMovie(t *testing.T) {
	e := &flatEngine{}
	enc := &recordingEncoder{}
	c := newTestContext(t, e, WithEncoder(enc))
	c.Scene.FrameStart, c.Scene.FrameEnd = 1, 5
	c.Scene.Render.Filepath = "/tmp/clip.mov"
	c.Scene.Render.ImageSettings.FileFormat = "FFMPEG"
	c.Scene.Render.FFmpeg = FFmpegSettings{Format: "QUICKTIME", Codec: "H264"}

	require.NoError(t, c.Render(RenderOptions{WriteStill: true, Animation: true}))
	assert.Equal(t, "/tmp/clip.mov", enc.path)
	assert.Equal(t, 5, enc.frames)
	assert.True(t, enc.closed)
	assert.Equal(t, MovieOptions{Width: 4, Height: 2, FPS: 24, Container: "QUICKTIME", Codec: "H264", ColorMode: "RGBA"}, enc.opts)
}

func TestRenderPropagatesEngineError(t *testing.T) {
	boom := errors.New("out of memory")
	c := newTestContext(t, &flatEngine{fail: boom})
	assert.ErrorIs(t, c.Render(RenderOptions{}), boom)
}

func TestRenderWritesEXRLayers(t *testing.T) {
	c := newTestContext(t, &flatEngine{color: [4]float32{0.5, 0.5, 0.5, 1}})
	c.Scene.UseNodes = true
	tree := c.Scene.NodeTree
	rl := tree.Node("Render Layers")
	fo, err := tree.NewNode(NodeOutputFile)
	require.NoError(t, err)
	fo.BasePath = filepath.Join(t.TempDir(), "layers") + string(filepath.Separator)
	fo.Format.FileFormat = "OPEN_EXR_MULTILAYER"
	fo.ClearFileSlots()
	for _, name := range []string{"Image", "Depth", "Normal"} {
		slot, err := fo.NewFileSlot(name)
		require.NoError(t, err)
		_, err = tree.NewLink(rl.Output(name), slot)
		require.NoError(t, err)
	}
	c.Scene.FrameCurrent = 3

	require.NoError(t, c.Render(RenderOptions{}))

	im, err := exr.ReadFile(fo.BasePath + "0003.exr")
	require.NoError(t, err)
	assert.Equal(t, 4, im.Width)
	assert.Equal(t, []string{"Depth.Z", "Image.A", "Image.B", "Image.G", "Image.R"}, im.ChannelNames())
}

func TestUseDevices(t *testing.T) {
	c := newTestContext(t, &flatEngine{})

	require.NoError(t, c.UseDevices("CUDA", false))
	assert.Equal(t, "GPU", c.Scene.Cycles.Device)
	require.Len(t, c.Preferences.Devices, 2)
	assert.False(t, c.Preferences.Devices[0].Use)
	assert.True(t, c.Preferences.Devices[1].Use)

	assert.ErrorIs(t, c.UseDevices("OPTIX", true), ErrNoDevice)
}

func TestResultImageTransparency(t *testing.T) {
	res := &RenderResult{Width: 1, Height: 1, Passes: []*Pass{
		{Name: PassImage, Channels: []string{"R", "G", "B", "A"}, Data: []float32{0, 0, 0, 0.5}},
	}}
	assert.Equal(t, uint8(128), res.Image(true).Pix[3])
	assert.Equal(t, uint8(255), res.Image(false).Pix[3])
}
