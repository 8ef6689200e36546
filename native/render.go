package native

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/kubric/internal/exr"
	"github.com/phanxgames/kubric/internal/ffmpeg"
)

// Render pass names, matching the outputs of the Render Layers node.
const (
	PassImage          = "Image"
	PassDepth          = "Depth"
	PassVector         = "Vector"
	PassUV             = "UV"
	PassNormal         = "Normal"
	PassCryptoObject00 = "CryptoObject00"
)

// Pass is one render layer: Channels values per pixel, interleaved, rows top
// to bottom.
type Pass struct {
	Name     string
	Channels []string
	Data     []float32
}

// RenderResult holds every pass an engine produced for one frame.
type RenderResult struct {
	Width, Height int
	Passes        []*Pass
}

// Pass returns the pass named name, or nil.
func (r *RenderResult) Pass(name string) *Pass {
	for _, p := range r.Passes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Image converts the linear Image pass to an 8-bit sRGB picture. Alpha is
// kept when transparent is set and forced opaque otherwise.
func (r *RenderResult) Image(transparent bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	p := r.Pass(PassImage)
	if p == nil || len(p.Data) < 4*r.Width*r.Height {
		return img
	}
	for i := 0; i < r.Width*r.Height; i++ {
		px := p.Data[4*i : 4*i+4]
		a := uint8(255)
		if transparent {
			a = to8(float64(px[3]))
		}
		img.Pix[4*i] = to8(linearToSRGB(float64(px[0])))
		img.Pix[4*i+1] = to8(linearToSRGB(float64(px[1])))
		img.Pix[4*i+2] = to8(linearToSRGB(float64(px[2])))
		img.Pix[4*i+3] = a
	}
	return img
}

func to8(v float64) uint8 {
	return uint8(max(0, min(1, v))*255 + 0.5)
}

// Engine turns scene state into pixels.
type Engine interface {
	Name() string
	// Devices lists the compute devices the engine can use.
	Devices() []Device
	// RenderFrame renders scene at frame. Objects have already been
	// evaluated at frame.
	RenderFrame(scene *Scene, frame int) (*RenderResult, error)
}

// MovieOptions describe a movie stream.
type MovieOptions struct {
	Width, Height int
	FPS           float64
	Container     string
	Codec         string
	ColorMode     string
}

// MovieWriter receives the frames of one movie.
type MovieWriter interface {
	WriteFrame(image.Image) error
	Close() error
}

// Encoder opens movie streams.
type Encoder interface {
	Begin(path string, opts MovieOptions) (MovieWriter, error)
}

// FFmpeg encodes movies with an external ffmpeg binary.
type FFmpeg struct {
	Binary string
}

// Begin starts an ffmpeg process writing to path.
func (f FFmpeg) Begin(path string, opts MovieOptions) (MovieWriter, error) {
	w, err := ffmpeg.Start(f.Binary, path, ffmpeg.Options{
		Width:     opts.Width,
		Height:    opts.Height,
		FPS:       opts.FPS,
		Codec:     opts.Codec,
		Container: opts.Container,
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// RenderOptions select what [Context.Render] produces.
type RenderOptions struct {
	// WriteStill writes the result to the output path.
	WriteStill bool
	// Animation renders FrameStart..FrameEnd instead of the current frame.
	Animation bool
}

// Engine returns the engine selected by the scene's render settings.
func (c *Context) Engine() (Engine, error) {
	e, ok := c.engines[c.Scene.Render.Engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEngine, c.Scene.Render.Engine)
	}
	return e, nil
}

// Result returns the last rendered frame, or nil.
func (c *Context) Result() *RenderResult { return c.result }

// UseDevices selects the compute devices of type deviceType on the current
// engine. CPU devices are used only when includeCPU is set or deviceType is
// "CPU". It fails with ErrNoDevice when the engine has no device of that
// type.
func (c *Context) UseDevices(deviceType string, includeCPU bool) error {
	e, err := c.Engine()
	if err != nil {
		return err
	}
	devs := e.Devices()
	found := false
	for i := range devs {
		d := &devs[i]
		switch {
		case d.Type == deviceType:
			d.Use = true
			found = true
		case d.Type == "CPU":
			d.Use = includeCPU
		default:
			d.Use = false
		}
	}
	if !found {
		return fmt.Errorf("%w: %s on engine %q", ErrNoDevice, deviceType, e.Name())
	}
	c.Preferences.ComputeDeviceType = deviceType
	c.Preferences.Devices = devs
	c.Scene.Cycles.Device = "GPU"
	if deviceType == "CPU" {
		c.Scene.Cycles.Device = "CPU"
	}
	for _, d := range devs {
		c.log.Debug("compute device", "name", d.Name, "type", d.Type, "use", d.Use)
	}
	return nil
}

// Render renders the current frame, or the whole frame range with
// opts.Animation. With opts.WriteStill every frame is written to the output
// path: numbered PNG files, or one movie when the file format is FFMPEG.
// Compositor file-output nodes write their layers for every rendered frame.
// The current frame is restored afterwards.
func (c *Context) Render(opts RenderOptions) (err error) {
	s := c.Scene
	if s.Camera == nil {
		return ErrNoCamera
	}
	engine, err := c.Engine()
	if err != nil {
		return err
	}
	first, last := s.FrameCurrent, s.FrameCurrent
	if opts.Animation {
		first, last = s.FrameStart, s.FrameEnd
	}
	movie := opts.WriteStill && opts.Animation && s.Render.ImageSettings.FileFormat == "FFMPEG"
	var mw MovieWriter
	if movie {
		if c.encoder == nil {
			return ErrNoEncoder
		}
		w, h := s.Render.Size()
		mw, err = c.encoder.Begin(s.Render.StillPath(), MovieOptions{
			Width:     w,
			Height:    h,
			FPS:       s.Render.FrameRate(),
			Container: s.Render.FFmpeg.Format,
			Codec:     s.Render.FFmpeg.Codec,
			ColorMode: s.Render.ImageSettings.ColorMode,
		})
		if err != nil {
			return err
		}
		defer func() {
			if cerr := mw.Close(); err == nil {
				err = cerr
			}
		}()
	}

	saved := s.FrameCurrent
	defer c.FrameSet(saved)
	c.log.Info("render started", "engine", engine.Name(), "first", first, "last", last)
	for frame := first; frame <= last; frame++ {
		c.FrameSet(frame)
		res, err := engine.RenderFrame(s, frame)
		if err != nil {
			return fmt.Errorf("render frame %d: %w", frame, err)
		}
		c.result = res
		if err := c.composite(res, frame); err != nil {
			return err
		}
		if !opts.WriteStill {
			continue
		}
		img := res.Image(s.Render.FilmTransparent && s.Render.ImageSettings.ColorMode != "RGB")
		switch {
		case movie:
			if err := mw.WriteFrame(img); err != nil {
				return fmt.Errorf("encode frame %d: %w", frame, err)
			}
		case opts.Animation:
			if err := WritePNG(s.Render.FramePath(frame), img); err != nil {
				return err
			}
		default:
			if err := WritePNG(s.Render.StillPath(), img); err != nil {
				return err
			}
		}
		if opts.Animation {
			for _, h := range c.Handlers.RenderWrite {
				h(s)
			}
		}
	}
	c.log.Info("render finished", "frames", last-first+1)
	return nil
}

// composite runs the compositor's file-output nodes for one frame.
func (c *Context) composite(res *RenderResult, frame int) error {
	s := c.Scene
	if !s.UseNodes || s.NodeTree == nil {
		return nil
	}
	for _, n := range s.NodeTree.NodesOfType(NodeOutputFile) {
		if !strings.HasPrefix(n.Format.FileFormat, "OPEN_EXR") {
			return fmt.Errorf("%w: file output %q", ErrFileFormat, n.Format.FileFormat)
		}
		im, err := exr.NewImage(res.Width, res.Height)
		if err != nil {
			return err
		}
		for _, slot := range n.Inputs {
			l := s.NodeTree.LinkInto(slot)
			if l == nil || l.From.Node().Type != NodeRenderLayers {
				continue
			}
			p := res.Pass(l.From.Name)
			if p == nil {
				continue
			}
			if err := im.AddLayer(slot.Name, p.Channels, p.Data); err != nil {
				return fmt.Errorf("layer %s: %w", slot.Name, err)
			}
		}
		if len(im.ChannelNames()) == 0 {
			continue
		}
		path := fmt.Sprintf("%s%04d.exr", n.BasePath, frame)
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := exr.WriteFile(path, im); err != nil {
			return err
		}
		c.log.Debug("wrote exr", "path", path, "channels", len(im.ChannelNames()))
	}
	return nil
}

// WritePNG encodes img as a PNG at path, creating missing directories.
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
