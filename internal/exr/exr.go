// Package exr writes OpenEXR multi-layer scanline images.
//
// Channels are grouped into layers using the "<layer>.<channel>" naming
// convention, so a file holding an Image layer and a Depth layer carries
// channels "Depth.V", "Image.A", "Image.B", "Image.G" and "Image.R". Every
// channel is stored as 32-bit float, ZIP compressed.
package exr

import (
	"errors"
	"fmt"
	"os"
	"sort"

	openexr "github.com/mrjoshuak/go-openexr/exr"
)

var (
	ErrBadSize      = errors.New("exr: channel data does not match image size")
	ErrDuplicate    = errors.New("exr: duplicate channel")
	ErrEmptyImage   = errors.New("exr: image has no channels")
	ErrBadDimension = errors.New("exr: width and height must be positive")
)

// Image is a multi-layer float image.
type Image struct {
	Width, Height int

	channels map[string][]float32
}

// NewImage returns an empty image with the given dimensions.
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimension, width, height)
	}
	return &Image{Width: width, Height: height, channels: make(map[string][]float32)}, nil
}

// AddLayer splits interleaved pixel data into one channel per entry of
// channels, each named "<layer>.<channel>". Pixels are row-major, top row
// first.
func (im *Image) AddLayer(layer string, channels []string, interleaved []float32) error {
	n := len(channels)
	if n == 0 || len(interleaved) != im.Width*im.Height*n {
		return fmt.Errorf("%w: layer %q has %d values for %d channels", ErrBadSize, layer, len(interleaved), n)
	}
	for c, ch := range channels {
		name := layer + "." + ch
		if _, ok := im.channels[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, name)
		}
		data := make([]float32, im.Width*im.Height)
		for i := range data {
			data[i] = interleaved[i*n+c]
		}
		im.channels[name] = data
	}
	return nil
}

// ChannelNames returns the channel names in file order.
func (im *Image) ChannelNames() []string {
	names := make([]string, 0, len(im.channels))
	for name := range im.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Channel returns the data of a single channel, or nil if absent.
func (im *Image) Channel(name string) []float32 {
	return im.channels[name]
}

// frameBuffer copies the channels into float slices the library reads
// from or writes into.
func (im *Image) frameBuffer() *openexr.FrameBuffer {
	fb := openexr.NewFrameBuffer()
	for _, name := range im.ChannelNames() {
		s := openexr.NewSlice(openexr.PixelTypeFloat, im.Width, im.Height)
		data := im.channels[name]
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				s.SetFloat32(x, y, data[y*im.Width+x])
			}
		}
		fb.Insert(name, s)
	}
	return fb
}

// WriteFile encodes the image into a new file at path.
func WriteFile(path string, im *Image) error {
	names := im.ChannelNames()
	if len(names) == 0 {
		return ErrEmptyImage
	}
	h := openexr.NewScanlineHeader(im.Width, im.Height)
	h.SetCompression(openexr.CompressionZIP)
	for _, name := range names {
		h.Channels().Add(openexr.NewChannel(name, openexr.PixelTypeFloat))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w, err := openexr.NewScanlineWriter(f, h)
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	w.SetFrameBuffer(im.frameBuffer())
	if err := w.WritePixels(0, im.Height-1); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile decodes every channel of the scanline file at path.
func ReadFile(path string) (*Image, error) {
	f, err := openexr.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := openexr.NewScanlineReader(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	h := r.Header()
	dw := h.DataWindow()
	im, err := NewImage(int(dw.Width()), int(dw.Height()))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	fb := openexr.NewFrameBuffer()
	chans := h.Channels()
	for i := 0; i < chans.Len(); i++ {
		fb.Insert(chans.At(i).Name, openexr.NewSlice(openexr.PixelTypeFloat, im.Width, im.Height))
	}
	r.SetFrameBuffer(fb)
	if err := r.ReadPixels(int(dw.Min.Y), int(dw.Max.Y)); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, name := range fb.Names() {
		s := fb.Get(name)
		data := make([]float32, im.Width*im.Height)
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				data[y*im.Width+x] = s.GetFloat32(x, y)
			}
		}
		im.channels[name] = data
	}
	return im, nil
}
