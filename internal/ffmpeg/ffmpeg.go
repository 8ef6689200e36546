// Package ffmpeg encodes frame sequences into movie containers by streaming
// raw RGBA frames into an external ffmpeg process.
package ffmpeg

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// ErrUnsupported reports a codec or container with no ffmpeg mapping.
var ErrUnsupported = errors.New("ffmpeg: unsupported format")

var codecs = map[string]string{
	"H264":  "libx264",
	"PNG":   "png",
	"QTRLE": "qtrle",
	"MPEG4": "mpeg4",
}

var containers = map[string]string{
	"QUICKTIME": "mov",
	"MPEG4":     "mp4",
	"MKV":       "matroska",
	"AVI":       "avi",
}

// Options describe the output stream.
type Options struct {
	Width, Height int
	FPS           float64
	Codec         string // backend codec name, e.g. "H264"
	Container     string // backend container name, e.g. "QUICKTIME"
}

// Stream builds the ffmpeg graph reading raw frames from in and writing
// path.
func (o Options) Stream(path string, in io.Reader) (*ffmpeggo.Stream, error) {
	codec, ok := codecs[strings.ToUpper(o.Codec)]
	if !ok {
		return nil, fmt.Errorf("%w: codec %q", ErrUnsupported, o.Codec)
	}
	format, ok := containers[strings.ToUpper(o.Container)]
	if !ok {
		return nil, fmt.Errorf("%w: container %q", ErrUnsupported, o.Container)
	}
	output := ffmpeggo.KwArgs{"c:v": codec, "format": format, "loglevel": "error"}
	if codec == "libx264" {
		// yuv420p requires even dimensions.
		output["pix_fmt"] = "yuv420p"
		output["vf"] = "pad=ceil(iw/2)*2:ceil(ih/2)*2"
	}
	st := ffmpeggo.Input("pipe:", ffmpeggo.KwArgs{
		"format":     "rawvideo",
		"pix_fmt":    "rgba",
		"video_size": fmt.Sprintf("%dx%d", o.Width, o.Height),
		"framerate":  strconv.FormatFloat(o.FPS, 'f', -1, 64),
	}).Output(path, output).OverWriteOutput()
	if in != nil {
		st = st.WithInput(in)
	}
	return st, nil
}

// Args returns the ffmpeg argument list for writing to path.
func (o Options) Args(path string) ([]string, error) {
	st, err := o.Stream(path, nil)
	if err != nil {
		return nil, err
	}
	return st.GetArgs(), nil
}

// Writer streams frames into a running ffmpeg process.
type Writer struct {
	pipe   *io.PipeWriter
	done   chan error
	stderr *strings.Builder
	opts   Options
	buf    []byte
}

// Start launches binary (usually "ffmpeg") writing to path. A missing binary
// surfaces as the exec lookup error.
func Start(binary, path string, opts Options) (*Writer, error) {
	bin, err := exec.LookPath(binary)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	st, err := opts.Stream(path, pr)
	if err != nil {
		return nil, err
	}
	stderr := new(strings.Builder)
	cmd := st.SetFfmpegPath(bin).WithErrorOutput(stderr).Silent(true).Compile()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		// Unblocks WriteFrame when ffmpeg exits early.
		pr.CloseWithError(io.ErrClosedPipe)
		done <- err
	}()
	return &Writer{
		pipe:   pw,
		done:   done,
		stderr: stderr,
		opts:   opts,
		buf:    make([]byte, 4*opts.Width*opts.Height),
	}, nil
}

// WriteFrame appends one frame. Frames smaller or larger than the stream
// size are cropped or padded with transparent black.
func (w *Writer) WriteFrame(img image.Image) error {
	clear(w.buf)
	b := img.Bounds()
	for y := 0; y < w.opts.Height && y < b.Dy(); y++ {
		for x := 0; x < w.opts.Width && x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := 4 * (y*w.opts.Width + x)
			w.buf[i] = uint8(r >> 8)
			w.buf[i+1] = uint8(g >> 8)
			w.buf[i+2] = uint8(bl >> 8)
			w.buf[i+3] = uint8(a >> 8)
		}
	}
	_, err := w.pipe.Write(w.buf)
	return err
}

// Close finishes the stream and waits for ffmpeg to exit.
func (w *Writer) Close() error {
	w.pipe.Close()
	if err := <-w.done; err != nil {
		if s := strings.TrimSpace(w.stderr.String()); s != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, s)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
