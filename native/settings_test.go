package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramePath(t *testing.T) {
	tests := []struct {
		filepath string
		frame    int
		want     string
	}{
		{"/out/frame_", 7, "/out/frame_0007.png"},
		{"/out/f_###_x", 7, "/out/f_007_x.png"},
		{"/out/f_#", 12, "/out/f_12.png"},
		{"/out/seq", 12345, "/out/seq12345.png"},
	}
	for _, tt := range tests {
		r := defaultRenderSettings()
		r.Filepath = tt.filepath
		assert.Equal(t, tt.want, r.FramePath(tt.frame), tt.filepath)
	}
}

func TestStillPathExtension(t *testing.T) {
	r := defaultRenderSettings()
	r.Filepath = "/out/still.png"
	assert.Equal(t, "/out/still.png", r.StillPath())

	r.Filepath = "/out/movie.mov"
	r.ImageSettings.FileFormat = "FFMPEG"
	r.FFmpeg.Format = "QUICKTIME"
	assert.Equal(t, "/out/movie.mov", r.StillPath())

	r.UseFileExtension = false
	r.Filepath = "/out/raw"
	assert.Equal(t, "/out/raw", r.StillPath())
}

func TestRenderSize(t *testing.T) {
	r := defaultRenderSettings()
	r.ResolutionX, r.ResolutionY, r.ResolutionPercentage = 640, 480, 50
	w, h := r.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	r.FPS, r.FPSBase = 30, 1.001
	assert.InDelta(t, 29.97, r.FrameRate(), 1e-2)
}
