package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/kubric"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "raster", c.Render.Engine)
	assert.Equal(t, 128, c.Render.Samples)
	assert.Equal(t, 6, c.Render.MaxBounces)
	assert.Equal(t, 1.5, c.Render.FilmExposure)
	assert.Equal(t, 512, c.Render.Resolution)
	assert.Equal(t, 24, c.Scene.FrameRate)
	assert.Equal(t, 96, c.Scene.FrameEnd)
	assert.True(t, c.Render.Denoise)
	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := write(t, `
log_level = "WARNING"

[render]
samples = 16
resolution = 64

[scene]
frame_end = 12

[output]
path = "out/img_"
background = "#ff0000"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, c.Render.Samples)
	assert.Equal(t, 64, c.Render.Resolution)
	assert.Equal(t, 6, c.Render.MaxBounces, "unset keys keep defaults")
	assert.Equal(t, 12, c.Scene.FrameEnd)
	assert.Equal(t, "out/img_", c.Output.Path)

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	bg, err := c.BackgroundColor()
	require.NoError(t, err)
	require.NotNil(t, bg)
	assert.Equal(t, 1.0, bg.R)
	assert.Equal(t, 0.0, bg.G)

	opts := c.RendererOptions()
	assert.Equal(t, 16, opts.Samples)
	assert.Equal(t, "raster", opts.Engine.Name())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[render]\nsamplez = 3\n"},
		{"bad syntax", "[render\n"},
		{"bad engine", "[render]\nengine = \"cycles\"\n"},
		{"bad level", "log_level = \"LOUD\"\n"},
		{"bad resolution", "[render]\nresolution = 0\n"},
		{"reversed frames", "[scene]\nframe_start = 10\nframe_end = 2\n"},
		{"bad background", "[output]\nbackground = \"red\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateWrapsInvalidValue(t *testing.T) {
	c := Default()
	c.Scene.FrameRate = 0
	assert.ErrorIs(t, c.Validate(), kubric.ErrInvalidValue)
}

func TestEmptyBackground(t *testing.T) {
	c := Default()
	c.Output.Background = ""
	bg, err := c.BackgroundColor()
	require.NoError(t, err)
	assert.Nil(t, bg)
}
