// Package config loads dataset render settings from TOML.
//
// A file only needs the keys it changes; everything else keeps the value
// [Default] gives it:
//
//	log_level = "DEBUG"
//
//	[render]
//	samples = 16
//	resolution = 256
//
//	[scene]
//	frame_end = 24
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/nodegraph"
	"github.com/phanxgames/kubric/raster"
)

// Config is one render run.
type Config struct {
	LogLevel string `toml:"log_level"`
	Render   Render `toml:"render"`
	Scene    Scene  `toml:"scene"`
	Output   Output `toml:"output"`
}

// Render holds engine and quality settings.
type Render struct {
	Engine        string  `toml:"engine"`
	Samples       int     `toml:"samples"`
	MaxBounces    int     `toml:"max_bounces"`
	FilmExposure  float64 `toml:"film_exposure"`
	Denoise       bool    `toml:"denoise"`
	DeviceType    string  `toml:"device_type"`
	UseBothCPUGPU bool    `toml:"use_both_cpu_gpu"`
	Resolution    int     `toml:"resolution"`
}

// Scene holds timing. FrameEnd is exclusive for keyframing and inclusive
// for rendering, as the scene range is.
type Scene struct {
	FrameRate  int `toml:"frame_rate"`
	FrameStart int `toml:"frame_start"`
	FrameEnd   int `toml:"frame_end"`
}

// Output says where results go.
type Output struct {
	// Path is the render target; its suffix selects the output kind.
	Path string `toml:"path"`
	// EXR is the base path of per-frame multi-layer EXR files. Empty
	// disables them.
	EXR string `toml:"exr"`
	// Background is the camera-visible background color, "#rrggbb".
	Background string `toml:"background"`
	// Transparent renders the background transparent.
	Transparent bool `toml:"transparent"`
}

// Default returns the settings datasets are rendered with.
func Default() Config {
	return Config{
		LogLevel: "INFO",
		Render: Render{
			Engine:       raster.Name,
			Samples:      128,
			MaxBounces:   6,
			FilmExposure: 1.5,
			Denoise:      true,
			DeviceType:   "CPU",
			Resolution:   512,
		},
		Scene: Scene{
			FrameRate:  24,
			FrameStart: 0,
			FrameEnd:   96,
		},
		Output: Output{
			Path:       "output/frame_",
			EXR:        "output/exr/out",
			Background: "#000000",
		},
	}
}

// Load reads path over [Default] and validates the result. Unknown keys are
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting no run could use.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Render.Engine != raster.Name {
		return fmt.Errorf("%w: engine %q", kubric.ErrInvalidValue, c.Render.Engine)
	}
	if c.Render.Resolution <= 0 {
		return fmt.Errorf("%w: resolution %d", kubric.ErrInvalidValue, c.Render.Resolution)
	}
	if c.Scene.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate %d", kubric.ErrInvalidValue, c.Scene.FrameRate)
	}
	if c.Scene.FrameStart < 0 || c.Scene.FrameEnd < c.Scene.FrameStart {
		return fmt.Errorf("%w: frames %d..%d", kubric.ErrInvalidValue, c.Scene.FrameStart, c.Scene.FrameEnd)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("%w: empty output path", kubric.ErrInvalidValue)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. "WARNING" is accepted for WARN.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	name := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if name == "WARNING" {
		name = "WARN"
	}
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", kubric.ErrInvalidValue, c.LogLevel)
	}
	return l, nil
}

// BackgroundColor parses Output.Background, which may be empty.
func (c Config) BackgroundColor() (*kubric.Color, error) {
	if c.Output.Background == "" {
		return nil, nil
	}
	col, err := kubric.ParseHex(c.Output.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: background %q", kubric.ErrInvalidValue, c.Output.Background)
	}
	return &col, nil
}

// RendererOptions returns the renderer settings. The raster engine is the
// only one built in.
func (c Config) RendererOptions() nodegraph.Options {
	return nodegraph.Options{
		Engine:        raster.New(),
		Samples:       c.Render.Samples,
		MaxBounces:    c.Render.MaxBounces,
		FilmExposure:  c.Render.FilmExposure,
		Denoise:       c.Render.Denoise,
		DeviceType:    c.Render.DeviceType,
		UseBothCPUGPU: c.Render.UseBothCPUGPU,
	}
}
