package native

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImageSettings selects the format of rendered output files. FileFormat is
// "PNG" or "FFMPEG".
type ImageSettings struct {
	FileFormat string `yaml:"file_format"`
	ColorMode  string `yaml:"color_mode"`
}

// FFmpegSettings configure movie output when ImageSettings.FileFormat is
// "FFMPEG".
type FFmpegSettings struct {
	Format string `yaml:"format"`
	Codec  string `yaml:"codec"`
}

// RenderSettings are the scene's output settings.
type RenderSettings struct {
	Engine               string         `yaml:"engine"`
	ResolutionX          int            `yaml:"resolution_x"`
	ResolutionY          int            `yaml:"resolution_y"`
	ResolutionPercentage int            `yaml:"resolution_percentage"`
	FPS                  int            `yaml:"fps"`
	FPSBase              float64        `yaml:"fps_base"`
	FilmTransparent      bool           `yaml:"film_transparent"`
	Filepath             string         `yaml:"filepath"`
	UseFileExtension     bool           `yaml:"use_file_extension"`
	ImageSettings        ImageSettings  `yaml:"image_settings"`
	FFmpeg               FFmpegSettings `yaml:"ffmpeg"`
}

func defaultRenderSettings() RenderSettings {
	return RenderSettings{
		Engine:               "raster",
		ResolutionX:          1920,
		ResolutionY:          1080,
		ResolutionPercentage: 100,
		FPS:                  24,
		FPSBase:              1,
		Filepath:             "/tmp/",
		UseFileExtension:     true,
		ImageSettings:        ImageSettings{FileFormat: "PNG", ColorMode: "RGBA"},
		FFmpeg:               FFmpegSettings{Format: "MPEG4", Codec: "H264"},
	}
}

// Size returns the output resolution after the percentage scale.
func (r *RenderSettings) Size() (width, height int) {
	pct := r.ResolutionPercentage
	if pct <= 0 {
		pct = 100
	}
	return max(1, r.ResolutionX*pct/100), max(1, r.ResolutionY*pct/100)
}

// FrameRate returns frames per second.
func (r *RenderSettings) FrameRate() float64 {
	if r.FPSBase == 0 {
		return float64(r.FPS)
	}
	return float64(r.FPS) / r.FPSBase
}

// FramePath returns the output file for frame in an image sequence. A run
// of '#' in Filepath is replaced by the zero-padded frame number; otherwise
// four digits are appended. The format extension is added when
// UseFileExtension is set and the path lacks it.
func (r *RenderSettings) FramePath(frame int) string {
	return r.withExtension(substituteFrame(r.Filepath, frame))
}

// StillPath returns the output file of a single still render.
func (r *RenderSettings) StillPath() string {
	return r.withExtension(r.Filepath)
}

func (r *RenderSettings) withExtension(path string) string {
	ext := r.extension()
	if !r.UseFileExtension || ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

func (r *RenderSettings) extension() string {
	switch r.ImageSettings.FileFormat {
	case "PNG":
		return ".png"
	case "FFMPEG":
		switch r.FFmpeg.Format {
		case "QUICKTIME":
			return ".mov"
		case "MKV":
			return ".mkv"
		case "AVI":
			return ".avi"
		}
		return ".mp4"
	}
	return ""
}

func substituteFrame(path string, frame int) string {
	end := strings.LastIndexByte(path, '#')
	if end < 0 {
		return path + pad(frame, 4)
	}
	start := end
	for start > 0 && path[start-1] == '#' {
		start--
	}
	return path[:start] + pad(frame, end-start+1) + path[end+1:]
}

func pad(frame, width int) string {
	return fmt.Sprintf("%0*d", width, frame)
}

// CyclesSettings are path-tracer quality settings.
type CyclesSettings struct {
	Samples      int     `yaml:"samples"`
	MaxBounces   int     `yaml:"max_bounces"`
	FilmExposure float64 `yaml:"film_exposure"`
	Device       string  `yaml:"device"`
}

// ViewLayer selects the render passes produced per frame.
type ViewLayer struct {
	Name                string `yaml:"name"`
	UsePassCombined     bool   `yaml:"use_pass_combined"`
	UsePassZ            bool   `yaml:"use_pass_z"`
	UsePassVector       bool   `yaml:"use_pass_vector"`
	UsePassUV           bool   `yaml:"use_pass_uv"`
	UsePassNormal       bool   `yaml:"use_pass_normal"`
	UsePassCryptoObject bool   `yaml:"use_pass_crypto_object"`
	PassCryptoDepth     int    `yaml:"pass_crypto_depth"`
	UseDenoising        bool   `yaml:"use_denoising"`
}

// Device is a compute device an engine can render on.
type Device struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "CPU", "CUDA", "OPTIX", ...
	Use  bool   `yaml:"use"`
}

// Preferences are application-wide settings.
type Preferences struct {
	ComputeDeviceType     string        `yaml:"compute_device_type"`
	Devices               []Device      `yaml:"devices"`
	KeyframeInterpolation Interpolation `yaml:"keyframe_interpolation"`
}

// Screen is the interactive viewport state persisted in project files.
type Screen struct {
	ViewPerspective string `yaml:"view_perspective"` // "PERSP" or "CAMERA"
}
