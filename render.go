package kubric

import "github.com/go-gl/mathgl/mgl64"

// Renderable is a scene a [Renderer] can render. *Scene implements it.
type Renderable interface {
	FrameRange() (start, end int)
}

// BackgroundOptions choose the world background. At least one of HDRIPath
// and Color must be set. With both, the HDRI lights the scene and the color
// is what the camera sees.
type BackgroundOptions struct {
	HDRIPath     string
	Color        *Color
	HDRIRotation mgl64.Vec3 // Euler XYZ in radians
}

// ImportOptions control [Renderer]-side asset import. Axes name the file's
// forward and up directions ("X", "-Y", ...).
type ImportOptions struct {
	AxisForward string
	AxisUp      string
	Name        string
}

// DefaultImportOptions returns forward Y, up Z.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{AxisForward: "Y", AxisUp: "Z"}
}

// RenderConfig holds the optional parameters of [Renderer.Render].
type RenderConfig struct {
	// OnRenderWrite receives the path of every image-sequence frame right
	// after it is written.
	OnRenderWrite func(path string)
}

// RenderOption configures a render.
type RenderOption func(*RenderConfig)

// WithOnRenderWrite sets [RenderConfig.OnRenderWrite].
func WithOnRenderWrite(fn func(path string)) RenderOption {
	return func(c *RenderConfig) { c.OnRenderWrite = fn }
}

// NewRenderConfig applies opts to an empty config.
func NewRenderConfig(opts ...RenderOption) RenderConfig {
	var c RenderConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Renderer turns a scene into files.
//
// Render dispatches on the path suffix:
//   - ".blend" writes a project file with the viewport in camera view
//   - ".mov" renders the frame range into a QuickTime movie; transparent
//     backgrounds are refused with ErrPrecondition
//   - ".png" renders the current frame as one still
//   - anything else renders the frame range as a numbered image sequence
type Renderer interface {
	SetSize(width, height int) error
	SetBackgroundTransparent(transparent bool)
	SetClearColor(c Color) error
	SetUpBackground(opts BackgroundOptions) error
	SetUpEXROutput(path string) error
	DefaultCameraView()
	ClearScene() error
	Render(scene Renderable, camera Camera, path string, opts ...RenderOption) error
}
