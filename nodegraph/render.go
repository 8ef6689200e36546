package nodegraph

import (
	"fmt"
	"strings"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// Render renders scene through camera to path. See [kubric.Renderer] for
// how the suffix of path selects the output. The scene's frame range and
// objects are already mirrored in the native context; scene is not read
// beyond that.
func (r *Renderer) Render(scene kubric.Renderable, camera kubric.Camera, path string, opts ...kubric.RenderOption) error {
	cfg := kubric.NewRenderConfig(opts...)
	cam, ok := camera.(Native)
	if !ok {
		return fmt.Errorf("%w: camera %T has no native object", kubric.ErrPrecondition, camera)
	}
	s := r.ctx.Scene

	if ortho, ok := camera.Orthographic(); ok {
		y := int(float64(s.Render.ResolutionX) / ortho.Aspect())
		if y != s.Render.ResolutionY {
			r.log.Warn("adjusted film resolution to the orthographic camera aspect",
				"resolution_y", y, "was", s.Render.ResolutionY)
			s.Render.ResolutionY = y
		}
	}

	s.Camera = cam.Native()
	if !strings.HasSuffix(path, ".blend") {
		s.Render.Filepath = path
	}
	start, end := scene.FrameRange()

	switch {
	case strings.HasSuffix(path, ".blend"):
		r.DefaultCameraView()
		r.log.Info("saving project file", "path", path)
		return r.ctx.SaveMainfile(path)

	case strings.HasSuffix(path, ".mov"):
		if s.Render.FilmTransparent {
			return fmt.Errorf("%w: movies cannot have a transparent background", kubric.ErrPrecondition)
		}
		s.Render.ImageSettings.FileFormat = "FFMPEG"
		s.Render.ImageSettings.ColorMode = "RGB"
		s.Render.FFmpeg.Format = "QUICKTIME"
		s.Render.FFmpeg.Codec = "H264"
		r.log.Info("rendering movie", "path", path, "start", start, "end", end)
		return r.ctx.Render(native.RenderOptions{WriteStill: true, Animation: true})

	case strings.HasSuffix(path, ".png"):
		s.Render.ImageSettings.FileFormat = "PNG"
		r.log.Info("rendering still", "path", path, "frame", s.FrameCurrent)
		return r.ctx.Render(native.RenderOptions{WriteStill: true})

	default:
		s.Render.ImageSettings.FileFormat = "PNG"
		if cb := cfg.OnRenderWrite; cb != nil {
			saved := r.ctx.Handlers.RenderWrite
			r.ctx.Handlers.RenderWrite = append(saved[:len(saved):len(saved)], func(written *native.Scene) {
				cb(written.Render.FramePath(written.FrameCurrent))
			})
			defer func() { r.ctx.Handlers.RenderWrite = saved }()
		}
		r.log.Info("rendering image sequence", "path", path, "start", start, "end", end)
		return r.ctx.Render(native.RenderOptions{WriteStill: true, Animation: true})
	}
}
