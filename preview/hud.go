package preview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hud is the status overlay in the top-left corner. It is redrawn every
// ~0.5 seconds or when the frame changes.
type hud struct {
	img       *ebiten.Image
	sinceDraw float64
	frame     int
	drawn     bool
}

func (h *hud) update(dt float64, v *Viewer) {
	h.sinceDraw += dt
	if h.drawn && h.frame == v.frame && h.sinceDraw < 0.5 {
		return
	}
	h.sinceDraw = 0
	h.frame = v.frame
	h.drawn = true

	if h.img == nil {
		// "frame 0000/0000 playing" and the FPS line fit in 160x32.
		h.img = ebiten.NewImage(160, 32)
	}
	h.img.Clear()
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, status(v, ebiten.ActualFPS()))
}

func (h *hud) draw(screen *ebiten.Image) {
	if h.img != nil {
		screen.DrawImage(h.img, nil)
	}
}

// status is the overlay text.
func status(v *Viewer, fps float64) string {
	s := v.ctx.Scene
	state := "paused"
	if v.playing {
		state = "playing"
	}
	return fmt.Sprintf("frame %d/%d %s\nFPS: %.1f", v.frame, s.FrameEnd, state, fps)
}
