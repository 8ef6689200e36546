// Package preview plays a native scene's animation in an ebiten window.
//
// The preview is a flat-shaded sketch: faces are sorted back
// to front and painted without a depth buffer, lit by the scene's suns. It
// is meant for checking camera framing and motion before a full render.
//
// Controls: space toggles playback, the left and right arrows step one
// frame, S saves a screenshot.
package preview

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
)

// Viewer implements [ebiten.Game] over a native context.
type Viewer struct {
	// ScreenshotDir receives screenshots. Defaults to ".".
	ScreenshotDir string
	// ShowHUD overlays the frame number and draw rate. Screenshots do not
	// include it.
	ShowHUD bool

	ctx     *native.Context
	frame   int
	playing bool
	elapsed float64

	verts []ebiten.Vertex
	idx   []uint16

	shots  []string
	script *Script
	hud    hud
	log    *slog.Logger
}

var _ ebiten.Game = (*Viewer)(nil)

// whitePixel is sampled by every triangle. The preview is single-threaded.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// New returns a paused viewer showing the scene's first frame.
func New(ctx *native.Context) *Viewer {
	v := &Viewer{ScreenshotDir: ".", ctx: ctx, log: kubric.Logger()}
	v.seek(ctx.Scene.FrameStart)
	return v
}

// Frame returns the frame on screen.
func (v *Viewer) Frame() int { return v.frame }

// Playing reports whether playback is running.
func (v *Viewer) Playing() bool { return v.playing }

// TogglePlay starts or pauses playback.
func (v *Viewer) TogglePlay() {
	v.playing = !v.playing
	v.elapsed = 0
}

// Step moves delta frames, wrapping around the scene's frame range.
func (v *Viewer) Step(delta int) {
	s := v.ctx.Scene
	n := s.FrameEnd - s.FrameStart + 1
	if n <= 0 {
		v.seek(s.FrameStart)
		return
	}
	off := ((v.frame-s.FrameStart+delta)%n + n) % n
	v.seek(s.FrameStart + off)
}

// Advance moves playback forward by dt seconds at the scene frame rate.
func (v *Viewer) Advance(dt float64) {
	if !v.playing {
		return
	}
	fps := v.ctx.Scene.Render.FrameRate()
	if fps <= 0 {
		return
	}
	v.elapsed += dt
	frames := int(v.elapsed * fps)
	if frames > 0 {
		v.elapsed -= float64(frames) / fps
		v.Step(frames)
	}
}

func (v *Viewer) seek(frame int) {
	v.frame = frame
	v.ctx.FrameSet(frame)
}

// Update implements [ebiten.Game].
func (v *Viewer) Update() error {
	if v.script != nil {
		if err := v.script.tick(v); err != nil {
			return quitOrNil(err)
		}
	}
	if !v.runUnattended() {
		v.handleKeys()
	}
	dt := 1 / float64(ebiten.TPS())
	v.Advance(dt)
	if v.ShowHUD {
		v.hud.update(dt, v)
	}
	return nil
}

func (v *Viewer) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.TogglePlay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.Step(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.Step(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.Screenshot("preview")
	}
}

// Draw implements [ebiten.Game].
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff})
	b := screen.Bounds()
	tris := Project(v.ctx.Scene, b.Dx(), b.Dy())
	v.verts, v.idx = vertices(tris, v.verts, v.idx)
	if len(v.idx) > 0 {
		screen.DrawTriangles(v.verts, v.idx, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
	}
	v.flushScreenshots(screen)
	if v.ShowHUD {
		v.hud.draw(screen)
	}
}

// Layout implements [ebiten.Game] with the scene's output resolution.
func (v *Viewer) Layout(int, int) (int, int) {
	return v.ctx.Scene.Render.Size()
}

// Run opens a window titled title and blocks until it is closed.
func (v *Viewer) Run(title string) error {
	w, h := v.ctx.Scene.Render.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(fmt.Sprintf("%s [%d-%d]", title, v.ctx.Scene.FrameStart, v.ctx.Scene.FrameEnd))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}
