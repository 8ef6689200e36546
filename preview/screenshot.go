package preview

import (
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/kubric/native"
)

// Screenshot queues a labeled screenshot of the next drawn frame. The PNG
// is written to ScreenshotDir with a timestamped name.
func (v *Viewer) Screenshot(label string) {
	v.shots = append(v.shots, label)
}

// flushScreenshots writes the drawn frame once per queued label.
func (v *Viewer) flushScreenshots(screen *ebiten.Image) {
	if len(v.shots) == 0 {
		return
	}
	defer func() { v.shots = v.shots[:0] }()

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range v.shots {
		path := filepath.Join(v.ScreenshotDir, fmt.Sprintf("%s_f%04d_%s.png", stamp, v.frame, sanitizeLabel(label)))
		if err := native.WritePNG(path, img); err != nil {
			v.log.Error("screenshot", "err", err)
			continue
		}
		v.log.Info("screenshot written", "path", path)
	}
}

// unpremultiply converts the premultiplied RGBA pixels ebiten reads back to
// straight alpha.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	src := &image.RGBA{Pix: pixels, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	img := image.NewNRGBA(src.Rect)
	draw.Draw(img, img.Rect, src, image.Point{}, draw.Src)
	return img
}

// sanitizeLabel maps a label onto a file name fragment: ASCII letters,
// digits, '-' and '.' are kept and every other rune becomes '_'.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.') {
			return r
		}
		return '_'
	}, label)
}
