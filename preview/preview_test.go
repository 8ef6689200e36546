package preview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric/native"
)

func newScene(t *testing.T) (*native.Context, *native.Object) {
	t.Helper()
	c := native.New()
	c.SelectAll()
	c.DeleteSelected()
	c.Scene.Render.ResolutionX, c.Scene.Render.ResolutionY = 64, 64

	cube := c.PrimitiveCubeAdd(2)
	cam, err := c.ObjectAdd(native.ObjectCamera)
	if err != nil {
		t.Fatal(err)
	}
	cam.Location = mgl64.Vec3{0, 0, 10}
	c.Scene.Camera = cam
	return c, cube
}

// --- Project ---

func TestProjectCube(t *testing.T) {
	c, _ := newScene(t)
	tris := Project(c.Scene, 64, 64)
	if len(tris) != 12 {
		t.Fatalf("triangles = %d, want 12", len(tris))
	}
	for i := 1; i < len(tris); i++ {
		if tris[i].Depth > tris[i-1].Depth {
			t.Fatalf("triangle %d (depth %v) is farther than %d (depth %v)", i, tris[i].Depth, i-1, tris[i-1].Depth)
		}
	}
	front := tris[len(tris)-1]
	if math.Abs(front.Depth-9) > 1e-9 {
		t.Errorf("nearest depth = %v, want 9", front.Depth)
	}
	for _, p := range front.Points {
		if p[0] < 0 || p[0] > 64 || p[1] < 0 || p[1] > 64 {
			t.Errorf("front face corner %v is off screen", p)
		}
	}
}

func TestProjectDropsFacesBehindCamera(t *testing.T) {
	c, cube := newScene(t)
	cube.Location = mgl64.Vec3{0, 0, 20}
	if tris := Project(c.Scene, 64, 64); len(tris) != 0 {
		t.Errorf("triangles = %d, want 0", len(tris))
	}
}

func TestProjectWithoutCamera(t *testing.T) {
	c, _ := newScene(t)
	c.Scene.Camera = nil
	if tris := Project(c.Scene, 64, 64); tris != nil {
		t.Errorf("got %d triangles without a camera", len(tris))
	}
}

func TestProjectSkipsShadowCatchers(t *testing.T) {
	c, cube := newScene(t)
	cube.Cycles.IsShadowCatcher = true
	if tris := Project(c.Scene, 64, 64); len(tris) != 0 {
		t.Errorf("triangles = %d, want 0", len(tris))
	}
}

func TestShadeWithSun(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	if got := shade(up, nil); got != 1 {
		t.Errorf("unlit shade = %v, want 1", got)
	}
	down := []mgl64.Vec3{{0, 0, -1}}
	if got := shade(up, down); math.Abs(got-1) > 1e-12 {
		t.Errorf("facing shade = %v, want 1", got)
	}
	if got := shade(mgl64.Vec3{1, 0, 0}, down); got != ambient {
		t.Errorf("grazing shade = %v, want %v", got, ambient)
	}
}

func TestVertices(t *testing.T) {
	tris := []Triangle{
		{Points: [3]mgl64.Vec2{{0, 0}, {1, 0}, {0, 1}}, Color: mgl64.Vec3{1, 0, 0}},
		{Points: [3]mgl64.Vec2{{2, 2}, {3, 2}, {2, 3}}, Color: mgl64.Vec3{0, 0, 0}},
	}
	verts, idx := vertices(tris, nil, nil)
	if len(verts) != 6 || len(idx) != 6 {
		t.Fatalf("got %d vertices and %d indices, want 6 and 6", len(verts), len(idx))
	}
	if verts[0].ColorR != 1 || verts[0].ColorG != 0 {
		t.Errorf("first vertex color = %v,%v", verts[0].ColorR, verts[0].ColorG)
	}
	if verts[4].DstX != 3 || idx[5] != 5 {
		t.Errorf("second triangle not appended in order")
	}

	verts, idx = vertices(tris[:1], verts, idx)
	if len(verts) != 3 || len(idx) != 3 {
		t.Errorf("buffers not reset: %d vertices, %d indices", len(verts), len(idx))
	}
}

// --- playback ---

func TestStepWraps(t *testing.T) {
	c, _ := newScene(t)
	c.Scene.FrameStart, c.Scene.FrameEnd = 1, 4
	v := New(c)
	if v.Frame() != 1 {
		t.Fatalf("start frame = %d, want 1", v.Frame())
	}
	v.Step(-1)
	if v.Frame() != 4 {
		t.Errorf("after stepping back = %d, want 4", v.Frame())
	}
	v.Step(2)
	if v.Frame() != 2 {
		t.Errorf("after stepping forward = %d, want 2", v.Frame())
	}
	if c.Scene.FrameCurrent != 2 {
		t.Errorf("scene frame = %d, want 2", c.Scene.FrameCurrent)
	}
}

func TestAdvanceFollowsFrameRate(t *testing.T) {
	c, cube := newScene(t)
	c.Scene.FrameStart, c.Scene.FrameEnd = 1, 100
	c.Scene.Render.FPS, c.Scene.Render.FPSBase = 24, 1
	c.Preferences.KeyframeInterpolation = native.InterpolationLinear
	cube.Location = mgl64.Vec3{0, 0, 0}
	if err := cube.KeyframeInsert(native.PathLocation, 1); err != nil {
		t.Fatal(err)
	}
	cube.Location = mgl64.Vec3{24, 0, 0}
	if err := cube.KeyframeInsert(native.PathLocation, 25); err != nil {
		t.Fatal(err)
	}

	v := New(c)
	v.Advance(1)
	if v.Frame() != 1 {
		t.Fatalf("paused viewer advanced to %d", v.Frame())
	}
	v.TogglePlay()
	v.Advance(0.5)
	if v.Frame() != 13 {
		t.Errorf("frame after 0.5s = %d, want 13", v.Frame())
	}
	if math.Abs(cube.Location[0]-12) > 1e-9 {
		t.Errorf("cube x = %v, want 12", cube.Location[0])
	}
}

// --- screenshots ---

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unlabeled"},
		{"  ", "unlabeled"},
		{"frame 12", "frame_12"},
		{"a/b.png", "a_b.png"},
		{"ok-Name.1", "ok-Name.1"},
		{"héllo", "h_llo"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	got := img.Pix
	want := []byte{127, 63, 0, 128, 10, 20, 30, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", got, want)
		}
	}
}

// --- scripts ---

func TestLoadScriptErrors(t *testing.T) {
	for _, body := range []string{`{`, `{"steps": []}`, `{"steps": [{"action": "jump"}]}`} {
		if _, err := LoadScript([]byte(body)); err == nil {
			t.Errorf("LoadScript(%s) succeeded", body)
		}
	}
}

func TestScriptDrivesViewer(t *testing.T) {
	c, _ := newScene(t)
	c.Scene.FrameStart, c.Scene.FrameEnd = 1, 50
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "seek", "frame": 10},
		{"action": "step", "frames": 2},
		{"action": "screenshot", "label": "f12"},
		{"action": "play"},
		{"action": "wait", "frames": 3},
		{"action": "pause"},
		{"action": "quit"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	v := New(c)
	v.SetScript(s)

	ticks := 0
	var last error
	for !s.Done() && ticks < 20 {
		last = s.tick(v)
		ticks++
		if ticks == 3 {
			if v.Frame() != 12 || len(v.shots) != 1 || v.shots[0] != "f12" {
				t.Fatalf("after three ticks: frame %d, shots %v", v.Frame(), v.shots)
			}
			if !v.runUnattended() {
				t.Error("keyboard is live while the script runs")
			}
		}
	}
	if last != ErrQuit {
		t.Errorf("last tick = %v, want ErrQuit", last)
	}
	if v.Playing() {
		t.Error("still playing after pause")
	}
	// seek, step, screenshot, play, wait + 2 waiting ticks, pause, quit
	if ticks != 9 {
		t.Errorf("ticks = %d, want 9", ticks)
	}
	if v.runUnattended() {
		t.Error("finished script still blocks input")
	}
}

func TestStatus(t *testing.T) {
	c, _ := newScene(t)
	c.Scene.FrameStart, c.Scene.FrameEnd = 1, 8
	v := New(c)
	if got, want := status(v, 60), "frame 1/8 paused\nFPS: 60.0"; got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
	v.TogglePlay()
	if got := status(v, 30); got != "frame 1/8 playing\nFPS: 30.0" {
		t.Errorf("status = %q", got)
	}
}
