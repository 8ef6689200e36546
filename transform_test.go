package kubric

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- component order ---

func TestQuatXYZWRoundTrip(t *testing.T) {
	in := [4]float64{0.1, -0.2, 0.3, 0.9}
	q := QuatFromXYZW(in)
	assertNear(t, "W", q.W, 0.9)
	assertNear(t, "X", q.V[0], 0.1)
	if got := XYZW(q); got != in {
		t.Errorf("XYZW = %v, want %v", got, in)
	}
	if got := WXYZ(q); got != [4]float64{0.9, 0.1, -0.2, 0.3} {
		t.Errorf("WXYZ = %v", got)
	}
	if got := QuatFromWXYZ(WXYZ(q)); got != q {
		t.Errorf("QuatFromWXYZ(WXYZ(q)) = %v, want %v", got, q)
	}
}

// --- validation ---

func TestNormalizeQuat(t *testing.T) {
	q, err := normalizeQuat(mgl64.Quat{W: 2})
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "W", q.W, 1)

	for _, bad := range []mgl64.Quat{
		{},
		{W: math.NaN()},
		{W: 1, V: mgl64.Vec3{math.Inf(1), 0, 0}},
	} {
		if _, err := normalizeQuat(bad); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("normalizeQuat(%v) err = %v, want ErrInvalidValue", bad, err)
		}
	}
}

func TestCheckScale(t *testing.T) {
	if err := checkScale(mgl64.Vec3{1, -2, 0.5}); err != nil {
		t.Errorf("negative scale rejected: %v", err)
	}
	if err := checkScale(mgl64.Vec3{1, 0, 1}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("zero scale err = %v", err)
	}
}

// --- lookRotation ---

func TestLookRotationForward(t *testing.T) {
	q, ok := lookRotation(mgl64.Vec3{}, mgl64.Vec3{0, 5, 0})
	if !ok {
		t.Fatal("not ok")
	}
	assertVec(t, "-Z", q.Rotate(mgl64.Vec3{0, 0, -1}), mgl64.Vec3{0, 1, 0})
	assertVec(t, "+Y", q.Rotate(mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 0, 1})
	assertVec(t, "+X", q.Rotate(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{1, 0, 0})
	assertNear(t, "len", q.Len(), 1)
}

func TestLookRotationStraightDown(t *testing.T) {
	q, ok := lookRotation(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	if !ok {
		t.Fatal("not ok")
	}
	assertVec(t, "-Z", q.Rotate(mgl64.Vec3{0, 0, -1}), mgl64.Vec3{0, 0, -1})
	assertVec(t, "+Y", q.Rotate(mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 1, 0})
}

func TestLookRotationDiagonal(t *testing.T) {
	eye := mgl64.Vec3{7.5, -6.5, 4.5}
	q, _ := lookRotation(eye, mgl64.Vec3{})
	want := eye.Mul(-1).Normalize()
	assertVec(t, "-Z", q.Rotate(mgl64.Vec3{0, 0, -1}), want)
	// local X stays horizontal
	assertNear(t, "X.z", q.Rotate(mgl64.Vec3{1, 0, 0})[2], 0)
	if up := q.Rotate(mgl64.Vec3{0, 1, 0}); up[2] <= 0 {
		t.Errorf("local +Y = %v, want positive Z", up)
	}
}

func TestLookRotationDegenerate(t *testing.T) {
	p := mgl64.Vec3{1, 2, 3}
	if _, ok := lookRotation(p, p); ok {
		t.Error("coincident eye and target reported ok")
	}
}
