package kubric

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuatFromXYZW builds a quaternion from simulator component order
// (x, y, z, w).
func QuatFromXYZW(v [4]float64) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

// QuatFromWXYZ builds a quaternion from backend component order
// (w, x, y, z).
func QuatFromWXYZ(v [4]float64) mgl64.Quat {
	return mgl64.Quat{W: v[0], V: mgl64.Vec3{v[1], v[2], v[3]}}
}

// XYZW returns q in simulator component order.
func XYZW(q mgl64.Quat) [4]float64 {
	return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
}

// WXYZ returns q in backend component order.
func WXYZ(q mgl64.Quat) [4]float64 {
	return [4]float64{q.W, q.V[0], q.V[1], q.V[2]}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

func checkPosition(v mgl64.Vec3) error {
	if !finiteVec(v) {
		return fmt.Errorf("%w: position %v is not finite", ErrInvalidValue, v)
	}
	return nil
}

func checkScale(v mgl64.Vec3) error {
	if !finiteVec(v) || v[0] == 0 || v[1] == 0 || v[2] == 0 {
		return fmt.Errorf("%w: scale %v must be finite and non-zero", ErrInvalidValue, v)
	}
	return nil
}

// normalizeQuat returns q scaled to unit length.
func normalizeQuat(q mgl64.Quat) (mgl64.Quat, error) {
	if !finite(q.W) || !finiteVec(q.V) {
		return mgl64.Quat{}, fmt.Errorf("%w: quaternion %v is not finite", ErrInvalidValue, WXYZ(q))
	}
	l := q.Len()
	if l == 0 {
		return mgl64.Quat{}, fmt.Errorf("%w: zero quaternion", ErrInvalidValue)
	}
	if math.Abs(l-1) <= 1e-12 {
		return q, nil
	}
	return q.Scale(1 / l), nil
}

func checkPositive(what string, v float64) error {
	if !finite(v) || v <= 0 {
		return fmt.Errorf("%w: %s %v must be positive", ErrInvalidValue, what, v)
	}
	return nil
}

func checkNonNegative(what string, v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%w: %s %v must not be negative", ErrInvalidValue, what, v)
	}
	return nil
}

var (
	worldUp  = mgl64.Vec3{0, 0, 1}
	worldAlt = mgl64.Vec3{0, 1, 0}
)

// lookRotation returns the orientation whose local -Z axis points from eye
// to target with local +Y as close to world +Z as possible. ok is false when
// eye and target coincide.
func lookRotation(eye, target mgl64.Vec3) (q mgl64.Quat, ok bool) {
	forward := target.Sub(eye)
	if forward.Len() == 0 {
		return mgl64.QuatIdent(), false
	}
	back := forward.Normalize().Mul(-1)
	up := worldUp
	if math.Abs(back.Dot(up)) > 1-1e-9 {
		up = worldAlt
	}
	right := up.Cross(back).Normalize()
	localUp := back.Cross(right)
	m := mgl64.Mat3FromCols(right, localUp, back)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize(), true
}
