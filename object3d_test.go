package kubric

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type push struct {
	prop  Property
	value any
}

// recorder is a Binding that remembers every push and keyframe.
type recorder struct {
	pushes    []push
	keyframes map[Property][]int
	fail      error
}

func (r *recorder) Push(p Property, v any) error {
	if r.fail != nil {
		return r.fail
	}
	r.pushes = append(r.pushes, push{p, v})
	return nil
}

func (r *recorder) Keyframe(p Property, frame int) error {
	if r.keyframes == nil {
		r.keyframes = map[Property][]int{}
	}
	r.keyframes[p] = append(r.keyframes[p], frame)
	return nil
}

func (r *recorder) last(p Property) any {
	for i := len(r.pushes) - 1; i >= 0; i-- {
		if r.pushes[i].prop == p {
			return r.pushes[i].value
		}
	}
	return nil
}

// --- construction ---

func TestNewObject3DPushesDefaults(t *testing.T) {
	r := &recorder{}
	o, err := NewObject3D("obj", r)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.pushes) != 3 {
		t.Fatalf("pushes = %d, want 3", len(r.pushes))
	}
	if got := r.last(PropPosition); got != (mgl64.Vec3{}) {
		t.Errorf("position push = %v", got)
	}
	if got := r.last(PropScale); got != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("scale push = %v", got)
	}
	if got := r.last(PropQuaternion); got != mgl64.QuatIdent() {
		t.Errorf("quaternion push = %v", got)
	}
	if o.Object() != o {
		t.Error("Object() is not the receiver")
	}
}

func TestNilBindingIsUnbound(t *testing.T) {
	o, err := NewObject3D("free", nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.Binding() != Unbound {
		t.Errorf("Binding() = %v, want Unbound", o.Binding())
	}
	if err := o.SetPosition(mgl64.Vec3{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := o.KeyframeInsert("position", 1); err != nil {
		t.Fatal(err)
	}
}

func TestNewObject3DBindingFailure(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewObject3D("x", &recorder{fail: boom}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

// --- setters ---

func TestSetPositionRoundTrip(t *testing.T) {
	r := &recorder{}
	o, _ := NewObject3D("obj", r)
	p := mgl64.Vec3{1, 2, 3}
	if err := o.SetPosition(p); err != nil {
		t.Fatal(err)
	}
	if o.Position() != p {
		t.Errorf("Position() = %v, want %v", o.Position(), p)
	}
	if r.last(PropPosition) != p {
		t.Errorf("pushed %v, want %v", r.last(PropPosition), p)
	}
}

func TestSetterRejectsWithoutStoringOrPushing(t *testing.T) {
	r := &recorder{}
	o, _ := NewObject3D("obj", r)
	n := len(r.pushes)

	if err := o.SetPosition(mgl64.Vec3{math.NaN(), 0, 0}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NaN position err = %v", err)
	}
	if err := o.SetScale(mgl64.Vec3{1, 1, 0}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("zero scale err = %v", err)
	}
	if err := o.SetQuaternion(mgl64.Quat{}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("zero quaternion err = %v", err)
	}
	if len(r.pushes) != n {
		t.Errorf("rejected writes pushed %d values", len(r.pushes)-n)
	}
	if o.Position() != (mgl64.Vec3{}) || o.Scale() != (mgl64.Vec3{1, 1, 1}) || o.Quaternion() != mgl64.QuatIdent() {
		t.Error("rejected writes changed stored state")
	}
}

func TestSetQuaternionNormalizes(t *testing.T) {
	r := &recorder{}
	o, _ := NewObject3D("obj", r)
	if err := o.SetQuaternion(mgl64.Quat{W: 0, V: mgl64.Vec3{0, 0, 3}}); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "len", o.Quaternion().Len(), 1)
	if r.last(PropQuaternion) != o.Quaternion() {
		t.Errorf("pushed %v, stored %v", r.last(PropQuaternion), o.Quaternion())
	}
}

// --- LookAt ---

func TestLookAtOwnPositionKeepsQuaternion(t *testing.T) {
	o, _ := NewObject3D("obj", nil)
	_ = o.SetPosition(mgl64.Vec3{1, 2, 3})
	q := mgl64.QuatRotate(0.5, mgl64.Vec3{0, 0, 1})
	_ = o.SetQuaternion(q)
	before := o.Quaternion()

	if err := o.LookAt(1, 2, 3); err != nil {
		t.Fatal(err)
	}
	if o.Quaternion() != before {
		t.Errorf("quaternion changed: %v -> %v", before, o.Quaternion())
	}
}

func TestLookAtPushesQuaternion(t *testing.T) {
	r := &recorder{}
	o, _ := NewObject3D("cam", r)
	_ = o.SetPosition(mgl64.Vec3{0, -10, 0})
	if err := o.LookAt(0, 0, 0); err != nil {
		t.Fatal(err)
	}
	assertVec(t, "-Z", o.Quaternion().Rotate(mgl64.Vec3{0, 0, -1}), mgl64.Vec3{0, 1, 0})
	if r.last(PropQuaternion) != o.Quaternion() {
		t.Error("LookAt did not push the stored quaternion")
	}
}

// --- KeyframeInsert ---

func TestKeyframeInsertMembers(t *testing.T) {
	r := &recorder{}
	o, _ := NewObject3D("obj", r)
	for _, m := range []string{"position", "quaternion", "scale"} {
		if err := o.KeyframeInsert(m, 5); err != nil {
			t.Errorf("KeyframeInsert(%q): %v", m, err)
		}
	}
	if got := r.keyframes[PropPosition]; len(got) != 1 || got[0] != 5 {
		t.Errorf("position keyframes = %v", got)
	}
}

func TestKeyframeInsertUnknownMember(t *testing.T) {
	r := &recorder{}
	o, _ := NewObject3D("obj", r)
	if err := o.KeyframeInsert("position", 5); err != nil {
		t.Fatal(err)
	}
	err := o.KeyframeInsert("bogus", 5)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("err = %v, want ErrPrecondition", err)
	}
	if len(r.keyframes) != 1 || len(r.keyframes[PropPosition]) != 1 {
		t.Errorf("keyframes = %v, want only the position key", r.keyframes)
	}
}
