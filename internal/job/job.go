// Package job reads simulation records: the assets of one scene and the
// per-frame poses a physics run produced for them.
//
// Rotations are XYZW quaternions, as the simulator writes them.
package job

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric"
)

// Asset is a mesh file placed in the scene.
type Asset struct {
	UID      string     `json:"uid"`
	Path     string     `json:"path"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // XYZW
}

// Animation holds one pose per simulated frame.
type Animation struct {
	Position   [][3]float64 `json:"position"`
	OrientQuat [][4]float64 `json:"orient_quat"` // XYZW
}

// Object is a dynamic asset and its simulated motion.
type Object struct {
	Asset
	Animation Animation `json:"animation"`
}

// Job is one simulated scene.
type Job struct {
	Floor   Asset    `json:"floor"`
	Objects []Object `json:"objects"`
}

// Load parses the job at path. Relative asset paths are resolved against
// the job file's directory.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	j.Floor.Path = resolve(dir, j.Floor.Path)
	for i := range j.Objects {
		j.Objects[i].Path = resolve(dir, j.Objects[i].Path)
	}
	return &j, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks that every asset has a mesh and a usable rotation, that
// uids are unique, and that every object has poses for frames
// [0, frameEnd).
func (j *Job) Validate(frameEnd int) error {
	if err := j.Floor.validate("floor"); err != nil {
		return err
	}
	seen := map[string]bool{}
	for i, o := range j.Objects {
		what := fmt.Sprintf("object %d", i)
		if err := o.validate(what); err != nil {
			return err
		}
		if o.UID == "" {
			return fmt.Errorf("%w: %s has no uid", kubric.ErrPrecondition, what)
		}
		if seen[o.UID] {
			return fmt.Errorf("%w: duplicate uid %q", kubric.ErrPrecondition, o.UID)
		}
		seen[o.UID] = true
		a := o.Animation
		if len(a.Position) < frameEnd || len(a.OrientQuat) < frameEnd {
			return fmt.Errorf("%w: %s (%s) has %d positions and %d rotations, want %d",
				kubric.ErrPrecondition, what, o.UID, len(a.Position), len(a.OrientQuat), frameEnd)
		}
		for f := 0; f < frameEnd; f++ {
			if !unitish(a.OrientQuat[f]) {
				return fmt.Errorf("%w: %s (%s) frame %d rotation %v", kubric.ErrInvalidValue, what, o.UID, f, a.OrientQuat[f])
			}
		}
	}
	return nil
}

func (a Asset) validate(what string) error {
	if a.Path == "" {
		return fmt.Errorf("%w: %s has no mesh path", kubric.ErrPrecondition, what)
	}
	if !unitish(a.Rotation) {
		return fmt.Errorf("%w: %s rotation %v", kubric.ErrInvalidValue, what, a.Rotation)
	}
	return nil
}

// unitish reports whether q is finite and not zero. Poses are normalized
// when applied.
func unitish(q [4]float64) bool {
	n := 0.0
	for _, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		n += v * v
	}
	return n > 0
}

// Pose returns the position and rotation of o at frame.
func (o *Object) Pose(frame int) (mgl64.Vec3, mgl64.Quat) {
	return o.Animation.Position[frame], kubric.QuatFromXYZW(o.Animation.OrientQuat[frame])
}

// Placement returns the initial position and rotation of a.
func (a *Asset) Placement() (mgl64.Vec3, mgl64.Quat) {
	return a.Position, kubric.QuatFromXYZW(a.Rotation)
}
