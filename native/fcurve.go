package native

import (
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Interpolation selects how an FCurve moves from one keyframe to the next.
type Interpolation string

const (
	InterpolationConstant Interpolation = "CONSTANT"
	InterpolationLinear   Interpolation = "LINEAR"
	InterpolationBezier   Interpolation = "BEZIER"
)

// easing returns the tween function used between two keyframes.
func (i Interpolation) easing() ease.TweenFunc {
	switch i {
	case InterpolationLinear:
		return ease.Linear
	case InterpolationBezier:
		return ease.InOutCubic
	}
	return nil
}

// Keyframe is a single (frame, value) point on an FCurve. Interpolation
// governs the segment that starts at this keyframe.
type Keyframe struct {
	Frame         float64       `yaml:"frame"`
	Value         float64       `yaml:"value"`
	Interpolation Interpolation `yaml:"interpolation"`
}

// FCurve animates one scalar component of an object property, addressed by
// data path and array index (e.g. "location"[2]).
type FCurve struct {
	DataPath  string     `yaml:"data_path"`
	Index     int        `yaml:"index"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Insert adds a keyframe, keeping keyframes sorted by frame. A keyframe that
// already exists at frame is overwritten.
func (fc *FCurve) Insert(frame, value float64, interp Interpolation) {
	i := sort.Search(len(fc.Keyframes), func(i int) bool { return fc.Keyframes[i].Frame >= frame })
	kf := Keyframe{Frame: frame, Value: value, Interpolation: interp}
	if i < len(fc.Keyframes) && fc.Keyframes[i].Frame == frame {
		fc.Keyframes[i] = kf
		return
	}
	fc.Keyframes = append(fc.Keyframes, Keyframe{})
	copy(fc.Keyframes[i+1:], fc.Keyframes[i:])
	fc.Keyframes[i] = kf
}

// Evaluate returns the curve value at frame. Frames outside the keyed range
// hold the nearest keyframe's value.
func (fc *FCurve) Evaluate(frame float64) float64 {
	kfs := fc.Keyframes
	switch {
	case len(kfs) == 0:
		return 0
	case frame <= kfs[0].Frame:
		return kfs[0].Value
	case frame >= kfs[len(kfs)-1].Frame:
		return kfs[len(kfs)-1].Value
	}
	i := sort.Search(len(kfs), func(i int) bool { return kfs[i].Frame > frame }) - 1
	a, b := kfs[i], kfs[i+1]
	if frame == a.Frame {
		return a.Value
	}
	fn := a.Interpolation.easing()
	if fn == nil {
		return a.Value
	}
	// The tween runs on progress in [0, 1]; values blend in float64 so large
	// coordinates keep their precision between keys.
	tw := gween.New(0, 1, 1, fn)
	p, _ := tw.Set(float32((frame - a.Frame) / (b.Frame - a.Frame)))
	return a.Value + (b.Value-a.Value)*float64(p)
}

// AnimationData holds the FCurves of one object.
type AnimationData struct {
	FCurves []*FCurve `yaml:"fcurves"`
}

// Find returns the FCurve for (dataPath, index), or nil.
func (ad *AnimationData) Find(dataPath string, index int) *FCurve {
	if ad == nil {
		return nil
	}
	for _, fc := range ad.FCurves {
		if fc.DataPath == dataPath && fc.Index == index {
			return fc
		}
	}
	return nil
}

// ensure returns the FCurve for (dataPath, index), creating it if needed.
func (ad *AnimationData) ensure(dataPath string, index int) *FCurve {
	if fc := ad.Find(dataPath, index); fc != nil {
		return fc
	}
	fc := &FCurve{DataPath: dataPath, Index: index}
	ad.FCurves = append(ad.FCurves, fc)
	return fc
}
