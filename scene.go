package kubric

import (
	"fmt"
	"slices"
)

// Default frame range of a new scene.
const (
	DefaultFrameStart = 1
	DefaultFrameEnd   = 250
)

// Scene is an ordered collection of nodes plus the inclusive frame range an
// animation render covers.
type Scene struct {
	frameStart, frameEnd int
	objects              []Node
	binding              Binding
}

// NewScene returns an empty scene over the default frame range, pushed to b.
func NewScene(b Binding) (*Scene, error) {
	s := &Scene{binding: orUnbound(b)}
	if err := s.SetFrameRange(DefaultFrameStart, DefaultFrameEnd); err != nil {
		return nil, err
	}
	return s, nil
}

// FrameRange returns the first and last frame.
func (s *Scene) FrameRange() (start, end int) { return s.frameStart, s.frameEnd }

func (s *Scene) FrameStart() int { return s.frameStart }

func (s *Scene) FrameEnd() int { return s.frameEnd }

// SetFrameStart moves the first frame. It must not pass the last frame.
func (s *Scene) SetFrameStart(f int) error {
	if err := checkFrames(f, s.frameEnd); err != nil {
		return err
	}
	s.frameStart = f
	return s.binding.Push(PropFrameStart, s.frameStart)
}

// SetFrameEnd moves the last frame. It must not precede the first frame.
func (s *Scene) SetFrameEnd(f int) error {
	if err := checkFrames(s.frameStart, f); err != nil {
		return err
	}
	s.frameEnd = f
	return s.binding.Push(PropFrameEnd, s.frameEnd)
}

// SetFrameRange sets both ends at once.
func (s *Scene) SetFrameRange(start, end int) error {
	if err := checkFrames(start, end); err != nil {
		return err
	}
	s.frameStart, s.frameEnd = start, end
	if err := s.binding.Push(PropFrameStart, s.frameStart); err != nil {
		return err
	}
	return s.binding.Push(PropFrameEnd, s.frameEnd)
}

func checkFrames(start, end int) error {
	if start < 0 || end < start {
		return fmt.Errorf("%w: frame range [%d, %d]", ErrPrecondition, start, end)
	}
	return nil
}

// Track appends n to the scene's node list. It does not check for
// duplicates.
func (s *Scene) Track(n Node) { s.objects = append(s.objects, n) }

// Objects returns the tracked nodes in insertion order.
func (s *Scene) Objects() []Node { return slices.Clone(s.objects) }
