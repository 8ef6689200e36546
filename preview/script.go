package preview

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// step is one action of a playback script.
type step struct {
	Action string `json:"action"` // seek, step, play, pause, wait, screenshot, quit
	Label  string `json:"label,omitempty"`
	Frame  int    `json:"frame,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type script struct {
	Steps []step `json:"steps"`
}

// Script drives a Viewer without input, one action per tick, to capture
// screenshots of chosen frames unattended:
//
//	{"steps": [
//	  {"action": "seek", "frame": 12},
//	  {"action": "screenshot", "label": "f12"},
//	  {"action": "play"},
//	  {"action": "wait", "frames": 24},
//	  {"action": "quit"}
//	]}
type Script struct {
	steps  []step
	cursor int
	wait   int
	done   bool
}

// ErrQuit ends the game loop when a script's quit action runs.
var ErrQuit = errors.New("preview: script quit")

// LoadScript parses a JSON playback script.
func LoadScript(data []byte) (*Script, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "seek", "step", "play", "pause", "wait", "screenshot", "quit":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: s.Steps}, nil
}

// Done reports whether every step has run.
func (s *Script) Done() bool { return s.done }

// SetScript attaches a script. It runs from Update, before keyboard input.
func (v *Viewer) SetScript(s *Script) { v.script = s }

// tick runs the next step unless a wait is pending.
func (s *Script) tick(v *Viewer) error {
	if s.done {
		return nil
	}
	if s.wait > 0 {
		s.wait--
		return nil
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return nil
	}
	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "seek":
		v.seek(st.Frame)
	case "step":
		n := st.Frames
		if n == 0 {
			n = 1
		}
		v.Step(n)
	case "play":
		if !v.playing {
			v.TogglePlay()
		}
	case "pause":
		if v.playing {
			v.TogglePlay()
		}
	case "wait":
		if st.Frames > 0 {
			s.wait = st.Frames - 1 // this tick counts as one
		}
	case "screenshot":
		v.Screenshot(st.Label)
	case "quit":
		s.done = true
		return ErrQuit
	}
	if s.cursor >= len(s.steps) && s.wait == 0 {
		s.done = true
	}
	return nil
}

// runUnattended reports whether keyboard input should be ignored.
func (v *Viewer) runUnattended() bool {
	return v.script != nil && !v.script.done
}

// quitOrNil maps ErrQuit onto ebiten's regular termination.
func quitOrNil(err error) error {
	if errors.Is(err, ErrQuit) {
		return ebiten.Termination
	}
	return err
}
