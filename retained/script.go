package retained

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `toml:"action"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	ToX    float64 `toml:"to_x"`
	ToY    float64 `toml:"to_y"`
	Frames int     `toml:"frames"`
}

// inputScript is the top-level TOML structure of an input script.
type inputScript struct {
	Steps []scriptStep `toml:"steps"`
}

// ScriptRunner replays scripted pointer input across frames, for automated
// runs of a screen. Attach it with SetScriptRunner.
//
//	[[steps]]
//	action = "drag"   # click, press, move, release, drag or wait
//	x = 160
//	y = 40
//	to_x = 260
//	to_y = 120
//	frames = 10
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadInputScript parses a TOML input script.
func LoadInputScript(data []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := toml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "click", "press", "move", "release", "drag", "wait":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the screen. Its step method is
// called from Screen.Update before input is processed. Nil detaches it.
func (s *Screen) SetScriptRunner(runner *ScriptRunner) {
	s.script = runner
}

// Done reports whether all steps of the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(s *Screen) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.X, st.Y, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
