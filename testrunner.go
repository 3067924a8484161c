package boothfx

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	On     bool    `json:"on,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"move": true, "sweep": true, "leave": true, "blur": true, "focus": true,
	"resize": true, "reduce": true, "theme": true, "wait": true, "screenshot": true,
}

// TestRunner sequences injected environment events and screenshots across
// frames for automated visual testing. Attach to a Backdrop via
// SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Backdrop via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the backdrop and turns host polling
// off so only the script drives input. The runner's step method is called
// from Backdrop.Update before input is observed each frame.
func (b *Backdrop) SetTestRunner(runner *TestRunner) {
	b.runner = runner
	b.input.SetPolling(runner == nil)
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Backdrop.Update.
func (r *TestRunner) step(b *Backdrop) {
	if r.done {
		return
	}
	in := b.input
	// Wait for pending injections to drain before advancing.
	if in.Pending() > 0 {
		return
	}
	// Count down wait frames.
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
	case "screenshot":
		b.Screenshot(st.Label)
	case "move":
		in.InjectPointerMove(st.X, st.Y)
	case "sweep":
		in.InjectPointerPath(st.X, st.Y, st.ToX, st.ToY, st.Frames)
	case "leave":
		in.InjectPointerLeave()
	case "blur":
		in.InjectBlur()
	case "focus":
		in.InjectFocus()
	case "resize":
		in.InjectResize(st.Width, st.Height)
	case "reduce":
		in.InjectReducedMotion(st.On)
	case "theme":
		b.theme.Set(st.On)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.done = true
	}
}
