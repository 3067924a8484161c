package boothfx

import (
	"slices"
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"valid", `{"steps":[{"action":"resize","width":800,"height":600},{"action":"screenshot","label":"a"}]}`, ""},
		{"invalid json", `{"steps":[`, "parse test script"},
		{"no steps", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"click"}]}`, `unknown action "click"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadTestScript([]byte(tt.json))
			if tt.wantErr == "" {
				if err != nil || r == nil {
					t.Fatalf("LoadTestScript: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestTestRunnerDrivesBackdrop(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps":[
		{"action":"resize","width":800,"height":600},
		{"action":"sweep","x":100,"y":300,"toX":500,"toY":300,"frames":5},
		{"action":"wait","frames":3},
		{"action":"theme","on":true},
		{"action":"reduce","on":true},
		{"action":"screenshot","label":"after-sweep"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	b := NewBackdrop(nil)
	t.Cleanup(b.Close)
	b.SetTestRunner(r)

	var moves []float64
	b.Input().OnPointerMove(func(x, _ float64) { moves = append(moves, x) })

	frames := 0
	for !r.Done() && frames < 100 {
		r.step(b)
		b.Input().Update(0, 0)
		b.Advance(1.0 / 60)
		frames++
	}
	if !r.Done() {
		t.Fatal("runner did not finish")
	}
	if b.Size() != (Size{800, 600}) {
		t.Errorf("size = %v, want 800x600", b.Size())
	}
	if want := []float64{100, 200, 300, 400, 500}; !slices.Equal(moves, want) {
		t.Errorf("sweep moves = %v, want %v", moves, want)
	}
	if !b.Theme().Dark() || !b.ReducedMotion() {
		t.Errorf("dark=%v reduced=%v, want both on", b.Theme().Dark(), b.ReducedMotion())
	}
	if !slices.Equal(b.screenshotQueue, []string{"after-sweep"}) {
		t.Errorf("screenshot queue = %v", b.screenshotQueue)
	}
}

func TestSetTestRunnerTogglesPolling(t *testing.T) {
	b := NewBackdrop(nil)
	t.Cleanup(b.Close)
	r, _ := LoadTestScript([]byte(`{"steps":[{"action":"wait","frames":1}]}`))
	b.SetTestRunner(r)
	if b.input.poll {
		t.Error("polling should be off while a runner is attached")
	}
	b.SetTestRunner(nil)
	if !b.input.poll {
		t.Error("polling should resume when the runner is detached")
	}
}
