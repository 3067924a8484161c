package boothfx

import (
	"math"
	"testing"
)

func TestWaveBlendEasesWithoutJumping(t *testing.T) {
	cfg := DefaultWaveConfig()
	w := NewWaveRenderer(cfg, false)
	if w.Blend() != 0 {
		t.Fatalf("initial blend = %v, want 0", w.Blend())
	}
	w.SetDark(true)
	prev := w.Blend()
	w.Step()
	if got := w.Blend(); math.Abs(got-cfg.BlendEasing) > epsilon {
		t.Errorf("blend after one step = %v, want %v", got, cfg.BlendEasing)
	}
	for i := 0; i < 400; i++ {
		w.Step()
		b := w.Blend()
		if b < prev || b > 1 {
			t.Fatalf("step %d: blend %v not monotonic in [0, 1]", i, b)
		}
		prev = b
	}
	if w.Blend() != 1 {
		t.Errorf("blend should settle exactly on 1, got %v", w.Blend())
	}
	if w.Transitioning() {
		t.Error("settled blend should not be transitioning")
	}
}

func TestWaveReducedMotionFreezesTime(t *testing.T) {
	w := NewWaveRenderer(DefaultWaveConfig(), false)
	w.Step()
	t0 := w.Time()
	if t0 == 0 {
		t.Fatal("time should advance normally")
	}

	w.SetReducedMotion(true)
	w.SetDark(true)
	for i := 0; i < 10; i++ {
		w.Step()
	}
	if w.Time() != t0 {
		t.Errorf("time advanced under reduced motion: %v -> %v", t0, w.Time())
	}
	if w.Blend() == 0 {
		t.Error("theme blend should still ease under reduced motion")
	}
}

func TestWaveResizeIgnoresEmpty(t *testing.T) {
	w := NewWaveRenderer(DefaultWaveConfig(), false)
	w.Resize(400, 300)
	w.Resize(0, 300)
	w.Resize(400, -1)
	if ww, hh := w.Size(); ww != 400 || hh != 300 {
		t.Errorf("Size = %dx%d, want 400x300", ww, hh)
	}
}

func TestWaveBuildEmptyBeforeResize(t *testing.T) {
	w := NewWaveRenderer(DefaultWaveConfig(), false)
	fr := w.Build()
	if len(fr.Lines) != 0 || len(fr.Points) != 0 {
		t.Errorf("expected no geometry before resize, got %d lines", len(fr.Lines))
	}
}

func TestWaveBuildGeometry(t *testing.T) {
	cfg := DefaultWaveConfig()
	w := NewWaveRenderer(cfg, false)
	w.Resize(400, 300)
	fr := w.Build()

	lines := 0
	for _, f := range cfg.Families {
		lines += f.Count
	}
	lines += len(cfg.GlowSeeds) * len(glowPasses)
	if len(fr.Lines) != lines {
		t.Fatalf("lines = %d, want %d", len(fr.Lines), lines)
	}

	idx := 0
	for _, f := range cfg.Families {
		for i := 0; i < f.Count; i++ {
			l := fr.Lines[idx]
			if l.Dotted != (i%2 == 1) {
				t.Errorf("line %d of family: dotted = %v", i, l.Dotted)
			}
			if l.Glow {
				t.Errorf("family line %d marked as glow", idx)
			}
			pts := fr.Points[l.Start:l.End]
			if pts[0].X != 0 || pts[len(pts)-1].X != 400 {
				t.Errorf("line %d spans %v..%v, want 0..400", idx, pts[0].X, pts[len(pts)-1].X)
			}
			idx++
		}
	}
	for ; idx < len(fr.Lines); idx++ {
		if !fr.Lines[idx].Glow {
			t.Errorf("line %d should be a glow pass", idx)
		}
	}
}

func TestWaveClearAlphaDuringTransition(t *testing.T) {
	cfg := DefaultWaveConfig()
	w := NewWaveRenderer(cfg, false)
	w.Resize(100, 100)
	if a := w.Build().Clear.A; a != cfg.ClearAlpha {
		t.Errorf("settled clear alpha = %v, want %v", a, cfg.ClearAlpha)
	}
	w.SetDark(true)
	w.Step()
	if a := w.Build().Clear.A; a != cfg.TransitionClearAlpha {
		t.Errorf("transition clear alpha = %v, want %v", a, cfg.TransitionClearAlpha)
	}
}

func TestGlowAlphaRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		a := GlowAlpha(float64(i)*0.1, 1.7)
		if a < 0.2-epsilon || a > 1+epsilon {
			t.Fatalf("GlowAlpha = %v outside [0.2, 1]", a)
		}
	}
}

func TestWaveBuildDoesNotAllocate(t *testing.T) {
	w := NewWaveRenderer(DefaultWaveConfig(), true)
	w.Resize(640, 480)
	w.Build()
	allocs := testing.AllocsPerRun(50, func() {
		w.Step()
		w.Build()
	})
	if allocs != 0 {
		t.Errorf("Build allocated %v times per run", allocs)
	}
}
