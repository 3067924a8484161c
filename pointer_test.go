package boothfx

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestSamplerFirstSampleSnaps(t *testing.T) {
	p := NewPointerSampler(DefaultSamplerConfig())
	p.Move(100, 50)
	s := p.Sample()
	if !s.Active {
		t.Fatal("expected active snapshot")
	}
	if s.Position != (Vec2{100, 50}) {
		t.Errorf("Position = %v, want (100, 50)", s.Position)
	}
	if s.Velocity != (Vec2{}) {
		t.Errorf("Velocity = %v, want zero on first sample", s.Velocity)
	}
}

func TestSamplerSmoothing(t *testing.T) {
	cfg := DefaultSamplerConfig()
	p := NewPointerSampler(cfg)
	p.Move(100, 50)
	p.Sample()

	p.Move(200, 50)
	s := p.Sample()

	wantX := 100 + 100*cfg.FollowEasing
	if math.Abs(s.Position.X-wantX) > epsilon {
		t.Errorf("Position.X = %v, want %v", s.Position.X, wantX)
	}
	if s.Position.Y != 50 {
		t.Errorf("Position.Y = %v, want 50", s.Position.Y)
	}
	wantVX := (wantX - 100) * (1 - cfg.VelocityRetention)
	if math.Abs(s.Velocity.X-wantVX) > epsilon {
		t.Errorf("Velocity.X = %v, want %v", s.Velocity.X, wantVX)
	}
}

func TestSamplerCoalescesMoves(t *testing.T) {
	a := NewPointerSampler(DefaultSamplerConfig())
	b := NewPointerSampler(DefaultSamplerConfig())
	a.Move(0, 0)
	b.Move(0, 0)
	a.Sample()
	b.Sample()

	a.Move(10, 10)
	a.Move(40, 20)
	b.Move(40, 20)
	if sa, sb := a.Sample(), b.Sample(); sa != sb {
		t.Errorf("coalesced sample %v != single sample %v", sa, sb)
	}
}

func TestSamplerIdleDecay(t *testing.T) {
	cfg := DefaultSamplerConfig()
	p := NewPointerSampler(cfg)
	p.Move(0, 0)
	p.Sample()
	for i := 1; i <= 10; i++ {
		p.Move(float64(i*30), 0)
		p.Sample()
	}
	pos := p.Smoothed()
	v0 := p.Velocity().X
	if v0 <= 0 {
		t.Fatalf("expected positive velocity, got %v", v0)
	}

	p.Leave()
	s := p.Sample()
	if s.Active {
		t.Error("snapshot should be inactive after Leave")
	}
	if math.Abs(s.Velocity.X-v0*cfg.IdleDecay) > epsilon {
		t.Errorf("Velocity.X = %v, want %v", s.Velocity.X, v0*cfg.IdleDecay)
	}
	if s.Position != pos {
		t.Errorf("Position moved while inactive: %v -> %v", pos, s.Position)
	}

	for i := 0; i < 500; i++ {
		s = p.Sample()
	}
	if s.Velocity != (Vec2{}) {
		t.Errorf("velocity should snap to zero, got %v", s.Velocity)
	}
}

func TestSamplerReactivationSnaps(t *testing.T) {
	p := NewPointerSampler(DefaultSamplerConfig())
	p.Move(0, 0)
	p.Sample()
	p.Leave()
	p.Sample()

	p.Move(300, 300)
	s := p.Sample()
	if s.Position != (Vec2{300, 300}) {
		t.Errorf("Position = %v, want snap to (300, 300)", s.Position)
	}
	if s.Velocity != (Vec2{}) {
		t.Errorf("Velocity = %v, want zero after re-entry", s.Velocity)
	}
}

func TestSamplerReset(t *testing.T) {
	p := NewPointerSampler(DefaultSamplerConfig())
	p.Move(5, 5)
	p.Sample()
	p.Reset()
	if p.Active() || p.Smoothed() != (Vec2{}) || p.Velocity() != (Vec2{}) {
		t.Error("Reset should clear all state")
	}
}
