package boothfx

import (
	"math"
	"testing"
)

func testLayer(key string) DecorativeLayer {
	return DecorativeLayer{Key: key, Category: CategoryPrimary, Radius: 200, Strength: 20}
}

func stillProfile() InteractionProfile {
	p := WaterProfile()
	p.IdleAmplitude = 0
	return p
}

func TestFalloff(t *testing.T) {
	tests := []struct {
		dist, radius, power, want float64
	}{
		{0, 100, 2, 1},
		{50, 100, 2, 0.25},
		{50, 100, 1, 0.5},
		{100, 100, 2, 0},
		{150, 100, 2, 0},
		{10, 0, 2, 0},
	}
	for _, tt := range tests {
		if got := Falloff(tt.dist, tt.radius, tt.power); math.Abs(got-tt.want) > epsilon {
			t.Errorf("Falloff(%v, %v, %v) = %v, want %v", tt.dist, tt.radius, tt.power, got, tt.want)
		}
	}
}

func TestPointerForceZones(t *testing.T) {
	const radius, dead, power, scale = 200.0, 6.0, 1.6, 10.0
	if f := PointerForce(0, radius, dead, power, scale); f != 0 {
		t.Errorf("force at center = %v, want 0", f)
	}
	if f := PointerForce(dead, radius, dead, power, scale); f != 0 {
		t.Errorf("force at dead zone edge = %v, want 0", f)
	}
	if f := PointerForce(radius, radius, dead, power, scale); f != 0 {
		t.Errorf("force at radius = %v, want 0", f)
	}
	if f := PointerForce(radius+50, radius, dead, power, scale); f != 0 {
		t.Errorf("force outside radius = %v, want 0", f)
	}

	prev := math.Inf(1)
	for d := dead + 1; d < radius; d += 7 {
		f := PointerForce(d, radius, dead, power, scale)
		if f <= 0 {
			t.Fatalf("force at %v = %v, want > 0", d, f)
		}
		if f >= prev {
			t.Fatalf("force not decreasing at %v: %v >= %v", d, f, prev)
		}
		prev = f
	}
}

func TestSimulatorSkipsUnmeasuredLayers(t *testing.T) {
	sim := NewSimulator(WaterProfile(), []DecorativeLayer{testLayer("a")})
	for i := 0; i < 10; i++ {
		sim.Tick(float64(i)/60, PointerSnapshot{Active: true, Position: Vec2{10, 10}})
	}
	if st := sim.State(0); st.Offset != (Vec2{}) {
		t.Errorf("unmeasured layer moved: %v", st.Offset)
	}
}

func TestSimulatorRepelsPointer(t *testing.T) {
	sim := NewSimulator(stillProfile(), []DecorativeLayer{testLayer("a")})
	center := Vec2{500, 500}
	sim.SetCenter(0, center)

	ptr := Vec2{560, 520}
	sim.Tick(0, PointerSnapshot{Active: true, Position: ptr})

	target := sim.Target(0)
	toPointer := ptr.Sub(center)
	dot := target.X*toPointer.X + target.Y*toPointer.Y
	if dot >= 0 {
		t.Errorf("target %v points toward pointer (dot %v)", target, dot)
	}
	off := sim.State(0).Offset
	if off.X*toPointer.X+off.Y*toPointer.Y >= 0 {
		t.Errorf("offset %v moved toward pointer", off)
	}
}

func TestSimulatorClampsOffset(t *testing.T) {
	l := testLayer("a")
	l.Strength = 1000
	sim := NewSimulator(WaterProfile(), []DecorativeLayer{l})
	sim.SetCenter(0, Vec2{500, 500})
	limit := sim.MaxOffset(0)

	ptr := PointerSnapshot{Active: true, Position: Vec2{510, 500}}
	for i := 0; i < 600; i++ {
		sim.Tick(float64(i)/60, ptr)
		off := sim.State(0).Offset
		if math.Abs(off.X) > limit || math.Abs(off.Y) > limit {
			t.Fatalf("tick %d: offset %v exceeds %v", i, off, limit)
		}
	}
	if off := sim.State(0).Offset; off.Len() < limit/2 {
		t.Errorf("offset %v never approached the limit %v", off, limit)
	}
}

func TestSimulatorLayerMaxOffsetOverride(t *testing.T) {
	l := testLayer("a")
	l.MaxOffset = 12
	sim := NewSimulator(WaterProfile(), []DecorativeLayer{l, testLayer("b")})
	if got := sim.MaxOffset(0); got != 12 {
		t.Errorf("MaxOffset(0) = %v, want 12", got)
	}
	if got := sim.MaxOffset(1); got != WaterProfile().MaxOffset {
		t.Errorf("MaxOffset(1) = %v, want profile default", got)
	}
}

func TestSimulatorSettlesToRest(t *testing.T) {
	sim := NewSimulator(stillProfile(), []DecorativeLayer{testLayer("a")})
	sim.SetCenter(0, Vec2{500, 500})
	for i := 0; i < 30; i++ {
		sim.Tick(0, PointerSnapshot{Active: true, Position: Vec2{540, 500}})
	}
	if sim.State(0).Offset == (Vec2{}) {
		t.Fatal("expected the pointer to displace the layer")
	}
	for i := 0; i < 2000; i++ {
		sim.Tick(0, PointerSnapshot{})
	}
	if st := sim.State(0); st.Offset != (Vec2{}) || st.Velocity != (Vec2{}) {
		t.Errorf("layer did not snap to rest: %+v", st)
	}
}

func TestSimulatorDisabled(t *testing.T) {
	sim := NewSimulator(WaterProfile(), []DecorativeLayer{testLayer("a")})
	sim.SetCenter(0, Vec2{500, 500})
	for i := 0; i < 20; i++ {
		sim.Tick(float64(i), PointerSnapshot{Active: true, Position: Vec2{530, 500}})
	}
	sim.SetEnabled(false)
	if st := sim.State(0); st.Offset != (Vec2{}) || st.Velocity != (Vec2{}) {
		t.Errorf("disable should reset state, got %+v", st)
	}
	sim.Tick(3, PointerSnapshot{Active: true, Position: Vec2{530, 500}})
	if st := sim.State(0); st.Offset != (Vec2{}) {
		t.Errorf("disabled simulator moved: %+v", st)
	}
	if sim.Enabled() {
		t.Error("Enabled() should be false")
	}
}

func TestSimulatorIdleOscillation(t *testing.T) {
	sim := NewSimulator(WaterProfile(), []DecorativeLayer{testLayer("a"), testLayer("b")})
	sim.SetCenter(0, Vec2{100, 100})
	sim.SetCenter(1, Vec2{900, 700})
	sim.Tick(1.5, PointerSnapshot{})
	t0, t1 := sim.Target(0), sim.Target(1)
	if t0 == (Vec2{}) {
		t.Error("idle target should be non-zero")
	}
	if t0 == t1 {
		t.Error("layers should be phase shifted")
	}
	amp := testLayer("a").Strength * WaterProfile().IdleAmplitude
	if math.Abs(t0.X) > amp+epsilon || math.Abs(t0.Y) > amp+epsilon {
		t.Errorf("idle target %v exceeds amplitude %v", t0, amp)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	run := func() LayerMotionState {
		sim := NewSimulator(WaterProfile(), DefaultLayers())
		for i := 0; i < sim.Len(); i++ {
			sim.SetCenter(i, Vec2{float64(100 + 80*i), float64(200 + 30*i)})
		}
		for f := 0; f < 240; f++ {
			p := PointerSnapshot{
				Active:   f%90 < 60,
				Position: Vec2{float64(100 + 3*f), 300},
				Velocity: Vec2{3, 0},
			}
			sim.Tick(float64(f)/60, p)
		}
		return sim.State(2)
	}
	if a, b := run(), run(); a != b {
		t.Errorf("runs diverged: %+v vs %+v", a, b)
	}
}

func TestSimulatorCopiesLayers(t *testing.T) {
	layers := []DecorativeLayer{testLayer("a")}
	sim := NewSimulator(WaterProfile(), layers)
	layers[0].Key = "changed"
	if sim.Layer(0).Key != "a" {
		t.Error("simulator should own a copy of the layers")
	}
}

func TestSimulatorTickDoesNotAllocate(t *testing.T) {
	sim := NewSimulator(WaterProfile(), DefaultLayers())
	for i := 0; i < sim.Len(); i++ {
		sim.SetCenter(i, Vec2{float64(50 * i), float64(40 * i)})
	}
	p := PointerSnapshot{Active: true, Position: Vec2{200, 160}, Velocity: Vec2{2, 1}}
	elapsed := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		elapsed += 1.0 / 60
		sim.Tick(elapsed, p)
	})
	if allocs != 0 {
		t.Errorf("Tick allocated %v times per run", allocs)
	}
}

func TestProfileValidate(t *testing.T) {
	p := WaterProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("water profile invalid: %v", err)
	}
	bad := WaterProfile()
	bad.PositionLerp = 0
	if bad.Validate() == nil {
		t.Error("expected error for zero position_lerp")
	}
	bad = WaterProfile()
	bad.SpringDamping = 1
	if bad.Validate() == nil {
		t.Error("expected error for spring_damping of 1")
	}
}

func TestLayerCategoryText(t *testing.T) {
	var c LayerCategory
	if err := c.UnmarshalText([]byte("secondary")); err != nil || c != CategorySecondary {
		t.Errorf("UnmarshalText(secondary) = %v, %v", c, err)
	}
	if err := c.UnmarshalText([]byte("tertiary")); err == nil {
		t.Error("expected error for unknown category")
	}
}
