package boothfx

import "math"

// LayerMotionState is the mutable motion record of one layer.
type LayerMotionState struct {
	Offset   Vec2
	Velocity Vec2
}

// Simulator drives every decorative layer's offset from idle oscillation and
// pointer forces. State is kept in arenas indexed by layer ordinal that are
// allocated once in NewSimulator; Tick does not allocate.
type Simulator struct {
	profile InteractionProfile
	layers  []DecorativeLayer

	states     []LayerMotionState
	centers    []Vec2
	hasCenter  []bool
	enabled    bool
	lastTarget []Vec2
}

// NewSimulator creates a simulator for the given layers. The layer slice is
// copied; later changes to the caller's slice have no effect.
func NewSimulator(profile InteractionProfile, layers []DecorativeLayer) *Simulator {
	n := len(layers)
	own := make([]DecorativeLayer, n)
	copy(own, layers)
	return &Simulator{
		profile:    profile,
		layers:     own,
		states:     make([]LayerMotionState, n),
		centers:    make([]Vec2, n),
		hasCenter:  make([]bool, n),
		lastTarget: make([]Vec2, n),
		enabled:    true,
	}
}

// Profile returns the active interaction profile.
func (s *Simulator) Profile() InteractionProfile { return s.profile }

// SetProfile replaces the active profile.
func (s *Simulator) SetProfile(p InteractionProfile) { s.profile = p }

// Len returns the number of layers.
func (s *Simulator) Len() int { return len(s.layers) }

// Layer returns the descriptor at index i.
func (s *Simulator) Layer(i int) *DecorativeLayer { return &s.layers[i] }

// State returns the motion state at index i.
func (s *Simulator) State(i int) LayerMotionState { return s.states[i] }

// Target returns the blended target offset computed for layer i on the last
// tick.
func (s *Simulator) Target(i int) Vec2 { return s.lastTarget[i] }

// SetCenter records the measured on-screen center of layer i. Only the layout
// resolution pass writes centers.
func (s *Simulator) SetCenter(i int, c Vec2) {
	s.centers[i] = c
	s.hasCenter[i] = true
}

// ClearCenter marks layer i as unmeasured; it is skipped until measured again.
func (s *Simulator) ClearCenter(i int) {
	s.hasCenter[i] = false
}

// SetEnabled turns interaction on or off. Disabling resets every layer to
// rest and keeps it there.
func (s *Simulator) SetEnabled(on bool) {
	s.enabled = on
	if !on {
		s.Reset()
	}
}

// Enabled reports whether the simulator is moving layers.
func (s *Simulator) Enabled() bool { return s.enabled }

// Reset zeroes every offset and velocity.
func (s *Simulator) Reset() {
	for i := range s.states {
		s.states[i] = LayerMotionState{}
		s.lastTarget[i] = Vec2{}
	}
}

// MaxOffset returns the clamp bound for layer i.
func (s *Simulator) MaxOffset(i int) float64 {
	if m := s.layers[i].MaxOffset; m > 0 {
		return m
	}
	return s.profile.MaxOffset
}

// Tick advances every layer by one frame. elapsed is wall-clock seconds since
// the simulator started.
func (s *Simulator) Tick(elapsed float64, p PointerSnapshot) {
	if !s.enabled {
		return
	}
	prof := &s.profile
	for i := range s.layers {
		if !s.hasCenter[i] {
			continue
		}
		l := &s.layers[i]
		st := &s.states[i]
		tune := prof.Tuning(l.Category)

		target := s.idleTarget(i, l, tune, elapsed)
		if p.Active {
			target = target.Add(s.pointerTarget(i, l, tune, p))
		}
		s.lastTarget[i] = target

		prev := st.Offset
		st.Offset.X += (target.X - st.Offset.X) * prof.PositionLerp
		st.Offset.Y += (target.Y - st.Offset.Y) * prof.PositionLerp

		keep := prof.SpringDamping
		st.Velocity.X = st.Velocity.X*keep + (st.Offset.X-prev.X)*(1-keep)
		st.Velocity.Y = st.Velocity.Y*keep + (st.Offset.Y-prev.Y)*(1-keep)

		limit := s.MaxOffset(i)
		st.Offset.X = clampAbs(st.Offset.X, limit)
		st.Offset.Y = clampAbs(st.Offset.Y, limit)

		eps := prof.SnapEpsilon
		st.Offset.X = snapZero(st.Offset.X, eps)
		st.Offset.Y = snapZero(st.Offset.Y, eps)
		st.Velocity.X = snapZero(st.Velocity.X, eps)
		st.Velocity.Y = snapZero(st.Velocity.Y, eps)
	}
}

func (s *Simulator) idleTarget(i int, l *DecorativeLayer, tune CategoryTuning, elapsed float64) Vec2 {
	prof := &s.profile
	phase := float64(i)*prof.IdlePhaseStep + tune.Phase
	t := elapsed*prof.IdleWaveSpeed + phase
	amp := l.Strength * prof.IdleAmplitude * tune.Weight
	return Vec2{
		X: math.Sin(t) * amp,
		Y: math.Cos(t*0.8+phase*0.3) * amp,
	}
}

func (s *Simulator) pointerTarget(i int, l *DecorativeLayer, tune CategoryTuning, p PointerSnapshot) Vec2 {
	pos := s.centers[i].Add(s.states[i].Offset)
	d := p.Position.Sub(pos)
	dist := d.Len()
	force := PointerForce(dist, l.Radius, s.profile.InnerDeadZone, s.profile.FalloffPower,
		l.Strength*s.profile.ForceScale*tune.Weight*l.boost())
	if force == 0 {
		return Vec2{}
	}
	nx, ny := d.X/dist, d.Y/dist

	falloff := Falloff(dist, l.Radius, s.profile.FalloffPower)
	wake := falloff * s.profile.WakeScale * l.boost()
	swirl := force * s.profile.SwirlScale

	return Vec2{
		X: -nx*force - ny*swirl + p.Velocity.X*wake,
		Y: -ny*force + nx*swirl + p.Velocity.Y*wake,
	}
}

// Falloff maps a distance to (1 - d/radius)^power inside the radius and 0
// outside.
func Falloff(dist, radius, power float64) float64 {
	if radius <= 0 || dist >= radius {
		return 0
	}
	return math.Pow(1-dist/radius, power)
}

// PointerForce returns the repulsion magnitude at distance dist. It is zero at
// or inside the dead zone and at or beyond the radius, and strictly
// decreasing in between. scale is the product of strength, force scale,
// category weight and pointer boost.
func PointerForce(dist, radius, deadZone, power, scale float64) float64 {
	if dist <= deadZone || dist >= radius {
		return 0
	}
	return Falloff(dist, radius, power) * scale
}
