package boothfx

// SamplerConfig holds the smoothing constants for a PointerSampler.
type SamplerConfig struct {
	// FollowEasing is the fraction of the raw-to-smoothed gap closed per tick.
	FollowEasing float64 `yaml:"follow_easing"`
	// VelocityRetention is how much of the previous velocity survives a tick
	// while the pointer is active.
	VelocityRetention float64 `yaml:"velocity_retention"`
	// IdleDecay multiplies the velocity each tick while the pointer is inactive.
	IdleDecay float64 `yaml:"idle_decay"`
	// SnapEpsilon zeroes velocity components smaller than this.
	SnapEpsilon float64 `yaml:"snap_epsilon"`
}

// DefaultSamplerConfig returns the sampler constants used by the water profile.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		FollowEasing:      0.18,
		VelocityRetention: 0.82,
		IdleDecay:         0.9,
		SnapEpsilon:       0.001,
	}
}

// PointerSnapshot is the per-tick view of the pointer that the simulator
// consumes.
type PointerSnapshot struct {
	Active   bool
	Position Vec2 // smoothed position
	Velocity Vec2 // smoothed delta per tick
}

// PointerSampler turns raw pointer events into a smoothed position and a
// velocity estimate. Raw events between ticks coalesce; only the latest
// counts.
type PointerSampler struct {
	cfg SamplerConfig

	raw      Vec2
	active   bool
	smoothed Vec2
	ready    bool
	velocity Vec2
}

// NewPointerSampler creates a sampler with the given constants.
func NewPointerSampler(cfg SamplerConfig) *PointerSampler {
	return &PointerSampler{cfg: cfg}
}

// Move records a raw pointer position and marks the pointer active.
func (p *PointerSampler) Move(x, y float64) {
	p.raw = Vec2{x, y}
	p.active = true
}

// Leave marks the pointer inactive. Called when the pointer leaves the
// surface, the window loses focus, or reduced motion is requested.
func (p *PointerSampler) Leave() {
	p.active = false
}

// Reset clears all pointer state.
func (p *PointerSampler) Reset() {
	*p = PointerSampler{cfg: p.cfg}
}

// Sample advances the sampler by one tick and returns the snapshot the
// simulator should use for that tick.
func (p *PointerSampler) Sample() PointerSnapshot {
	if !p.active {
		p.ready = false
		p.velocity.X = snapZero(p.velocity.X*p.cfg.IdleDecay, p.cfg.SnapEpsilon)
		p.velocity.Y = snapZero(p.velocity.Y*p.cfg.IdleDecay, p.cfg.SnapEpsilon)
		return PointerSnapshot{Position: p.smoothed, Velocity: p.velocity}
	}

	// First sample after activation snaps to avoid a lurch from a stale
	// smoothed position.
	if !p.ready {
		p.smoothed = p.raw
		p.velocity = Vec2{}
		p.ready = true
		return PointerSnapshot{Active: true, Position: p.smoothed}
	}

	prev := p.smoothed
	p.smoothed.X += (p.raw.X - p.smoothed.X) * p.cfg.FollowEasing
	p.smoothed.Y += (p.raw.Y - p.smoothed.Y) * p.cfg.FollowEasing

	keep := p.cfg.VelocityRetention
	p.velocity.X = p.velocity.X*keep + (p.smoothed.X-prev.X)*(1-keep)
	p.velocity.Y = p.velocity.Y*keep + (p.smoothed.Y-prev.Y)*(1-keep)

	return PointerSnapshot{Active: true, Position: p.smoothed, Velocity: p.velocity}
}

// Active reports whether the pointer is currently over the surface.
func (p *PointerSampler) Active() bool { return p.active }

// Velocity returns the current velocity estimate.
func (p *PointerSampler) Velocity() Vec2 { return p.velocity }

// Smoothed returns the current smoothed position.
func (p *PointerSampler) Smoothed() Vec2 { return p.smoothed }
