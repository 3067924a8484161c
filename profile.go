package boothfx

import "fmt"

// LayerCategory groups decorative layers that share a motion weight and an
// idle phase offset.
type LayerCategory uint8

const (
	CategoryPrimary   LayerCategory = iota // large amorphous blobs
	CategorySecondary                      // small grid ornaments
)

func (c LayerCategory) String() string {
	switch c {
	case CategoryPrimary:
		return "primary"
	case CategorySecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c LayerCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *LayerCategory) UnmarshalText(text []byte) error {
	switch string(text) {
	case "primary":
		*c = CategoryPrimary
	case "secondary":
		*c = CategorySecondary
	default:
		return fmt.Errorf("unknown layer category %q", text)
	}
	return nil
}

// CategoryTuning holds the per-category multipliers applied on top of the
// profile constants.
type CategoryTuning struct {
	// Weight scales both idle motion and pointer force for the category.
	Weight float64 `yaml:"weight"`
	// Phase offsets the idle oscillation so groups don't move in lockstep.
	Phase float64 `yaml:"phase"`
}

// InteractionProfile is the named bundle of constants that governs the layer
// motion simulator. Profiles are plain values; a Simulator holds exactly one.
type InteractionProfile struct {
	Name string `yaml:"name"`

	// Idle oscillation.
	IdleWaveSpeed float64 `yaml:"idle_wave_speed"` // radians per second
	IdleAmplitude float64 `yaml:"idle_amplitude"`  // multiplier on layer strength
	IdlePhaseStep float64 `yaml:"idle_phase_step"` // phase added per layer index

	// Pointer force.
	InnerDeadZone float64 `yaml:"inner_dead_zone"` // pixels
	FalloffPower  float64 `yaml:"falloff_power"`
	ForceScale    float64 `yaml:"force_scale"` // multiplier on layer strength
	SwirlScale    float64 `yaml:"swirl_scale"`
	WakeScale     float64 `yaml:"wake_scale"`

	// Response.
	PositionLerp  float64 `yaml:"position_lerp"`
	SpringDamping float64 `yaml:"spring_damping"`
	MaxOffset     float64 `yaml:"max_offset"` // pixels, per axis
	SnapEpsilon   float64 `yaml:"snap_epsilon"`

	Primary   CategoryTuning `yaml:"primary"`
	Secondary CategoryTuning `yaml:"secondary"`
}

// WaterProfile is the built-in profile: slow idle drift, soft repulsion with a
// visible swirl, and a wake that trails fast pointer movement.
func WaterProfile() InteractionProfile {
	return InteractionProfile{
		Name:          "water",
		IdleWaveSpeed: 0.42,
		IdleAmplitude: 0.35,
		IdlePhaseStep: 0.9,
		InnerDeadZone: 6,
		FalloffPower:  1.6,
		ForceScale:    0.9,
		SwirlScale:    0.45,
		WakeScale:     0.35,
		PositionLerp:  0.085,
		SpringDamping: 0.86,
		MaxOffset:     42,
		SnapEpsilon:   0.01,
		Primary:       CategoryTuning{Weight: 1, Phase: 0},
		Secondary:     CategoryTuning{Weight: 0.65, Phase: 1.7},
	}
}

// Tuning returns the category multipliers for c.
func (p *InteractionProfile) Tuning(c LayerCategory) CategoryTuning {
	if c == CategorySecondary {
		return p.Secondary
	}
	return p.Primary
}

// Validate reports the first out-of-range constant.
func (p *InteractionProfile) Validate() error {
	switch {
	case p.PositionLerp <= 0 || p.PositionLerp > 1:
		return fmt.Errorf("profile %q: position_lerp must be in (0, 1], got %v", p.Name, p.PositionLerp)
	case p.SpringDamping < 0 || p.SpringDamping >= 1:
		return fmt.Errorf("profile %q: spring_damping must be in [0, 1), got %v", p.Name, p.SpringDamping)
	case p.MaxOffset <= 0:
		return fmt.Errorf("profile %q: max_offset must be > 0, got %v", p.Name, p.MaxOffset)
	case p.FalloffPower <= 0:
		return fmt.Errorf("profile %q: falloff_power must be > 0, got %v", p.Name, p.FalloffPower)
	case p.InnerDeadZone < 0:
		return fmt.Errorf("profile %q: inner_dead_zone must be >= 0, got %v", p.Name, p.InnerDeadZone)
	}
	return nil
}
