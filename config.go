package boothfx

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete boothfx configuration.
type Config struct {
	Sampler   SamplerConfig      `yaml:"sampler"`
	Profile   InteractionProfile `yaml:"profile"`
	Viewport  ViewportThresholds `yaml:"viewport"`
	Wave      WaveConfig         `yaml:"wave"`
	Theme     ThemeConfig        `yaml:"theme"`
	Capture   CaptureConfig      `yaml:"capture"`
	Countdown CountdownConfig    `yaml:"countdown"`
	Strip     StripOptions       `yaml:"strip"`
	// Layers replaces the built-in layer set when non-empty.
	Layers []DecorativeLayer `yaml:"layers,omitempty"`

	ReducedMotion bool   `yaml:"reduced_motion"`
	Debug         bool   `yaml:"debug"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ThemeConfig selects the initial theme.
type ThemeConfig struct {
	Dark bool `yaml:"dark"`
	// FollowSystem polls the OS dark mode preference.
	FollowSystem bool          `yaml:"follow_system"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// CaptureConfig contains camera and still settings.
type CaptureConfig struct {
	Device         string        `yaml:"device"`      // synthetic, v4l2
	DevicePath     string        `yaml:"device_path"` // e.g. /dev/video0
	Class          DeviceClass   `yaml:"class"`
	Layout         string        `yaml:"layout"`
	Orientation    string        `yaml:"orientation"`
	TargetAspect   float64       `yaml:"target_aspect"` // 0 derives it from layout and orientation
	JPEGQuality    int           `yaml:"jpeg_quality"`
	Reduction      float64       `yaml:"reduction"`
	Mirror         bool          `yaml:"mirror"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Sampler:  DefaultSamplerConfig(),
		Profile:  WaterProfile(),
		Viewport: DefaultViewportThresholds(),
		Wave:     DefaultWaveConfig(),
		Theme:    ThemeConfig{PollInterval: DefaultThemePollInterval},
		Capture: CaptureConfig{
			Device:         "synthetic",
			DevicePath:     "/dev/video0",
			Layout:         "strip",
			Orientation:    "portrait",
			JPEGQuality:    DefaultJPEGQuality,
			Reduction:      DefaultReduction,
			Mirror:         true,
			AttemptTimeout: 5 * time.Second,
		},
		Countdown:     DefaultCountdownConfig(),
		Strip:         DefaultStripOptions(),
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result.
// Lists in the document replace the default lists rather than merging.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Profile.Validate(); err != nil {
		errs = append(errs, err)
	}
	s := c.Sampler
	if s.FollowEasing <= 0 || s.FollowEasing > 1 {
		errs = append(errs, fmt.Errorf("sampler.follow_easing must be in (0, 1], got %v", s.FollowEasing))
	}
	if s.VelocityRetention < 0 || s.VelocityRetention >= 1 {
		errs = append(errs, fmt.Errorf("sampler.velocity_retention must be in [0, 1), got %v", s.VelocityRetention))
	}
	if s.IdleDecay < 0 || s.IdleDecay >= 1 {
		errs = append(errs, fmt.Errorf("sampler.idle_decay must be in [0, 1), got %v", s.IdleDecay))
	}
	v := c.Viewport
	if v.SmallMaxWidth <= 0 || v.WideMinWidth < v.SmallMaxWidth {
		errs = append(errs, fmt.Errorf("viewport: need 0 < small_max_width <= wide_min_width, got %v and %v",
			v.SmallMaxWidth, v.WideMinWidth))
	}
	if c.Wave.BlendEasing <= 0 || c.Wave.BlendEasing > 1 {
		errs = append(errs, fmt.Errorf("wave.blend_easing must be in (0, 1], got %v", c.Wave.BlendEasing))
	}
	for i, f := range c.Wave.Families {
		if f.Count < 0 {
			errs = append(errs, fmt.Errorf("wave.families[%d].count must be >= 0", i))
		}
	}
	cp := c.Capture
	switch cp.Device {
	case "synthetic", "v4l2":
	default:
		errs = append(errs, fmt.Errorf("capture.device must be synthetic or v4l2, got %q", cp.Device))
	}
	layout, ok := LookupLayout(cp.Layout)
	if !ok {
		errs = append(errs, fmt.Errorf("capture.layout: unknown layout %q", cp.Layout))
	}
	if _, ok := LookupOrientation(cp.Orientation); !ok {
		errs = append(errs, fmt.Errorf("capture.orientation: unknown orientation %q", cp.Orientation))
	} else if layout != nil && !layout.Allows(cp.Orientation) {
		errs = append(errs, fmt.Errorf("capture: layout %q does not support %q", cp.Layout, cp.Orientation))
	}
	if cp.TargetAspect < 0 {
		errs = append(errs, fmt.Errorf("capture.target_aspect must be >= 0, got %v", cp.TargetAspect))
	}
	if cp.JPEGQuality < 1 || cp.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("capture.jpeg_quality must be in [1, 100], got %d", cp.JPEGQuality))
	}
	if cp.Reduction <= 0 || cp.Reduction > 1 {
		errs = append(errs, fmt.Errorf("capture.reduction must be in (0, 1], got %v", cp.Reduction))
	}
	if c.Countdown.Seconds < 1 {
		errs = append(errs, fmt.Errorf("countdown.seconds must be >= 1, got %d", c.Countdown.Seconds))
	}
	seen := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		if l.Key == "" {
			errs = append(errs, fmt.Errorf("layers[%d]: key is required", i))
		} else if seen[l.Key] {
			errs = append(errs, fmt.Errorf("layers[%d]: duplicate key %q", i, l.Key))
		}
		seen[l.Key] = true
		if l.Radius <= 0 {
			errs = append(errs, fmt.Errorf("layers[%d]: radius must be > 0", i))
		}
	}
	return errors.Join(errs...)
}

// LayerSet returns the configured layers, or the built-in set.
func (c *Config) LayerSet() []DecorativeLayer {
	if len(c.Layers) > 0 {
		return append([]DecorativeLayer(nil), c.Layers...)
	}
	return DefaultLayers()
}

// CaptureTarget resolves the layout, orientation and still aspect ratio of
// the capture settings. An explicit target_aspect wins over the layout's cell
// aspect.
func (c *Config) CaptureTarget() (*Layout, Orientation, float64, error) {
	layout, ok := LookupLayout(c.Capture.Layout)
	if !ok {
		return nil, Orientation{}, 0, fmt.Errorf("unknown layout %q", c.Capture.Layout)
	}
	o, ok := LookupOrientation(c.Capture.Orientation)
	if !ok {
		return nil, Orientation{}, 0, fmt.Errorf("unknown orientation %q", c.Capture.Orientation)
	}
	aspect := c.Capture.TargetAspect
	if aspect <= 0 {
		aspect = layout.CellAspect(o, c.Strip.Padding)
	}
	return layout, o, aspect, nil
}
