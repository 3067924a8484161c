package boothfx

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.LayerSet()) != len(DefaultLayers()) {
		t.Error("LayerSet should fall back to the built-in layers")
	}
}

func TestParseConfigOverDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
capture:
  device: v4l2
  layout: grid
  orientation: square
  attempt_timeout: 2s
countdown:
  seconds: 5
theme:
  dark: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Capture.Device != "v4l2" || cfg.Capture.Layout != "grid" || cfg.Capture.Orientation != "square" {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Capture.AttemptTimeout != 2*time.Second {
		t.Errorf("attempt_timeout = %v", cfg.Capture.AttemptTimeout)
	}
	if cfg.Capture.JPEGQuality != DefaultJPEGQuality || !cfg.Capture.Mirror {
		t.Error("unspecified capture fields should keep defaults")
	}
	if cfg.Countdown.Seconds != 5 || cfg.Countdown.Shots != DefaultCountdownConfig().Shots {
		t.Errorf("countdown = %+v", cfg.Countdown)
	}
	if !cfg.Theme.Dark {
		t.Error("theme.dark not applied")
	}
	if cfg.Sampler != DefaultSamplerConfig() {
		t.Error("sampler should keep defaults")
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{"bad yaml", "capture: [", []string{"failed to parse config"}},
		{"device", "capture: {device: webcam}", []string{"capture.device"}},
		{"layout orientation", "capture: {layout: strip, orientation: square}", []string{`does not support "square"`}},
		{"several", "capture: {jpeg_quality: 0, reduction: 2}\ncountdown: {seconds: 0}", []string{
			"capture.jpeg_quality", "capture.reduction", "countdown.seconds",
		}},
		{"layers", "layers: [{key: a, radius: 10}, {key: a, radius: 0}]", []string{`duplicate key "a"`, "radius must be > 0"}},
		{"sampler", "sampler: {follow_easing: 0}", []string{"sampler.follow_easing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booth.yaml")
	if err := os.WriteFile(path, []byte("capture: {layout: single}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Capture.Layout != "single" {
		t.Errorf("layout = %q", cfg.Capture.Layout)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestCaptureTarget(t *testing.T) {
	cfg := DefaultConfig()
	layout, o, aspect, err := cfg.CaptureTarget()
	if err != nil {
		t.Fatal(err)
	}
	if layout.Name != "strip" || o.Name != "portrait" {
		t.Errorf("target = %s/%s", layout.Name, o.Name)
	}
	if want := layout.CellAspect(o, cfg.Strip.Padding); math.Abs(aspect-want) > epsilon {
		t.Errorf("aspect = %v, want cell aspect %v", aspect, want)
	}

	cfg.Capture.TargetAspect = 0.75
	if _, _, aspect, _ = cfg.CaptureTarget(); aspect != 0.75 {
		t.Errorf("explicit aspect = %v, want 0.75", aspect)
	}

	cfg.Capture.Layout = "nope"
	if _, _, _, err := cfg.CaptureTarget(); err == nil {
		t.Error("unknown layout should fail")
	}
}
