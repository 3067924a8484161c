package boothfx

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// WaveFamily is one group of parallel wave lines sharing count, amplitude and
// frequency.
type WaveFamily struct {
	Count     int     `yaml:"count"`
	Amplitude float64 `yaml:"amplitude"` // pixels
	Frequency float64 `yaml:"frequency"` // radians per pixel
	Speed     float64 `yaml:"speed"`     // radians per time unit
	Width     float64 `yaml:"width"`     // stroke width, pixels
	Top       float64 `yaml:"top"`       // band start, fraction of height
	Bottom    float64 `yaml:"bottom"`    // band end, fraction of height
}

// WavePalette is the set of colors for one theme endpoint.
type WavePalette struct {
	Background Color `yaml:"background"`
	Line       Color `yaml:"line"`
	Glow       Color `yaml:"glow"`
}

// WaveConfig holds the renderer constants.
type WaveConfig struct {
	BlendEasing          float64      `yaml:"blend_easing"`
	TimeStep             float64      `yaml:"time_step"`
	TransitionThreshold  float64      `yaml:"transition_threshold"`
	ClearAlpha           float64      `yaml:"clear_alpha"`
	TransitionClearAlpha float64      `yaml:"transition_clear_alpha"`
	SegmentStep          float64      `yaml:"segment_step"`
	Families             []WaveFamily `yaml:"families"`
	GlowSeeds            []float64    `yaml:"glow_seeds"`
	GlowAmplitude        float64      `yaml:"glow_amplitude"`
	Light                WavePalette  `yaml:"light"`
	Dark                 WavePalette  `yaml:"dark"`
}

func rgb255(r, g, b uint8, a float64) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: a}
}

// DefaultWaveConfig returns the stock wave field.
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{
		BlendEasing:          0.06,
		TimeStep:             0.008,
		TransitionThreshold:  0.01,
		ClearAlpha:           0.22,
		TransitionClearAlpha: 0.5,
		SegmentStep:          8,
		Families: []WaveFamily{
			{Count: 14, Amplitude: 22, Frequency: 0.006, Speed: 1.0, Width: 1, Top: 0.08, Bottom: 0.55},
			{Count: 10, Amplitude: 36, Frequency: 0.004, Speed: 0.7, Width: 1.4, Top: 0.35, Bottom: 0.85},
			{Count: 6, Amplitude: 60, Frequency: 0.0025, Speed: 0.45, Width: 2, Top: 0.2, Bottom: 0.95},
		},
		GlowSeeds:     []float64{0, 1.7, 3.4},
		GlowAmplitude: 48,
		Light: WavePalette{
			Background: rgb255(246, 247, 251, 1),
			Line:       rgb255(90, 110, 160, 0.18),
			Glow:       rgb255(120, 140, 255, 0.35),
		},
		Dark: WavePalette{
			Background: rgb255(12, 14, 28, 1),
			Line:       rgb255(150, 190, 255, 0.28),
			Glow:       rgb255(140, 200, 255, 0.45),
		},
	}
}

// glowPasses widen and fade a glow line to fake a blur.
var glowPasses = [...]struct{ width, alpha float64 }{
	{10, 0.15},
	{5, 0.35},
	{2, 1},
}

// WaveLine is one stroke of a built frame. Points[Start:End] of the owning
// WaveFrame hold its polyline.
type WaveLine struct {
	Start, End int
	Width      float64
	Color      Color
	Dotted     bool
	Glow       bool
}

// WaveFrame is the geometry of one renderer frame. Its slices are reused
// across Build calls.
type WaveFrame struct {
	Clear  Color
	Points []Vec2
	Lines  []WaveLine
}

// WaveRenderer draws the themed line field. Step advances state once per
// frame; Build computes geometry; Draw rasterizes onto a persistent surface
// that is faded rather than cleared, leaving short trails.
type WaveRenderer struct {
	cfg WaveConfig

	blend   float64
	target  float64
	time    float64
	reduced bool

	width, height int
	surface       *ebiten.Image
	frame         WaveFrame
}

// NewWaveRenderer creates a renderer. The blend starts settled on the given
// theme.
func NewWaveRenderer(cfg WaveConfig, isDark bool) *WaveRenderer {
	w := &WaveRenderer{cfg: cfg}
	if isDark {
		w.blend, w.target = 1, 1
	}
	return w
}

// SetDark sets the theme the blend eases toward. The blend never jumps.
func (w *WaveRenderer) SetDark(isDark bool) {
	if isDark {
		w.target = 1
	} else {
		w.target = 0
	}
}

// SetReducedMotion freezes or resumes the time accumulator.
func (w *WaveRenderer) SetReducedMotion(on bool) { w.reduced = on }

// Blend returns the current theme blend in [0, 1].
func (w *WaveRenderer) Blend() float64 { return w.blend }

// Time returns the time accumulator.
func (w *WaveRenderer) Time() float64 { return w.time }

// Size returns the backing raster dimensions.
func (w *WaveRenderer) Size() (int, int) { return w.width, w.height }

// Transitioning reports whether the blend is still visibly moving.
func (w *WaveRenderer) Transitioning() bool {
	return math.Abs(w.target-w.blend) > w.cfg.TransitionThreshold
}

// Resize sets the backing raster dimensions. Non-positive sizes are ignored.
// The surface is recreated on the next Draw.
func (w *WaveRenderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	if w.surface != nil {
		w.surface.Deallocate()
		w.surface = nil
	}
}

// Step advances one frame: blend easing first, then time.
func (w *WaveRenderer) Step() {
	w.blend += (w.target - w.blend) * w.cfg.BlendEasing
	if math.Abs(w.target-w.blend) < 1e-4 {
		w.blend = w.target
	}
	if !w.reduced {
		w.time += w.cfg.TimeStep
	}
}

// displacement is the vertical offset of line i at horizontal position x.
func displacement(f *WaveFamily, x float64, i int, t float64) float64 {
	fi := float64(i)
	return f.Amplitude * (0.6*math.Sin(x*f.Frequency+t*f.Speed+fi*0.7) +
		0.3*math.Cos(x*f.Frequency*0.47-t*f.Speed*1.3+fi*1.9) +
		0.1*math.Sin(x*f.Frequency*2.1+t*0.6+fi*3.1))
}

// GlowAlpha returns the pulse multiplier of a glow line with the given seed.
func GlowAlpha(t, seed float64) float64 {
	return 0.6 + 0.4*math.Sin(t*2+seed)
}

// Build computes the geometry for the current state. The returned frame is
// owned by the renderer and valid until the next Build.
func (w *WaveRenderer) Build() *WaveFrame {
	fr := &w.frame
	fr.Points = fr.Points[:0]
	fr.Lines = fr.Lines[:0]

	light, dark := &w.cfg.Light, &w.cfg.Dark
	clearAlpha := w.cfg.ClearAlpha
	if w.Transitioning() {
		clearAlpha = w.cfg.TransitionClearAlpha
	}
	fr.Clear = light.Background.Lerp(dark.Background, w.blend).WithAlpha(clearAlpha)

	if w.width <= 0 || w.height <= 0 {
		return fr
	}
	W, H := float64(w.width), float64(w.height)
	step := w.cfg.SegmentStep
	if step <= 0 {
		step = 8
	}
	lineColor := light.Line.Lerp(dark.Line, w.blend)
	t := w.time

	for fi := range w.cfg.Families {
		f := &w.cfg.Families[fi]
		for i := 0; i < f.Count; i++ {
			base := H * (f.Top + (f.Bottom-f.Top)*(float64(i)+0.5)/float64(f.Count))
			start := len(fr.Points)
			for x := 0.0; ; x += step {
				if x > W {
					x = W
				}
				fr.Points = append(fr.Points, Vec2{x, base + displacement(f, x, i, t)})
				if x >= W {
					break
				}
			}
			fr.Lines = append(fr.Lines, WaveLine{
				Start: start, End: len(fr.Points),
				Width:  f.Width,
				Color:  lineColor,
				Dotted: i%2 == 1,
			})
		}
	}

	glow := light.Glow.Lerp(dark.Glow, w.blend)
	gf := WaveFamily{Amplitude: w.cfg.GlowAmplitude, Frequency: 0.003, Speed: 0.5}
	for k, seed := range w.cfg.GlowSeeds {
		base := H * (0.3 + 0.2*float64(k))
		start := len(fr.Points)
		for x := 0.0; ; x += step {
			if x > W {
				x = W
			}
			y := base + displacement(&gf, x+seed*100, k, t)
			fr.Points = append(fr.Points, Vec2{x, y})
			if x >= W {
				break
			}
		}
		end := len(fr.Points)
		pulse := GlowAlpha(t, seed)
		for _, p := range glowPasses {
			fr.Lines = append(fr.Lines, WaveLine{
				Start: start, End: end,
				Width: p.width,
				Color: glow.WithAlpha(glow.A * pulse * p.alpha),
				Glow:  true,
			})
		}
	}
	return fr
}

// Draw builds the current frame onto the renderer's surface and copies the
// surface onto dst. Does nothing until the first valid Resize.
func (w *WaveRenderer) Draw(dst *ebiten.Image) {
	if w.width <= 0 || w.height <= 0 {
		return
	}
	if w.surface == nil {
		w.surface = ebiten.NewImage(w.width, w.height)
	}
	fr := w.Build()
	s := w.surface
	vector.DrawFilledRect(s, 0, 0, float32(w.width), float32(w.height), fr.Clear.toRGBA(), false)
	for _, l := range fr.Lines {
		clr := l.Color.toRGBA()
		pts := fr.Points[l.Start:l.End]
		for j := 1; j < len(pts); j++ {
			if l.Dotted && j%2 == 0 {
				continue
			}
			a, b := pts[j-1], pts[j]
			vector.StrokeLine(s, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
				float32(l.Width), clr, true)
		}
	}
	dst.DrawImage(s, nil)
}

// Dispose releases the backing surface.
func (w *WaveRenderer) Dispose() {
	if w.surface != nil {
		w.surface.Deallocate()
		w.surface = nil
	}
}
