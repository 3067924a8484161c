package boothfx

import (
	"context"
	"image"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Backdrop is the pointer-reactive animated background. It owns the pointer
// sampler, layer simulator, tier classifier, wave renderer and theme, and
// implements ebiten.Game.
//
// Work is split in two passes. The layout resolution pass runs when the
// viewport or theme changes and writes layer bounds, centers and appearance.
// The transform application pass runs every Draw and only composes the
// resolved placement with the current motion offset.
type Backdrop struct {
	cfg Config

	input      *Input
	sampler    *PointerSampler
	sim        *Simulator
	classifier *TierClassifier
	wave       *WaveRenderer
	theme      *ThemeState
	watcher    *SystemThemeWatcher

	// Layout resolution output, indexed by layer ordinal.
	resolved   []ResolvedLayer
	appearance []LayerAppearance
	drawOrder  []int

	artwork  map[string]image.Image
	textures map[string]*ebiten.Image

	size        Size
	outsideW    int
	outsideH    int
	elapsed     float64
	frame       uint64
	interactive bool
	reduced     bool
	focused     bool
	closed      bool

	subs     Subscriptions
	updateFn func() error
	overlays []handler[func(*ebiten.Image)]
	nextID   uint32

	debug           bool
	fps             *fpsOverlay
	runner          *TestRunner
	ScreenshotDir   string
	screenshotQueue []string
}

// NewBackdrop creates a backdrop from cfg. A nil cfg uses DefaultConfig.
func NewBackdrop(cfg *Config) *Backdrop {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	layers := cfg.LayerSet()
	b := &Backdrop{
		cfg:           *cfg,
		input:         NewInput(),
		sampler:       NewPointerSampler(cfg.Sampler),
		sim:           NewSimulator(cfg.Profile, layers),
		classifier:    NewTierClassifier(cfg.Viewport),
		wave:          NewWaveRenderer(cfg.Wave, cfg.Theme.Dark),
		theme:         NewThemeState(cfg.Theme.Dark),
		resolved:      make([]ResolvedLayer, len(layers)),
		appearance:    make([]LayerAppearance, len(layers)),
		drawOrder:     make([]int, len(layers)),
		artwork:       DefaultArtwork(256),
		textures:      make(map[string]*ebiten.Image),
		interactive:   true,
		focused:       true,
		debug:         cfg.Debug,
		ScreenshotDir: cfg.ScreenshotDir,
	}
	for i := range b.drawOrder {
		b.drawOrder[i] = i
	}
	slices.SortStableFunc(b.drawOrder, func(x, y int) int {
		return layers[x].Order - layers[y].Order
	})

	in := b.input
	b.subs.Add(in.OnResize(b.resize))
	b.subs.Add(in.OnPointerMove(func(x, y float64) {
		if b.motionEnabled() {
			b.sampler.Move(x, y)
		}
	}))
	b.subs.Add(in.OnPointerLeave(b.sampler.Leave))
	b.subs.Add(in.OnBlur(func() {
		b.focused = false
		b.sampler.Leave()
	}))
	b.subs.Add(in.OnFocus(func() { b.focused = true }))
	b.subs.Add(in.OnReducedMotion(b.setReduced))
	b.subs.Add(b.theme.OnChange(func(dark bool) {
		b.wave.SetDark(dark)
		b.resolveAppearance()
	}))
	b.subs.Add(b.classifier.OnChange(func(t ViewportTier) {
		Logger().Debug("viewport tier changed", "tier", t.String(), "width", b.size.W, "height", b.size.H)
	}))

	b.resolveAppearance()
	if cfg.ReducedMotion {
		in.SetReducedMotion(true)
		b.setReduced(true)
	}
	if cfg.Theme.FollowSystem {
		b.watcher = NewSystemThemeWatcher(cfg.Theme.PollInterval)
		b.watcher.Start(context.Background())
	}
	return b
}

// Input returns the environment observer.
func (b *Backdrop) Input() *Input { return b.input }

// Theme returns the theme state.
func (b *Backdrop) Theme() *ThemeState { return b.theme }

// Simulator returns the layer simulator.
func (b *Backdrop) Simulator() *Simulator { return b.sim }

// Sampler returns the pointer sampler.
func (b *Backdrop) Sampler() *PointerSampler { return b.sampler }

// Wave returns the wave renderer.
func (b *Backdrop) Wave() *WaveRenderer { return b.wave }

// Tier returns the current viewport tier.
func (b *Backdrop) Tier() ViewportTier { return b.classifier.Tier() }

// Size returns the current viewport size.
func (b *Backdrop) Size() Size { return b.size }

// Resolved returns the placement of layer i from the last layout pass.
func (b *Backdrop) Resolved(i int) ResolvedLayer { return b.resolved[i] }

// Elapsed returns the animation clock in seconds.
func (b *Backdrop) Elapsed() float64 { return b.elapsed }

// SetTexture supplies the image for a layer source, replacing the
// procedural artwork.
func (b *Backdrop) SetTexture(source string, img *ebiten.Image) {
	b.textures[source] = img
}

// SetInteractive turns pointer interaction on or off. Turning it off resets
// every layer to rest and clears the pointer.
func (b *Backdrop) SetInteractive(on bool) {
	b.interactive = on
	b.syncMotion()
}

// Interactive reports whether pointer interaction is on.
func (b *Backdrop) Interactive() bool { return b.interactive }

// ReducedMotion reports whether reduced motion is in effect.
func (b *Backdrop) ReducedMotion() bool { return b.reduced }

// SetUpdateFunc sets a callback run at the end of every Update.
func (b *Backdrop) SetUpdateFunc(fn func() error) { b.updateFn = fn }

// AddOverlay registers fn to draw on top of the backdrop every frame.
func (b *Backdrop) AddOverlay(fn func(screen *ebiten.Image)) CallbackHandle {
	b.nextID++
	id := b.nextID
	b.overlays = append(b.overlays, handler[func(*ebiten.Image)]{id: id, fn: fn})
	return CallbackHandle{remove: func() { b.overlays = removeHandler(b.overlays, id) }}
}

// SetDebugMode enables per-frame timing logs at debug level.
func (b *Backdrop) SetDebugMode(enabled bool) { b.debug = enabled }

// SetShowFPS toggles the FPS overlay.
func (b *Backdrop) SetShowFPS(on bool) {
	if on && b.fps == nil {
		b.fps = newFPSOverlay()
	} else if !on && b.fps != nil {
		b.fps.dispose()
		b.fps = nil
	}
}

func (b *Backdrop) motionEnabled() bool { return b.interactive && !b.reduced }

func (b *Backdrop) setReduced(on bool) {
	b.reduced = on
	b.wave.SetReducedMotion(on)
	b.syncMotion()
}

func (b *Backdrop) syncMotion() {
	on := b.motionEnabled()
	if !on {
		b.sampler.Reset()
	}
	b.sim.SetEnabled(on)
}

func (b *Backdrop) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	b.size = Size{W: float64(w), H: float64(h)}
	b.wave.Resize(w, h)
	b.classifier.Update(b.size.W, b.size.H)
	b.resolveLayout()
}

// resolveLayout is the layout resolution pass: bounds and centers for the
// current tier and size. It is the only writer of simulator centers.
func (b *Backdrop) resolveLayout() {
	tier := b.classifier.Tier()
	for i := range b.resolved {
		if !b.size.Known() {
			b.sim.ClearCenter(i)
			continue
		}
		r := ResolveLayer(b.sim.Layer(i), tier, b.size)
		b.resolved[i] = r
		b.sim.SetCenter(i, r.Center)
	}
}

func (b *Backdrop) resolveAppearance() {
	dark := b.theme.Dark()
	for i := range b.appearance {
		b.appearance[i] = b.sim.Layer(i).Appearance(dark)
	}
}

// Update implements ebiten.Game.
func (b *Backdrop) Update() error {
	if b.closed {
		return nil
	}
	if b.runner != nil {
		b.runner.step(b)
	}
	b.input.Update(b.outsideW, b.outsideH)
	if b.watcher != nil {
		b.watcher.Sync(b.theme)
	}
	dt := 1.0 / float64(ebiten.TPS())
	start := time.Now()
	b.Advance(dt)
	if b.debug {
		b.debugLog(frameStats{phase: "update", elapsed: time.Since(start), frame: b.frame})
	}
	if b.fps != nil {
		b.fps.update(dt)
	}
	if b.updateFn != nil {
		return b.updateFn()
	}
	return nil
}

// Advance runs one simulation frame of dt seconds: pointer sample, layer
// tick, then wave step. Update calls it after observing the host.
func (b *Backdrop) Advance(dt float64) {
	b.frame++
	b.elapsed += dt
	snap := b.sampler.Sample()
	b.sim.Tick(b.elapsed, snap)
	b.wave.Step()
}

// LayerTransform returns the transform application pass result for layer i:
// a GeoM that maps texture pixels of size texW×texH onto the screen.
func (b *Backdrop) LayerTransform(i int, texW, texH float64) ebiten.GeoM {
	var m ebiten.GeoM
	if texW <= 0 || texH <= 0 {
		return m
	}
	l := b.sim.Layer(i)
	r := b.resolved[i]
	sx := r.Bounds.Width / texW
	sy := r.Bounds.Height / texH
	if l.FlipX {
		sx = -sx
	}
	if l.FlipY {
		sy = -sy
	}
	off := b.sim.State(i).Offset
	m.Translate(-texW/2, -texH/2)
	m.Scale(sx, sy)
	m.Rotate(l.Rotation)
	m.Translate(r.Center.X+off.X, r.Center.Y+off.Y)
	return m
}

func (b *Backdrop) texture(source string) *ebiten.Image {
	if t, ok := b.textures[source]; ok {
		return t
	}
	art, ok := b.artwork[source]
	if !ok {
		return nil
	}
	t := ebiten.NewImageFromImage(art)
	b.textures[source] = t
	return t
}

// Draw implements ebiten.Game.
func (b *Backdrop) Draw(screen *ebiten.Image) {
	if b.closed {
		return
	}
	start := time.Now()
	b.wave.Draw(screen)
	if b.size.Known() {
		for _, i := range b.drawOrder {
			l := b.sim.Layer(i)
			tex := b.texture(l.Source)
			if tex == nil {
				continue
			}
			app := b.appearance[i]
			tb := tex.Bounds()
			op := &ebiten.DrawImageOptions{}
			op.GeoM = b.LayerTransform(i, float64(tb.Dx()), float64(tb.Dy()))
			op.ColorScale.Scale(float32(app.Tint.R), float32(app.Tint.G), float32(app.Tint.B), 1)
			op.ColorScale.ScaleAlpha(float32(app.Opacity))
			op.Blend = app.Blend.EbitenBlend()
			op.Filter = ebiten.FilterLinear
			screen.DrawImage(tex, op)
		}
	}
	for _, o := range b.overlays {
		o.fn(screen)
	}
	if b.fps != nil {
		b.fps.draw(screen)
	}
	if b.debug {
		b.debugLog(frameStats{phase: "draw", elapsed: time.Since(start), frame: b.frame,
			layers: len(b.drawOrder), lines: len(b.wave.frame.Lines)})
	}
	b.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The backdrop always renders at the outside
// size.
func (b *Backdrop) Layout(outsideWidth, outsideHeight int) (int, int) {
	b.outsideW, b.outsideH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close removes every subscription, stops the theme watcher, resets all
// motion and releases GPU images. Safe to call more than once.
func (b *Backdrop) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.subs.RemoveAll()
	if b.watcher != nil {
		b.watcher.Stop()
	}
	b.sampler.Reset()
	b.sim.SetEnabled(false)
	b.wave.Dispose()
	for k, t := range b.textures {
		t.Deallocate()
		delete(b.textures, k)
	}
	b.SetShowFPS(false)
	b.overlays = nil
}

// RunConfig holds optional settings for Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and runs b as the game loop. Blocks until the window
// closes.
func Run(b *Backdrop, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 800
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	b.SetShowFPS(cfg.ShowFPS)
	defer b.Close()
	return ebiten.RunGame(b)
}
