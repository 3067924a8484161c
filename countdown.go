package boothfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CountdownConfig controls the capture countdown.
type CountdownConfig struct {
	Seconds int `yaml:"seconds"` // ticks before each shutter
	Shots   int `yaml:"shots"`
	// ShotGap is the pause in seconds between a shutter and the next
	// countdown.
	ShotGap float64 `yaml:"shot_gap"`
}

// DefaultCountdownConfig returns a three second countdown for one shot.
func DefaultCountdownConfig() CountdownConfig {
	return CountdownConfig{Seconds: 3, Shots: 1, ShotGap: 1.2}
}

// Countdown sequences the ticks and shutters of a capture session. It is
// advanced by Update from the frame loop and never schedules anything on its
// own, so Cancel is enough to stop it.
type Countdown struct {
	cfg CountdownConfig

	running   bool
	inGap     bool
	shot      int
	remaining int
	timer     float64

	pulse      *gween.Tween
	pulseScale float64
	flash      *gween.Tween
	flashAlpha float64

	onTick    []handler[func(shot, remaining int)]
	onShutter []handler[func(shot int)]
	onDone    []handler[func()]
	nextID    uint32
}

// NewCountdown creates a stopped countdown.
func NewCountdown(cfg CountdownConfig) *Countdown {
	if cfg.Seconds < 1 {
		cfg.Seconds = 1
	}
	if cfg.Shots < 1 {
		cfg.Shots = 1
	}
	return &Countdown{cfg: cfg, pulseScale: 1}
}

// Start begins the sequence from the first shot and fires the first tick
// immediately. Restarting a running countdown starts over.
func (c *Countdown) Start() {
	c.running = true
	c.inGap = false
	c.shot = 0
	c.remaining = c.cfg.Seconds
	c.timer = 1
	c.flash = nil
	c.flashAlpha = 0
	c.tick()
}

// Cancel stops the sequence without firing further callbacks.
func (c *Countdown) Cancel() {
	c.running = false
	c.pulse = nil
	c.pulseScale = 1
}

// Running reports whether the sequence is in progress.
func (c *Countdown) Running() bool { return c.running }

// Shot returns the index of the shot being counted down.
func (c *Countdown) Shot() int { return c.shot }

// Remaining returns the number shown for the current shot.
func (c *Countdown) Remaining() int { return c.remaining }

// PulseScale returns the display scale of the countdown number.
func (c *Countdown) PulseScale() float64 { return c.pulseScale }

// FlashAlpha returns the opacity of the white shutter flash.
func (c *Countdown) FlashAlpha() float64 { return c.flashAlpha }

// Update advances the countdown by dt seconds.
func (c *Countdown) Update(dt float64) {
	if c.pulse != nil {
		v, done := c.pulse.Update(float32(dt))
		c.pulseScale = float64(v)
		if done {
			c.pulse = nil
		}
	}
	if c.flash != nil {
		v, done := c.flash.Update(float32(dt))
		c.flashAlpha = float64(v)
		if done {
			c.flash = nil
			c.flashAlpha = 0
		}
	}
	if !c.running {
		return
	}
	c.timer -= dt
	for c.running && c.timer <= 0 {
		switch {
		case c.inGap:
			c.inGap = false
			c.remaining = c.cfg.Seconds
			c.timer += 1
			c.tick()
		case c.remaining > 1:
			c.remaining--
			c.timer += 1
			c.tick()
		default:
			c.shutter()
		}
	}
}

func (c *Countdown) tick() {
	c.pulse = gween.New(1.35, 1, 0.6, ease.OutBack)
	c.pulseScale = 1.35
	for _, h := range c.onTick {
		h.fn(c.shot, c.remaining)
	}
}

func (c *Countdown) shutter() {
	c.remaining = 0
	c.flash = gween.New(1, 0, 0.4, ease.OutQuad)
	c.flashAlpha = 1
	shot := c.shot
	for _, h := range c.onShutter {
		h.fn(shot)
	}
	c.shot++
	if c.shot >= c.cfg.Shots {
		c.running = false
		for _, h := range c.onDone {
			h.fn()
		}
		return
	}
	c.inGap = true
	c.timer += c.cfg.ShotGap
}

// OnTick registers a callback fired for every visible countdown number.
func (c *Countdown) OnTick(fn func(shot, remaining int)) CallbackHandle {
	c.nextID++
	id := c.nextID
	c.onTick = append(c.onTick, handler[func(int, int)]{id: id, fn: fn})
	return CallbackHandle{remove: func() { c.onTick = removeHandler(c.onTick, id) }}
}

// OnShutter registers a callback fired when a shot should be captured.
func (c *Countdown) OnShutter(fn func(shot int)) CallbackHandle {
	c.nextID++
	id := c.nextID
	c.onShutter = append(c.onShutter, handler[func(int)]{id: id, fn: fn})
	return CallbackHandle{remove: func() { c.onShutter = removeHandler(c.onShutter, id) }}
}

// OnDone registers a callback fired after the last shutter.
func (c *Countdown) OnDone(fn func()) CallbackHandle {
	c.nextID++
	id := c.nextID
	c.onDone = append(c.onDone, handler[func()]{id: id, fn: fn})
	return CallbackHandle{remove: func() { c.onDone = removeHandler(c.onDone, id) }}
}
