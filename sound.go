package boothfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// CueSampleRate is the sample rate of the built-in audio cues.
const CueSampleRate = beep.SampleRate(44100)

// ToneGenerator is a decaying sine blip used for countdown ticks.
type ToneGenerator struct {
	sr    beep.SampleRate
	freq  float64
	decay float64 // seconds to fall to ~37%
	total int
	pos   int
}

// NewTickTone creates a short tick at freq Hz lasting d.
func NewTickTone(sr beep.SampleRate, freq float64, d time.Duration) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq, decay: d.Seconds() / 4, total: sr.N(d)}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		attack := math.Min(t/0.004, 1)
		v := 0.35 * attack * math.Exp(-t/g.decay) * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error { return nil }

// ShutterGenerator is a two-part click: a noise burst followed by a lower
// damped thump, like a mechanical shutter.
type ShutterGenerator struct {
	sr    beep.SampleRate
	total int
	pos   int
	seed  uint32
}

// NewShutterClick creates a shutter sound.
func NewShutterClick(sr beep.SampleRate) *ShutterGenerator {
	return &ShutterGenerator{sr: sr, total: sr.N(180 * time.Millisecond), seed: 0x9e3779b9}
}

// noise is a xorshift generator; the click must sound the same every time.
func (g *ShutterGenerator) noise() float64 {
	g.seed ^= g.seed << 13
	g.seed ^= g.seed >> 17
	g.seed ^= g.seed << 5
	return float64(g.seed)/float64(math.MaxUint32)*2 - 1
}

func (g *ShutterGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		v := 0.0
		if t < 0.03 {
			v += 0.5 * g.noise() * (1 - t/0.03)
		}
		if t >= 0.06 {
			tt := t - 0.06
			v += 0.4 * math.Exp(-tt/0.025) * math.Sin(2*math.Pi*140*tt)
		}
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ShutterGenerator) Err() error { return nil }

// Chime plays countdown and shutter cues through the system speaker. A Chime
// that failed to initialize stays silent.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewChime creates a silent chime; call Init to open the speaker.
func NewChime() *Chime {
	return &Chime{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Safe to call more than once.
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(CueSampleRate, CueSampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// SetMuted silences or restores cues.
func (c *Chime) SetMuted(m bool) {
	c.mu.Lock()
	c.muted = m
	c.mu.Unlock()
}

func (c *Chime) play(s beep.Streamer) {
	c.mu.Lock()
	ok := c.initialized && !c.muted
	c.mu.Unlock()
	if !ok {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Tick plays the countdown blip. The last number before the shutter is
// pitched up.
func (c *Chime) Tick(remaining int) {
	freq := 880.0
	if remaining == 1 {
		freq = 1320
	}
	c.play(NewTickTone(CueSampleRate, freq, 120*time.Millisecond))
}

// Shutter plays the shutter click.
func (c *Chime) Shutter() {
	c.play(NewShutterClick(CueSampleRate))
}

// Close stops all cues.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Clear()
	c.initialized = false
}
