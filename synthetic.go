package boothfx

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// Default native size of synthetic streams opened without a resolution hint.
const (
	SyntheticDefaultWidth  = 1280
	SyntheticDefaultHeight = 720
)

// SyntheticDevices is a MediaDevices that produces test-pattern streams. It
// fails requests according to a script, which makes negotiation paths
// reproducible without hardware.
type SyntheticDevices struct {
	// Gate, when non-nil, blocks every request until a value is received or
	// ctx ends.
	Gate chan struct{}
	// IgnoreCancel makes a gated request wait for Gate even after ctx ends.
	IgnoreCancel bool
	// OnRequest runs at the start of every request.
	OnRequest func(ConstraintPreset)

	mu      sync.Mutex
	script  []error
	calls   []ConstraintPreset
	streams []*SyntheticStream
}

// NewSyntheticDevices returns devices whose n-th request fails with
// script[n]. A nil entry, or any request past the end of the script,
// succeeds.
func NewSyntheticDevices(script ...error) *SyntheticDevices {
	return &SyntheticDevices{script: script}
}

// GetUserMedia implements MediaDevices.
func (d *SyntheticDevices) GetUserMedia(ctx context.Context, p ConstraintPreset) (MediaStream, error) {
	d.mu.Lock()
	n := len(d.calls)
	d.calls = append(d.calls, p)
	var fail error
	if n < len(d.script) {
		fail = d.script[n]
	}
	d.mu.Unlock()

	if d.OnRequest != nil {
		d.OnRequest(p)
	}
	if d.Gate != nil {
		if d.IgnoreCancel {
			<-d.Gate
		} else {
			select {
			case <-d.Gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if fail != nil {
		return nil, fail
	}

	w, h := p.Width, p.Height
	if w <= 0 || h <= 0 {
		w, h = SyntheticDefaultWidth, SyntheticDefaultHeight
	}
	s := NewSyntheticStream(w, h)
	s.settings.FrameRate = p.FrameRate
	s.settings.FacingMode = p.FacingMode

	d.mu.Lock()
	d.streams = append(d.streams, s)
	d.mu.Unlock()
	return s, nil
}

// Calls returns every preset requested so far, in order.
func (d *SyntheticDevices) Calls() []ConstraintPreset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ConstraintPreset(nil), d.calls...)
}

// Streams returns every stream opened so far.
func (d *SyntheticDevices) Streams() []*SyntheticStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*SyntheticStream(nil), d.streams...)
}

// SyntheticStream is a MediaStream serving a fixed gradient pattern: red
// grows left to right and green grows top to bottom.
type SyntheticStream struct {
	mu       sync.Mutex
	settings TrackSettings
	ready    bool
	stopped  bool
	frame    *image.RGBA
}

// NewSyntheticStream creates a ready stream of the given size.
func NewSyntheticStream(w, h int) *SyntheticStream {
	return &SyntheticStream{
		settings: TrackSettings{
			DeviceID:    "synthetic",
			Width:       w,
			Height:      h,
			AspectRatio: float64(w) / float64(h),
		},
		ready: true,
		frame: GradientPattern(w, h),
	}
}

// SetReady toggles whether the stream reports its dimensions and frames.
// A stream that is not ready behaves like a camera still warming up.
func (s *SyntheticStream) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Settings implements MediaStream.
func (s *SyntheticStream) Settings() TrackSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || s.stopped {
		st := s.settings
		st.Width, st.Height, st.AspectRatio = 0, 0, 0
		return st
	}
	return s.settings
}

// Frame implements MediaStream.
func (s *SyntheticStream) Frame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || s.stopped {
		return nil, false
	}
	return s.frame, true
}

// Stop implements MediaStream.
func (s *SyntheticStream) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (s *SyntheticStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// GradientPattern returns a w×h image with red proportional to x and green
// proportional to y.
func GradientPattern(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		g := uint8(0)
		if h > 1 {
			g = uint8(y * 255 / (h - 1))
		}
		for x := 0; x < w; x++ {
			r := uint8(0)
			if w > 1 {
				r = uint8(x * 255 / (w - 1))
			}
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: 128, A: 255})
		}
	}
	return img
}
