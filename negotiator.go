package boothfx

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TrackSettings are the values a device actually delivered, which may differ
// from the requested preset.
type TrackSettings struct {
	DeviceID    string
	Width       int
	Height      int
	AspectRatio float64
	FrameRate   float64
	FacingMode  FacingMode
}

// Size returns the native frame size. Zero until the device reports it.
func (t TrackSettings) Size() Size {
	return Size{W: float64(t.Width), H: float64(t.Height)}
}

// MediaStream is a live capture stream. Settings may report zero dimensions
// until the first frame arrives.
type MediaStream interface {
	Settings() TrackSettings
	// Frame returns the most recent frame, or false if none has arrived.
	Frame() (image.Image, bool)
	// Stop ends every track. Safe to call more than once.
	Stop()
}

// MediaDevices opens capture streams. GetUserMedia must return promptly with
// an error when a preset cannot be satisfied and honor ctx cancellation. ctx
// bounds the request only; a returned stream lives until Stop.
type MediaDevices interface {
	GetUserMedia(ctx context.Context, p ConstraintPreset) (MediaStream, error)
}

// FrameSource is what the compositor reads from. *CaptureSession implements
// it.
type FrameSource interface {
	NativeSize() Size
	Frame() (image.Image, bool)
}

// SessionState is the lifecycle state of the negotiator.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionRequesting
	SessionActive
	SessionErrored
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionRequesting:
		return "requesting"
	case SessionActive:
		return "active"
	case SessionErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// CaptureHint is the caller's input to Acquire.
type CaptureHint struct {
	// TargetAspect is the soft aspect ratio hint; 0 means none.
	TargetAspect float64
	Class        DeviceClass
	// Presets overrides BuildPresets when non-empty.
	Presets []ConstraintPreset
}

func (h CaptureHint) presets() []ConstraintPreset {
	if len(h.Presets) > 0 {
		return h.Presets
	}
	return BuildPresets(h.TargetAspect, h.Class)
}

// CaptureSession is an acquired stream plus the settings it reported.
type CaptureSession struct {
	ID        string
	Preset    ConstraintPreset
	Settings  TrackSettings
	Stream    MediaStream
	StartedAt time.Time
}

// NativeSize returns the stream's current native frame size, or the zero
// Size while it is unknown.
func (s *CaptureSession) NativeSize() Size {
	if s == nil || s.Stream == nil {
		return Size{}
	}
	return s.Stream.Settings().Size()
}

// Frame returns the latest frame of the stream.
func (s *CaptureSession) Frame() (image.Image, bool) {
	if s == nil || s.Stream == nil {
		return nil, false
	}
	return s.Stream.Frame()
}

// attemptResult is the outcome of a single preset attempt.
type attemptResult struct {
	preset ConstraintPreset
	stream MediaStream
	kind   CaptureErrorKind
	err    error
}

func (r attemptResult) ok() bool { return r.stream != nil && r.err == nil }

// Negotiator owns the capture stream. It tries presets in order, stops at the
// first success or at a permission denial, and guarantees the stream is
// stopped on Release even when acquisition is still in flight.
type Negotiator struct {
	devices        MediaDevices
	attemptTimeout time.Duration

	mu       sync.Mutex
	gen      uint64
	state    SessionState
	session  *CaptureSession
	attempts int
	tried    []ConstraintPreset
	lastErr  error
	cancel   context.CancelFunc
}

// NewNegotiator creates a negotiator over devices. A nil devices value makes
// every Acquire fail with KindUnsupportedEnvironment.
func NewNegotiator(devices MediaDevices) *Negotiator {
	return &Negotiator{devices: devices}
}

// SetAttemptTimeout bounds each preset attempt. Zero disables the bound and
// relies on the device to reject.
func (n *Negotiator) SetAttemptTimeout(d time.Duration) {
	n.mu.Lock()
	n.attemptTimeout = d
	n.mu.Unlock()
}

// Acquire negotiates a stream. Any previous session is released first. On
// failure the returned error is a *CaptureError, or ErrReleased when Release
// was called while acquisition was running.
func (n *Negotiator) Acquire(ctx context.Context, hint CaptureHint) (*CaptureSession, error) {
	n.mu.Lock()
	n.releaseLocked()
	if n.devices == nil {
		err := &CaptureError{Kind: KindUnsupportedEnvironment, Message: "no capture devices available"}
		n.state, n.lastErr = SessionErrored, err
		n.mu.Unlock()
		return nil, err
	}
	n.gen++
	gen := n.gen
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.state = SessionRequesting
	n.attempts = 0
	n.tried = n.tried[:0]
	n.lastErr = nil
	timeout := n.attemptTimeout
	n.mu.Unlock()
	defer cancel()

	log := Logger()
	presets := hint.presets()
	var last attemptResult
	for _, p := range presets {
		if ctx.Err() != nil {
			break
		}
		res := n.attempt(ctx, p, timeout)

		n.mu.Lock()
		if n.gen != gen {
			n.mu.Unlock()
			if res.stream != nil {
				res.stream.Stop()
			}
			return nil, ErrReleased
		}
		n.attempts++
		n.tried = append(n.tried, p)
		if res.ok() {
			s := &CaptureSession{
				ID:        uuid.NewString(),
				Preset:    p,
				Settings:  res.stream.Settings(),
				Stream:    res.stream,
				StartedAt: time.Now(),
			}
			n.session = s
			n.state = SessionActive
			n.cancel = nil
			attempts := n.attempts
			n.mu.Unlock()
			log.Info("camera session started",
				"session", s.ID, "preset", p.Name, "attempts", attempts,
				"width", s.Settings.Width, "height", s.Settings.Height)
			return s, nil
		}
		n.mu.Unlock()

		log.Debug("camera preset rejected", "preset", p.String(), "kind", res.kind, "error", res.err)
		last = res
		if res.kind.Fatal() {
			break
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return nil, ErrReleased
	}
	n.cancel = nil
	var err *CaptureError
	switch {
	case last.err != nil:
		err = &CaptureError{Kind: last.kind, Message: last.err.Error(), Attempts: n.attempts, Err: last.err}
	case ctx.Err() != nil:
		err = &CaptureError{Kind: KindUnknown, Message: "acquisition cancelled", Attempts: n.attempts, Err: ctx.Err()}
	default:
		err = &CaptureError{Kind: KindConstraintUnsatisfiable, Message: "no presets to try"}
	}
	n.state, n.lastErr = SessionErrored, err
	log.Warn("camera negotiation failed", "kind", err.Kind, "attempts", n.attempts, "error", err.Message)
	return nil, err
}

func (n *Negotiator) attempt(ctx context.Context, p ConstraintPreset, timeout time.Duration) attemptResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	stream, err := n.devices.GetUserMedia(ctx, p)
	switch {
	case err != nil:
		if stream != nil {
			stream.Stop()
		}
		kind := KindOf(err)
		if errors.Is(err, context.DeadlineExceeded) && kind == KindUnknown {
			kind = KindConstraintUnsatisfiable
		}
		return attemptResult{preset: p, kind: kind, err: err}
	case stream == nil:
		return attemptResult{preset: p, kind: KindUnknown, err: fmt.Errorf("preset %s: device returned no stream", p.Name)}
	default:
		return attemptResult{preset: p, stream: stream}
	}
}

// Release stops every track of the active stream, clears the session and
// cancels an acquisition in flight. Safe to call any number of times.
func (n *Negotiator) Release() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.releaseLocked()
}

func (n *Negotiator) releaseLocked() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	if n.state == SessionRequesting {
		n.gen++
	}
	if n.session != nil {
		n.session.Stream.Stop()
		Logger().Info("camera session released", "session", n.session.ID)
		n.session = nil
	}
	n.state = SessionIdle
}

// Session returns the active session, or nil.
func (n *Negotiator) Session() *CaptureSession {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.session
}

// State returns the lifecycle state.
func (n *Negotiator) State() SessionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Attempts returns the number of presets the last Acquire tried.
func (n *Negotiator) Attempts() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attempts
}

// Tried returns the presets the last Acquire tried, in order.
func (n *Negotiator) Tried() []ConstraintPreset {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ConstraintPreset(nil), n.tried...)
}

// LastError returns the error of the last failed Acquire.
func (n *Negotiator) LastError() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastErr
}
