package boothfx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	dark "github.com/thiagokokada/dark-mode-go"
)

// ThemeState is the single light/dark flag consumed by the wave renderer and
// layer styling. It is owned by the frame loop and not safe for concurrent
// use.
type ThemeState struct {
	dark      bool
	listeners []handler[func(bool)]
	nextID    uint32
}

// NewThemeState returns a theme starting in the given mode.
func NewThemeState(isDark bool) *ThemeState {
	return &ThemeState{dark: isDark}
}

// Dark reports whether the dark theme is active.
func (t *ThemeState) Dark() bool { return t.dark }

// Set switches the theme. Listeners fire only when the value changes.
func (t *ThemeState) Set(isDark bool) {
	if t.dark == isDark {
		return
	}
	t.dark = isDark
	for _, l := range t.listeners {
		l.fn(isDark)
	}
}

// Toggle flips the theme.
func (t *ThemeState) Toggle() { t.Set(!t.dark) }

// OnChange registers fn to run after every theme change.
func (t *ThemeState) OnChange(fn func(dark bool)) CallbackHandle {
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, handler[func(bool)]{id: id, fn: fn})
	return CallbackHandle{remove: func() {
		t.listeners = removeHandler(t.listeners, id)
	}}
}

// DefaultThemePollInterval is how often SystemThemeWatcher asks the OS.
const DefaultThemePollInterval = 2 * time.Second

// SystemThemeWatcher polls the operating system's dark mode preference in a
// background goroutine. The frame loop picks the latest value up with Sync,
// so ThemeState is only ever touched from one goroutine.
type SystemThemeWatcher struct {
	interval time.Duration
	detect   func() (bool, error)

	dark    atomic.Bool
	known   atomic.Bool
	pending atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSystemThemeWatcher creates a watcher. A non-positive interval selects
// DefaultThemePollInterval.
func NewSystemThemeWatcher(interval time.Duration) *SystemThemeWatcher {
	if interval <= 0 {
		interval = DefaultThemePollInterval
	}
	return &SystemThemeWatcher{interval: interval, detect: dark.IsDarkMode}
}

// Start begins polling. Calling Start on a running watcher is a no-op.
func (w *SystemThemeWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.loop(ctx, w.done)
}

// Stop ends polling and waits for the goroutine to exit. Safe to call more
// than once.
func (w *SystemThemeWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *SystemThemeWatcher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(w.interval)
	defer t.Stop()
	warned := false
	for {
		isDark, err := w.detect()
		if err != nil {
			if !warned {
				Logger().Warn("system theme detection failed", "error", err)
				warned = true
			}
		} else {
			w.store(isDark)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (w *SystemThemeWatcher) store(isDark bool) {
	if w.known.Load() && w.dark.Load() == isDark {
		return
	}
	w.dark.Store(isDark)
	w.known.Store(true)
	w.pending.Store(true)
}

// Latest returns the most recent OS preference and whether one has been
// observed yet.
func (w *SystemThemeWatcher) Latest() (isDark, ok bool) {
	return w.dark.Load(), w.known.Load()
}

// Sync applies a newly observed preference to t. Reports whether t was
// updated.
func (w *SystemThemeWatcher) Sync(t *ThemeState) bool {
	if !w.pending.Swap(false) {
		return false
	}
	t.Set(w.dark.Load())
	return true
}
