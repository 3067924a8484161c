package boothfx

import "github.com/hajimehoshi/ebiten/v2"

// EnvEvent identifies a host environment signal.
type EnvEvent uint8

const (
	EventResize EnvEvent = iota
	EventPointerMove
	EventPointerLeave
	EventBlur
	EventFocus
	EventReducedMotion
)

func (e EnvEvent) String() string {
	switch e {
	case EventResize:
		return "resize"
	case EventPointerMove:
		return "pointer-move"
	case EventPointerLeave:
		return "pointer-leave"
	case EventBlur:
		return "blur"
	case EventFocus:
		return "focus"
	case EventReducedMotion:
		return "reduced-motion"
	default:
		return "unknown"
	}
}

// HostState is one frame's view of the host environment.
type HostState struct {
	Cursor        Vec2
	InWindow      bool
	Focused       bool
	Width, Height int
	ReducedMotion bool
}

// --- Handler registry ---

type handler[F any] struct {
	id uint32
	fn F
}

func removeHandler[F any](s []handler[F], id uint32) []handler[F] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[F]{}
			return s[:len(s)-1]
		}
	}
	return s
}

type handlerRegistry struct {
	resize        []handler[func(w, h int)]
	pointerMove   []handler[func(x, y float64)]
	pointerLeave  []handler[func()]
	blur          []handler[func()]
	focus         []handler[func()]
	reducedMotion []handler[func(bool)]
	nextID        uint32
}

func (r *handlerRegistry) remove(event EnvEvent, id uint32) {
	switch event {
	case EventResize:
		r.resize = removeHandler(r.resize, id)
	case EventPointerMove:
		r.pointerMove = removeHandler(r.pointerMove, id)
	case EventPointerLeave:
		r.pointerLeave = removeHandler(r.pointerLeave, id)
	case EventBlur:
		r.blur = removeHandler(r.blur, id)
	case EventFocus:
		r.focus = removeHandler(r.focus, id)
	case EventReducedMotion:
		r.reducedMotion = removeHandler(r.reducedMotion, id)
	}
}

func (r *handlerRegistry) handle(event EnvEvent, id uint32) CallbackHandle {
	return CallbackHandle{remove: func() { r.remove(event, id) }}
}

// CallbackHandle is a scoped subscription. Remove unregisters the callback;
// calling it more than once is a no-op. The zero CallbackHandle is valid.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// Subscriptions collects handles so an owner can drop all of them at once.
type Subscriptions []CallbackHandle

// Add appends h.
func (s *Subscriptions) Add(h CallbackHandle) { *s = append(*s, h) }

// RemoveAll removes every collected handle and empties the set.
func (s *Subscriptions) RemoveAll() {
	for _, h := range *s {
		h.Remove()
	}
	*s = (*s)[:0]
}

// --- Input ---

// Input observes the host environment once per frame and turns state changes
// into resize, pointer, focus and reduced-motion events.
type Input struct {
	prev        HostState
	poll        bool
	reduced     bool
	injectQueue []syntheticEvent
	handlers    handlerRegistry
}

// NewInput returns an Input that polls ebiten for cursor and focus.
func NewInput() *Input {
	return &Input{
		prev: HostState{Focused: true},
		poll: true,
	}
}

// SetPolling turns host polling on or off. With polling off only injected
// events change the observed state, which keeps scripted runs independent
// of the real cursor.
func (in *Input) SetPolling(on bool) { in.poll = on }

// SetReducedMotion records the reduced-motion preference. The change is
// dispatched on the next Update.
func (in *Input) SetReducedMotion(on bool) { in.reduced = on }

// State returns the last observed host state.
func (in *Input) State() HostState { return in.prev }

// Update observes the host for the current frame. width and height are the
// layout size reported by ebiten. A queued synthetic event, if any, replaces
// real input for this frame.
func (in *Input) Update(width, height int) {
	st := in.prev
	if in.popInjected(&st) {
		st.ReducedMotion = in.reduced
		in.apply(st)
		return
	}
	if in.poll {
		x, y := ebiten.CursorPosition()
		st.Width, st.Height = width, height
		st.Cursor = Vec2{float64(x), float64(y)}
		st.InWindow = x >= 0 && y >= 0 && x < width && y < height
		st.Focused = ebiten.IsFocused()
	}
	st.ReducedMotion = in.reduced
	in.apply(st)
}

// apply diffs st against the previous state and fires handlers. Order is
// resize, reduced motion, blur/focus, then pointer leave/move.
func (in *Input) apply(st HostState) {
	prev := in.prev
	in.prev = st

	if st.Width != prev.Width || st.Height != prev.Height {
		for _, h := range in.handlers.resize {
			h.fn(st.Width, st.Height)
		}
	}
	if st.ReducedMotion != prev.ReducedMotion {
		for _, h := range in.handlers.reducedMotion {
			h.fn(st.ReducedMotion)
		}
	}
	if st.Focused != prev.Focused {
		if st.Focused {
			for _, h := range in.handlers.focus {
				h.fn()
			}
		} else {
			for _, h := range in.handlers.blur {
				h.fn()
			}
		}
	}

	tracking := st.InWindow && st.Focused
	wasTracking := prev.InWindow && prev.Focused
	switch {
	case tracking && (!wasTracking || st.Cursor != prev.Cursor):
		for _, h := range in.handlers.pointerMove {
			h.fn(st.Cursor.X, st.Cursor.Y)
		}
	case !st.InWindow && prev.InWindow:
		for _, h := range in.handlers.pointerLeave {
			h.fn()
		}
	}
}

// --- Registration ---

// OnResize registers a callback for layout size changes.
func (in *Input) OnResize(fn func(w, h int)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.resize = append(in.handlers.resize, handler[func(int, int)]{id: id, fn: fn})
	return in.handlers.handle(EventResize, id)
}

// OnPointerMove registers a callback for cursor movement inside a focused
// window.
func (in *Input) OnPointerMove(fn func(x, y float64)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.pointerMove = append(in.handlers.pointerMove, handler[func(float64, float64)]{id: id, fn: fn})
	return in.handlers.handle(EventPointerMove, id)
}

// OnPointerLeave registers a callback for the cursor leaving the window.
func (in *Input) OnPointerLeave(fn func()) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.pointerLeave = append(in.handlers.pointerLeave, handler[func()]{id: id, fn: fn})
	return in.handlers.handle(EventPointerLeave, id)
}

// OnBlur registers a callback for the window losing focus.
func (in *Input) OnBlur(fn func()) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.blur = append(in.handlers.blur, handler[func()]{id: id, fn: fn})
	return in.handlers.handle(EventBlur, id)
}

// OnFocus registers a callback for the window regaining focus.
func (in *Input) OnFocus(fn func()) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.focus = append(in.handlers.focus, handler[func()]{id: id, fn: fn})
	return in.handlers.handle(EventFocus, id)
}

// OnReducedMotion registers a callback for changes of the reduced-motion
// preference.
func (in *Input) OnReducedMotion(fn func(on bool)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.reducedMotion = append(in.handlers.reducedMotion, handler[func(bool)]{id: id, fn: fn})
	return in.handlers.handle(EventReducedMotion, id)
}
