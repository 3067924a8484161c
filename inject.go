package boothfx

// syntheticEvent represents a single injected environment event. Each one is
// consumed on its own frame and replaces real host input for that frame.
type syntheticEvent struct {
	kind EnvEvent
	x, y float64
	w, h int
	on   bool
}

func (in *Input) enqueue(evt syntheticEvent) {
	in.injectQueue = append(in.injectQueue, evt)
}

// InjectPointerMove queues a pointer move to window coordinates (x, y).
func (in *Input) InjectPointerMove(x, y float64) {
	in.enqueue(syntheticEvent{kind: EventPointerMove, x: x, y: y})
}

// InjectPointerLeave queues the pointer leaving the window.
func (in *Input) InjectPointerLeave() {
	in.enqueue(syntheticEvent{kind: EventPointerLeave})
}

// InjectBlur queues the window losing focus.
func (in *Input) InjectBlur() {
	in.enqueue(syntheticEvent{kind: EventBlur})
}

// InjectFocus queues the window regaining focus.
func (in *Input) InjectFocus() {
	in.enqueue(syntheticEvent{kind: EventFocus})
}

// InjectResize queues a layout size change.
func (in *Input) InjectResize(w, h int) {
	in.enqueue(syntheticEvent{kind: EventResize, w: w, h: h})
}

// InjectReducedMotion queues a change of the reduced-motion preference.
func (in *Input) InjectReducedMotion(on bool) {
	in.enqueue(syntheticEvent{kind: EventReducedMotion, on: on})
}

// InjectPointerPath queues a pointer sweep from (fromX, fromY) to (toX, toY),
// linearly interpolated over the given number of frames. Minimum frames is 2.
func (in *Input) InjectPointerPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		in.InjectPointerMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
}

// Pending returns the number of queued synthetic events.
func (in *Input) Pending() int { return len(in.injectQueue) }

// popInjected pops one event from the queue and folds it into st. Returns
// true if an event was consumed.
func (in *Input) popInjected(st *HostState) bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	switch evt.kind {
	case EventPointerMove:
		st.Cursor = Vec2{evt.x, evt.y}
		st.InWindow = true
	case EventPointerLeave:
		st.InWindow = false
	case EventBlur:
		st.Focused = false
	case EventFocus:
		st.Focused = true
	case EventResize:
		st.Width, st.Height = evt.w, evt.h
	case EventReducedMotion:
		in.reduced = evt.on
	}
	return true
}
