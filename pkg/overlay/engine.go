// ABOUTME: Overlay engine: lifecycle state machine tying scheduler, dismissal and locks together
// ABOUTME: Each open-to-close cycle is a generation; stale callbacks from older ones are dropped

package overlay

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mauromedda/floatkit/internal/eventbus"
	"github.com/mauromedda/floatkit/internal/log"
)

// Engine positions one overlay instance and manages its open/close lifecycle.
// It never renders: consumers subscribe and draw at the published position.
//
// Engine methods are meant to be called from the host's event loop. State is
// safe to read from other goroutines.
type Engine struct {
	host    Host
	surface Surface
	opts    Options
	subs    *eventbus.Bus[Session]

	mu       sync.Mutex
	session  Session
	gen      uint64
	live     *liveSession
	reopen   bool
	disposed bool
	late     *lateWatch
}

// liveSession holds everything one open session registered with the host.
type liveSession struct {
	gen   uint64
	sched *scheduler
	dism  *dismisser
	lock  *FocusLock
}

// teardown detaches listeners, cancels the pending frame and releases the
// lock. It runs synchronously so nothing fires after Close returns.
func (l *liveSession) teardown() {
	if l.dism != nil {
		l.dism.stop()
	}
	if l.sched != nil {
		l.sched.stop()
	}
	if l.lock != nil {
		l.lock.Release()
	}
}

// New creates a closed engine.
func New(host Host, surface Surface, opts Options) *Engine {
	opts = opts.normalize()
	return &Engine{
		host:    host,
		surface: surface,
		opts:    opts,
		subs:    eventbus.New[Session](),
		session: Session{
			ActivePlacement: opts.Placement,
			LastPosition:    Offscreen,
		},
	}
}

// Options returns the normalized options the engine runs with.
func (e *Engine) Options() Options {
	return e.opts
}

// State returns a snapshot of the current session.
func (e *Engine) State() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.clone()
}

// Subscribe registers fn to receive a snapshot after every transition and
// position change. It returns an unsubscribe func.
func (e *Engine) Subscribe(fn func(Session)) (unsubscribe func()) {
	return e.subs.Subscribe(fn)
}

// Open starts a session: closed -> opening -> open. Opening while opening or
// open is a no-op. Opening while closing waits for FinishExit.
func (e *Engine) Open() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	switch e.session.State {
	case StateOpening, StateOpen:
		e.mu.Unlock()
		return
	case StateClosing:
		e.reopen = true
		e.mu.Unlock()
		return
	}

	late := e.late
	e.late = nil
	e.gen++
	gen := e.gen
	live := &liveSession{gen: gen}
	live.sched = newScheduler(e.host, func() { e.measure(gen) })
	if e.opts.LockFocusAndScroll && e.opts.Document != nil {
		live.lock = NewFocusLock(e.host, e.opts.Document, e.opts.Locks)
	}
	e.live = live
	e.session = Session{
		ID:              uuid.NewString(),
		State:           StateOpening,
		IsOpen:          true,
		Mounted:         true,
		LastPosition:    Offscreen,
		ActivePlacement: e.opts.Placement,
	}
	id := e.session.ID
	e.mu.Unlock()

	if late != nil {
		late.stop()
	}
	log.Debug("overlay: session %s opening (placement=%s)", id, e.opts.Placement)

	live.dism = startDismisser(e.host, e.surface, e.opts.DismissOn, func(r DismissReason) {
		e.dismiss(gen, r)
	})
	live.sched.start()

	// Consumers mount content in response to the opening snapshot.
	e.notify()
	if !e.current(gen) {
		return
	}

	if live.lock != nil {
		live.lock.Acquire(e.surface, e.opts.InitialFocus)
		e.mu.Lock()
		if e.gen == gen && e.session.IsOpen {
			e.session.OwnsFocusLock = true
		}
		e.mu.Unlock()
	}

	if !e.measure(gen) && live.lock != nil && e.current(gen) {
		e.notify()
	}
}

// Close ends the session programmatically. Closing while closed or closing
// is a no-op.
func (e *Engine) Close() {
	e.closeWith(DismissProgrammatic)
}

// SetOpen adapts a controlled "open" prop to Open/Close.
func (e *Engine) SetOpen(open bool) {
	if open {
		e.Open()
		return
	}
	e.Close()
}

// FinishExit completes an animated exit: closing -> closed. A pending Open
// issued during the exit runs afterwards.
func (e *Engine) FinishExit() {
	e.mu.Lock()
	if e.session.State != StateClosing {
		e.mu.Unlock()
		return
	}
	e.session.State = StateClosed
	e.session.Mounted = false
	reopen := e.reopen && !e.disposed
	e.reopen = false
	e.mu.Unlock()

	e.notify()
	if reopen {
		e.Open()
	}
}

// Reposition requests a measurement pass on the next frame. Call it when the
// anchor or content geometry changes outside of scroll and resize.
func (e *Engine) Reposition() {
	e.mu.Lock()
	live := e.live
	e.mu.Unlock()
	if live != nil {
		live.sched.request()
	}
}

// Dispose is the owner's unmount hook. It tears down a live session the same
// way Close does, skips any exit animation, drops subscribers and makes the
// engine inert. Safe to call more than once.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.reopen = false
	state := e.session.State
	late := e.late
	e.late = nil
	e.mu.Unlock()

	if late != nil {
		late.stop()
	}

	switch state {
	case StateOpening, StateOpen:
		e.closeWith(DismissUnmount)
	case StateClosing:
		e.mu.Lock()
		e.session.State = StateClosed
		e.session.Mounted = false
		e.mu.Unlock()
		e.notify()
	}
	e.subs.Reset()
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen && e.session.IsOpen
}

// dismiss is the close callback handed to the dismissal controller.
func (e *Engine) dismiss(gen uint64, reason DismissReason) {
	if !e.current(gen) {
		return
	}
	log.Debug("overlay: dismissed by %s", reason)
	e.closeWith(reason)
}

func (e *Engine) closeWith(reason DismissReason) {
	e.mu.Lock()
	if !e.session.IsOpen {
		if e.session.State == StateClosing {
			// The last request wins over an Open queued during the exit.
			e.reopen = false
		}
		e.mu.Unlock()
		return
	}
	live := e.live
	e.live = nil
	e.session.IsOpen = false
	e.session.Position = nil
	e.session.OwnsFocusLock = false
	e.session.DismissReason = reason
	if e.opts.AnimateExit && reason != DismissUnmount {
		e.session.State = StateClosing
	} else {
		e.session.State = StateClosed
		e.session.Mounted = false
	}
	id, state, gen := e.session.ID, e.session.State, e.gen
	e.mu.Unlock()

	if live != nil {
		live.teardown()
	}
	if above := e.opts.DismissOn.outranking(reason); above.any() {
		e.watchLate(gen, above)
	}
	log.Debug("overlay: session %s %s (%s)", id, state, reason)
	e.notify()
}

// lateWatch listens for dismissal paths that outrank the reason a session
// closed with, until the turn that closed it ends.
type lateWatch struct {
	dism        *dismisser
	cancelFrame func()
}

func (w *lateWatch) stop() {
	w.dism.stop()
	if w.cancelFrame != nil {
		w.cancelFrame()
		w.cancelFrame = nil
	}
}

// watchLate keeps the paths in above registered until the next host frame,
// so an outside pointer-down dispatched after Escape in the same turn still
// resolves the reason to outside-click.
func (e *Engine) watchLate(gen uint64, above DismissOn) {
	w := &lateWatch{}
	w.dism = startDismisser(e.host, e.surface, above, func(r DismissReason) {
		e.upgrade(gen, r)
	})
	w.cancelFrame = e.host.RequestFrame(func() {
		e.mu.Lock()
		if e.late == w {
			e.late = nil
		}
		e.mu.Unlock()
		w.dism.stop()
	})

	e.mu.Lock()
	if e.gen != gen || e.session.IsOpen || e.disposed {
		e.mu.Unlock()
		w.stop()
		return
	}
	prev := e.late
	e.late = w
	e.mu.Unlock()
	if prev != nil {
		prev.stop()
	}
}

// upgrade replaces the dismissal reason of closed session gen when reason
// outranks it.
func (e *Engine) upgrade(gen uint64, reason DismissReason) {
	e.mu.Lock()
	if e.gen != gen || e.session.IsOpen || reason.priority() <= e.session.DismissReason.priority() {
		e.mu.Unlock()
		return
	}
	e.session.DismissReason = reason
	e.mu.Unlock()

	log.Debug("overlay: dismissal reason raised to %s", reason)
	e.notify()
}

// measure runs one measurement pass for generation gen and publishes the
// result. It reports whether subscribers were notified.
func (e *Engine) measure(gen uint64) bool {
	var anchor Rect
	anchorOK := true
	if e.opts.Anchoring == AnchorTrigger {
		anchor, anchorOK = e.surface.AnchorRect()
	}
	content, contentOK := e.surface.ContentRect()
	viewport := e.host.Viewport()

	e.mu.Lock()
	if e.gen != gen || !e.session.IsOpen {
		e.mu.Unlock()
		return false
	}
	if !anchorOK || !contentOK {
		opening := e.session.State == StateOpening
		live := e.live
		e.mu.Unlock()
		if opening && live != nil {
			// Not mounted yet: try again on the next frame.
			live.sched.request()
		}
		log.Debug("overlay: measurement unavailable (anchor=%v content=%v)", anchorOK, contentOK)
		return false
	}

	pos := e.place(anchor, content, viewport)
	changed := e.session.State == StateOpening || e.session.Position == nil || *e.session.Position != pos
	e.session.State = StateOpen
	e.session.Position = &pos
	e.session.LastPosition = pos
	e.mu.Unlock()

	if changed {
		e.notify()
	}
	return changed
}

func (e *Engine) place(anchor, content Rect, viewport Size) Position {
	var pos Position
	switch e.opts.Anchoring {
	case AnchorViewportCenter:
		pos = Center(viewport, content)
	case AnchorViewportEdge:
		pos = Dock(e.opts.Placement.Side(), viewport, content)
	default:
		pos = Resolve(anchor, content, e.opts.Placement, e.opts.Offset)
	}
	return Clamp(pos, content, viewport, e.opts.Margin)
}

func (e *Engine) notify() {
	e.mu.Lock()
	snap := e.session.clone()
	e.mu.Unlock()
	e.subs.Publish(snap)
}
