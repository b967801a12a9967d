// ABOUTME: In-memory overlay host for tests: element tree, listener counters, manual frames and timers
// ABOUTME: Implements overlay.Host and overlay.Document without a browser or terminal

package overlaytest

import (
	"slices"
	"sync"
	"time"

	"github.com/mauromedda/floatkit/internal/eventbus"
	"github.com/mauromedda/floatkit/pkg/overlay"
)

// Element is a fake host node with a parent chain for containment checks.
type Element struct {
	Name      string
	Parent    *Element
	Focusable bool
	Rect      overlay.Rect
	Detached  bool
}

// Contains reports whether n is e or one of its descendants.
func (e *Element) Contains(n overlay.Node) bool {
	other, ok := n.(*Element)
	if !ok || e == nil {
		return false
	}
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == e {
			return true
		}
	}
	return false
}

type scheduled struct {
	id  int
	at  time.Duration
	fn  func()
	off bool
}

// Host is a deterministic overlay.Host and overlay.Document. Frames run only
// on Flush and timers only on Advance.
type Host struct {
	mu       sync.Mutex
	buses    map[overlay.EventKind]*eventbus.Bus[overlay.Event]
	added    int
	removed  int
	frames   []*scheduled
	timers   []*scheduled
	nextID   int
	now      time.Duration
	viewport overlay.Size

	elements    []*Element
	active      overlay.Node
	scrollStyle string
	focusCalls  int
	Body        *Element
}

// NewHost returns a host with the given viewport and an attached body element.
func NewHost(width, height int) *Host {
	h := &Host{
		buses:    make(map[overlay.EventKind]*eventbus.Bus[overlay.Event]),
		viewport: overlay.Size{Width: width, Height: height},
	}
	h.Body = h.NewElement("body", nil)
	return h
}

// NewElement creates an attached element under parent (nil for a root).
func (h *Host) NewElement(name string, parent *Element) *Element {
	el := &Element{Name: name, Parent: parent}
	h.mu.Lock()
	h.elements = append(h.elements, el)
	h.mu.Unlock()
	return el
}

// NewFocusable creates an attached focusable element under parent.
func (h *Host) NewFocusable(name string, parent *Element) *Element {
	el := h.NewElement(name, parent)
	el.Focusable = true
	return el
}

func (h *Host) bus(kind overlay.EventKind) *eventbus.Bus[overlay.Event] {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buses[kind]
	if !ok {
		b = eventbus.New[overlay.Event]()
		h.buses[kind] = b
	}
	return b
}

// Listen implements overlay.Host and counts registrations.
func (h *Host) Listen(kind overlay.EventKind, capture bool, fn func(overlay.Event)) func() {
	b := h.bus(kind)
	var unsub func()
	if capture {
		unsub = b.SubscribeCapture(fn)
	} else {
		unsub = b.Subscribe(fn)
	}
	h.mu.Lock()
	h.added++
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsub()
			h.mu.Lock()
			h.removed++
			h.mu.Unlock()
		})
	}
}

// Added returns the number of Listen calls.
func (h *Host) Added() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.added
}

// Removed returns the number of registrations removed.
func (h *Host) Removed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.removed
}

// Live returns the number of registrations still attached.
func (h *Host) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.added - h.removed
}

// LiveFor returns the number of attached listeners for one event kind.
func (h *Host) LiveFor(kind overlay.EventKind) int {
	return h.bus(kind).Count()
}

// Dispatch delivers ev synchronously to the listeners of its kind.
func (h *Host) Dispatch(ev overlay.Event) {
	h.bus(ev.Kind).Publish(ev)
}

// KeyDown dispatches a keydown for key.
func (h *Host) KeyDown(key string) {
	h.Dispatch(overlay.Event{Kind: overlay.EventKeyDown, Key: key, Target: h.ActiveElement()})
}

// PointerDown dispatches a pointerdown on target.
func (h *Host) PointerDown(target *Element) {
	ev := overlay.Event{Kind: overlay.EventPointerDown}
	if target != nil {
		ev.Target = target
		ev.X, ev.Y = target.Rect.X, target.Rect.Y
	}
	h.Dispatch(ev)
}

// Scroll dispatches a scroll from target (nil for the window).
func (h *Host) Scroll(target *Element) {
	ev := overlay.Event{Kind: overlay.EventScroll}
	if target != nil {
		ev.Target = target
	}
	h.Dispatch(ev)
}

// Resize changes the viewport and dispatches a resize.
func (h *Host) Resize(width, height int) {
	h.mu.Lock()
	h.viewport = overlay.Size{Width: width, Height: height}
	h.mu.Unlock()
	h.Dispatch(overlay.Event{Kind: overlay.EventResize})
}

// Viewport implements overlay.Host.
func (h *Host) Viewport() overlay.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport
}

// RequestFrame implements overlay.Host. The frame runs on the next Flush.
func (h *Host) RequestFrame(fn func()) func() {
	h.mu.Lock()
	h.nextID++
	f := &scheduled{id: h.nextID, fn: fn}
	h.frames = append(h.frames, f)
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		f.off = true
		h.mu.Unlock()
	}
}

// PendingFrames returns the number of frames waiting for Flush.
func (h *Host) PendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, f := range h.frames {
		if !f.off {
			n++
		}
	}
	return n
}

// Flush runs the frames requested before the call. Frames requested while
// flushing wait for the next Flush, like animation frames.
func (h *Host) Flush() {
	h.mu.Lock()
	batch := h.frames
	h.frames = nil
	h.mu.Unlock()

	for _, f := range batch {
		h.mu.Lock()
		off := f.off
		h.mu.Unlock()
		if !off {
			f.fn()
		}
	}
}

// After implements overlay.Host. The timer fires during Advance.
func (h *Host) After(d time.Duration, fn func()) func() {
	h.mu.Lock()
	h.nextID++
	t := &scheduled{id: h.nextID, at: h.now + d, fn: fn}
	h.timers = append(h.timers, t)
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		t.off = true
		h.mu.Unlock()
	}
}

// PendingTimers returns the number of timers not yet fired or cancelled.
func (h *Host) PendingTimers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, t := range h.timers {
		if !t.off {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in order.
func (h *Host) Advance(d time.Duration) {
	h.mu.Lock()
	target := h.now + d
	h.mu.Unlock()

	for {
		h.mu.Lock()
		slices.SortStableFunc(h.timers, func(a, b *scheduled) int {
			switch {
			case a.at < b.at:
				return -1
			case a.at > b.at:
				return 1
			}
			return a.id - b.id
		})
		var next *scheduled
		for i, t := range h.timers {
			if t.off {
				continue
			}
			if t.at <= target {
				next = t
				h.timers = append(h.timers[:i], h.timers[i+1:]...)
			}
			break
		}
		if next == nil {
			h.now = target
			h.timers = slices.DeleteFunc(h.timers, func(t *scheduled) bool { return t.off })
			h.mu.Unlock()
			return
		}
		h.now = next.at
		h.mu.Unlock()
		next.fn()
	}
}

// ActiveElement implements overlay.Document.
func (h *Host) ActiveElement() overlay.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Focus implements overlay.Document and dispatches focusin to the target.
func (h *Host) Focus(n overlay.Node) {
	h.mu.Lock()
	h.active = n
	h.focusCalls++
	h.mu.Unlock()
	h.Dispatch(overlay.Event{Kind: overlay.EventFocusIn, Target: n})
}

// FocusCalls returns how many times Focus was called.
func (h *Host) FocusCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focusCalls
}

// IsAttached implements overlay.Document.
func (h *Host) IsAttached(n overlay.Node) bool {
	el, ok := n.(*Element)
	if !ok || el == nil {
		return false
	}
	for cur := el; cur != nil; cur = cur.Parent {
		if cur.Detached {
			return false
		}
	}
	return true
}

// FirstFocusable implements overlay.Document using creation order.
func (h *Host) FirstFocusable(within overlay.Node) overlay.Node {
	root, ok := within.(*Element)
	if !ok {
		return nil
	}
	h.mu.Lock()
	elements := slices.Clone(h.elements)
	h.mu.Unlock()
	for _, el := range elements {
		if el != root && el.Focusable && root.Contains(el) && h.IsAttached(el) {
			return el
		}
	}
	return nil
}

// ScrollStyle implements overlay.Document.
func (h *Host) ScrollStyle() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scrollStyle
}

// SetScrollStyle implements overlay.Document.
func (h *Host) SetScrollStyle(style string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrollStyle = style
}
