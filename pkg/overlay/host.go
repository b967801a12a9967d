// ABOUTME: Host contracts the engine runs against: event registry, frames, timers, document
// ABOUTME: Surface supplies anchor/content measurements and hit-testing from the consumer

package overlay

import "time"

// Node is an opaque handle to a host element (a DOM node, a terminal
// component, a test double). The engine only compares and forwards it.
type Node any

// EventKind identifies the document-level events the engine listens to.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventPointerDown
	EventScroll
	EventResize
	EventFocusIn
)

func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "keydown"
	case EventPointerDown:
		return "pointerdown"
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	case EventFocusIn:
		return "focusin"
	default:
		return "unknown"
	}
}

// KeyEscape is the Event.Key value of the Escape key.
const KeyEscape = "Escape"

// Event is a host event delivered to engine listeners.
type Event struct {
	Kind   EventKind
	Key    string // keydown only
	Target Node   // originating element; nil for window-level events
	X, Y   int    // pointer coordinates
}

// Host is the platform the engine runs on. Every registration returns its
// own disposer; the engine never removes registrations it did not create.
type Host interface {
	// Listen registers h for events of kind at the document level.
	// Capture listeners also observe events from nested scroll containers.
	Listen(kind EventKind, capture bool, h func(Event)) (remove func())

	// RequestFrame runs fn before the next paint. The returned func cancels
	// it if it has not run yet.
	RequestFrame(fn func()) (cancel func())

	// After runs fn once d has elapsed, never synchronously from After
	// itself. The returned func cancels it.
	After(d time.Duration, fn func()) (cancel func())

	// Viewport returns the current visible area.
	Viewport() Size
}

// Document is the focus and scroll surface used by FocusLock.
type Document interface {
	ActiveElement() Node
	Focus(n Node)
	IsAttached(n Node) bool
	// FirstFocusable returns the first focusable descendant of within, or nil.
	FirstFocusable(within Node) Node
	// ScrollStyle returns the page scroll style ("" means the host default).
	ScrollStyle() string
	SetScrollStyle(style string)
}

// Surface is implemented by the consumer to give the engine fresh geometry
// on demand instead of sharing mutable state with it.
type Surface interface {
	// AnchorRect measures the trigger. ok is false when the anchor is not
	// attached to a renderable surface.
	AnchorRect() (r Rect, ok bool)
	// ContentRect measures the floating content. ok is false before the
	// content has been mounted.
	ContentRect() (r Rect, ok bool)
	InTrigger(target Node) bool
	InContent(target Node) bool
	// ContentNode is the focus-trap container; nil disables trapping.
	ContentNode() Node
}

// SurfaceFuncs adapts plain functions to Surface. Nil funcs report "not
// measured" or "not inside".
type SurfaceFuncs struct {
	Anchor  func() (Rect, bool)
	Content func() (Rect, bool)
	Trigger func(Node) bool
	Inside  func(Node) bool
	Node    Node
}

func (s SurfaceFuncs) AnchorRect() (Rect, bool) {
	if s.Anchor == nil {
		return Rect{}, false
	}
	return s.Anchor()
}

func (s SurfaceFuncs) ContentRect() (Rect, bool) {
	if s.Content == nil {
		return Rect{}, false
	}
	return s.Content()
}

func (s SurfaceFuncs) InTrigger(target Node) bool {
	return s.Trigger != nil && s.Trigger(target)
}

func (s SurfaceFuncs) InContent(target Node) bool {
	return s.Inside != nil && s.Inside(target)
}

func (s SurfaceFuncs) ContentNode() Node {
	return s.Node
}
