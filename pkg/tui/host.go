// ABOUTME: Terminal overlay host: a node tree over the cell grid plus event buses, frames and timers
// ABOUTME: Implements overlay.Host and overlay.Document; an event Loop serializes everything onto one goroutine

package tui

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mauromedda/floatkit/internal/eventbus"
	"github.com/mauromedda/floatkit/pkg/overlay"
)

// Node is a rectangular region of the screen: a trigger, an overlay body or
// a control inside one. Hidden hides the node and its descendants from hit
// testing and focus.
type Node struct {
	Name      string
	Parent    *Node
	Rect      overlay.Rect
	Focusable bool
	Hidden    bool

	seq int
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other overlay.Node) bool {
	o, ok := other.(*Node)
	if !ok || n == nil {
		return false
	}
	for cur := o; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *Node) depth() int {
	d := 0
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		d++
	}
	return d
}

// Loop runs work on the goroutine that owns a Host. TUI implements it.
type Loop interface {
	// Post schedules fn to run on the loop goroutine.
	Post(fn func())
	// Wake tells the loop a frame was requested.
	Wake()
}

type frame struct {
	fn  func()
	off bool
}

// Host adapts a terminal screen to the overlay engine. Its methods must be
// called from the loop goroutine; use Loop.Post from anywhere else.
type Host struct {
	mu     sync.Mutex
	loop   Loop
	size   overlay.Size
	buses  map[overlay.EventKind]*eventbus.Bus[overlay.Event]
	frames []*frame

	// Root covers the whole viewport.
	Root        *Node
	nodes       []*Node
	nextSeq     int
	active      overlay.Node
	scrollStyle string
	scrollY     int
}

// NewHost creates a host for a width x height cell viewport.
func NewHost(w, h int) *Host {
	host := &Host{
		size:  overlay.Size{Width: w, Height: h},
		buses: make(map[overlay.EventKind]*eventbus.Bus[overlay.Event]),
	}
	host.Root = host.NewNode("root", nil, overlay.Rect{Width: w, Height: h})
	return host
}

// SetLoop sets the loop timers post to and frame requests wake.
func (h *Host) SetLoop(l Loop) {
	h.mu.Lock()
	h.loop = l
	h.mu.Unlock()
}

// NewNode adds a node under parent (nil for a root).
func (h *Host) NewNode(name string, parent *Node, r overlay.Rect) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSeq++
	n := &Node{Name: name, Parent: parent, Rect: r, seq: h.nextSeq}
	h.nodes = append(h.nodes, n)
	return n
}

// NewFocusable adds a focusable node under parent.
func (h *Host) NewFocusable(name string, parent *Node, r overlay.Rect) *Node {
	n := h.NewNode(name, parent, r)
	n.Focusable = true
	return n
}

// RemoveNode drops n and its descendants from the tree.
func (h *Host) RemoveNode(n *Node) {
	h.mu.Lock()
	kept := h.nodes[:0]
	for _, cur := range h.nodes {
		if !n.Contains(cur) {
			kept = append(kept, cur)
		}
	}
	clear(h.nodes[len(kept):])
	h.nodes = kept
	h.mu.Unlock()
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

// Listen implements overlay.Host.
func (h *Host) Listen(kind overlay.EventKind, capture bool, fn func(overlay.Event)) func() {
	if capture {
		return h.bus(kind).SubscribeCapture(fn)
	}
	return h.bus(kind).Subscribe(fn)
}

// Listeners returns the number of handlers attached for kind.
func (h *Host) Listeners(kind overlay.EventKind) int {
	return h.bus(kind).Count()
}

// RequestFrame implements overlay.Host. fn runs at the start of the next
// render, before layers are composited.
func (h *Host) RequestFrame(fn func()) func() {
	f := &frame{fn: fn}
	h.mu.Lock()
	h.frames = append(h.frames, f)
	loop := h.loop
	h.mu.Unlock()
	if loop != nil {
		loop.Wake()
	}
	return func() {
		h.mu.Lock()
		f.off = true
		h.mu.Unlock()
	}
}

// RunFrames runs the frames requested so far. Frames requested while they
// run wait for the next call.
func (h *Host) RunFrames() {
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

// PendingFrames returns the number of frames waiting to run.
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

// After implements overlay.Host. fn is posted to the loop when the timer
// fires; cancelling after the post still prevents it from running.
func (h *Host) After(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		h.mu.Lock()
		loop := h.loop
		h.mu.Unlock()
		run := func() {
			if !cancelled.Load() {
				fn()
			}
		}
		if loop != nil {
			loop.Post(run)
			return
		}
		run()
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Viewport implements overlay.Host.
func (h *Host) Viewport() overlay.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *Host) dispatch(ev overlay.Event) {
	h.bus(ev.Kind).Publish(ev)
}

func (h *Host) wake() {
	h.mu.Lock()
	loop := h.loop
	h.mu.Unlock()
	if loop != nil {
		loop.Wake()
	}
}

// Resize changes the viewport and dispatches a resize.
func (h *Host) Resize(w, ht int) {
	h.mu.Lock()
	h.size = overlay.Size{Width: w, Height: ht}
	h.Root.Rect = overlay.Rect{Width: w, Height: ht}
	h.mu.Unlock()
	h.dispatch(overlay.Event{Kind: overlay.EventResize})
}

// KeyDown dispatches a key press to the focused node.
func (h *Host) KeyDown(key string) {
	h.dispatch(overlay.Event{Kind: overlay.EventKeyDown, Key: key, Target: h.ActiveElement()})
}

// PointerDown dispatches a press at cell (x, y) and returns the node hit.
func (h *Host) PointerDown(x, y int) *Node {
	target := h.HitTest(x, y)
	ev := overlay.Event{Kind: overlay.EventPointerDown, X: x, Y: y}
	if target != nil {
		ev.Target = target
	}
	h.dispatch(ev)
	return target
}

// Scroll scrolls the page by dy rows. It reports false, and dispatches
// nothing, while the page scroll is locked.
func (h *Host) Scroll(dy int) bool {
	h.mu.Lock()
	if h.scrollStyle == overlay.ScrollLocked {
		h.mu.Unlock()
		return false
	}
	h.scrollY += dy
	h.mu.Unlock()
	h.dispatch(overlay.Event{Kind: overlay.EventScroll})
	return true
}

// ScrollWithin dispatches a scroll from a nested scroll container. Page
// scroll locking does not apply to it.
func (h *Host) ScrollWithin(n *Node) {
	h.dispatch(overlay.Event{Kind: overlay.EventScroll, Target: n})
}

// ScrollOffset returns the page scroll position in rows.
func (h *Host) ScrollOffset() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scrollY
}

// HitTest returns the deepest visible node containing (x, y). Among nodes
// of equal depth the most recently added wins.
func (h *Host) HitTest(x, y int) *Node {
	h.mu.Lock()
	nodes := make([]*Node, len(h.nodes))
	copy(nodes, h.nodes)
	h.mu.Unlock()

	var best *Node
	for _, n := range nodes {
		if !n.Rect.Contains(x, y) || !h.IsAttached(n) {
			continue
		}
		if best == nil || n.depth() > best.depth() ||
			(n.depth() == best.depth() && n.seq > best.seq) {
			best = n
		}
	}
	return best
}

// ActiveElement implements overlay.Document.
func (h *Host) ActiveElement() overlay.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Focus implements overlay.Document and dispatches focusin.
func (h *Host) Focus(n overlay.Node) {
	h.mu.Lock()
	h.active = n
	h.mu.Unlock()
	h.dispatch(overlay.Event{Kind: overlay.EventFocusIn, Target: n})
	h.wake()
}

// IsAttached implements overlay.Document.
func (h *Host) IsAttached(n overlay.Node) bool {
	node, ok := n.(*Node)
	if !ok || node == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for cur := node; cur != nil; cur = cur.Parent {
		if cur.Hidden {
			return false
		}
	}
	for _, known := range h.nodes {
		if known == node {
			return true
		}
	}
	return false
}

// FirstFocusable implements overlay.Document using insertion order.
func (h *Host) FirstFocusable(within overlay.Node) overlay.Node {
	root, ok := within.(*Node)
	if !ok || root == nil {
		return nil
	}
	h.mu.Lock()
	nodes := make([]*Node, len(h.nodes))
	copy(nodes, h.nodes)
	h.mu.Unlock()
	for _, n := range nodes {
		if n != root && n.Focusable && root.Contains(n) && h.IsAttached(n) {
			return n
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
	h.scrollStyle = style
	h.mu.Unlock()
}
