// ABOUTME: Tests for focus and scroll locking, alone and nested
// ABOUTME: Verifies restoration, the focus trap and out-of-order release across a shared stack

package overlay_test

import (
	"testing"

	"github.com/mauromedda/floatkit/pkg/overlay"
	"github.com/mauromedda/floatkit/pkg/overlay/overlaytest"
)

type modal struct {
	surface *overlaytest.Surface
	button  *overlaytest.Element
	engine  *overlay.Engine
}

func newModal(h *overlaytest.Host, name string) *modal {
	s := overlaytest.NewSurface(h, overlay.Rect{}, 200, 100)
	button := h.NewFocusable(name, s.Panel)
	e := overlay.New(h, s, overlay.ModalOptions(h))
	s.MountOnOpen(e)
	return &modal{surface: s, button: button, engine: e}
}

func TestFocusLock_RestoresFocusAndScroll(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	h.SetScrollStyle("auto")
	before := h.NewFocusable("before", h.Body)
	h.Focus(before)
	m := newModal(h, "ok")

	m.engine.Open()

	if got := h.ActiveElement(); got != m.button {
		t.Errorf("ActiveElement = %v, want first focusable in content", got)
	}
	if got := h.ScrollStyle(); got != overlay.ScrollLocked {
		t.Errorf("ScrollStyle = %q, want %q", got, overlay.ScrollLocked)
	}
	if !m.engine.State().OwnsFocusLock {
		t.Error("OwnsFocusLock = false while open")
	}
	if got := overlay.LocksFor(h).Depth(); got != 1 {
		t.Errorf("Depth = %d, want 1", got)
	}

	m.engine.Close()

	if got := h.ActiveElement(); got != before {
		t.Errorf("ActiveElement = %v, want the element focused before open", got)
	}
	if got := h.ScrollStyle(); got != "auto" {
		t.Errorf("ScrollStyle = %q, want %q", got, "auto")
	}
	if got := overlay.LocksFor(h).Depth(); got != 0 {
		t.Errorf("Depth = %d, want 0", got)
	}
	if m.engine.State().OwnsFocusLock {
		t.Error("OwnsFocusLock = true after close")
	}
	if got := h.Live(); got != 0 {
		t.Errorf("Live = %d, want 0", got)
	}
}

func TestFocusLock_SkipsDetachedPreviousFocus(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	before := h.NewFocusable("before", h.Body)
	h.Focus(before)
	m := newModal(h, "ok")
	m.engine.Open()

	before.Detached = true
	calls := h.FocusCalls()
	m.engine.Close()

	if got := h.FocusCalls(); got != calls {
		t.Errorf("FocusCalls = %d, want %d", got, calls)
	}
}

func TestFocusLock_TrapsFocus(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	outside := h.NewFocusable("outside", h.Body)
	m := newModal(h, "ok")
	second := h.NewFocusable("second", m.surface.Panel)
	m.engine.Open()
	defer m.engine.Close()

	h.Focus(second)
	if got := h.ActiveElement(); got != second {
		t.Errorf("focus inside content moved to %v", got)
	}

	h.Focus(outside)
	if got := h.ActiveElement(); got != m.button {
		t.Errorf("ActiveElement = %v, want focus pulled back into content", got)
	}
}

func TestFocusLock_InitialFocus(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	s := overlaytest.NewSurface(h, overlay.Rect{}, 200, 100)
	h.NewFocusable("first", s.Panel)
	confirm := h.NewFocusable("confirm", s.Panel)
	opts := overlay.ModalOptions(h)
	opts.InitialFocus = confirm
	e := overlay.New(h, s, opts)
	s.MountOnOpen(e)

	e.Open()
	defer e.Close()

	if got := h.ActiveElement(); got != confirm {
		t.Errorf("ActiveElement = %v, want InitialFocus", got)
	}
}

func TestFocusLock_WithoutDocumentSkipsLocking(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	s := overlaytest.NewSurface(h, overlay.Rect{}, 200, 100)
	opts := overlay.ModalOptions(nil)
	e := overlay.New(h, s, opts)
	s.MountOnOpen(e)
	e.Open()

	if e.State().OwnsFocusLock {
		t.Error("OwnsFocusLock = true without a document")
	}
	if got := h.ScrollStyle(); got != "" {
		t.Errorf("ScrollStyle = %q, want untouched", got)
	}
}

func TestFocusLock_NestedInOrder(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	before := h.NewFocusable("before", h.Body)
	h.Focus(before)
	a := newModal(h, "a")
	b := newModal(h, "b")

	a.engine.Open()
	b.engine.Open()
	if got := overlay.LocksFor(h).Depth(); got != 2 {
		t.Fatalf("Depth = %d, want 2", got)
	}
	if got := h.ActiveElement(); got != b.button {
		t.Fatalf("ActiveElement = %v, want inner modal button", got)
	}

	b.engine.Close()
	if got := h.ActiveElement(); got != a.button {
		t.Errorf("after inner close: ActiveElement = %v, want outer modal button", got)
	}
	if got := h.ScrollStyle(); got != overlay.ScrollLocked {
		t.Errorf("after inner close: ScrollStyle = %q, want still locked", got)
	}

	a.engine.Close()
	if got := h.ActiveElement(); got != before {
		t.Errorf("after outer close: ActiveElement = %v, want before", got)
	}
	if got := h.ScrollStyle(); got != "" {
		t.Errorf("after outer close: ScrollStyle = %q, want restored", got)
	}
}

func TestFocusLock_NestedOutOfOrder(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	before := h.NewFocusable("before", h.Body)
	h.Focus(before)
	a := newModal(h, "a")
	b := newModal(h, "b")
	a.engine.Open()
	b.engine.Open()

	a.engine.Close()
	if got := h.ScrollStyle(); got != overlay.ScrollLocked {
		t.Errorf("after outer close: ScrollStyle = %q, want still locked", got)
	}
	if got := h.ActiveElement(); got != b.button {
		t.Errorf("after outer close: ActiveElement = %v, want inner button", got)
	}
	if got := overlay.LocksFor(h).Depth(); got != 1 {
		t.Errorf("Depth = %d, want 1", got)
	}

	b.engine.Close()
	if got := h.ScrollStyle(); got != "" {
		t.Errorf("ScrollStyle = %q, want the style saved before the first lock", got)
	}
	if got := h.ActiveElement(); got != before {
		t.Errorf("ActiveElement = %v, want before", got)
	}
	if got := overlay.LocksFor(h).Depth(); got != 0 {
		t.Errorf("Depth = %d, want 0", got)
	}
}

func TestFocusLock_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	s := overlaytest.NewSurface(h, overlay.Rect{}, 10, 10)
	s.Panel.Detached = false
	stack := &overlay.LockStack{}
	l := overlay.NewFocusLock(h, h, stack)

	l.Acquire(s, nil)
	l.Acquire(s, nil)
	if got := stack.Depth(); got != 1 {
		t.Fatalf("Depth = %d, want 1", got)
	}
	if stack.Top() != l || !l.Active() {
		t.Fatal("lock not on top of its stack")
	}

	l.Release()
	l.Release()
	if got := stack.Depth(); got != 0 {
		t.Errorf("Depth = %d, want 0", got)
	}
	if got := h.Live(); got != 0 {
		t.Errorf("Live = %d, want 0", got)
	}
}

func TestFocusLock_ReleasedWhileMovingFocus(t *testing.T) {
	t.Parallel()

	h := overlaytest.NewHost(1024, 768)
	h.SetScrollStyle("auto")
	before := h.NewFocusable("before", h.Body)
	h.Focus(before)
	s := overlaytest.NewSurface(h, overlay.Rect{}, 200, 100)
	s.Panel.Detached = false
	button := h.NewFocusable("ok", s.Panel)
	stack := &overlay.LockStack{}
	l := overlay.NewFocusLock(h, h, stack)

	// A focus handler that tears the overlay down as focus lands in it.
	remove := h.Listen(overlay.EventFocusIn, false, func(ev overlay.Event) {
		if ev.Target == button {
			l.Release()
		}
	})
	l.Acquire(s, button)
	remove()

	if l.Active() {
		t.Error("lock still active after release during acquire")
	}
	if got := h.Live(); got != 0 {
		t.Errorf("Live = %d, want 0", got)
	}
	if got := stack.Depth(); got != 0 {
		t.Errorf("Depth = %d, want 0", got)
	}
	if got := h.ScrollStyle(); got != "auto" {
		t.Errorf("ScrollStyle = %q, want %q", got, "auto")
	}
	if got := h.ActiveElement(); got != before {
		t.Errorf("ActiveElement = %v, want before", got)
	}
}
