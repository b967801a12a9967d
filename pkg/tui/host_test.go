// ABOUTME: Tests for the terminal host's node tree, hit testing and event delivery
// ABOUTME: Exercises the Document side used by focus locks

package tui

import (
	"slices"
	"testing"

	"github.com/mauromedda/floatkit/pkg/overlay"
)

func TestHost_HitTest(t *testing.T) {
	t.Parallel()

	h := NewHost(20, 10)
	panel := h.NewNode("panel", h.Root, overlay.NewRect(2, 2, 10, 5))
	button := h.NewFocusable("button", panel, overlay.NewRect(3, 3, 4, 1))
	late := h.NewNode("late", h.Root, overlay.NewRect(2, 2, 10, 5))

	tests := []struct {
		x, y int
		want *Node
	}{
		{0, 0, h.Root},
		{4, 3, button},
		{8, 5, late},
		{25, 1, nil},
	}
	for _, tt := range tests {
		if got := h.HitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	panel.Hidden = true
	if got := h.HitTest(4, 3); got != late {
		t.Errorf("HitTest into hidden panel = %v, want late", got)
	}
}

func TestHost_AttachmentAndFocusOrder(t *testing.T) {
	t.Parallel()

	h := NewHost(20, 10)
	panel := h.NewNode("panel", h.Root, overlay.Rect{})
	h.NewNode("label", panel, overlay.Rect{})
	first := h.NewFocusable("first", panel, overlay.Rect{})
	h.NewFocusable("second", panel, overlay.Rect{})

	if got := h.FirstFocusable(panel); got != first {
		t.Errorf("FirstFocusable = %v, want first", got)
	}

	first.Hidden = true
	if got := h.FirstFocusable(panel); got == first {
		t.Error("FirstFocusable returned a hidden node")
	}

	h.RemoveNode(panel)
	if h.IsAttached(panel) || h.IsAttached(first) {
		t.Error("removed nodes still attached")
	}
	if !h.IsAttached(h.Root) {
		t.Error("root detached")
	}
	if h.IsAttached(nil) {
		t.Error("nil reported attached")
	}
}

func TestHost_FocusDispatchesFocusIn(t *testing.T) {
	t.Parallel()

	h := NewHost(20, 10)
	n := h.NewFocusable("n", h.Root, overlay.Rect{})
	var got []overlay.Node
	remove := h.Listen(overlay.EventFocusIn, true, func(ev overlay.Event) {
		got = append(got, ev.Target)
	})

	h.Focus(n)
	remove()
	h.Focus(h.Root)

	if len(got) != 1 || got[0] != n {
		t.Errorf("focusin targets = %v, want [n]", got)
	}
	if h.ActiveElement() != h.Root {
		t.Errorf("ActiveElement = %v, want root", h.ActiveElement())
	}
}

func TestHost_CaptureRunsFirst(t *testing.T) {
	t.Parallel()

	h := NewHost(20, 10)
	var order []string
	h.Listen(overlay.EventKeyDown, false, func(overlay.Event) { order = append(order, "bubble") })
	h.Listen(overlay.EventKeyDown, true, func(overlay.Event) { order = append(order, "capture") })

	h.KeyDown("x")

	if want := []string{"capture", "bubble"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if got := h.Listeners(overlay.EventKeyDown); got != 2 {
		t.Errorf("Listeners = %d, want 2", got)
	}
}

func TestHost_FramesBatch(t *testing.T) {
	t.Parallel()

	h := NewHost(20, 10)
	runs := 0
	var again func()
	again = func() {
		runs++
		h.RequestFrame(again)
	}
	h.RequestFrame(again)
	cancel := h.RequestFrame(func() { t.Error("cancelled frame ran") })
	cancel()

	h.RunFrames()
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if got := h.PendingFrames(); got != 1 {
		t.Errorf("PendingFrames = %d, want 1", got)
	}
}

func TestHost_ScrollWithinIgnoresLock(t *testing.T) {
	t.Parallel()

	h := NewHost(20, 10)
	list := h.NewNode("list", h.Root, overlay.Rect{})
	var targets []overlay.Node
	h.Listen(overlay.EventScroll, true, func(ev overlay.Event) { targets = append(targets, ev.Target) })

	h.SetScrollStyle(overlay.ScrollLocked)
	h.Scroll(1)
	h.ScrollWithin(list)

	if len(targets) != 1 || targets[0] != list {
		t.Errorf("scroll targets = %v, want [list]", targets)
	}
	if h.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset = %d, want 0", h.ScrollOffset())
	}
}
