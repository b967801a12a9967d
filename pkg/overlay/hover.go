// ABOUTME: Hover intent for tooltip-style consumers: delayed open on enter, close on leave
// ABOUTME: Timers come from Host.After so the engine stays host-agnostic and testable

package overlay

import (
	"sync"
	"time"
)

// HoverIntent opens an engine after the pointer rests on the anchor for
// OpenDelay and closes it CloseDelay after the pointer leaves. Leaving never
// needs an outside click.
type HoverIntent struct {
	engine     *Engine
	openDelay  time.Duration
	closeDelay time.Duration

	mu           sync.Mutex
	pendingOpen  *hoverTimer
	pendingClose *hoverTimer
}

// hoverTimer is one armed delay. Each Enter or Leave gets its own, so a
// timer that fires or is cancelled only ever clears itself.
type hoverTimer struct {
	cancel    func()
	cancelled bool
}

// NewHoverIntent binds hover timing to engine.
func NewHoverIntent(engine *Engine, openDelay, closeDelay time.Duration) *HoverIntent {
	return &HoverIntent{engine: engine, openDelay: openDelay, closeDelay: closeDelay}
}

// Enter is called when the pointer enters the anchor (or the content).
func (h *HoverIntent) Enter() {
	h.mu.Lock()
	h.cancelLocked(&h.pendingClose)
	if h.pendingOpen != nil || h.engine.State().IsOpen {
		h.mu.Unlock()
		return
	}
	if h.openDelay <= 0 {
		h.mu.Unlock()
		h.engine.Open()
		return
	}
	t := &hoverTimer{}
	h.pendingOpen = t
	h.mu.Unlock()

	h.arm(&h.pendingOpen, t, h.openDelay, h.engine.Open)
}

// Leave is called when the pointer leaves the anchor.
func (h *HoverIntent) Leave() {
	h.mu.Lock()
	h.cancelLocked(&h.pendingOpen)
	if h.pendingClose != nil {
		h.mu.Unlock()
		return
	}
	if h.closeDelay <= 0 {
		h.mu.Unlock()
		h.engine.Close()
		return
	}
	t := &hoverTimer{}
	h.pendingClose = t
	h.mu.Unlock()

	h.arm(&h.pendingClose, t, h.closeDelay, h.engine.Close)
}

// Stop cancels pending timers. Call it alongside Engine.Dispose.
func (h *HoverIntent) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelLocked(&h.pendingOpen)
	h.cancelLocked(&h.pendingClose)
}

// arm starts t on the host clock. t is already in slot, so a host that runs
// the timer before After returns still clears the right slot.
func (h *HoverIntent) arm(slot **hoverTimer, t *hoverTimer, d time.Duration, fn func()) {
	cancel := h.engine.host.After(d, func() {
		h.mu.Lock()
		if t.cancelled {
			h.mu.Unlock()
			return
		}
		if *slot == t {
			*slot = nil
		}
		h.mu.Unlock()
		fn()
	})

	h.mu.Lock()
	if t.cancelled {
		h.mu.Unlock()
		cancel()
		return
	}
	t.cancel = cancel
	h.mu.Unlock()
}

func (h *HoverIntent) cancelLocked(slot **hoverTimer) {
	t := *slot
	if t == nil {
		return
	}
	t.cancelled = true
	if t.cancel != nil {
		t.cancel()
	}
	*slot = nil
}
