// ABOUTME: Focus & scroll-lock manager: saves/restores focus and page scroll, traps focus
// ABOUTME: Nested overlays share a LockStack so releases compose instead of clobbering

package overlay

import (
	"sync"

	"github.com/mauromedda/floatkit/internal/log"
)

// ScrollLocked is the scroll style applied while a lock is held.
const ScrollLocked = "hidden"

// LockStack orders the focus locks applied to one document. Only the most
// recent lock restores page state on release; a lock released out of order
// hands its saved state to the lock above it.
type LockStack struct {
	mu      sync.Mutex
	entries []*FocusLock
}

var stacks sync.Map // Document -> *LockStack

// LocksFor returns the process-wide lock stack for doc. Document values must
// be comparable (pointer types in practice).
func LocksFor(doc Document) *LockStack {
	v, _ := stacks.LoadOrStore(doc, &LockStack{})
	return v.(*LockStack)
}

// Depth returns the number of locks currently held.
func (s *LockStack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Top returns the most recently applied lock, or nil.
func (s *LockStack) Top() *FocusLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// FocusLock traps focus inside overlay content and disables page scroll
// while held.
type FocusLock struct {
	host  Host
	doc   Document
	stack *LockStack

	active     bool
	surface    Surface
	initial    Node
	prevFocus  Node
	fallback   Node // inherited from a lock released beneath this one
	savedStyle string
	removeTrap func()
}

// NewFocusLock creates an inactive lock. A nil stack uses LocksFor(doc).
func NewFocusLock(host Host, doc Document, stack *LockStack) *FocusLock {
	if stack == nil {
		stack = LocksFor(doc)
	}
	return &FocusLock{host: host, doc: doc, stack: stack}
}

// Active reports whether the lock is currently held.
func (l *FocusLock) Active() bool {
	return l.active
}

// Acquire records the focused element, locks page scroll, moves focus into
// the surface's content and starts trapping focus there. It is a no-op while
// already held.
func (l *FocusLock) Acquire(surface Surface, initial Node) {
	if l.active {
		return
	}
	l.active = true
	l.surface = surface
	l.initial = initial
	l.prevFocus = l.doc.ActiveElement()
	l.fallback = nil

	l.stack.mu.Lock()
	l.savedStyle = l.doc.ScrollStyle()
	l.stack.entries = append(l.stack.entries, l)
	depth := len(l.stack.entries)
	l.stack.mu.Unlock()

	l.doc.SetScrollStyle(ScrollLocked)
	// The trap goes in before focus moves: a focus side effect may release
	// the lock, and Release must find the trap to remove it.
	l.removeTrap = l.host.Listen(EventFocusIn, true, l.onFocusIn)
	if target := l.focusTarget(); target != nil {
		l.doc.Focus(target)
	}
	if !l.active {
		return
	}
	log.Debug("overlay: focus lock acquired (depth=%d)", depth)
}

// Release unlocks scroll and returns focus to the element focused before
// Acquire, if it is still attached. Safe to call repeatedly and from any
// teardown path.
func (l *FocusLock) Release() {
	if !l.active {
		return
	}
	l.active = false
	if l.removeTrap != nil {
		l.removeTrap()
		l.removeTrap = nil
	}

	l.stack.mu.Lock()
	idx := -1
	for i, e := range l.stack.entries {
		if e == l {
			idx = i
			break
		}
	}
	isTop := idx >= 0 && idx == len(l.stack.entries)-1
	if idx >= 0 {
		l.stack.entries = append(l.stack.entries[:idx], l.stack.entries[idx+1:]...)
	}
	if idx >= 0 && !isTop {
		above := l.stack.entries[idx]
		above.savedStyle = l.savedStyle
		above.fallback = l.restoreTarget()
	}
	saved := l.savedStyle
	fallback := l.fallback
	depth := len(l.stack.entries)
	l.stack.mu.Unlock()

	if !isTop {
		log.Debug("overlay: focus lock released out of order (depth=%d)", depth)
		return
	}

	l.doc.SetScrollStyle(saved)
	target := l.prevFocus
	if target == nil || !l.doc.IsAttached(target) {
		target = fallback
	}
	if target != nil && l.doc.IsAttached(target) {
		l.doc.Focus(target)
	}
	log.Debug("overlay: focus lock released (depth=%d)", depth)
}

// restoreTarget is what a lock above inherits when this one is released
// beneath it.
func (l *FocusLock) restoreTarget() Node {
	if l.prevFocus != nil {
		return l.prevFocus
	}
	return l.fallback
}

func (l *FocusLock) focusTarget() Node {
	if l.initial != nil {
		return l.initial
	}
	if l.surface == nil {
		return nil
	}
	content := l.surface.ContentNode()
	if content == nil {
		return nil
	}
	return l.doc.FirstFocusable(content)
}

// onFocusIn pulls focus back into the content when it escapes. Only the top
// lock traps, so a nested dialog owns focus over its parent.
func (l *FocusLock) onFocusIn(ev Event) {
	if !l.active || l.stack.Top() != l || l.surface == nil {
		return
	}
	if l.surface.InContent(ev.Target) {
		return
	}
	if target := l.focusTarget(); target != nil && target != ev.Target {
		l.doc.Focus(target)
	}
}
