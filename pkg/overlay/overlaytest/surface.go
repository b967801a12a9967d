// ABOUTME: Test surface backed by overlaytest elements: trigger and panel rects plus hit-testing
// ABOUTME: MountOnOpen attaches the panel when the engine publishes its opening snapshot

package overlaytest

import "github.com/mauromedda/floatkit/pkg/overlay"

// Surface measures a trigger and a panel element. Measurement fails while
// the corresponding element is detached.
type Surface struct {
	Host    *Host
	Trigger *Element
	Panel   *Element

	AnchorCalls  int
	ContentCalls int
}

// NewSurface creates a trigger with anchor geometry and a detached panel of
// the given content size, both under the host body.
func NewSurface(h *Host, anchor overlay.Rect, contentWidth, contentHeight int) *Surface {
	trigger := h.NewFocusable("trigger", h.Body)
	trigger.Rect = anchor
	panel := h.NewElement("panel", h.Body)
	panel.Rect = overlay.Rect{Width: contentWidth, Height: contentHeight}
	panel.Detached = true
	return &Surface{Host: h, Trigger: trigger, Panel: panel}
}

// AnchorRect implements overlay.Surface.
func (s *Surface) AnchorRect() (overlay.Rect, bool) {
	s.AnchorCalls++
	if s.Trigger == nil || !s.Host.IsAttached(s.Trigger) {
		return overlay.Rect{}, false
	}
	return s.Trigger.Rect, true
}

// ContentRect implements overlay.Surface.
func (s *Surface) ContentRect() (overlay.Rect, bool) {
	s.ContentCalls++
	if s.Panel == nil || !s.Host.IsAttached(s.Panel) {
		return overlay.Rect{}, false
	}
	return s.Panel.Rect, true
}

// InTrigger implements overlay.Surface.
func (s *Surface) InTrigger(target overlay.Node) bool {
	return s.Trigger.Contains(target)
}

// InContent implements overlay.Surface.
func (s *Surface) InContent(target overlay.Node) bool {
	return s.Panel.Contains(target)
}

// ContentNode implements overlay.Surface.
func (s *Surface) ContentNode() overlay.Node {
	return s.Panel
}

// MountOnOpen mounts the panel while the engine reports it mounted, the way a
// rendering consumer would. It returns the unsubscribe func.
func (s *Surface) MountOnOpen(e *overlay.Engine) func() {
	return e.Subscribe(func(sess overlay.Session) {
		s.Panel.Detached = !sess.Mounted
	})
}

// Recorder collects every snapshot an engine publishes.
type Recorder struct {
	Snapshots []overlay.Session
}

// Record subscribes r to e and returns the unsubscribe func.
func (r *Recorder) Record(e *overlay.Engine) func() {
	return e.Subscribe(func(s overlay.Session) {
		r.Snapshots = append(r.Snapshots, s)
	})
}

// States returns the recorded lifecycle states in order.
func (r *Recorder) States() []overlay.State {
	out := make([]overlay.State, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.State
	}
	return out
}

// Last returns the most recent snapshot.
func (r *Recorder) Last() overlay.Session {
	if len(r.Snapshots) == 0 {
		return overlay.Session{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}
