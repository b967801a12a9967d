// ABOUTME: ComponentSurface measures a trigger node and a layer's rendered component for the engine
// ABOUTME: Bind keeps the content node's visibility and rect in step with the engine's snapshots

package tui

import "github.com/mauromedda/floatkit/pkg/overlay"

// ComponentSurface is the overlay.Surface of one Layer on a Host. The
// content node starts hidden; Bind reveals it while the engine has the
// overlay mounted.
type ComponentSurface struct {
	host    *Host
	anchor  *Node
	content *Node
	layer   *Layer
}

// NewComponentSurface creates a surface anchored to anchor (nil for
// viewport-anchored overlays) that draws c at the given width (0 for the
// natural width).
func NewComponentSurface(h *Host, anchor *Node, c Component, w int) *ComponentSurface {
	content := h.NewNode("overlay", h.Root, overlay.Rect{})
	content.Hidden = true
	return &ComponentSurface{
		host:    h,
		anchor:  anchor,
		content: content,
		layer:   &Layer{Component: c, Width: w},
	}
}

// Layer returns the layer to add to a TUI.
func (s *ComponentSurface) Layer() *Layer { return s.layer }

// Content returns the node standing for the overlay body. Controls inside
// the overlay are created as its children.
func (s *ComponentSurface) Content() *Node { return s.content }

// Anchor returns the trigger node.
func (s *ComponentSurface) Anchor() *Node { return s.anchor }

// AnchorRect implements overlay.Surface.
func (s *ComponentSurface) AnchorRect() (overlay.Rect, bool) {
	if s.anchor == nil || !s.host.IsAttached(s.anchor) {
		return overlay.Rect{}, false
	}
	return s.anchor.Rect, true
}

// ContentRect implements overlay.Surface. It renders the component to
// learn its size.
func (s *ComponentSurface) ContentRect() (overlay.Rect, bool) {
	if !s.host.IsAttached(s.content) {
		return overlay.Rect{}, false
	}
	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)
	vw := s.host.Viewport().Width
	w := s.layer.Width
	if w <= 0 || w > vw {
		w = vw
	}
	s.layer.Component.Render(buf, w)
	cw, ch := buf.Size()
	if s.layer.Width > 0 {
		cw = w
	}
	s.content.Rect.Width, s.content.Rect.Height = cw, ch
	return s.content.Rect, true
}

// InTrigger implements overlay.Surface.
func (s *ComponentSurface) InTrigger(target overlay.Node) bool {
	return s.anchor.Contains(target)
}

// InContent implements overlay.Surface.
func (s *ComponentSurface) InContent(target overlay.Node) bool {
	return s.content.Contains(target)
}

// ContentNode implements overlay.Surface.
func (s *ComponentSurface) ContentNode() overlay.Node {
	return s.content
}

// Bind attaches e to the layer and mirrors its snapshots onto the content
// node. Call it before the first Open. It returns the unsubscribe func.
func (s *ComponentSurface) Bind(e *overlay.Engine) func() {
	s.layer.Engine = e
	return e.Subscribe(func(sess overlay.Session) {
		s.content.Hidden = !sess.Mounted
		if pos, ok := drawAt(sess); ok {
			s.content.Rect.X, s.content.Rect.Y = pos.Left, pos.Top
		}
		s.host.wake()
	})
}
