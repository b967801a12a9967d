// ABOUTME: Overlay layers: components drawn over the base frame at the position an engine publishes
// ABOUTME: Composite splices each mounted layer into the viewport, clipping at its edges

package tui

import (
	"github.com/mauromedda/floatkit/pkg/overlay"
	"github.com/mauromedda/floatkit/pkg/tui/width"
)

// Layer is overlay content composited on top of the base frame.
type Layer struct {
	Component Component
	// Engine decides whether and where the layer is drawn. A layer without
	// an engine is never drawn.
	Engine *overlay.Engine
	// Width is the render width. 0 renders at the viewport width and uses
	// the widest line produced.
	Width int
}

// Render renders the layer's component for a viewport vw cells wide.
func (l *Layer) Render(vw int) []string {
	w := l.Width
	if w <= 0 || w > vw {
		w = vw
	}
	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)
	l.Component.Render(buf, w)
	out := make([]string, len(buf.Lines))
	copy(out, buf.Lines)
	return out
}

// drawAt returns where s says the layer should be drawn. Content is drawn
// at the published position while open and at the last one while an exit
// animation runs; mounted but unmeasured content stays offscreen.
func drawAt(s overlay.Session) (overlay.Position, bool) {
	if !s.Mounted {
		return overlay.Position{}, false
	}
	if s.Position != nil {
		return *s.Position, true
	}
	if s.State == overlay.StateClosing && s.LastPosition != overlay.Offscreen {
		return s.LastPosition, true
	}
	return overlay.Position{}, false
}

// Composite draws layers over base in order and returns a frame of exactly
// h lines when any layer is visible. base is not modified.
func Composite(base []string, layers []*Layer, w, h int) []string {
	type placed struct {
		pos   overlay.Position
		lines []string
	}
	var visible []placed
	for _, l := range layers {
		if l == nil || l.Engine == nil || l.Component == nil {
			continue
		}
		pos, ok := drawAt(l.Engine.State())
		if !ok {
			continue
		}
		visible = append(visible, placed{pos: pos, lines: l.Render(w)})
	}
	if len(visible) == 0 {
		return base
	}

	frame := make([]string, h)
	copy(frame, base)
	for _, p := range visible {
		for i, line := range p.lines {
			row := p.pos.Top + i
			if row < 0 || row >= h {
				continue
			}
			spliced := width.Splice(frame[row], line, p.pos.Left)
			frame[row] = width.SliceByColumn(spliced, 0, w)
		}
	}
	return frame
}
