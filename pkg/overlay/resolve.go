// ABOUTME: Placement resolver: pure anchor+content+placement+offset -> position
// ABOUTME: Also viewport-relative layouts (center, dock) used by modal and drawer overlays

package overlay

// Resolve computes where content should be placed relative to anchor.
//
// The primary axis puts content on the requested side with offset as the gap.
// The cross axis centers content on the anchor edge, or aligns it to the
// anchor's leading (start) or trailing (end) edge. Zero-sized or stale rects
// are accepted and produce a best-effort position. Invalid placements resolve
// as PlacementBottom.
func Resolve(anchor, content Rect, p Placement, offset int) Position {
	p = p.Normalize()
	side := p.Side()

	var pos Position
	switch side {
	case SideTop:
		pos.Top = anchor.Y - content.Height - offset
	case SideBottom:
		pos.Top = anchor.Bottom() + offset
	case SideLeft:
		pos.Left = anchor.X - content.Width - offset
	case SideRight:
		pos.Left = anchor.Right() + offset
	}

	if side.Vertical() {
		pos.Left = alignAxis(anchor.X, anchor.Width, content.Width, p.Align())
	} else {
		pos.Top = alignAxis(anchor.Y, anchor.Height, content.Height, p.Align())
	}
	return pos
}

// alignAxis positions a span of length size against an anchor span on the
// cross axis.
func alignAxis(start, length, size int, a Align) int {
	switch a {
	case AlignStart:
		return start
	case AlignEnd:
		return start + length - size
	default:
		return start + length/2 - size/2
	}
}

// Center places content in the middle of the viewport.
func Center(viewport Size, content Rect) Position {
	return Position{
		Top:  viewport.Height/2 - content.Height/2,
		Left: viewport.Width/2 - content.Width/2,
	}
}

// Dock places content flush against one viewport edge, starting at the
// origin on the cross axis.
func Dock(side Side, viewport Size, content Rect) Position {
	switch side {
	case SideTop, SideLeft:
		return Position{}
	case SideRight:
		return Position{Left: viewport.Width - content.Width}
	default:
		return Position{Top: viewport.Height - content.Height}
	}
}
