// ABOUTME: Viewport clamp: keeps a resolved position fully on-screen within a margin
// ABOUTME: Pure and idempotent; the lower bound wins when content is larger than the viewport

package overlay

// DefaultMargin is the gap kept between overlay content and the viewport edges.
const DefaultMargin = 8

// Clamp constrains pos so that content stays inside the viewport inset by
// margin on every side. Content is never resized: when it is larger than the
// available space, it is pinned to the leading margin.
func Clamp(pos Position, content Rect, viewport Size, margin int) Position {
	return Position{
		Top:  clampAxis(pos.Top, margin, viewport.Height-content.Height-margin),
		Left: clampAxis(pos.Left, margin, viewport.Width-content.Width-margin),
	}
}

// clampAxis limits v to [lo, hi], letting lo win when hi < lo.
func clampAxis(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
