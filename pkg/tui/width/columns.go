// ABOUTME: Column-addressed editing of styled lines: slice, truncate, pad and splice
// ABOUTME: Splice is how overlay content is drawn over a base line at a cell offset

package width

import (
	"strings"

	"github.com/rivo/uniseg"
)

// walk calls fn for every escape sequence (seq=true, w=0) and every
// grapheme cluster of s with its starting column. fn returns false to stop.
func walk(s string, fn func(text string, col, w int, seq bool) bool) {
	col := 0
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			end := skipEscape(s, i)
			if !fn(s[i:end], col, 0, true) {
				return
			}
			i = end
			continue
		}
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		w := graphemeWidth(cluster)
		if !fn(cluster, col, w, false) {
			return
		}
		col += w
		i += len(cluster)
	}
}

// SliceByColumn returns the cells of s in [start, end). Escape sequences are
// kept so styling survives. A wide grapheme straddling a boundary is dropped.
func SliceByColumn(s string, start, end int) string {
	if start >= end || s == "" {
		return ""
	}
	var b strings.Builder
	walk(s, func(text string, col, w int, seq bool) bool {
		switch {
		case seq:
			b.WriteString(text)
		case col >= start && col+w <= end:
			b.WriteString(text)
		}
		return true
	})
	return b.String()
}

// Truncate cuts s to at most maxWidth cells, ending in an ellipsis when
// anything was removed.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return SliceByColumn(s, 0, maxWidth-1) + Reset + "…"
}

// PadRight extends s with spaces to exactly w cells. Wider strings are
// returned unchanged.
func PadRight(s string, w int) string {
	if vw := VisibleWidth(s); vw < w {
		return s + strings.Repeat(" ", w-vw)
	}
	return s
}

// Splice draws over on top of base starting at column col and returns the
// composed line. Cells of base left and right of over are preserved; base
// is padded with spaces when it ends before col. A negative col clips the
// left edge of over.
func Splice(base, over string, col int) string {
	if col < 0 {
		over = SliceByColumn(over, -col, VisibleWidth(over))
		col = 0
	}
	ow := VisibleWidth(over)
	if ow == 0 {
		return base
	}

	bw := VisibleWidth(base)
	var b strings.Builder
	b.WriteString(PadRight(SliceByColumn(base, 0, col), col))
	b.WriteString(Reset)
	b.WriteString(over)
	b.WriteString(Reset)
	if bw > col+ow {
		b.WriteString(SliceByColumn(base, col+ow, bw))
	}
	return b.String()
}
