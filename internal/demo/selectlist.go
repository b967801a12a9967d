// ABOUTME: Filterable select list drawn inside the dropdown and context menu overlays
// ABOUTME: Typing narrows the items with fuzzy.Filter; renders as a tui.Component

package demo

import (
	"strings"

	"github.com/mauromedda/floatkit/pkg/tui"
	"github.com/mauromedda/floatkit/pkg/tui/fuzzy"
	"github.com/mauromedda/floatkit/pkg/tui/width"
)

// selectList is a filterable list of labels with one selected row.
type selectList struct {
	styles   Styles
	items    []string
	visible  []int
	selected int
	filter   string
	showFind bool
}

func newSelectList(styles Styles, items []string, showFilter bool) *selectList {
	l := &selectList{styles: styles, items: items, showFind: showFilter}
	l.applyFilter()
	return l
}

// SetFilter narrows the visible items and resets the selection.
func (l *selectList) SetFilter(f string) {
	l.filter = f
	l.selected = 0
	l.applyFilter()
}

// Filter returns the current filter text.
func (l *selectList) Filter() string { return l.filter }

// Reset clears the filter.
func (l *selectList) Reset() { l.SetFilter("") }

func (l *selectList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

func (l *selectList) MoveDown() {
	if l.selected < len(l.visible)-1 {
		l.selected++
	}
}

// Selected returns the selected label, or "" when nothing matches.
func (l *selectList) Selected() string {
	if len(l.visible) == 0 {
		return ""
	}
	return l.items[l.visible[l.selected]]
}

// Select selects visible row i and reports whether it exists.
func (l *selectList) Select(i int) bool {
	if i < 0 || i >= len(l.visible) {
		return false
	}
	l.selected = i
	return true
}

// rowOffset is the number of rows above the first item inside the box:
// the top border plus the filter line when shown.
func (l *selectList) rowOffset() int {
	if l.showFind {
		return 2
	}
	return 1
}

func (l *selectList) applyFilter() {
	l.visible = fuzzy.Filter(l.filter, l.items)
}

// Render implements tui.Component.
func (l *selectList) Render(out *tui.RenderBuffer, w int) {
	var b strings.Builder
	if l.showFind {
		b.WriteString(l.styles.Dim.Render("> " + l.filter))
		if len(l.visible) > 0 {
			b.WriteByte('\n')
		}
	}
	for row, idx := range l.visible {
		if row > 0 {
			b.WriteByte('\n')
		}
		label := l.items[idx]
		if row == l.selected {
			b.WriteString(l.styles.Selected.Render("› " + label))
		} else {
			b.WriteString("  " + label)
		}
	}
	if len(l.visible) == 0 && !l.showFind {
		b.WriteString(l.styles.Dim.Render("no matches"))
	}
	for _, line := range boxed(l.styles.Box, b.String()) {
		out.WriteLine(width.Truncate(line, w))
	}
}

// Invalidate implements tui.Component.
func (*selectList) Invalidate() {}

// renderFunc adapts a func to tui.Component.
type renderFunc func(w int) []string

// Render implements tui.Component.
func (f renderFunc) Render(out *tui.RenderBuffer, w int) {
	for _, line := range f(w) {
		out.WriteLine(width.Truncate(line, w))
	}
}

// Invalidate implements tui.Component.
func (renderFunc) Invalidate() {}
