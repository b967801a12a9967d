// ABOUTME: Core TUI contracts: Component renders lines into a pooled buffer, Container stacks them
// ABOUTME: Lines is the static component used for plain text blocks and overlay bodies

package tui

import (
	"sync"

	"github.com/mauromedda/floatkit/pkg/tui/width"
)

// CursorMarker is a zero-width APC marker a component embeds in its output
// to place the terminal cursor. The renderer strips it.
const CursorMarker = "\x1b_fk:c\x07"

// Component is the base interface for all TUI elements.
// Components render into a pooled RenderBuffer and must not exceed the given width.
type Component interface {
	// Render writes the component's visual lines into out.
	Render(out *RenderBuffer, width int)

	// Invalidate clears any cached render state.
	Invalidate()
}

// Lines is a Component that renders fixed text, truncating each line to
// the available width.
type Lines []string

// Render implements Component.
func (l Lines) Render(out *RenderBuffer, w int) {
	for _, line := range l {
		out.WriteLine(width.Truncate(line, w))
	}
}

// Invalidate implements Component.
func (Lines) Invalidate() {}

// Container holds an ordered list of child components. Mutations take the
// write lock; rendering takes the read lock.
type Container struct {
	mu       sync.RWMutex
	children []Component
}

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{}
}

// Add appends a component to the container.
func (c *Container) Add(comp Component) {
	c.mu.Lock()
	c.children = append(c.children, comp)
	c.mu.Unlock()
}

// Remove removes comp and reports whether it was present.
func (c *Container) Remove(comp Component) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, child := range c.children {
		if child == comp {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns a snapshot of the current children.
func (c *Container) Children() []Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Component, len(c.children))
	copy(out, c.children)
	return out
}

// Render renders all children in order.
func (c *Container) Render(out *RenderBuffer, w int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, child := range c.children {
		child.Render(out, w)
	}
}

// Invalidate invalidates all children.
func (c *Container) Invalidate() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, child := range c.children {
		child.Invalidate()
	}
}

var bufferPool = sync.Pool{
	New: func() any {
		return &RenderBuffer{Lines: make([]string, 0, 64)}
	},
}

// AcquireBuffer gets an empty RenderBuffer from the pool.
func AcquireBuffer() *RenderBuffer {
	buf := bufferPool.Get().(*RenderBuffer)
	buf.Lines = buf.Lines[:0]
	return buf
}

// ReleaseBuffer returns buf to the pool.
func ReleaseBuffer(buf *RenderBuffer) {
	if buf == nil {
		return
	}
	buf.Lines = buf.Lines[:0]
	bufferPool.Put(buf)
}

// RenderBuffer is the line buffer components write into.
type RenderBuffer struct {
	Lines []string
}

// WriteLine appends a single line.
func (b *RenderBuffer) WriteLine(line string) {
	b.Lines = append(b.Lines, line)
}

// WriteLines appends multiple lines.
func (b *RenderBuffer) WriteLines(lines []string) {
	b.Lines = append(b.Lines, lines...)
}

// Len returns the number of lines.
func (b *RenderBuffer) Len() int {
	return len(b.Lines)
}

// Size returns the widest line in cells and the line count.
func (b *RenderBuffer) Size() (w, h int) {
	return width.Measure(b.Lines)
}
