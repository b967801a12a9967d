// ABOUTME: Geometry value types for overlay positioning: Rect, Size, Position
// ABOUTME: Integer viewport-relative coordinates (pixels for DOM hosts, cells for terminals)

package overlay

import "fmt"

// Rect is an axis-aligned rectangle in viewport-relative coordinates.
// X and Y are the top-left corner. A Rect is an immutable snapshot: hosts
// produce a new one on every measurement.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// NewRect creates a Rect from position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Left and top edges are inside; right and bottom edges are outside.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// At returns a copy of r moved to the given position.
func (r Rect) At(p Position) Rect {
	return Rect{X: p.Left, Y: p.Top, Width: r.Width, Height: r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Size is a viewport extent.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect returns the viewport as a rectangle anchored at the origin.
func (s Size) Rect() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Position is the top-left corner at which overlay content is rendered.
type Position struct {
	Top  int `json:"top" yaml:"top"`
	Left int `json:"left" yaml:"left"`
}

func (p Position) String() string {
	return fmt.Sprintf("top:%d left:%d", p.Top, p.Left)
}

// Offscreen is rendered before the first real measurement so content never
// flashes at the origin.
var Offscreen = Position{Top: -9999, Left: -9999}

// PointerAnchor returns a zero-size anchor at a pointer location, used by
// context menus that open where the user clicked.
func PointerAnchor(x, y int) Rect {
	return Rect{X: x, Y: y}
}
