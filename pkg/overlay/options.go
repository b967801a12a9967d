// ABOUTME: Engine configuration: placement, offset, dismissal policy, locking, margin
// ABOUTME: DefaultOptions returns the documented defaults; invalid values are normalized, never rejected

package overlay

// DefaultOffset is the gap between anchor and content in DefaultOptions.
const DefaultOffset = 8

// DismissOn selects which user actions close an open overlay.
type DismissOn struct {
	Escape       bool `json:"escape" yaml:"escape"`
	OutsideClick bool `json:"outside_click" yaml:"outside_click"`
	// Scroll closes on any window scroll instead of repositioning.
	// Context menus use it; tooltips and popovers reposition.
	Scroll bool `json:"scroll" yaml:"scroll"`
}

// Anchoring selects what the overlay is positioned against.
type Anchoring int

const (
	// AnchorTrigger positions against Surface.AnchorRect using Placement.
	AnchorTrigger Anchoring = iota
	// AnchorViewportCenter centers content in the viewport (modals).
	AnchorViewportCenter
	// AnchorViewportEdge docks content to the viewport edge named by the
	// placement's side (drawers).
	AnchorViewportEdge
)

// Options configures an Engine.
type Options struct {
	Placement          Placement
	Offset             int
	DismissOn          DismissOn
	LockFocusAndScroll bool
	Margin             int

	Anchoring Anchoring
	// AnimateExit routes close through StateClosing until FinishExit.
	AnimateExit bool

	// Document is required for LockFocusAndScroll; without it locking is skipped.
	Document Document
	// Locks is the lock stack shared with nested overlays. Defaults to
	// LocksFor(Document).
	Locks *LockStack
	// InitialFocus receives focus on lock instead of the first focusable
	// descendant of the content.
	InitialFocus Node
}

// DefaultOptions returns placement bottom, offset 8, Escape and outside-click
// dismissal, no scroll dismissal, no locking and margin 8.
func DefaultOptions() Options {
	return Options{
		Placement: PlacementBottom,
		Offset:    DefaultOffset,
		DismissOn: DismissOn{Escape: true, OutsideClick: true},
		Margin:    DefaultMargin,
	}
}

// normalize repairs values the engine cannot use. Configuration mistakes are
// cosmetic, so they degrade instead of failing.
func (o Options) normalize() Options {
	o.Placement = o.Placement.Normalize()
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Anchoring < AnchorTrigger || o.Anchoring > AnchorViewportEdge {
		o.Anchoring = AnchorTrigger
	}
	if o.LockFocusAndScroll && o.Locks == nil && o.Document != nil {
		o.Locks = LocksFor(o.Document)
	}
	return o
}
