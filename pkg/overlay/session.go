// ABOUTME: Session snapshot exposed to consumers: lifecycle state, position, dismissal reason
// ABOUTME: Position is non-nil only while open and after at least one measurement

package overlay

// State is a lifecycle state of an overlay.
type State int

const (
	StateClosed State = iota
	// StateOpening: content is mounted but not yet measured.
	StateOpening
	// StateOpen: measured and positioned.
	StateOpen
	// StateClosing: dismissed, waiting for the consumer's exit animation.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// DismissReason records why the last session closed.
type DismissReason int

const (
	DismissNone DismissReason = iota
	DismissEscape
	DismissOutsideClick
	DismissScroll
	DismissProgrammatic
	// DismissUnmount: the owner disposed the engine while the session was live.
	DismissUnmount
)

func (r DismissReason) String() string {
	switch r {
	case DismissEscape:
		return "escape"
	case DismissOutsideClick:
		return "outside-click"
	case DismissScroll:
		return "scroll"
	case DismissProgrammatic:
		return "programmatic"
	case DismissUnmount:
		return "unmount"
	default:
		return ""
	}
}

// Session is a snapshot of an overlay's live state. Snapshots are values:
// mutating one does not affect the engine.
type Session struct {
	// ID identifies one open-to-close cycle. Empty before the first Open.
	ID    string
	State State
	// IsOpen is true while opening or open.
	IsOpen bool
	// Mounted is true while content must stay rendered (opening, open, closing).
	Mounted  bool
	Position *Position
	// LastPosition keeps the most recent published position for exit
	// animations. Offscreen until the first measurement.
	LastPosition Position
	// ActivePlacement is the placement in effect. There is no auto-flip, so
	// it always equals the requested placement.
	ActivePlacement Placement
	OwnsFocusLock   bool
	DismissReason   DismissReason
}

// RenderPosition returns the position to draw at: the published position, or
// Offscreen while no measurement is available.
func (s Session) RenderPosition() Position {
	if s.Position == nil {
		return Offscreen
	}
	return *s.Position
}

func (s Session) clone() Session {
	if s.Position != nil {
		p := *s.Position
		s.Position = &p
	}
	return s
}
