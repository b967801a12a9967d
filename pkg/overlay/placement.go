// ABOUTME: Placement enumeration: 4 sides x {center, start, end} alignment
// ABOUTME: Zero value is PlacementBottom; unknown names and values fall back to it

package overlay

import (
	"errors"
	"fmt"
)

// ErrUnknownPlacement is returned by ParsePlacement for names outside the 12
// supported placements. The accompanying value is always PlacementBottom.
var ErrUnknownPlacement = errors.New("unknown placement")

// Placement describes which side of the anchor the content appears on and how
// it is aligned along that side.
type Placement int

const (
	PlacementBottom Placement = iota // default
	PlacementBottomStart
	PlacementBottomEnd
	PlacementTop
	PlacementTopStart
	PlacementTopEnd
	PlacementLeft
	PlacementLeftStart
	PlacementLeftEnd
	PlacementRight
	PlacementRightStart
	PlacementRightEnd

	placementCount
)

// Side is the anchor edge a placement attaches to.
type Side int

const (
	SideBottom Side = iota
	SideTop
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "bottom"
	}
}

// Vertical reports whether content sits above or below the anchor.
func (s Side) Vertical() bool {
	return s == SideTop || s == SideBottom
}

// Align is the alignment of content along the anchor edge.
type Align int

const (
	AlignCenter Align = iota
	AlignStart
	AlignEnd
)

var placementNames = [placementCount]string{
	PlacementBottom:      "bottom",
	PlacementBottomStart: "bottom-start",
	PlacementBottomEnd:   "bottom-end",
	PlacementTop:         "top",
	PlacementTopStart:    "top-start",
	PlacementTopEnd:      "top-end",
	PlacementLeft:        "left",
	PlacementLeftStart:   "left-start",
	PlacementLeftEnd:     "left-end",
	PlacementRight:       "right",
	PlacementRightStart:  "right-start",
	PlacementRightEnd:    "right-end",
}

// Placements returns all 12 placements in declaration order.
func Placements() []Placement {
	out := make([]Placement, 0, placementCount)
	for p := PlacementBottom; p < placementCount; p++ {
		out = append(out, p)
	}
	return out
}

// ParsePlacement maps a kebab-case name ("top-start") to a Placement.
// Unknown names return PlacementBottom together with ErrUnknownPlacement.
func ParsePlacement(name string) (Placement, error) {
	for i, n := range placementNames {
		if n == name {
			return Placement(i), nil
		}
	}
	return PlacementBottom, fmt.Errorf("%w: %q", ErrUnknownPlacement, name)
}

// Valid reports whether p is one of the 12 defined placements.
func (p Placement) Valid() bool {
	return p >= PlacementBottom && p < placementCount
}

// Normalize returns p, or PlacementBottom when p is out of range.
func (p Placement) Normalize() Placement {
	if !p.Valid() {
		return PlacementBottom
	}
	return p
}

// Side returns the anchor edge of the placement.
func (p Placement) Side() Side {
	return Side(p.Normalize() / 3)
}

// Align returns the alignment of the placement along its side.
func (p Placement) Align() Align {
	return Align(p.Normalize() % 3)
}

func (p Placement) String() string {
	return placementNames[p.Normalize()]
}

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode as
// PlacementBottom without failing; use ParsePlacement to detect them.
func (p *Placement) UnmarshalText(text []byte) error {
	*p, _ = ParsePlacement(string(text))
	return nil
}
