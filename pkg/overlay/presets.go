// ABOUTME: Option presets for the overlay consumers: tooltip, popover, dropdown, context menu, modal, drawer
// ABOUTME: Each differs only in placement, dismissal policy, anchoring and locking

package overlay

import (
	"fmt"
	"slices"
	"time"
)

// Tooltip hover timing used by TooltipOptions consumers.
const (
	TooltipOpenDelay  = 300 * time.Millisecond
	TooltipCloseDelay = time.Duration(0)
)

// TooltipOptions: above the anchor, closes on Escape or pointer leave only.
func TooltipOptions() Options {
	o := DefaultOptions()
	o.Placement = PlacementTop
	o.DismissOn = DismissOn{Escape: true}
	return o
}

// PopoverOptions: below the anchor, closes on Escape or outside click.
func PopoverOptions() Options {
	return DefaultOptions()
}

// DropdownOptions: below the anchor, start-aligned, tight gap.
func DropdownOptions() Options {
	o := DefaultOptions()
	o.Placement = PlacementBottomStart
	o.Offset = 4
	return o
}

// ContextMenuOptions: opens at the pointer (see PointerAnchor) and closes on
// any scroll instead of following the page.
func ContextMenuOptions() Options {
	o := DefaultOptions()
	o.Placement = PlacementBottomStart
	o.Offset = 0
	o.DismissOn = DismissOn{Escape: true, OutsideClick: true, Scroll: true}
	return o
}

// ModalOptions: centered in the viewport with focus trap and scroll lock.
// Outside clicks land on the backdrop, which consumers handle themselves.
func ModalOptions(doc Document) Options {
	o := DefaultOptions()
	o.Anchoring = AnchorViewportCenter
	o.DismissOn = DismissOn{Escape: true}
	o.LockFocusAndScroll = true
	o.Document = doc
	return o
}

// DrawerOptions: docked to the viewport edge named by side, flush with it.
func DrawerOptions(doc Document, side Side) Options {
	o := DefaultOptions()
	o.Anchoring = AnchorViewportEdge
	switch side {
	case SideTop:
		o.Placement = PlacementTop
	case SideLeft:
		o.Placement = PlacementLeft
	case SideRight:
		o.Placement = PlacementRight
	default:
		o.Placement = PlacementBottom
	}
	o.Margin = 0
	o.LockFocusAndScroll = true
	o.Document = doc
	return o
}

var presets = map[string]func(Document) Options{
	"tooltip":      func(Document) Options { return TooltipOptions() },
	"popover":      func(Document) Options { return PopoverOptions() },
	"dropdown":     func(Document) Options { return DropdownOptions() },
	"context-menu": func(Document) Options { return ContextMenuOptions() },
	"modal":        ModalOptions,
	"drawer":       func(d Document) Options { return DrawerOptions(d, SideRight) },
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns the options of the named preset. doc is used by the
// locking presets and may be nil otherwise.
func Preset(name string, doc Document) (Options, error) {
	fn, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("unknown preset %q", name)
	}
	return fn(doc), nil
}
