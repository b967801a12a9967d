// ABOUTME: Dismissal controller: outside pointer-down, Escape and scroll-away close a session
// ABOUTME: Priority is outside-click, Escape, scroll regardless of the order events arrive in a turn

package overlay

// dismisser owns the dismissal listeners of one session.
type dismisser struct {
	removers []func()
}

// priority ranks dismissal reasons. When several dismissal events land in
// the same synchronous turn the highest one is reported.
func (r DismissReason) priority() int {
	switch r {
	case DismissOutsideClick:
		return 3
	case DismissEscape:
		return 2
	case DismissScroll:
		return 1
	default:
		return 0
	}
}

// outranking keeps only the enabled paths that outrank r.
func (on DismissOn) outranking(r DismissReason) DismissOn {
	p := r.priority()
	if p == 0 {
		return DismissOn{}
	}
	return DismissOn{
		OutsideClick: on.OutsideClick && DismissOutsideClick.priority() > p,
		Escape:       on.Escape && DismissEscape.priority() > p,
		Scroll:       on.Scroll && DismissScroll.priority() > p,
	}
}

func (on DismissOn) any() bool {
	return on.OutsideClick || on.Escape || on.Scroll
}

// startDismisser registers the enabled dismissal paths. fire may be invoked
// more than once in a turn; the engine keeps the highest-priority reason.
func startDismisser(host Host, surface Surface, on DismissOn, fire func(DismissReason)) *dismisser {
	d := &dismisser{}

	if on.OutsideClick {
		// pointerdown, not click: dismiss before click handlers inside the
		// trigger run and re-open the overlay.
		d.removers = append(d.removers, host.Listen(EventPointerDown, true, func(ev Event) {
			if surface.InContent(ev.Target) || surface.InTrigger(ev.Target) {
				return
			}
			fire(DismissOutsideClick)
		}))
	}
	if on.Escape {
		d.removers = append(d.removers, host.Listen(EventKeyDown, true, func(ev Event) {
			if ev.Key == KeyEscape {
				fire(DismissEscape)
			}
		}))
	}
	if on.Scroll {
		d.removers = append(d.removers, host.Listen(EventScroll, true, func(ev Event) {
			// Scrolling a list inside the overlay does not move the anchor.
			if ev.Target != nil && surface.InContent(ev.Target) {
				return
			}
			fire(DismissScroll)
		}))
	}
	return d
}

func (d *dismisser) stop() {
	removers := d.removers
	d.removers = nil
	for _, remove := range removers {
		remove()
	}
}
