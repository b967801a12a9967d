// ABOUTME: One demo overlay: a component surface on the host, its engine and the layer both share
// ABOUTME: Widgets are rebuilt from config on reload; dispose unmounts any live session first

package demo

import (
	"time"

	"github.com/mauromedda/floatkit/pkg/overlay"
	"github.com/mauromedda/floatkit/pkg/tui"
)

// exitDuration is how long the modal's faded frame stays up after dismissal.
const exitDuration = 120 * time.Millisecond

// exitDoneMsg ends the exit animation of the named widget.
type exitDoneMsg struct{ name string }

type widget struct {
	name    string
	surface *tui.ComponentSurface
	engine  *overlay.Engine
	unbind  []func()
}

func newWidget(h *tui.Host, name string, anchor *tui.Node, c tui.Component, w int, opts overlay.Options) *widget {
	s := tui.NewComponentSurface(h, anchor, c, w)
	e := overlay.New(h, s, opts)
	return &widget{
		name:    name,
		surface: s,
		engine:  e,
		unbind:  []func(){s.Bind(e)},
	}
}

func (w *widget) open() bool { return w.engine.State().IsOpen }

func (w *widget) toggle() { w.engine.SetOpen(!w.open()) }

func (w *widget) layer() *tui.Layer { return w.surface.Layer() }

func (w *widget) content() *tui.Node { return w.surface.Content() }

// subscribe adds fn to the widget's engine until dispose.
func (w *widget) subscribe(fn func(overlay.Session)) {
	w.unbind = append(w.unbind, w.engine.Subscribe(fn))
}

func (w *widget) dispose(h *tui.Host) {
	w.engine.Dispose()
	for _, fn := range w.unbind {
		fn()
	}
	h.RemoveNode(w.content())
}
