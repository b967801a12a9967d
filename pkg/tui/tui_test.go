// ABOUTME: Tests for the TUI engine: differential rendering, cursor handling and layer compositing
// ABOUTME: Uses an in-memory writer and a real overlay engine on the terminal host

package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/floatkit/pkg/overlay"
	"github.com/mauromedda/floatkit/pkg/tui/width"
)

type mockComponent struct {
	lines []string
	dirty bool
}

func (m *mockComponent) Render(out *RenderBuffer, w int) {
	out.WriteLines(m.lines)
}

func (m *mockComponent) Invalidate() {
	m.dirty = true
}

func plain(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(width.StripANSI(l), " ")
	}
	return out
}

func TestRenderBuffer_Pool(t *testing.T) {
	t.Parallel()

	buf := AcquireBuffer()
	buf.WriteLine("line1")
	buf.WriteLine("wider line")
	if w, h := buf.Size(); w != 10 || h != 2 {
		t.Errorf("Size() = %d x %d, want 10 x 2", w, h)
	}
	ReleaseBuffer(buf)

	buf2 := AcquireBuffer()
	if buf2.Len() != 0 {
		t.Errorf("re-acquired buffer Len() = %d, want 0", buf2.Len())
	}
	ReleaseBuffer(buf2)
}

func TestContainer_AddRemove(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	comp1 := &mockComponent{lines: []string{"a"}}
	comp2 := &mockComponent{lines: []string{"b"}}
	c.Add(comp1)
	c.Add(comp2)

	if !c.Remove(comp1) {
		t.Error("Remove returned false for existing component")
	}
	if c.Remove(comp1) {
		t.Error("Remove returned true for a removed component")
	}
	if len(c.Children()) != 1 {
		t.Fatalf("expected 1 child after remove, got %d", len(c.Children()))
	}

	c.Invalidate()
	if !comp2.dirty {
		t.Error("Invalidate did not reach the child")
	}
}

func TestLines_TruncatesToWidth(t *testing.T) {
	t.Parallel()

	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)
	Lines{"short", "much longer line"}.Render(buf, 8)

	if got := plain(buf.Lines); got[0] != "short" || got[1] != "much lo…" {
		t.Errorf("lines = %q", got)
	}
}

func TestTUI_RenderOnce(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	ui.Container().Add(&mockComponent{lines: []string{"test line"}})
	ui.RenderOnce()

	if !strings.Contains(out.String(), "test line") {
		t.Errorf("expected output to contain 'test line', got %q", out.String())
	}
	if got := ui.Frame(); len(got) != 1 || got[0] != "test line" {
		t.Errorf("Frame() = %q", got)
	}
}

func TestTUI_DifferentialRender(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	comp := &mockComponent{lines: []string{"first", "second"}}
	ui.Container().Add(comp)
	ui.RenderOnce()

	out.Reset()
	ui.RenderOnce()
	if strings.Contains(out.String(), "first") {
		t.Errorf("unchanged frame rewrote content: %q", out.String())
	}

	out.Reset()
	comp.lines = []string{"first", "changed"}
	ui.RenderOnce()
	if strings.Contains(out.String(), "first") || !strings.Contains(out.String(), "changed") {
		t.Errorf("diff output = %q, want only the changed line", out.String())
	}
}

func TestTUI_CursorPosition(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	ui.Container().Add(&mockComponent{lines: []string{"abc" + CursorMarker + "def"}})
	ui.RenderOnce()

	result := out.String()
	if !strings.Contains(result, "\r\x1b[3C") {
		t.Errorf("expected cursor at column 3; got %q", result)
	}
	if !strings.Contains(result, "\x1b[?25h") {
		t.Error("expected cursor to be shown")
	}
}

func TestExtractCursorPosition(t *testing.T) {
	t.Parallel()

	lines := []string{"no cursor", "hello" + CursorMarker + "world"}
	row, col := extractCursorPosition(lines)
	if row != 1 || col != 5 {
		t.Errorf("cursor at (%d, %d), want (1, 5)", row, col)
	}
	if lines[1] != "helloworld" {
		t.Errorf("marker not stripped: %q", lines[1])
	}

	if row, col := extractCursorPosition([]string{"none"}); row != -1 || col != -1 {
		t.Errorf("expected (-1, -1), got (%d, %d)", row, col)
	}
}

func TestDrawAt(t *testing.T) {
	t.Parallel()

	pos := overlay.Position{Top: 3, Left: 4}
	tests := []struct {
		name string
		s    overlay.Session
		want bool
	}{
		{name: "closed", s: overlay.Session{}, want: false},
		{name: "opening", s: overlay.Session{State: overlay.StateOpening, Mounted: true, LastPosition: overlay.Offscreen}, want: false},
		{name: "open", s: overlay.Session{State: overlay.StateOpen, Mounted: true, Position: &pos}, want: true},
		{name: "closing", s: overlay.Session{State: overlay.StateClosing, Mounted: true, LastPosition: pos}, want: true},
	}
	for _, tt := range tests {
		got, ok := drawAt(tt.s)
		if ok != tt.want {
			t.Errorf("%s: drawn = %v, want %v", tt.name, ok, tt.want)
		}
		if ok && got != pos {
			t.Errorf("%s: at %v, want %v", tt.name, got, pos)
		}
	}
}

// scene is a 40x10 screen with a button on row 2 and a popover layer.
type scene struct {
	out     bytes.Buffer
	ui      *TUI
	host    *Host
	button  *Node
	surface *ComponentSurface
	engine  *overlay.Engine
}

func newScene(t *testing.T, opts overlay.Options) *scene {
	t.Helper()
	s := &scene{}
	s.ui = New(&s.out, 40, 10)
	s.host = NewHost(40, 10)
	s.ui.Attach(s.host)
	s.ui.Container().Add(Lines{"title", "", "     [button]"})
	s.button = s.host.NewFocusable("button", s.host.Root, overlay.NewRect(5, 2, 8, 1))
	s.surface = NewComponentSurface(s.host, s.button, Lines{"+-----+", "|hint |", "+-----+"}, 0)
	s.engine = overlay.New(s.host, s.surface, opts)
	s.surface.Bind(s.engine)
	s.ui.AddLayer(s.surface.Layer())
	return s
}

func tightOptions() overlay.Options {
	o := overlay.DefaultOptions()
	o.Offset = 0
	o.Margin = 0
	return o
}

func TestTUI_LayerFollowsEngine(t *testing.T) {
	t.Parallel()

	s := newScene(t, tightOptions())
	s.ui.RenderOnce()
	if got := len(s.ui.Frame()); got != 3 {
		t.Fatalf("closed frame has %d lines, want 3", got)
	}

	s.engine.Open()
	if got, want := s.engine.State().RenderPosition(), (overlay.Position{Top: 3, Left: 6}); got != want {
		t.Fatalf("Position = %v, want %v", got, want)
	}
	s.ui.RenderOnce()

	frame := plain(s.ui.Frame())
	if len(frame) != 10 {
		t.Fatalf("open frame has %d lines, want 10", len(frame))
	}
	want := []string{"title", "", "     [button]", "      +-----+", "      |hint |", "      +-----+"}
	for i, w := range want {
		if frame[i] != w {
			t.Errorf("row %d = %q, want %q", i, frame[i], w)
		}
	}

	s.engine.Close()
	s.ui.RenderOnce()
	if got := len(s.ui.Frame()); got != 3 {
		t.Errorf("frame after close has %d lines, want 3", got)
	}
}

func TestTUI_PointerDismissal(t *testing.T) {
	t.Parallel()

	s := newScene(t, tightOptions())
	s.engine.Open()

	if hit := s.host.PointerDown(7, 4); hit != s.surface.Content() {
		t.Fatalf("HitTest inside the layer = %v, want content node", hit)
	}
	if hit := s.host.PointerDown(6, 2); hit != s.button {
		t.Fatalf("HitTest on the trigger = %v, want button", hit)
	}
	if !s.engine.State().IsOpen {
		t.Fatal("pointer inside trigger or content closed the popover")
	}

	s.host.PointerDown(30, 8)
	if got := s.engine.State().DismissReason; got != overlay.DismissOutsideClick {
		t.Errorf("DismissReason = %v, want outside-click", got)
	}
	if !s.surface.Content().Hidden {
		t.Error("content node visible after close")
	}
}

func TestTUI_FramesRepositionBeforeCompose(t *testing.T) {
	t.Parallel()

	s := newScene(t, tightOptions())
	s.engine.Open()
	s.ui.RenderOnce()

	s.button.Rect = overlay.NewRect(20, 2, 8, 1)
	if !s.host.Scroll(1) {
		t.Fatal("page scroll refused while unlocked")
	}
	if got := s.host.PendingFrames(); got != 1 {
		t.Fatalf("PendingFrames = %d, want 1", got)
	}
	s.ui.RenderOnce()

	if got := s.host.PendingFrames(); got != 0 {
		t.Errorf("PendingFrames after render = %d, want 0", got)
	}
	frame := plain(s.ui.Frame())
	if frame[3] != "                     +-----+" {
		t.Errorf("row 3 = %q, want the layer under the moved button", frame[3])
	}
}

func TestTUI_ResizeThroughLoop(t *testing.T) {
	t.Parallel()

	s := newScene(t, tightOptions())
	s.engine.Open()

	s.ui.SetSize(12, 5)
	s.ui.RunPending()
	if got := s.host.Viewport(); got != (overlay.Size{Width: 12, Height: 5}) {
		t.Fatalf("Viewport = %v, want 12x5", got)
	}
	s.ui.RenderOnce()

	// 12-wide viewport: left is clamped to 12-7.
	if got, want := s.engine.State().RenderPosition(), (overlay.Position{Top: 2, Left: 5}); got != want {
		t.Errorf("Position = %v, want %v", got, want)
	}
}

func TestTUI_ExitAnimationKeepsLayer(t *testing.T) {
	t.Parallel()

	opts := tightOptions()
	opts.AnimateExit = true
	s := newScene(t, opts)
	s.engine.Open()
	s.engine.Close()
	s.ui.RenderOnce()

	if frame := plain(s.ui.Frame()); len(frame) != 10 || frame[4] != "      |hint |" {
		t.Fatalf("closing frame = %q, want layer at its last position", frame)
	}

	s.engine.FinishExit()
	s.ui.RenderOnce()
	if got := len(s.ui.Frame()); got != 3 {
		t.Errorf("frame after exit has %d lines, want 3", got)
	}
}

func TestTUI_ModalLocksPageScroll(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 40, 30)
	h := NewHost(40, 30)
	ui.Attach(h)
	surface := NewComponentSurface(h, nil, Lines{"[ok]"}, 0)
	ok := h.NewFocusable("ok", surface.Content(), overlay.Rect{})
	e := overlay.New(h, surface, overlay.ModalOptions(h))
	surface.Bind(e)

	e.Open()
	if h.ActiveElement() != ok {
		t.Errorf("ActiveElement = %v, want the modal's first control", h.ActiveElement())
	}
	if h.Scroll(3) {
		t.Error("page scrolled under a modal")
	}
	if got, want := e.State().RenderPosition(), (overlay.Position{Top: 15, Left: 18}); got != want {
		t.Errorf("Position = %v, want %v", got, want)
	}

	e.Close()
	if !h.Scroll(3) || h.ScrollOffset() != 3 {
		t.Errorf("page scroll not restored: offset = %d", h.ScrollOffset())
	}
}

func TestTUI_AfterRunsOnLoop(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 10, 5)
	h := NewHost(10, 5)
	ui.Attach(h)
	ui.Start()
	defer ui.Stop()

	done := make(chan struct{})
	h.After(time.Millisecond, func() { close(done) })
	cancel := h.After(time.Millisecond, func() { t.Error("cancelled timer ran") })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never ran")
	}
}

func TestTUI_PostNeverBlocks(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 10, 5)
	ran := 0
	for range 200 {
		ui.Post(func() { ran++ })
	}
	ui.Post(func() { ui.Post(func() { ran++ }) })
	ui.RunPending()
	if ran != 201 {
		t.Errorf("ran = %d, want 201", ran)
	}

	ui.Start()
	defer ui.Stop()
	done := make(chan struct{})
	ui.Post(func() { ui.Post(func() { close(done) }) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("work posted from the render goroutine never ran")
	}
}
