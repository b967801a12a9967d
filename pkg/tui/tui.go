// ABOUTME: TUI engine with differential rendering and engine-positioned overlay layers
// ABOUTME: One goroutine renders and runs posted work, so an attached Host never races its engines

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mauromedda/floatkit/pkg/tui/width"
)

// Writer is the minimal interface for terminal output.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// TUI is the main rendering engine. It implements Loop for an attached Host.
type TUI struct {
	container *Container
	writer    Writer
	width     int
	height    int

	mu            sync.Mutex
	previousLines []string
	layers        []*Layer
	host          *Host
	renderCh      chan struct{}
	posted        []func()
	postCh        chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
	running       bool

	rstate renderState
}

// New creates a new TUI engine writing to w with the given dimensions.
func New(w Writer, termWidth, termHeight int) *TUI {
	return &TUI{
		container: NewContainer(),
		writer:    w,
		width:     termWidth,
		height:    termHeight,
		renderCh:  make(chan struct{}, 1),
		postCh:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		rstate:    renderState{firstRender: true},
	}
}

// Container returns the root container for adding components.
func (t *TUI) Container() *Container {
	return t.container
}

// Attach makes t the loop of h: h's timers run on the render goroutine and
// its frames run at the start of each render. The host is resized with t.
func (t *TUI) Attach(h *Host) {
	t.mu.Lock()
	t.host = h
	t.mu.Unlock()
	h.SetLoop(t)
}

// SetSize updates the terminal dimensions and triggers a re-render. The
// attached host receives the resize on the render goroutine.
func (t *TUI) SetSize(w, h int) {
	t.mu.Lock()
	t.width = w
	t.height = h
	t.previousLines = nil
	host := t.host
	t.mu.Unlock()
	t.container.Invalidate()
	if host != nil {
		t.Post(func() { host.Resize(w, h) })
	}
	t.RequestRender()
}

// AddLayer adds an overlay layer above the existing ones.
func (t *TUI) AddLayer(l *Layer) {
	t.mu.Lock()
	t.layers = append(t.layers, l)
	t.mu.Unlock()
	t.RequestRender()
}

// RemoveLayer removes l.
func (t *TUI) RemoveLayer(l *Layer) {
	t.mu.Lock()
	for i, cur := range t.layers {
		if cur == l {
			t.layers = append(t.layers[:i], t.layers[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	t.RequestRender()
}

// RequestRender signals that a render is needed. Multiple calls coalesce
// into a single render via a buffered channel of size 1.
func (t *TUI) RequestRender() {
	select {
	case t.renderCh <- struct{}{}:
	default:
	}
}

// Wake implements Loop.
func (t *TUI) Wake() {
	t.RequestRender()
}

// Post implements Loop. fn runs on the render goroutine once Start has been
// called, or on the next RunPending. Post never blocks, so it is safe from
// the render goroutine itself.
func (t *TUI) Post(fn func()) {
	t.mu.Lock()
	t.posted = append(t.posted, fn)
	t.mu.Unlock()
	select {
	case t.postCh <- struct{}{}:
	default:
	}
}

// RunPending runs posted work without the render loop, including work posted
// while it runs. Useful for testing.
func (t *TUI) RunPending() {
	for t.runPosted() {
	}
}

// runPosted runs the work posted so far and reports whether there was any.
func (t *TUI) runPosted() bool {
	t.mu.Lock()
	batch := t.posted
	t.posted = nil
	t.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch) > 0
}

// Start begins the render loop in a goroutine. Call Stop to terminate.
func (t *TUI) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	go t.loop()
}

// Stop terminates the render loop. Safe to call multiple times.
func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		if !t.running {
			t.mu.Unlock()
			return
		}
		t.running = false
		t.mu.Unlock()
		close(t.stopCh)
	})
}

// RenderOnce performs a single synchronous render. Useful for testing.
func (t *TUI) RenderOnce() {
	t.render()
}

// Frame returns the lines of the last render with cursor markers removed.
func (t *TUI) Frame() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.previousLines))
	copy(out, t.previousLines)
	return out
}

func (t *TUI) loop() {
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.postCh:
			t.runPosted()
		case <-t.renderCh:
			t.render()
		}
	}
}

func (t *TUI) render() {
	t.mu.Lock()
	host := t.host
	t.mu.Unlock()
	if host != nil {
		// Reposition passes publish before this frame is composed.
		host.RunFrames()
	}

	t.mu.Lock()
	w := t.width
	h := t.height
	prevLines := t.previousLines
	rstate := t.rstate
	layers := make([]*Layer, len(t.layers))
	copy(layers, t.layers)
	t.mu.Unlock()

	if w <= 0 || h <= 0 {
		return
	}

	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)
	t.container.Render(buf, w)

	// Keep the bottom lines so the latest content stays visible.
	lines := buf.Lines
	clamped := len(lines) > h
	if clamped {
		lines = lines[len(lines)-h:]
	}

	// Layer positions are viewport coordinates, so compose after clamping.
	lines = Composite(lines, layers, w, h)

	if clamped != rstate.prevClamped {
		prevLines = nil
		rstate.firstRender = true
		rstate.maxRendered = 0
	}
	rstate.prevClamped = clamped

	cursorRow, cursorCol := extractCursorPosition(lines)
	output := relativeRender(&rstate, prevLines, lines, w)

	if cursorRow >= 0 && cursorCol >= 0 {
		var cur strings.Builder
		var numBuf [20]byte
		moveCursor(&cur, numBuf[:], rstate.cursorRow, cursorRow)
		rstate.cursorRow = cursorRow
		fmt.Fprintf(&cur, "\r\x1b[%dC", cursorCol)
		cur.WriteString("\x1b[?25h")
		output += cur.String()
	} else {
		output += "\x1b[?25l"
	}

	if output != "" {
		// CSI 2026 synchronized output.
		_, _ = t.writer.Write([]byte("\x1b[?2026h" + output + "\x1b[?2026l"))
	}

	saved := make([]string, len(lines))
	copy(saved, lines)
	t.mu.Lock()
	t.previousLines = saved
	t.rstate = rstate
	t.mu.Unlock()
}

// extractCursorPosition finds the CursorMarker in lines, removes it,
// and returns (row, col). Returns (-1, -1) if not found.
func extractCursorPosition(lines []string) (row, col int) {
	for i, line := range lines {
		idx := strings.Index(line, CursorMarker)
		if idx >= 0 {
			before := line[:idx]
			lines[i] = before + line[idx+len(CursorMarker):]
			return i, width.VisibleWidth(before)
		}
	}
	return -1, -1
}

// renderState tracks cursor position across renders for relative movement.
type renderState struct {
	maxRendered int
	cursorRow   int
	firstRender bool
	prevWidth   int
	prevClamped bool
}

// redraw writes every line from the current cursor row and resets state.
func redraw(state *renderState, b *strings.Builder, curr []string) {
	for i, line := range curr {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
	}
	state.cursorRow = max(len(curr)-1, 0)
	state.maxRendered = len(curr)
	state.firstRender = false
}

// relativeRender generates ANSI commands using relative cursor movement
// instead of absolute positioning, so content scrolls like a chat.
func relativeRender(state *renderState, prev, curr []string, termWidth int) string {
	var b strings.Builder
	var numBuf [20]byte

	if state.prevWidth != 0 && state.prevWidth != termWidth {
		b.WriteString("\x1b[2J\x1b[H")
		redraw(state, &b, curr)
		state.prevWidth = termWidth
		return b.String()
	}
	state.prevWidth = termWidth

	if state.firstRender {
		redraw(state, &b, curr)
		return b.String()
	}

	common := min(len(prev), len(curr))
	for i := range common {
		if prev[i] == curr[i] {
			continue
		}
		moveCursor(&b, numBuf[:], state.cursorRow, i)
		state.cursorRow = i
		b.WriteString("\r\x1b[2K")
		b.WriteString(curr[i])
	}

	if len(curr) > len(prev) {
		last := max(len(prev)-1, 0)
		moveCursor(&b, numBuf[:], state.cursorRow, last)
		state.cursorRow = last
		for i := len(prev); i < len(curr); i++ {
			b.WriteString("\r\n")
			b.WriteString(curr[i])
			state.cursorRow = i
		}
	}

	if len(curr) < state.maxRendered {
		for i := len(curr); i < state.maxRendered; i++ {
			moveCursor(&b, numBuf[:], state.cursorRow, i)
			state.cursorRow = i
			b.WriteString("\r\x1b[2K")
		}
		if len(curr) > 0 {
			moveCursor(&b, numBuf[:], state.cursorRow, len(curr)-1)
			state.cursorRow = len(curr) - 1
		}
		state.maxRendered = len(curr)
	}
	state.maxRendered = max(state.maxRendered, len(curr))

	return b.String()
}

// moveCursor emits relative cursor movement from fromRow to toRow.
func moveCursor(b *strings.Builder, numBuf []byte, fromRow, toRow int) {
	delta := toRow - fromRow
	switch {
	case delta < 0:
		b.WriteString("\x1b[")
		b.Write(strconv.AppendInt(numBuf[:0], int64(-delta), 10))
		b.WriteByte('A')
	case delta > 0:
		b.WriteString("\x1b[")
		b.Write(strconv.AppendInt(numBuf[:0], int64(delta), 10))
		b.WriteByte('B')
	}
}
