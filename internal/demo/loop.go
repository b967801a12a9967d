// ABOUTME: Bubble Tea loop adapter so tui.Host timers and frames run inside the program's Update
// ABOUTME: Timer callbacks arrive as postMsg; frame requests set a flag that Update flushes before View

package demo

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramSender is the interface for sending messages to Bubble Tea.
// Matches *tea.Program's Send method.
type ProgramSender interface {
	Send(msg tea.Msg)
}

// postMsg carries work posted by a host timer.
type postMsg struct{ fn func() }

// frameMsg asks Update to run frames requested while the last batch ran.
type frameMsg struct{}

// frameInterval paces follow-up frames, roughly one per display refresh.
const frameInterval = 16 * time.Millisecond

// programLoop implements tui.Loop on top of a Bubble Tea program. Post is
// called from timer goroutines only; Wake is called from inside Update and
// therefore must not Send, which would block the program's event loop.
type programLoop struct {
	sender atomic.Pointer[senderBox]
	woken  atomic.Bool
}

type senderBox struct{ s ProgramSender }

func (l *programLoop) setSender(s ProgramSender) {
	l.sender.Store(&senderBox{s: s})
}

// Post implements tui.Loop.
func (l *programLoop) Post(fn func()) {
	if box := l.sender.Load(); box != nil {
		box.s.Send(postMsg{fn: fn})
	}
}

// Wake implements tui.Loop.
func (l *programLoop) Wake() {
	l.woken.Store(true)
}

// takeWake reports and clears a pending wake.
func (l *programLoop) takeWake() bool {
	return l.woken.Swap(false)
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}
