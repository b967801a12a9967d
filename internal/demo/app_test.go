// ABOUTME: Tests for the demo model driving overlays through Bubble Tea messages
// ABOUTME: Covers click, escape, scroll follow/dismiss, dropdown filtering, modal locking, hover and reload

package demo

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/floatkit/internal/config"
	"github.com/mauromedda/floatkit/pkg/overlay"
)

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func newTestModel(t *testing.T, cfg *config.Config) (Model, chanSender) {
	t.Helper()
	m := New(cfg)
	s := make(chanSender, 16)
	m.SetSender(s)
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24}), s
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func mouse(x, y int, action tea.MouseAction, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: b}
}

func click(x, y int) tea.MouseMsg {
	return mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft)
}

func wheelDown() tea.MouseMsg {
	return mouse(40, 12, tea.MouseActionPress, tea.MouseButtonWheelDown)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// isQuit reports whether cmd, or any command it batches, quits.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if isQuit(c) {
				return true
			}
		}
	}
	return false
}

func session(m Model, name string) overlay.Session {
	return m.sh.widgets[name].engine.State()
}

func TestModel_LayoutPlacesTriggers(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	tests := []struct {
		name string
		got  overlay.Rect
		want overlay.Rect
	}{
		{"tooltip", m.sh.tipBtn.Rect, overlay.NewRect(2, 2, 12, 1)},
		{"popover", m.sh.popBtn.Rect, overlay.NewRect(17, 2, 11, 1)},
		{"picker", m.sh.selBtn.Rect, overlay.NewRect(31, 2, 15, 1)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s trigger = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	frame := strings.Split(m.View(), "\n")
	if len(frame) != 24 {
		t.Fatalf("frame rows = %d, want 24", len(frame))
	}
	if !strings.Contains(frame[2], "[ popover ]") {
		t.Errorf("trigger row = %q", frame[2])
	}
}

func TestModel_PopoverClickAndEscape(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, click(18, 2))

	s := session(m, namePopover)
	if s.State != overlay.StateOpen || s.Position == nil {
		t.Fatalf("popover = %v, want open with a position", s.State)
	}
	if s.Position.Top != 4 {
		t.Errorf("popover top = %d, want 4", s.Position.Top)
	}
	if !strings.Contains(m.View(), "placement: bottom") {
		t.Error("popover body not composited into the view")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	s = session(m, namePopover)
	if s.IsOpen || s.DismissReason != overlay.DismissEscape {
		t.Errorf("after Esc state = %v reason = %v, want closed by escape", s.State, s.DismissReason)
	}
}

func TestModel_PopoverTriggerToggles(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, click(18, 2))
	m = update(t, m, click(18, 2))

	s := session(m, namePopover)
	if s.IsOpen || s.DismissReason != overlay.DismissProgrammatic {
		t.Errorf("second click: state = %v reason = %v, want programmatic close", s.State, s.DismissReason)
	}
}

func TestModel_PopoverFollowsScroll(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, click(18, 2))
	m = update(t, m, wheelDown())

	if got := m.sh.host.ScrollOffset(); got != 1 {
		t.Fatalf("ScrollOffset = %d, want 1", got)
	}
	s := session(m, namePopover)
	if !s.IsOpen || s.Position == nil || s.Position.Top != 3 {
		t.Errorf("popover after scroll = %v at %v, want open at top 3", s.State, s.Position)
	}
}

func TestModel_ContextMenuOpensAtPointerAndClosesOnScroll(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, mouse(40, 12, tea.MouseActionPress, tea.MouseButtonRight))

	s := session(m, nameContextMenu)
	if s.Position == nil || *s.Position != (overlay.Position{Top: 12, Left: 40}) {
		t.Fatalf("context menu at %v, want (12,40)", s.Position)
	}

	m = update(t, m, wheelDown())
	s = session(m, nameContextMenu)
	if s.IsOpen || s.DismissReason != overlay.DismissScroll {
		t.Errorf("after scroll state = %v reason = %v, want closed by scroll", s.State, s.DismissReason)
	}
}

func TestModel_ContextMenuItemClick(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, mouse(40, 12, tea.MouseActionPress, tea.MouseButtonRight))

	// Border row, then Copy, then Paste.
	m = update(t, m, click(43, 14))

	if s := session(m, nameContextMenu); s.IsOpen {
		t.Error("menu still open after choosing an item")
	}
	if !strings.Contains(m.sh.status, "chose Paste") {
		t.Errorf("status = %q, want Paste chosen", m.sh.status)
	}
}

func TestModel_DropdownFilterAndChoose(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, click(32, 2))
	if !session(m, nameDropdown).IsOpen {
		t.Fatal("dropdown did not open")
	}

	for _, r := range "cher" {
		m = update(t, m, runes(string(r)))
	}
	if got := m.sh.dropList.Selected(); got != "cherry" {
		t.Fatalf("selected = %q, want cherry", got)
	}
	if !session(m, nameDropdown).IsOpen {
		t.Fatal("typing closed the dropdown")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if session(m, nameDropdown).IsOpen {
		t.Error("dropdown still open after Enter")
	}
	if m.sh.picked != "cherry" {
		t.Errorf("picked = %q, want cherry", m.sh.picked)
	}
	if got := m.sh.selBtn.Rect.Width; got != len("[ pick: cherry ]") {
		t.Errorf("picker width = %d, want %d", got, len("[ pick: cherry ]"))
	}

	// Reopening starts unfiltered.
	m = update(t, m, click(32, 2))
	if got := m.sh.dropList.Filter(); got != "" {
		t.Errorf("filter on reopen = %q, want empty", got)
	}
}

func TestModel_ModalLocksAndAnimatesExit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, runes("?"))

	h := m.sh.host
	if s := session(m, nameModal); s.State != overlay.StateOpen || !s.OwnsFocusLock {
		t.Fatalf("modal = %v lock %v, want open with lock", s.State, s.OwnsFocusLock)
	}
	if h.ActiveElement() != overlay.Node(m.sh.modalOK) {
		t.Errorf("focus = %v, want modal OK", h.ActiveElement())
	}
	if h.ScrollStyle() != overlay.ScrollLocked {
		t.Errorf("scroll style = %q, want locked", h.ScrollStyle())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if h.ActiveElement() != overlay.Node(m.sh.modalOK) {
		t.Errorf("Tab escaped the modal to %v", h.ActiveElement())
	}

	m = update(t, m, wheelDown())
	if got := h.ScrollOffset(); got != 0 {
		t.Errorf("page scrolled to %d under the modal", got)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if s := session(m, nameModal); s.State != overlay.StateClosing || !s.Mounted {
		t.Fatalf("modal after Esc = %v mounted %v, want closing and mounted", s.State, s.Mounted)
	}
	if cmd == nil {
		t.Fatal("no exit animation scheduled")
	}

	m = update(t, m, exitDoneMsg{name: nameModal})
	if s := session(m, nameModal); s.State != overlay.StateClosed || s.Mounted {
		t.Errorf("modal after exit = %v mounted %v, want closed", s.State, s.Mounted)
	}
	if h.ScrollStyle() == overlay.ScrollLocked {
		t.Error("scroll still locked after the modal closed")
	}
	if h.ActiveElement() != overlay.Node(m.sh.tipBtn) {
		t.Errorf("focus = %v, want restored to the tooltip trigger", h.ActiveElement())
	}
}

func TestModel_DrawerDocksRight(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, runes("d"))

	s := session(m, nameDrawer)
	if s.Position == nil || *s.Position != (overlay.Position{Top: 0, Left: 48}) {
		t.Errorf("drawer at %v, want (0,48)", s.Position)
	}
}

func TestModel_HoverOpensTooltipAfterDelay(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	tip := cfg.Presets[nameTooltip]
	tip.OpenDelay = config.Duration(5 * time.Millisecond)
	cfg.Presets[nameTooltip] = tip

	m, sender := newTestModel(t, cfg)
	m = update(t, m, mouse(3, 2, tea.MouseActionMotion, tea.MouseButtonNone))
	if session(m, nameTooltip).IsOpen {
		t.Fatal("tooltip opened before the delay")
	}

	select {
	case msg := <-sender:
		m = update(t, m, msg)
	case <-time.After(time.Second):
		t.Fatal("hover timer never posted")
	}
	if s := session(m, nameTooltip); s.State != overlay.StateOpen {
		t.Fatalf("tooltip = %v, want open", s.State)
	}

	m = update(t, m, mouse(70, 20, tea.MouseActionMotion, tea.MouseButtonNone))
	if s := session(m, nameTooltip); s.IsOpen || s.DismissReason != overlay.DismissProgrammatic {
		t.Errorf("after leave state = %v reason = %v, want programmatic close", s.State, s.DismissReason)
	}
}

func TestModel_CyclePlacement(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, click(18, 2))
	before := m.sh.placement

	m = update(t, m, runes("p"))

	want := overlay.Placements()[(before+1)%len(overlay.Placements())]
	s := session(m, namePopover)
	if s.ActivePlacement != want || !s.IsOpen {
		t.Errorf("popover = %v %v, want open with %v", s.State, s.ActivePlacement, want)
	}
}

func TestModel_ConfigReloadRebuildsOverlays(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	m = update(t, m, click(18, 2))
	old := m.sh.widgets[namePopover]

	cfg := config.DefaultConfig()
	p := cfg.Presets[namePopover]
	p.Placement = "top"
	cfg.Presets[namePopover] = p
	m = update(t, m, ConfigMsg{Config: cfg})

	if s := old.engine.State(); s.IsOpen || s.DismissReason != overlay.DismissUnmount {
		t.Errorf("old popover = %v reason %v, want unmounted", s.State, s.DismissReason)
	}
	if got := m.sh.widgets[namePopover].engine.Options().Placement; got != overlay.PlacementTop {
		t.Errorf("new popover placement = %v, want top", got)
	}
	if m.sh.host.IsAttached(old.content()) {
		t.Error("old popover content still attached")
	}
	if m.sh.status != "config reloaded" {
		t.Errorf("status = %q", m.sh.status)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%v: no command", msg)
		}
		if !isQuit(cmd) {
			t.Errorf("%v: command is not quit", msg)
		}
	}
}
