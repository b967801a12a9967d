// ABOUTME: Root Bubble Tea model of the overlay demo: a scrollable page with triggers and six overlays
// ABOUTME: Routes keys and mouse events into the tui.Host, then composites engine-positioned layers in View

package demo

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/floatkit/internal/config"
	"github.com/mauromedda/floatkit/internal/log"
	"github.com/mauromedda/floatkit/pkg/overlay"
	"github.com/mauromedda/floatkit/pkg/tui"
	"github.com/mauromedda/floatkit/pkg/tui/width"
)

// Preset names of the demo overlays, bottom layer first.
const (
	nameTooltip     = "tooltip"
	namePopover     = "popover"
	nameDropdown    = "dropdown"
	nameContextMenu = "context-menu"
	nameDrawer      = "drawer"
	nameModal       = "modal"
)

var layerOrder = []string{nameTooltip, namePopover, nameDropdown, nameContextMenu, nameDrawer, nameModal}

const helpText = `# floatkit

Every box on screen is positioned by an overlay engine.

- **hover** the first button for a tooltip
- **click** the popover button, **p** cycles its placement
- **click** the picker and type to filter
- **right-click** anywhere for a context menu
- **d** opens the drawer, **?** this help
- **Esc** or a click outside dismisses

While this dialog is open, focus and page scroll are locked.`

var fruits = []string{"apple", "apricot", "banana", "blueberry", "cherry", "grape", "lemon", "mango", "orange", "peach"}

var menuItems = []string{"Copy", "Paste", "Inspect", "Close"}

// ConfigMsg replaces the preset configuration; the overlays are rebuilt.
type ConfigMsg struct{ Config *config.Config }

// shared holds mutable state that must survive Model value copies.
// Bubble Tea copies the model on each Update; pointer fields are shared
// across copies.
type shared struct {
	host   *tui.Host
	loop   *programLoop
	cfg    *config.Config
	md     *MarkdownRenderer
	styles Styles

	tipBtn, popBtn, selBtn *tui.Node
	pointer                *tui.Node
	modalOK                *tui.Node

	widgets  map[string]*widget
	dropList *selectList
	menuList *selectList
	hover    *overlay.HoverIntent
	hovering bool

	placement int // index into overlay.Placements for the popover
	picked    string
	status    string
	exits     []string
}

// Model is the root Bubble Tea model of the demo.
type Model struct {
	sh            *shared
	width, height int
}

// New creates the demo model. cfg is the preset configuration; nil uses
// config.DefaultConfig.
func New(cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h := tui.NewHost(0, 0)
	loop := &programLoop{}
	h.SetLoop(loop)

	sh := &shared{
		host:    h,
		loop:    loop,
		cfg:     cfg,
		md:      NewMarkdownRenderer(),
		styles:  DefaultStyles(),
		tipBtn:  h.NewFocusable("tooltip-trigger", h.Root, overlay.Rect{}),
		popBtn:  h.NewFocusable("popover-trigger", h.Root, overlay.Rect{}),
		selBtn:  h.NewFocusable("picker-trigger", h.Root, overlay.Rect{}),
		pointer: h.NewNode("pointer", h.Root, overlay.Rect{}),
		picked:  fruits[0],
		status:  "ready",
	}
	if p, err := overlay.ParsePlacement(cfg.Presets[namePopover].Placement); err == nil {
		sh.placement = placementIndex(p)
	}
	m := Model{sh: sh}
	m.build()
	m.layout()
	h.Focus(sh.tipBtn)
	return m
}

// SetSender connects the model's host timers to a running program.
func (m Model) SetSender(s ProgramSender) {
	m.sh.loop.setSender(s)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sh.host.Resize(msg.Width, msg.Height)
		m.layout()
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		m.handleMouse(msg)
	case postMsg:
		msg.fn()
	case frameMsg:
		m.sh.loop.Wake()
	case exitDoneMsg:
		if w := m.sh.widgets[msg.name]; w != nil {
			w.engine.FinishExit()
		}
	case ConfigMsg:
		m.reload(msg.Config)
	}
	cmds = append(cmds, m.flush()...)
	return m, tea.Batch(cmds...)
}

// flush runs requested frames so View sees fresh positions, then schedules
// follow-up frames and exit animations.
func (m Model) flush() []tea.Cmd {
	var cmds []tea.Cmd
	if m.sh.loop.takeWake() {
		m.sh.host.RunFrames()
	}
	if m.sh.host.PendingFrames() > 0 {
		cmds = append(cmds, nextFrame())
	}
	for _, name := range m.sh.exits {
		cmds = append(cmds, tea.Tick(exitDuration, func(time.Time) tea.Msg { return exitDoneMsg{name: name} }))
	}
	m.sh.exits = nil
	return cmds
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	layers := make([]*tui.Layer, 0, len(layerOrder))
	for _, name := range layerOrder {
		if w := m.sh.widgets[name]; w != nil {
			layers = append(layers, w.layer())
		}
	}
	frame := tui.Composite(m.page(), layers, m.width, m.height)
	return strings.Join(frame, "\n")
}

// build creates the overlays from the current config.
func (m Model) build() {
	sh := m.sh
	h := sh.host
	sh.widgets = make(map[string]*widget, len(layerOrder))

	opts := func(name string) overlay.Options {
		o, err := sh.cfg.Options(name, h)
		if err != nil {
			log.Warn("demo: preset %s: %v, using defaults", name, err)
			o, _ = overlay.Preset(name, h)
		}
		return o
	}

	tip := sh.styles.Box.Render("Positioned by the engine")
	sh.widgets[nameTooltip] = newWidget(h, nameTooltip, sh.tipBtn, tui.Lines(strings.Split(tip, "\n")), 0, opts(nameTooltip))

	popOpts := opts(namePopover)
	popOpts.Placement = overlay.Placements()[sh.placement]
	sh.widgets[namePopover] = newWidget(h, namePopover, sh.popBtn, renderFunc(m.popoverLines), 0, popOpts)

	sh.dropList = newSelectList(sh.styles, fruits, true)
	sh.widgets[nameDropdown] = newWidget(h, nameDropdown, sh.selBtn, sh.dropList, 0, opts(nameDropdown))

	sh.menuList = newSelectList(sh.styles, menuItems, false)
	sh.widgets[nameContextMenu] = newWidget(h, nameContextMenu, sh.pointer, sh.menuList, 0, opts(nameContextMenu))

	sh.widgets[nameDrawer] = newWidget(h, nameDrawer, nil, renderFunc(m.drawerLines), 32, opts(nameDrawer))

	modalOpts := opts(nameModal)
	modalOpts.AnimateExit = true
	modal := newWidget(h, nameModal, nil, renderFunc(m.modalLines), 0, modalOpts)
	sh.modalOK = h.NewFocusable("modal-ok", modal.content(), overlay.Rect{})
	sh.widgets[nameModal] = modal

	for _, w := range sh.widgets {
		m.watch(w)
	}
	sh.widgets[nameDropdown].subscribe(func(s overlay.Session) {
		if s.State == overlay.StateOpening {
			sh.dropList.Reset()
		}
	})

	tc := sh.cfg.Presets[nameTooltip]
	sh.hover = overlay.NewHoverIntent(sh.widgets[nameTooltip].engine, tc.OpenDelay.Std(), tc.CloseDelay.Std())
	sh.hovering = false
}

// watch reports a widget's lifecycle in the status line.
func (m Model) watch(w *widget) {
	sh := m.sh
	name := w.name
	w.subscribe(func(s overlay.Session) {
		switch s.State {
		case overlay.StateOpen:
			if s.Position != nil {
				sh.status = fmt.Sprintf("%s open at %s (%s)", name, s.Position, s.ActivePlacement)
			}
		case overlay.StateClosing:
			sh.exits = append(sh.exits, name)
			sh.status = fmt.Sprintf("%s closing (%s)", name, s.DismissReason)
		case overlay.StateClosed:
			if s.DismissReason != overlay.DismissNone {
				sh.status = fmt.Sprintf("%s closed (%s)", name, s.DismissReason)
			}
		}
	})
}

func (m Model) teardown() {
	sh := m.sh
	if sh.hover != nil {
		sh.hover.Stop()
	}
	for _, name := range layerOrder {
		if w := sh.widgets[name]; w != nil {
			w.dispose(sh.host)
		}
	}
	sh.widgets = nil
	sh.exits = nil
}

func (m Model) reload(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.teardown()
	m.sh.cfg = cfg
	if p, err := overlay.ParsePlacement(cfg.Presets[namePopover].Placement); err == nil {
		m.sh.placement = placementIndex(p)
	}
	m.build()
	m.sh.status = "config reloaded"
	log.Info("demo: overlays rebuilt from reloaded config")
}

// cyclePlacement rebuilds the popover with the next placement and reopens
// it when it was open.
func (m Model) cyclePlacement() {
	sh := m.sh
	old := sh.widgets[namePopover]
	wasOpen := old.open()
	sh.placement = (sh.placement + 1) % len(overlay.Placements())

	o := old.engine.Options()
	o.Placement = overlay.Placements()[sh.placement]
	old.dispose(sh.host)

	w := newWidget(sh.host, namePopover, sh.popBtn, renderFunc(m.popoverLines), 0, o)
	m.watch(w)
	sh.widgets[namePopover] = w
	if wasOpen {
		w.engine.Open()
	}
}

func placementIndex(p overlay.Placement) int {
	for i, cur := range overlay.Placements() {
		if cur == p {
			return i
		}
	}
	return 0
}

func (m Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	sh := m.sh
	key := msg.String()
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if msg.Type == tea.KeyEsc {
		sh.host.KeyDown(overlay.KeyEscape)
		return nil
	}
	sh.host.KeyDown(key)

	if w, list := m.activeList(); w != nil {
		m.listKey(w, list, msg)
		return nil
	}

	switch key {
	case "q":
		return tea.Quit
	case "?":
		sh.widgets[nameModal].toggle()
	case "d":
		sh.widgets[nameDrawer].toggle()
	case "p":
		m.cyclePlacement()
	case "tab":
		m.focusNext()
	case "enter", " ":
		m.activate(sh.host.ActiveElement())
	}
	return nil
}

// activeList returns the open list overlay that receives typing.
func (m Model) activeList() (*widget, *selectList) {
	if w := m.sh.widgets[nameContextMenu]; w.open() {
		return w, m.sh.menuList
	}
	if w := m.sh.widgets[nameDropdown]; w.open() {
		return w, m.sh.dropList
	}
	return nil, nil
}

func (m Model) listKey(w *widget, list *selectList, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyUp:
		list.MoveUp()
	case tea.KeyDown:
		list.MoveDown()
	case tea.KeyEnter:
		m.choose(w, list)
	case tea.KeyBackspace:
		if f := list.Filter(); f != "" && list.showFind {
			r := []rune(f)
			list.SetFilter(string(r[:len(r)-1]))
			w.engine.Reposition()
		}
	case tea.KeyRunes, tea.KeySpace:
		if list.showFind {
			list.SetFilter(list.Filter() + string(msg.Runes))
			w.engine.Reposition()
		}
	}
}

func (m Model) choose(w *widget, list *selectList) {
	sel := list.Selected()
	if sel == "" {
		return
	}
	if w.name == nameDropdown {
		m.sh.picked = sel
		m.layout()
	}
	w.engine.Close()
	m.sh.status = fmt.Sprintf("%s: chose %s", w.name, sel)
}

// focusNext moves focus along the page triggers. An open modal's lock pulls
// focus back inside it.
func (m Model) focusNext() {
	sh := m.sh
	order := []*tui.Node{sh.tipBtn, sh.popBtn, sh.selBtn}
	next := order[0]
	for i, n := range order {
		if overlay.Node(n) == sh.host.ActiveElement() {
			next = order[(i+1)%len(order)]
			break
		}
	}
	sh.host.Focus(next)
}

func (m Model) activate(target overlay.Node) {
	sh := m.sh
	switch target {
	case overlay.Node(sh.tipBtn):
		sh.widgets[nameTooltip].toggle()
	case overlay.Node(sh.popBtn):
		sh.widgets[namePopover].toggle()
	case overlay.Node(sh.selBtn):
		sh.widgets[nameDropdown].toggle()
	case overlay.Node(sh.modalOK):
		sh.widgets[nameModal].engine.Close()
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	sh := m.sh
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(1)
	case msg.Action == tea.MouseActionMotion:
		m.hoverAt(msg.X, msg.Y)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		target := sh.host.PointerDown(msg.X, msg.Y)
		m.click(target, msg.Y)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		sh.host.PointerDown(msg.X, msg.Y)
		m.openMenuAt(msg.X, msg.Y)
	}
}

func (m Model) click(target *tui.Node, y int) {
	sh := m.sh
	if target == nil {
		return
	}
	switch target {
	case sh.tipBtn, sh.popBtn, sh.selBtn:
		sh.host.Focus(target)
		m.activate(target)
		return
	}
	for _, name := range []string{nameDropdown, nameContextMenu} {
		w := sh.widgets[name]
		if target != w.content() {
			continue
		}
		list := sh.dropList
		if name == nameContextMenu {
			list = sh.menuList
		}
		if list.Select(y - target.Rect.Y - list.rowOffset()) {
			m.choose(w, list)
		}
	}
}

func (m Model) openMenuAt(x, y int) {
	sh := m.sh
	w := sh.widgets[nameContextMenu]
	w.engine.Close()
	sh.pointer.Rect = overlay.PointerAnchor(x, y)
	sh.menuList.Select(0)
	w.engine.Open()
}

// hoverAt drives the tooltip's hover intent. Resting on the tooltip itself
// keeps it open.
func (m Model) hoverAt(x, y int) {
	sh := m.sh
	tip := sh.widgets[nameTooltip]
	inside := sh.tipBtn.Rect.Contains(x, y) ||
		(!tip.content().Hidden && tip.content().Rect.Contains(x, y))
	if inside == sh.hovering {
		return
	}
	sh.hovering = inside
	if inside {
		sh.hover.Enter()
	} else {
		sh.hover.Leave()
	}
}

// scroll moves the page by dy rows when there is room. Locked pages refuse.
func (m Model) scroll(dy int) {
	sh := m.sh
	next := sh.host.ScrollOffset() + dy
	if next < 0 || next > m.maxScroll() {
		return
	}
	if sh.host.Scroll(dy) {
		m.layout()
	}
}

const (
	headerRows  = 1
	footerRows  = 1
	triggerRow  = 1 // page row of the trigger line
	triggerGap  = 3
	triggerLeft = 2
	fillerRows  = 40
)

func (m Model) triggerLabels() []string {
	return []string{"[ hover me ]", "[ popover ]", fmt.Sprintf("[ pick: %s ]", m.sh.picked)}
}

func (m Model) bodyRows() []string {
	rows := []string{
		"",
		"", // triggers, drawn by page
		"",
		"Right-click anywhere for a context menu.",
		"Scroll with the wheel: the popover follows its trigger, the menu closes.",
		"",
	}
	for i := range fillerRows {
		rows = append(rows, fmt.Sprintf("  line %02d", i+1))
	}
	return rows
}

func (m Model) maxScroll() int {
	visible := m.height - headerRows - footerRows
	return max(len(m.bodyRows())-visible, 0)
}

// layout places the trigger nodes where page draws them.
func (m Model) layout() {
	sh := m.sh
	y := headerRows + triggerRow - sh.host.ScrollOffset()
	x := triggerLeft
	for i, n := range []*tui.Node{sh.tipBtn, sh.popBtn, sh.selBtn} {
		w := width.VisibleWidth(m.triggerLabels()[i])
		n.Rect = overlay.NewRect(x, y, w, 1)
		x += w + triggerGap
	}
}

// page renders the base frame: header, the scrolled body and the status line.
func (m Model) page() []string {
	sh := m.sh
	s := sh.styles
	lines := make([]string, 0, m.height)
	lines = append(lines, width.Truncate(s.Title.Render("floatkit demo")+s.Dim.Render("  ? help  d drawer  p placement  q quit"), m.width))

	body := m.bodyRows()
	labels := m.triggerLabels()
	var trig strings.Builder
	trig.WriteString(strings.Repeat(" ", triggerLeft))
	for i, n := range []*tui.Node{sh.tipBtn, sh.popBtn, sh.selBtn} {
		if i > 0 {
			trig.WriteString(strings.Repeat(" ", triggerGap))
		}
		style := s.Trigger
		if overlay.Node(n) == sh.host.ActiveElement() {
			style = s.Focused
		}
		trig.WriteString(style.Render(labels[i]))
	}
	body[triggerRow] = trig.String()

	visible := m.height - headerRows - footerRows
	off := sh.host.ScrollOffset()
	for i := range visible {
		row := ""
		if off+i < len(body) {
			row = body[off+i]
		}
		lines = append(lines, width.Truncate(row, m.width))
	}
	lines = append(lines, width.Truncate(s.Status.Render(sh.status), m.width))
	return lines
}

func (m Model) popoverLines(int) []string {
	o := m.sh.widgets[namePopover].engine.Options()
	body := fmt.Sprintf("placement: %s\noffset: %d\n\np cycles placement\nEsc or a click outside closes", o.Placement, o.Offset)
	return boxed(m.sh.styles.Box, body)
}

func (m Model) drawerLines(w int) []string {
	sh := m.sh
	var b strings.Builder
	b.WriteString(sh.styles.Title.Render("presets"))
	for _, name := range sh.cfg.Names() {
		p := sh.cfg.Presets[name]
		fmt.Fprintf(&b, "\n\n%s\n  %s +%d", name, p.Placement, p.Offset)
		if p.Lock {
			b.WriteString(" lock")
		}
	}
	style := sh.styles.Box.Width(max(w-2, 1)).Height(max(sh.host.Viewport().Height-2, 1))
	return boxed(style, b.String())
}

func (m Model) modalLines(int) []string {
	sh := m.sh
	style := sh.styles.Box
	if sh.widgets[nameModal].engine.State().State == overlay.StateClosing {
		style = sh.styles.Closing
	}
	ok := "[ OK ]"
	if overlay.Node(sh.modalOK) == sh.host.ActiveElement() {
		ok = sh.styles.Focused.Render(ok)
	}
	return boxed(style, sh.md.Render(helpText, 48)+"\n\n"+ok)
}
