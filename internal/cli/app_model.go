package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model. Views live on a stack with the
// menu at the bottom; notices from actions (saves, imports, exports) cover
// the content area until the next key.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	lastOutput string
	notice     viewport.Model
	showNotice bool
}

// closer is implemented by views holding host resources (capture devices,
// recognizers) that must be released when the view leaves the stack.
type closer interface {
	close()
}

// activityReporter is implemented by views running a clock. The header
// shows their status even while a notice covers the view.
type activityReporter interface {
	activity() string
}

func newAppModel(app *App) appModel {
	state := newSharedState(app)

	vp := viewport.New(0, 0)
	vp.KeyMap = noticeKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return appModel{
		state:     state,
		viewStack: []View{newMenuView(state)},
		notice:    vp,
	}
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// forward hands msg to the top view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	top := len(m.viewStack) - 1
	if top < 0 {
		return m, nil
	}
	updated, cmd := m.viewStack[top].Update(msg)
	m.viewStack[top] = updated.(View)
	return m, cmd
}

// pop drops the top view and releases what it holds. The menu never leaves.
func (m *appModel) pop() {
	if len(m.viewStack) <= 1 {
		return
	}
	release(m.activeView())
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}

// teardown releases every view, top first. It runs when the program exits.
func (m *appModel) teardown() {
	for i := len(m.viewStack) - 1; i >= 0; i-- {
		release(m.viewStack[i])
	}
}

func release(v View) {
	if c, ok := v.(closer); ok {
		c.close()
	}
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width, m.state.Height = msg.Width, msg.Height
		m.notice.Width = msg.Width
		m.notice.Height = m.state.ContentHeight()
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.showNotice {
			var cmd tea.Cmd
			m.notice, cmd = m.notice.Update(msg)
			return m, cmd
		}
		return m.forward(msg)

	case pushViewMsg:
		m.clearOutput()
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, nil

	case refreshViewMsg:
		// Every view reloads, not only the top one: an import made in a
		// wizard changes the list underneath it.
		cmds := make([]tea.Cmd, 0, len(m.viewStack))
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case cmdOutputMsg:
		m.lastOutput = msg.output
		m.showNotice = true
		m.notice.Width = m.state.Width
		m.notice.Height = m.state.ContentHeight()
		m.notice.SetContent(msg.output)
		m.notice.GotoTop()
		return m, nil

	case wizardCompleteMsg:
		m.pop()
		m.clearOutput()
		return m, tea.Batch(msg.nextCmd, refreshCmd)

	case quitMsg:
		return m.quit()
	}

	return m.forward(msg)
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.teardown()
	return m, tea.Quit
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// A notice keeps the scroll keys. Esc only dismisses it; any other key
	// dismisses it and then acts as usual.
	if m.showNotice {
		if scrollsNotice(msg) {
			var cmd tea.Cmd
			m.notice, cmd = m.notice.Update(msg)
			return m, cmd
		}
		m.clearOutput()
		if msg.Type == tea.KeyEsc {
			return m, nil
		}
	}

	if capturesInput(m.activeView()) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		return m.quit()
	case msg.Type == tea.KeyEsc:
		m.pop()
		return m, nil
	}
	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	body := ""
	switch {
	case m.lastOutput != "" && m.showNotice && m.state.Height > 0:
		body = m.notice.View()
	case m.lastOutput != "":
		body = m.lastOutput
	case m.activeView() != nil:
		body = m.activeView().View()
	}

	out := m.renderHeader() + "\n" + body + "\n" + m.renderStatusBar()

	// Fill the screen so the alt-screen renderer does not leave stale lines
	// below shorter content.
	if lines := strings.Count(out, "\n") + 1; lines < m.state.Height {
		out += strings.Repeat("\n", m.state.Height-lines)
	}
	return out
}

func (m *appModel) renderHeader() string {
	var b strings.Builder
	b.WriteString(formatter.StylePurple.Render("speaktrainer"))

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		b.WriteString(" " + formatter.Dim("› "+strings.Join(crumbs, " › ")))
	}

	if len(m.viewStack) > 1 {
		sel := m.state.ExamType.Label() + "/" + m.state.Skill.Label()
		b.WriteString("  " + formatter.Dim("[") + formatter.StyleGreen.Render(sel) + formatter.Dim("]"))
	}

	for i := len(m.viewStack) - 1; i >= 0; i-- {
		if r, ok := m.viewStack[i].(activityReporter); ok {
			if a := r.activity(); a != "" {
				b.WriteString("  " + formatter.StyleRed.Render(a))
				break
			}
		}
	}

	b.WriteString("\n" + formatter.Dim(rule(m.state.Width)))
	return b.String()
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	hint := func(s string) { hints = append(hints, formatter.Dim(s)) }

	switch {
	case m.showNotice && m.notice.TotalLineCount() > m.notice.Height:
		hints = append(hints, noticePosition(m.notice))
		hint("↑↓ pgup/pgdn: scroll")
		hint("esc: dismiss")
	case !m.showNotice:
		v := m.activeView()
		if v != nil {
			for _, b := range v.ShortHelp() {
				hint(b.Help().Key + ": " + b.Help().Desc)
			}
		}
		if len(m.viewStack) > 1 {
			hint("esc: back")
		}
		if !capturesInput(v) {
			hint("q: quit")
		}
	}

	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(formatter.ColorDim)).Render(rule(m.state.Width))
	return sep + "\n" + strings.Join(hints, "  ")
}

func rule(width int) string {
	return strings.Repeat("─", max(width, 20))
}

func (m *appModel) clearOutput() {
	m.lastOutput = ""
	m.showNotice = false
}

// noticeKeyMap scrolls with arrows and paging keys only, leaving letters
// free to dismiss the notice.
func noticeKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

func scrollsNotice(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlD:
		return true
	}
	return false
}

func noticePosition(vp viewport.Model) string {
	switch {
	case vp.AtTop():
		return formatter.Dim("[TOP]")
	case vp.AtBottom():
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100)))
}

// capturesInput reports whether v owns the keyboard, bypassing q and esc.
func capturesInput(v View) bool {
	if v == nil {
		return false
	}
	if v.ID() == ViewForm {
		return true
	}
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}
