package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/writing"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type writingTickMsg struct{ gen int }

type writingSavedMsg struct {
	path string
	err  error
}

// writingView is a timed editor that tracks word count against the
// exercise's minimum and target.
type writingView struct {
	state *SharedState
	ex    domain.Exercise
	panel *writing.Panel
	input textarea.Model
	gen   int

	saved   string
	saveErr error
}

func newWritingView(state *SharedState, ex domain.Exercise) *writingView {
	ta := textarea.New()
	ta.Placeholder = "Start writing..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(max(state.Width-4, 40))
	ta.SetHeight(max(state.ContentHeight()-10, 5))

	return &writingView{
		state: state,
		ex:    ex,
		panel: writing.NewPanel(ex.TimeLimitSec, ex.TargetWords, ex.MinWords),
		input: ta,
	}
}

func (v *writingView) ID() ViewID          { return ViewWriting }
func (v *writingView) Title() string       { return "Write" }
func (v *writingView) CapturesInput() bool { return true }

func (v *writingView) activity() string {
	if !v.panel.Running() {
		return ""
	}
	return "⏱ " + formatter.Clock(v.panel.Remaining()) + " left"
}

func (v *writingView) ShortHelp() []key.Binding {
	toggle := "start timer"
	if v.panel.Running() {
		toggle = "pause timer"
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", toggle)),
		key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}

func (v *writingView) Init() tea.Cmd {
	return v.input.Focus()
}

func (v *writingView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case tea.WindowSizeMsg:
		v.input.SetWidth(max(msg.Width-4, 40))
		return v, nil

	case writingTickMsg:
		if msg.gen != v.gen || !v.panel.Running() {
			return v, nil
		}
		if v.panel.Tick() {
			v.input.Blur()
			return v, nil
		}
		return v, v.tick()

	case writingSavedMsg:
		v.saved, v.saveErr = msg.path, msg.err
		return v, refreshCmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *writingView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, popView()
	case tea.KeyCtrlT:
		if v.panel.Running() {
			v.panel.Stop()
			return v, nil
		}
		if v.panel.Disabled() {
			return v, nil
		}
		v.panel.Start()
		v.gen++
		return v, tea.Batch(v.tick(), v.input.Focus())
	case tea.KeyCtrlR:
		v.panel.Reset()
		v.input.Reset()
		v.saved, v.saveErr = "", nil
		v.gen++
		return v, v.input.Focus()
	case tea.KeyCtrlS:
		return v, v.save()
	}

	if v.panel.Disabled() {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if err := v.panel.SetText(v.input.Value()); err != nil {
		v.input.SetValue(v.panel.Text())
	}
	return v, cmd
}

func (v *writingView) tick() tea.Cmd {
	gen := v.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return writingTickMsg{gen: gen} })
}

func (v *writingView) save() tea.Cmd {
	if strings.TrimSpace(v.panel.Text()) == "" {
		return outputCmd("\n  " + formatter.Dim("Nothing to save yet."))
	}
	app, ex, text := v.state.App, v.ex, v.panel.Text()
	return func() tea.Msg {
		rec, err := app.Recordings.SaveWriting(context.Background(), ex, text)
		if err != nil {
			return writingSavedMsg{err: err}
		}
		return writingSavedMsg{path: rec.Path}
	}
}

func (v *writingView) View() string {
	p := v.panel
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(v.ex.DisplayTitle()) + "\n")
	if v.ex.Question != "" && v.ex.Question != v.ex.Title {
		b.WriteString("  " + formatter.StyleFg.Render(v.ex.Question) + "\n")
	}
	b.WriteString("\n")

	if p.LimitSec > 0 {
		state := formatter.Dim("paused")
		switch {
		case p.Running():
			state = formatter.StyleGreen.Render("running")
		case p.Disabled():
			state = formatter.StyleRed.Render("time is up")
		}
		b.WriteString(fmt.Sprintf("  %s  %s remaining  %s\n",
			formatter.RenderTimeBar(p.TimePct(), 20), formatter.Clock(p.Remaining()), state))
	}
	b.WriteString("  " + v.wordLine() + "\n\n")
	b.WriteString(indent(v.input.View(), "  ") + "\n")

	if v.saveErr != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render("Save failed: "+v.saveErr.Error()) + "\n")
	} else if v.saved != "" {
		b.WriteString("\n  " + formatter.StyleGreen.Render("Saved: ") + v.saved + "\n")
	}
	return b.String()
}

func (v *writingView) wordLine() string {
	p := v.panel
	words := fmt.Sprintf("%d words", p.WordCount())
	style := formatter.StyleFg
	switch {
	case !p.MeetsMin():
		style = formatter.StyleRed
	case p.NearTarget():
		style = formatter.StyleGreen
	}

	parts := []string{style.Render(words)}
	if p.MinWords > 0 {
		parts = append(parts, formatter.Dim(fmt.Sprintf("min %d", p.MinWords)))
	}
	if p.TargetWords > 0 {
		parts = append(parts, formatter.Dim(fmt.Sprintf("target %d", p.TargetWords)))
	}
	if p.TargetWords > 0 || p.MinWords > 0 {
		parts = append(parts, formatter.RenderProgress(float64(p.WordPct())/100, 20))
	}
	return strings.Join(parts, "  ")
}
