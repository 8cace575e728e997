package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// historyLimit caps the entries loaded by the history view.
const historyLimit = 50

// historyView lists recent exports across all exercises.
type historyView struct {
	state  *SharedState
	recs   []*domain.Recording
	cursor int
	err    error
	now    func() time.Time
}

func newHistoryView(state *SharedState) *historyView {
	return &historyView{state: state, now: time.Now}
}

func (v *historyView) ID() ViewID    { return ViewHistory }
func (v *historyView) Title() string { return "History" }

func (v *historyView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "forget")),
		key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete file")),
	}
}

func (v *historyView) Init() tea.Cmd {
	v.load()
	return nil
}

func (v *historyView) load() {
	v.recs, v.err = v.state.App.Recordings.ListRecent(context.Background(), historyLimit)
	if v.cursor >= len(v.recs) {
		v.cursor = max(len(v.recs)-1, 0)
	}
}

func (v *historyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.load()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.recs)-1 {
				v.cursor++
			}
		case "d":
			return v, v.remove(false)
		case "D":
			return v, v.remove(true)
		}
	}
	return v, nil
}

func (v *historyView) remove(removeFile bool) tea.Cmd {
	if v.cursor >= len(v.recs) {
		return nil
	}
	app, rec := v.state.App, v.recs[v.cursor]
	return func() tea.Msg {
		if err := app.Recordings.Delete(context.Background(), rec.ID, removeFile); err != nil {
			return cmdOutputMsg{output: "\n  " + formatter.StyleRed.Render("Delete failed: "+err.Error())}
		}
		return refreshViewMsg{}
	}
}

func (v *historyView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n")
		return b.String()
	}
	if len(v.recs) == 0 {
		b.WriteString("  " + formatter.Dim("No exports yet.") + "\n")
		return b.String()
	}

	now := v.now()
	for i, r := range v.recs {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("  %s%-10s %-12s %-9s %s\n",
			cursor,
			string(r.Kind),
			formatter.Truncate(r.ExerciseID, 12),
			formatter.HumanTimestampFrom(r.CreatedAt, now),
			formatter.Dim(r.Path),
		))
	}
	return b.String()
}
