package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// recentExports is how many history entries the detail view lists.
const recentExports = 3

// detailView shows one exercise and starts the practice mode for its skill.
type detailView struct {
	state   *SharedState
	ex      domain.Exercise
	vp      viewport.Model
	exports []*domain.Recording
	err     error
}

func newDetailView(state *SharedState, ex domain.Exercise) *detailView {
	vp := viewport.New(state.Width, state.ContentHeight())
	return &detailView{state: state, ex: ex, vp: vp}
}

func (v *detailView) ID() ViewID    { return ViewDetail }
func (v *detailView) Title() string { return formatter.Truncate(v.ex.DisplayTitle(), 32) }

func (v *detailView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", practiceLabel(v.ex.EffectiveSkill()))),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func practiceLabel(skill domain.Skill) string {
	switch {
	case skill == domain.SkillWriting:
		return "write"
	case skill.IsQuiz():
		return "answer"
	default:
		return "record"
	}
}

func (v *detailView) Init() tea.Cmd {
	v.load()
	return nil
}

func (v *detailView) load() {
	ctx := context.Background()
	if ex, err := v.state.App.Datasets.Get(ctx, v.ex.Type, v.ex.ID); err == nil {
		v.ex = ex
	}
	recs, err := v.state.App.Recordings.ListByExercise(ctx, v.ex.Type, v.ex.ID)
	v.err = err
	if len(recs) > recentExports {
		recs = recs[:recentExports]
	}
	v.exports = recs
	v.vp.SetContent(v.content())
}

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.load()
		return v, nil

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return v, v.practice()
		}
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

// practice opens the mode that fits the exercise's skill.
func (v *detailView) practice() tea.Cmd {
	skill := v.ex.EffectiveSkill()
	switch {
	case skill == domain.SkillWriting:
		return pushView(newWritingView(v.state, v.ex))
	case skill.IsQuiz():
		if len(v.ex.Questions) == 0 {
			return outputCmd("\n  " + formatter.Dim("This exercise has no questions."))
		}
		return pushView(newQuizView(v.state, v.ex))
	default:
		return pushView(newRecorderView(v.state, v.ex))
	}
}

func (v *detailView) content() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.FormatExercise(v.ex))

	if v.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n")
	} else if len(v.exports) > 0 {
		b.WriteString("\n" + formatter.StyleHeader.Render("Recent exports") + "\n")
		now := time.Now()
		for _, r := range v.exports {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				formatter.Dim(formatter.HumanTimestampFrom(r.CreatedAt, now)),
				string(r.Kind),
				r.Path,
			))
		}
	}
	return b.String()
}

func (v *detailView) View() string {
	if v.state.Height == 0 {
		return v.content()
	}
	return v.vp.View()
}
