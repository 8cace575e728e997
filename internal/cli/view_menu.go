package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// menuView is the home screen: pick an exam family and a skill.
type menuView struct {
	state    *SharedState
	form     *huh.Form
	examType domain.ExamType
	skill    domain.Skill
	counts   map[domain.ExamType]int
}

func newMenuView(state *SharedState) *menuView {
	v := &menuView{state: state}
	v.resetForm()
	return v
}

func (v *menuView) resetForm() {
	v.examType = v.state.ExamType
	v.skill = v.state.Skill
	v.form = selectionForm(&v.examType, &v.skill)
}

func (v *menuView) ID() ViewID    { return ViewMenu }
func (v *menuView) Title() string { return "" }

func (v *menuView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	}
}

func (v *menuView) Init() tea.Cmd {
	v.loadCounts()
	return v.form.Init()
}

func (v *menuView) loadCounts() {
	ds := v.state.App.Datasets.Current(context.Background())
	v.counts = make(map[domain.ExamType]int, len(ds))
	for t, items := range ds {
		v.counts[t] = len(items)
	}
}

func (v *menuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(refreshViewMsg); ok {
		v.loadCounts()
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		return v, v.choose(v.examType, v.skill)
	}
	return v, cmd
}

// choose applies a selection and opens its exercise list. The form is
// rebuilt so it is ready when the learner comes back.
func (v *menuView) choose(examType domain.ExamType, skill domain.Skill) tea.Cmd {
	v.state.Select(examType, skill)
	v.resetForm()
	return tea.Batch(v.form.Init(), pushView(newExerciseListView(v.state)))
}

func (v *menuView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.form.View())
	b.WriteString("\n")

	var parts []string
	for _, t := range domain.ExamTypes {
		parts = append(parts, fmt.Sprintf("%s %d", t.Label(), v.counts[t]))
	}
	b.WriteString("  " + formatter.Dim("Exercises: "+strings.Join(parts, " · ")) + "\n")
	return b.String()
}
