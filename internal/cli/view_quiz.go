package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/quiz"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// quizView answers and grades the questions of a reading, listening or type
// exercise.
type quizView struct {
	state  *SharedState
	ex     domain.Exercise
	quiz   *quiz.Quiz
	cursor int

	editing bool
	input   textinput.Model
	result  quiz.Result
}

func newQuizView(state *SharedState, ex domain.Exercise) *quizView {
	ti := textinput.New()
	ti.Placeholder = "Your answer"
	ti.Prompt = "› "
	ti.CharLimit = 200
	return &quizView{
		state: state,
		ex:    ex,
		quiz:  quiz.New(ex.Questions),
		input: ti,
	}
}

func (v *quizView) ID() ViewID          { return ViewQuiz }
func (v *quizView) Title() string       { return "Quiz" }
func (v *quizView) CapturesInput() bool { return v.editing }

func (v *quizView) ShortHelp() []key.Binding {
	if v.editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep answer")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		}
	}
	if v.quiz.Checked() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "try again")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("1", "9"), key.WithHelp("1-9", "choose")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "type answer")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check")),
	}
}

func (v *quizView) Init() tea.Cmd { return nil }

func (v *quizView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.editing {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}
	if v.editing {
		return v.updateEditing(keyMsg)
	}
	return v.updateNormal(keyMsg)
}

func (v *quizView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := v.quiz.Len()
	switch s := msg.String(); s {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j", "tab":
		if v.cursor < n-1 {
			v.cursor++
		}
	case "enter":
		if v.quiz.Checked() || n == 0 || v.current().HasOptions() {
			return v, nil
		}
		v.editing = true
		v.input.SetValue("")
		if r, ok := v.quiz.Response(v.quiz.Key(v.cursor)); ok {
			v.input.SetValue(r.Text)
		}
		return v, v.input.Focus()
	case "c":
		if !v.quiz.Checked() {
			v.result = v.quiz.Check()
		}
	case "r":
		v.quiz.Reset()
		v.result = quiz.Result{}
		v.cursor = 0
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			v.choose(int(s[0] - '1'))
		}
	}
	return v, nil
}

func (v *quizView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.quiz.SetAnswer(v.quiz.Key(v.cursor), quiz.Text(v.input.Value()))
		v.stopEditing()
		if v.cursor < v.quiz.Len()-1 {
			v.cursor++
		}
		return v, nil
	case tea.KeyEsc:
		v.stopEditing()
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *quizView) stopEditing() {
	v.editing = false
	v.input.Blur()
}

func (v *quizView) current() domain.Question {
	return v.quiz.Questions()[v.cursor]
}

// choose selects an option of the current question by zero-based index.
func (v *quizView) choose(i int) {
	if v.quiz.Len() == 0 {
		return
	}
	q := v.current()
	if !q.HasOptions() || i >= len(q.Options) {
		return
	}
	v.quiz.SetAnswer(v.quiz.Key(v.cursor), quiz.Choice(i))
}

func (v *quizView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(v.ex.DisplayTitle()) + "\n")
	if v.ex.Question != "" && v.ex.Question != v.ex.Title {
		b.WriteString("  " + formatter.StyleFg.Render(v.ex.Question) + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s\n\n", formatter.Dim(fmt.Sprintf("%d of %d answered", v.quiz.AnsweredCount(), v.quiz.Len()))))

	for i, q := range v.quiz.Questions() {
		b.WriteString(v.renderQuestion(i, q))
	}

	if v.quiz.Checked() {
		b.WriteString("\n  Score: " + formatter.ScoreLabel(v.result) + "\n")
	}
	return b.String()
}

func (v *quizView) renderQuestion(i int, q domain.Question) string {
	var b strings.Builder
	resp, answered := v.quiz.Response(v.quiz.Key(i))

	cursor := "  "
	if i == v.cursor {
		cursor = formatter.StyleGreen.Render("▸ ")
	}
	mark := ""
	if v.quiz.Checked() && i < len(v.result.Per) {
		if v.result.Per[i].Correct {
			mark = formatter.StyleGreen.Render("✔ ")
		} else {
			mark = formatter.StyleRed.Render("✘ ")
		}
	}
	b.WriteString(fmt.Sprintf("  %s%s%d. %s\n", cursor, mark, i+1, q.Prompt))

	if q.HasOptions() {
		for j, opt := range q.Options {
			box := "( )"
			style := formatter.StyleFg
			if answered && resp.Choice != nil && *resp.Choice == j {
				box = "(•)"
				style = formatter.StyleBold
			}
			b.WriteString(fmt.Sprintf("       %s %d %s\n", formatter.Dim(box), j+1, style.Render(opt)))
		}
	} else if v.editing && i == v.cursor {
		b.WriteString("       " + v.input.View() + "\n")
	} else {
		text := formatter.Dim("(no answer)")
		if answered && resp.Text != "" {
			text = resp.Text
		}
		b.WriteString("       " + text + "\n")
	}

	if v.quiz.Checked() && q.Explanation != "" {
		b.WriteString("       " + formatter.Dim(q.Explanation) + "\n")
	}
	return b.String()
}
