package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/importer"
	"github.com/alexanderramin/speaktrainer/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// exerciseListView lists the exercises of the current selection, grouped by
// task.
type exerciseListView struct {
	state  *SharedState
	items  []domain.Exercise
	cursor int

	// Filtering
	filtering bool
	filter    string
}

func newExerciseListView(state *SharedState) *exerciseListView {
	return &exerciseListView{state: state}
}

func (v *exerciseListView) ID() ViewID { return ViewExerciseList }
func (v *exerciseListView) Title() string {
	return v.state.ExamType.Label() + " " + v.state.Skill.Label()
}

func (v *exerciseListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	}
}

func (v *exerciseListView) CapturesInput() bool { return v.filtering }

func (v *exerciseListView) Init() tea.Cmd {
	v.load()
	return nil
}

// load reads the selection and orders it the way it is displayed, so the
// cursor walks the rows top to bottom.
func (v *exerciseListView) load() {
	items := v.state.App.Datasets.List(context.Background(), v.state.ExamType, v.state.Skill)
	v.items = v.items[:0]
	for _, g := range domain.GroupByTask(items) {
		v.items = append(v.items, g.Exercises...)
	}
	if v.cursor >= len(v.items) {
		v.cursor = max(len(v.items)-1, 0)
	}
}

func (v *exerciseListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshViewMsg:
		v.load()
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *exerciseListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := v.visibleItems()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case "enter":
		if v.cursor < len(visible) {
			return v, pushView(newDetailView(v.state, visible[v.cursor]))
		}
	case "/":
		v.filtering = true
		v.filter = ""
	case "i":
		return v, pushView(newImportWizard(v.state))
	case "x":
		return v, exportWorkbookCmd(v.state.App, v.state.ExamType)
	case "h":
		return v, pushView(newHistoryView(v.state))
	}
	return v, nil
}

func (v *exerciseListView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter = ""
		v.cursor = 0
		return v, nil
	case tea.KeyEnter:
		v.filtering = false
		return v, nil
	case tea.KeyBackspace:
		if len(v.filter) > 0 {
			r := []rune(v.filter)
			v.filter = string(r[:len(r)-1])
			v.cursor = 0
		}
	case tea.KeySpace:
		v.filter += " "
		v.cursor = 0
	case tea.KeyRunes:
		v.filter += string(msg.Runes)
		v.cursor = 0
	}
	return v, nil
}

func (v *exerciseListView) visibleItems() []domain.Exercise {
	if v.filter == "" {
		return v.items
	}
	lf := strings.ToLower(v.filter)
	var filtered []domain.Exercise
	for _, ex := range v.items {
		if strings.Contains(strings.ToLower(ex.DisplayTitle()), lf) ||
			strings.Contains(strings.ToLower(ex.ID), lf) {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

func (v *exerciseListView) View() string {
	visible := v.visibleItems()

	var b strings.Builder
	b.WriteString("\n")

	if v.filtering || v.filter != "" {
		cursor := ""
		if v.filtering {
			cursor = "█"
		}
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filter + cursor + "\n\n")
	}

	if len(visible) == 0 {
		b.WriteString("  " + formatter.Dim("No exercises found.") + "\n")
		return b.String()
	}

	titleWidth := max(v.state.Width-20, 24)
	task := -1
	for i, ex := range visible {
		if ex.GroupTask() != task {
			task = ex.GroupTask()
			b.WriteString("  " + formatter.StyleBlue.Render(fmt.Sprintf("Task %d", task)) + "\n")
		}

		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		b.WriteString(fmt.Sprintf("  %s%s  %s\n",
			cursor,
			nameStyle.Render(formatter.Truncate(ex.DisplayTitle(), titleWidth)),
			formatter.Dim(ex.ID),
		))
	}

	return b.String()
}

// newImportWizard asks for a file and merges it into the working dataset.
func newImportWizard(state *SharedState) View {
	var path string
	form := importForm(&path)
	return newWizardView(state, "Import", form, func() tea.Cmd {
		return importFileCmd(state.App, path, importer.Selection{Type: state.ExamType, Skill: state.Skill})
	})
}

func importFileCmd(app *App, path string, sel importer.Selection) tea.Cmd {
	return func() tea.Msg {
		res, err := app.Imports.ImportFile(context.Background(), strings.TrimSpace(path), sel)
		status := service.ImportStatus(res, err)
		if err != nil {
			return cmdOutputMsg{output: "\n  " + formatter.StyleRed.Render(status)}
		}
		return cmdOutputMsg{output: "\n  " + formatter.StyleGreen.Render(status)}
	}
}

func exportWorkbookCmd(app *App, examType domain.ExamType) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		items := app.Datasets.Current(ctx)[examType]
		rec, err := app.Recordings.ExportWorkbook(ctx, examType, items)
		if err != nil {
			return cmdOutputMsg{output: "\n  " + formatter.StyleRed.Render("Export failed: "+err.Error())}
		}
		return cmdOutputMsg{output: "\n  " + formatter.StyleGreen.Render("Exported: ") + rec.Path}
	}
}
