package cli

import (
	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// trainerHuhTheme returns a custom huh theme using the Gruvbox palette.
func trainerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func examTypeOptions() []huh.Option[domain.ExamType] {
	opts := make([]huh.Option[domain.ExamType], 0, len(domain.ExamTypes))
	for _, t := range domain.ExamTypes {
		opts = append(opts, huh.NewOption(t.Label(), t))
	}
	return opts
}

func skillOptions() []huh.Option[domain.Skill] {
	opts := make([]huh.Option[domain.Skill], 0, len(domain.Skills))
	for _, s := range domain.Skills {
		opts = append(opts, huh.NewOption(s.Label(), s))
	}
	return opts
}

// selectionForm asks for the exam family and skill to browse.
func selectionForm(examType *domain.ExamType, skill *domain.Skill) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.ExamType]().
				Title("Which exam?").
				Options(examTypeOptions()...).
				Value(examType),
			huh.NewSelect[domain.Skill]().
				Title("Which skill?").
				Options(skillOptions()...).
				Value(skill),
		),
	).WithTheme(trainerHuhTheme()).WithShowHelp(false)
}

// importForm asks for the path of a file to import into the current
// selection.
func importForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("File to import").
				Description("JSON array, {type, exercises} object, or .xlsx workbook").
				Placeholder("./exercises.json").
				Value(path).
				Validate(validateNonEmpty),
		),
	).WithTheme(trainerHuhTheme()).WithShowHelp(false)
}

func validateNonEmpty(s string) error {
	if len(s) == 0 {
		return errRequired
	}
	return nil
}
