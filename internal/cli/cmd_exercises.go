package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/spf13/cobra"
)

func parseExamArg(s string) (domain.ExamType, error) {
	t, ok := domain.ParseExamType(s)
	if !ok {
		return "", fmt.Errorf("unknown exam type %q (want one of %s)", s, examTypeList())
	}
	return t, nil
}

func parseSkillArg(s string) (domain.Skill, error) {
	sk, ok := domain.ParseSkill(s)
	if !ok {
		return "", fmt.Errorf("unknown skill %q (want one of %s)", s, skillList())
	}
	return sk, nil
}

func examTypeList() string {
	names := make([]string, 0, len(domain.ExamTypes))
	for _, t := range domain.ExamTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func skillList() string {
	names := make([]string, 0, len(domain.Skills))
	for _, s := range domain.Skills {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// loadExercise resolves the "<type> <id>" argument pair.
func loadExercise(ctx context.Context, app *App, args []string) (domain.Exercise, error) {
	examType, err := parseExamArg(args[0])
	if err != nil {
		return domain.Exercise{}, err
	}
	return app.Datasets.Get(ctx, examType, args[1])
}

func newListCmd(app *App) *cobra.Command {
	var typeStr, skillStr string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List exercises for an exam type and skill",
		RunE: func(cmd *cobra.Command, args []string) error {
			examType, err := parseExamArg(typeStr)
			if err != nil {
				return err
			}
			skill, err := parseSkillArg(skillStr)
			if err != nil {
				return err
			}
			items := app.Datasets.List(cmd.Context(), examType, skill)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExerciseList(examType, skill, items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeStr, "type", "t", string(domain.ExamTypes[0]), "Exam type ("+examTypeList()+")")
	cmd.Flags().StringVarP(&skillStr, "skill", "s", string(domain.DefaultSkill), "Skill ("+skillList()+")")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <type> <id>",
		Short: "Show one exercise",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := loadExercise(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExercise(ex))
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard imported and edited exercises and restore the bundled catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset discards every imported exercise; re-run with --yes to confirm")
			}
			if err := app.Datasets.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dataset reset to the bundled catalog.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}
