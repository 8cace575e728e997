package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/importer"
	"github.com/alexanderramin/speaktrainer/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var typeStr, skillStr string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge exercises from a JSON or .xlsx file into the working dataset",
		Long: `Merge exercises from a file into the working dataset.

JSON files hold an array of exercises or an object with "type" and
"exercises" fields. Workbooks (.xlsx) hold one sheet per
skill. Items that omit their exam type or skill inherit --type and --skill.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := importer.Selection{}
			if typeStr != "" {
				t, err := parseExamArg(typeStr)
				if err != nil {
					return err
				}
				sel.Type = t
			}
			if skillStr != "" {
				sk, err := parseSkillArg(skillStr)
				if err != nil {
					return err
				}
				sel.Skill = sk
			}

			res, err := app.Imports.ImportFile(cmd.Context(), args[0], sel)
			if err != nil {
				return errors.New(service.ImportStatus(res, err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, service.ImportStatus(res, nil))
			for _, t := range domain.ExamTypes {
				if n := res.ByType[t]; n > 0 {
					fmt.Fprintf(out, "  %-10s %d\n", t.Label(), n)
				}
			}
			if res.Updated > 0 {
				fmt.Fprintf(out, "  %d replaced existing exercises\n", res.Updated)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeStr, "type", "t", string(domain.ExamTypes[0]), "Exam type for items that omit one")
	cmd.Flags().StringVarP(&skillStr, "skill", "s", "", "Skill for items that omit one")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <type>",
		Short: "Export every exercise of an exam type as an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			examType, err := parseExamArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			items := app.Datasets.Current(ctx)[examType]
			if len(items) == 0 {
				return fmt.Errorf("no %s exercises to export", examType.Label())
			}
			rec, err := app.Recordings.ExportWorkbook(ctx, examType, items)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d exercises to %s\n", len(items), rec.Path)
			return nil
		},
	}
}
