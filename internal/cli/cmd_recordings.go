package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/spf13/cobra"
)

func newRecordingsCmd(app *App) *cobra.Command {
	var limit int
	var typeStr, exerciseID string

	cmd := &cobra.Command{
		Use:     "recordings",
		Aliases: []string{"history"},
		Short:   "List exported recordings, transcripts and workbooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				recs []*domain.Recording
				err  error
			)
			if exerciseID != "" {
				examType, perr := parseExamArg(typeStr)
				if perr != nil {
					return perr
				}
				recs, err = app.Recordings.ListByExercise(ctx, examType, exerciseID)
			} else {
				recs, err = app.Recordings.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordings(recs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to list")
	cmd.Flags().StringVarP(&typeStr, "type", "t", string(domain.ExamTypes[0]), "Exam type of --exercise")
	cmd.Flags().StringVarP(&exerciseID, "exercise", "e", "", "Only list exports of this exercise")

	cmd.AddCommand(newRecordingsDeleteCmd(app))
	return cmd
}

func newRecordingsDeleteCmd(app *App) *cobra.Command {
	var removeFile bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Forget an export, optionally deleting its file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveRecordingID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Recordings.Delete(cmd.Context(), id, removeFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&removeFile, "remove-file", false, "Also delete the exported file")
	return cmd
}

// resolveRecordingIDScan bounds the history searched for an ID prefix.
const resolveRecordingIDScan = 1000

// resolveRecordingID accepts a full ID or the short prefix shown by
// "recordings".
func resolveRecordingID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("recording ID is required")
	}
	recs, err := app.Recordings.ListRecent(ctx, resolveRecordingIDScan)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, r := range recs {
		if r.ID == input {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		// Let the service report a missing ID.
		return input, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("recording ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
