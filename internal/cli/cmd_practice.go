package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/quiz"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/writing"
	"github.com/spf13/cobra"
)

func newQuizCmd(app *App) *cobra.Command {
	var answers []string

	cmd := &cobra.Command{
		Use:   "quiz <type> <id>",
		Short: "Grade answers to a reading, listening or type exercise",
		Long: `Grade answers to the questions of an exercise.

Each --answer is key=value. The key is the question id or its 1-based
position. For multiple-choice questions the value is an option number
(1-based) or the option text; free-text answers ignore case.`,
		Example: `  speaktrainer quiz celpip r-1 --answer 1=2 --answer q-2="in the morning"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := loadExercise(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			if len(ex.Questions) == 0 {
				return fmt.Errorf("exercise %s has no questions", ex.ID)
			}

			q := quiz.New(ex.Questions)
			for _, a := range answers {
				i, resp, err := parseAnswer(ex.Questions, a)
				if err != nil {
					return err
				}
				q.SetAnswer(q.Key(i), resp)
			}
			res := q.Check()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatQuizResult(ex.Questions, res))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "Answer as key=value (repeatable)")
	return cmd
}

// parseAnswer resolves one key=value flag to a question index and response.
func parseAnswer(questions []domain.Question, raw string) (int, quiz.Response, error) {
	k, v, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, quiz.Response{}, fmt.Errorf("invalid answer %q: want key=value", raw)
	}
	k = strings.TrimSpace(k)

	idx := -1
	for i, q := range questions {
		if q.Key(i) == k {
			idx = i
			break
		}
	}
	if idx < 0 {
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(questions) {
			idx = n - 1
		}
	}
	if idx < 0 {
		return 0, quiz.Response{}, fmt.Errorf("no question %q", k)
	}

	q := questions[idx]
	if !q.HasOptions() {
		return idx, quiz.Text(v), nil
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(q.Options) {
			return 0, quiz.Response{}, fmt.Errorf("question %s has %d options, got %d", k, len(q.Options), n)
		}
		return idx, quiz.Choice(n - 1), nil
	}
	for j, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), v) {
			return idx, quiz.Choice(j), nil
		}
	}
	return 0, quiz.Response{}, fmt.Errorf("%q is not an option of question %s", v, k)
}

func newWriteCmd(app *App) *cobra.Command {
	var file string
	var noSave bool

	cmd := &cobra.Command{
		Use:   "write <type> <id>",
		Short: "Check a written answer against the word targets and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := loadExercise(cmd.Context(), app, args)
			if err != nil {
				return err
			}

			var data []byte
			if file == "" || file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("reading answer: %w", err)
			}

			panel := writing.NewPanel(ex.TimeLimitSec, ex.TargetWords, ex.MinWords)
			if err := panel.SetText(string(data)); err != nil {
				return err
			}
			if strings.TrimSpace(panel.Text()) == "" {
				return errors.New("answer is empty")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, writingSummary(panel))
			if noSave {
				return nil
			}
			rec, err := app.Recordings.SaveWriting(cmd.Context(), ex, panel.Text())
			if err != nil {
				return fmt.Errorf("saving answer: %w", err)
			}
			fmt.Fprintf(out, "Saved: %s\n", rec.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the answer from a file (default stdin)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Only report word counts")
	return cmd
}

func writingSummary(p *writing.Panel) string {
	parts := []string{fmt.Sprintf("%d words", p.WordCount())}
	if p.MinWords > 0 {
		status := "met"
		if !p.MeetsMin() {
			status = "not met"
		}
		parts = append(parts, fmt.Sprintf("min %d %s", p.MinWords, status))
	}
	if p.TargetWords > 0 {
		parts = append(parts, fmt.Sprintf("target %d (%d%%)", p.TargetWords, p.WordPct()))
	}
	return strings.Join(parts, ", ")
}

func newRecordCmd(app *App) *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "record <type> <id>",
		Short: "Record a spoken answer and save the audio and transcript",
		Long: `Record a spoken answer from the capture command.

Recording stops at the exercise's time limit, after --seconds, or on
Ctrl+C. The take is saved either way.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := loadExercise(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			if app.Capturer == nil {
				return errors.New("no capture command configured (set SPEAKTRAINER_CAPTURE_CMD)")
			}
			limit := ex.TimeLimitSec
			if seconds > 0 {
				limit = seconds
			}

			out := cmd.OutOrStdout()
			s := recorder.New(app.Capturer, app.Recognizers, recorder.Options{
				LimitSec:   limit,
				Lang:       app.Lang,
				STTEnabled: app.STTEnabled,
				FilePrefix: ex.FilePrefix(string(ex.EffectiveSkill())),
				Keywords:   ex.ExpectedKeywords(),
			})
			s.Subscribe(recorder.ObserverFunc(func(ev recorder.Event) {
				if ev.Kind == recorder.EventFinal {
					fmt.Fprintln(out, formatter.Dim("» "+ev.Text))
				}
			}))
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := s.Start(cmd.Context()); err != nil {
				return err
			}
			if limit > 0 {
				fmt.Fprintf(out, "Recording for %s. Press Ctrl+C to stop early.\n", formatter.Clock(limit))
			} else {
				fmt.Fprintln(out, "Recording. Press Ctrl+C to stop.")
			}

			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			if err := recorder.Run(ctx, s, ticker.C); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			_ = s.Stop()
			recorder.Drain(s)

			art := s.Artifact()
			if art == nil {
				if msg := s.Err(); msg != "" {
					return errors.New(msg)
				}
				return errors.New("nothing was recorded")
			}
			if heat := formatter.FormatHeatmap(s.Heatmap()); heat != "" {
				fmt.Fprintln(out, heat)
			}

			res, err := app.Recordings.SaveTake(cmd.Context(), ex, art, s.Transcript())
			if err != nil {
				return fmt.Errorf("saving take: %w", err)
			}
			fmt.Fprintf(out, "Saved: %s (%s)\n", res.Audio.Path, formatter.Clock(art.DurationSec))
			if res.Transcript != nil {
				fmt.Fprintf(out, "Saved: %s\n", res.Transcript.Path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", 0, "Stop after this many seconds (default: the exercise time limit)")
	return cmd
}
