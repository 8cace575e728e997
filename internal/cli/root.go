package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultLang = "en-US"

// App holds the services and host adapters used by CLI commands and the TUI.
type App struct {
	Datasets   service.DatasetService
	Imports    service.ImportService
	Recordings service.RecordingService

	// Capturer and Recognizers are the audio host. A nil Recognizers means
	// live transcription is unavailable.
	Capturer    recorder.Capturer
	Recognizers recorder.RecognizerFactory

	Lang       string
	STTEnabled bool

	// IsInteractive reports whether stdin is a terminal. The bare root
	// command opens the TUI only when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "speaktrainer" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "speaktrainer",
		Short:         "Exam practice trainer for speaking, writing and quiz tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	root.PersistentFlags().StringVar(&app.Lang, "lang", app.Lang, "Recognition language (BCP-47 tag)")
	root.PersistentFlags().BoolVar(&app.STTEnabled, "stt", app.STTEnabled, "Enable live transcription while recording")
	root.SetGlobalNormalizationFunc(normalizeFlagName)

	root.AddCommand(
		newTUICmd(app),
		newListCmd(app),
		newShowCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newQuizCmd(app),
		newWriteCmd(app),
		newRecordCmd(app),
		newRecordingsCmd(app),
		newResetCmd(app),
	)

	return root
}

// normalizeFlagName accepts snake_case and dotted spellings of flags.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return pflag.NormalizedName(name)
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Aliases: []string{"practice"},
		Short:   "Open the interactive trainer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if m, ok := final.(appModel); ok {
		m.teardown()
	}
	if err != nil {
		return fmt.Errorf("running trainer: %w", err)
	}
	return nil
}
