package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewMenu ViewID = iota
	ViewExerciseList
	ViewDetail
	ViewRecorder
	ViewWriting
	ViewQuiz
	ViewForm
	ViewHistory
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// inputCapturer is implemented by views that sometimes own the keyboard,
// e.g. while a text field is focused.
type inputCapturer interface {
	CapturesInput() bool
}
