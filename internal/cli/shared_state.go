package cli

import "github.com/alexanderramin/speaktrainer/internal/domain"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Current browsing selection.
	ExamType domain.ExamType
	Skill    domain.Skill

	// Recognition settings carried from one recorder view to the next.
	Lang       string
	STTEnabled bool

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(app *App) *SharedState {
	s := &SharedState{
		App:        app,
		ExamType:   domain.ExamTypes[0],
		Skill:      domain.DefaultSkill,
		Lang:       app.Lang,
		STTEnabled: app.STTEnabled,
	}
	if s.Lang == "" {
		s.Lang = defaultLang
	}
	return s
}

// Select sets the browsing selection.
func (s *SharedState) Select(examType domain.ExamType, skill domain.Skill) {
	s.ExamType = examType
	s.Skill = skill
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
