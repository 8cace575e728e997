package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/google/uuid"
)

var exerciseCounter atomic.Int64

// Exercise options
type ExerciseOption func(*domain.Exercise)

func WithSkill(s domain.Skill) ExerciseOption {
	return func(e *domain.Exercise) {
		e.Skill = s
	}
}

func WithTask(task int) ExerciseOption {
	return func(e *domain.Exercise) {
		e.Task = task
	}
}

func WithTitle(title string) ExerciseOption {
	return func(e *domain.Exercise) {
		e.Title = title
	}
}

func WithTimeLimit(sec int) ExerciseOption {
	return func(e *domain.Exercise) {
		e.TimeLimitSec = sec
	}
}

func WithWordTargets(minWords, targetWords int) ExerciseOption {
	return func(e *domain.Exercise) {
		e.MinWords = minWords
		e.TargetWords = targetWords
	}
}

func WithVerbs(verbs ...string) ExerciseOption {
	return func(e *domain.Exercise) {
		e.Verbs = verbs
	}
}

func WithQuestions(qs ...domain.Question) ExerciseOption {
	return func(e *domain.Exercise) {
		e.Questions = qs
	}
}

// NewTestExercise builds a speaking exercise with a unique id for examType.
func NewTestExercise(examType domain.ExamType, id string, opts ...ExerciseOption) domain.Exercise {
	if id == "" {
		id = fmt.Sprintf("%s-test-%d", examType, exerciseCounter.Add(1))
	}
	e := domain.Exercise{
		ID:       id,
		Type:     examType,
		Skill:    domain.SkillSpeaking,
		Task:     1,
		Title:    "Title " + id,
		Question: "Question for " + id,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// ChoiceQuestion builds a multiple-choice question answered by option index.
func ChoiceQuestion(id string, answer int, options ...string) domain.Question {
	return domain.Question{ID: id, Prompt: "Prompt " + id, Options: options, Answer: domain.IndexAnswer(answer)}
}

// TextQuestion builds a free-text question.
func TextQuestion(id, answer string) domain.Question {
	return domain.Question{ID: id, Prompt: "Prompt " + id, Answer: domain.TextAnswer(answer)}
}

// NewTestRecording builds a history entry for an exported artifact.
func NewTestRecording(exerciseID string, examType domain.ExamType, kind domain.ArtifactKind) *domain.Recording {
	id := uuid.New().String()
	return &domain.Recording{
		ID:          id,
		ExerciseID:  exerciseID,
		ExamType:    examType,
		Kind:        kind,
		Path:        "/tmp/" + id,
		ContentType: "audio/webm",
		SizeBytes:   1024,
		DurationSec: 30,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}
