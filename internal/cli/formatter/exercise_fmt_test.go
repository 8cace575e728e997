package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/quiz"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatExerciseList_GroupsByTask(t *testing.T) {
	items := []domain.Exercise{
		testutil.NewTestExercise(domain.ExamCELPIP, "b", testutil.WithTask(2), testutil.WithTitle("Second")),
		testutil.NewTestExercise(domain.ExamCELPIP, "a", testutil.WithTitle("First")),
	}

	out := stripANSI(FormatExerciseList(domain.ExamCELPIP, domain.SkillSpeaking, items))

	assert.Contains(t, out, "CELPIP SPEAKING")
	task1 := strings.Index(out, "Task 1")
	task2 := strings.Index(out, "Task 2")
	assert.True(t, task1 >= 0 && task2 > task1, "task groups ascend:\n%s", out)
	assert.Contains(t, out, " 1. First")
	assert.Contains(t, out, " 2. Second")
}

func TestFormatExerciseList_Empty(t *testing.T) {
	out := stripANSI(FormatExerciseList(domain.ExamIELTS, domain.SkillType, nil))
	assert.Contains(t, out, "No exercises for this selection.")
}

func TestFormatExercise_CapsExamplesAndEmbedsVideo(t *testing.T) {
	ex := testutil.NewTestExercise(domain.ExamCELPIP, "c1",
		testutil.WithTitle("Describe a scene"),
		testutil.WithVerbs("describe", "explain"),
		testutil.WithTimeLimit(90),
	)
	ex.Examples = []string{"one", "two", "three", "four"}
	ex.VideoURL = "https://youtu.be/dQw4w9WgXcQ"

	out := stripANSI(FormatExercise(ex))

	assert.Contains(t, out, "Describe a scene")
	assert.Contains(t, out, "time 1:30")
	assert.Contains(t, out, "describe, explain")
	assert.Contains(t, out, "three")
	assert.NotContains(t, out, "four")
	assert.Contains(t, out, "https://www.youtube.com/embed/dQw4w9WgXcQ")
}

func TestFormatHeatmap(t *testing.T) {
	hits := recorder.MatchKeywords([]string{"café", "river"}, "the Cafe was busy")
	out := stripANSI(FormatHeatmap(hits))

	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "✔ cafe")
	assert.Contains(t, out, "○ river")
	assert.Equal(t, "", FormatHeatmap(nil))
}

func TestFormatQuizResult_ShowsExpectedAnswerForMisses(t *testing.T) {
	questions := []domain.Question{
		testutil.ChoiceQuestion("q1", 1, "red", "blue"),
		testutil.TextQuestion("q2", "Paris"),
	}
	q := quiz.New(questions)
	q.SetAnswer("q1", quiz.Choice(1))
	q.SetAnswer("q2", quiz.Text("London"))
	res := q.Check()

	out := stripANSI(FormatQuizResult(questions, res))

	assert.Contains(t, out, "Score: 1/2")
	assert.Contains(t, out, "answer: Paris")
	assert.NotContains(t, out, "answer: blue")
}

func TestFormatRecordings(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	rec := testutil.NewTestRecording("c1", domain.ExamCELPIP, domain.ArtifactAudio)
	rec.DurationSec = 65
	rec.SizeBytes = 2048
	rec.CreatedAt = now.Add(-2 * time.Hour)

	out := stripANSI(FormatRecordings([]*domain.Recording{rec}, now))

	assert.Contains(t, out, "audio")
	assert.Contains(t, out, "1:05")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, stripANSI(FormatRecordings(nil, now)), "No exports yet.")
}
