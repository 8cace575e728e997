package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/media"
	"github.com/alexanderramin/speaktrainer/internal/quiz"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
)

// FormatExerciseList renders a collection grouped by task, numbering the
// rows so they can be picked by position.
func FormatExerciseList(examType domain.ExamType, skill domain.Skill, items []domain.Exercise) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s %s", examType.Label(), skill.Label())))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(Dim("No exercises for this selection.") + "\n")
		return b.String()
	}

	n := 0
	for _, g := range domain.GroupByTask(items) {
		b.WriteString("\n" + StyleBlue.Render(fmt.Sprintf("Task %d", g.Task)) + "\n")
		for _, ex := range g.Exercises {
			n++
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				Dim(fmt.Sprintf("%2d.", n)),
				StyleFg.Render(ex.DisplayTitle()),
				Dim(ex.ID),
			))
		}
	}
	return b.String()
}

// FormatExercise renders the full practice card of one exercise.
func FormatExercise(ex domain.Exercise) string {
	var b strings.Builder

	b.WriteString(Bold(ex.DisplayTitle()) + "  " + SkillBadge(ex.EffectiveSkill()) + "  " + Dim(ex.Type.Label()+" · task "+fmt.Sprint(ex.GroupTask())) + "\n")
	if ex.Subtitle != "" {
		b.WriteString(Dim(ex.Subtitle) + "\n")
	}
	if ex.Question != "" && ex.Question != ex.Title {
		b.WriteString("\n" + StyleFg.Render(ex.Question) + "\n")
	}

	var meta []string
	if ex.TimeLimitSec > 0 {
		meta = append(meta, "time "+Clock(ex.TimeLimitSec))
	}
	if ex.MinWords > 0 {
		meta = append(meta, fmt.Sprintf("min %d words", ex.MinWords))
	}
	if ex.TargetWords > 0 {
		meta = append(meta, fmt.Sprintf("target %d words", ex.TargetWords))
	}
	if len(ex.Questions) > 0 {
		meta = append(meta, fmt.Sprintf("%d questions", len(ex.Questions)))
	}
	if len(meta) > 0 {
		b.WriteString("\n" + Dim(strings.Join(meta, "  ·  ")) + "\n")
	}

	if len(ex.Verbs) > 0 {
		b.WriteString("\n" + StyleHeader.Render("Suggested verbs") + "\n  " + strings.Join(ex.Verbs, ", ") + "\n")
	}
	if len(ex.Keywords) > 0 {
		b.WriteString("\n" + StyleHeader.Render("Keywords") + "\n  " + strings.Join(ex.Keywords, ", ") + "\n")
	}
	if examples := ex.DisplayExamples(); len(examples) > 0 {
		b.WriteString("\n" + StyleHeader.Render("Examples") + "\n")
		for _, e := range examples {
			b.WriteString("  " + Dim("›") + " " + e + "\n")
		}
	}

	if ex.ImageURL != "" {
		b.WriteString("\n" + Dim("Image: ") + StyleBlue.Render(ex.ImageURL) + "\n")
	}
	if id := media.VideoID(ex.YouTubeID, ex.VideoURL); id != "" {
		b.WriteString("\n" + Dim("Video: ") + StyleBlue.Render(media.EmbedURL(id)) + "\n")
	}
	return b.String()
}

// FormatHeatmap renders matched keywords in green and missing ones dimmed.
func FormatHeatmap(hits []recorder.KeywordHit) string {
	if len(hits) == 0 {
		return ""
	}
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Matched {
			parts = append(parts, StyleGreen.Render("✔ "+h.Keyword))
		} else {
			parts = append(parts, Dim("○ "+h.Keyword))
		}
	}
	return fmt.Sprintf("%s %s\n%s",
		StyleHeader.Render("Keywords"),
		Dim(fmt.Sprintf("%d/%d", recorder.MatchedCount(hits), len(hits))),
		strings.Join(parts, "  "),
	)
}

// FormatQuizResult renders the score line and per-question marks.
func FormatQuizResult(questions []domain.Question, res quiz.Result) string {
	var b strings.Builder
	for i, q := range questions {
		mark := StyleRed.Render("✘")
		if i < len(res.Per) && res.Per[i].Correct {
			mark = StyleGreen.Render("✔")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", mark, i+1, q.Prompt))
		if i < len(res.Per) && !res.Per[i].Correct {
			b.WriteString("   " + Dim("answer: "+answerLabel(q)) + "\n")
		}
		if q.Explanation != "" {
			b.WriteString("   " + Dim(q.Explanation) + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("\nScore: %s\n", ScoreLabel(res)))
	return b.String()
}

// ScoreLabel renders "score/total" colored by the share of correct answers.
func ScoreLabel(res quiz.Result) string {
	label := fmt.Sprintf("%d/%d", res.Score, res.Total)
	switch {
	case res.Total == 0:
		return Dim(label)
	case res.Score == res.Total:
		return StyleGreen.Render(label)
	case res.Score*2 >= res.Total:
		return StyleYellow.Render(label)
	default:
		return StyleRed.Render(label)
	}
}

// answerLabel shows the expected answer, resolving option indexes to text.
func answerLabel(q domain.Question) string {
	if q.Answer.Index != nil && *q.Answer.Index >= 0 && *q.Answer.Index < len(q.Options) {
		return q.Options[*q.Answer.Index]
	}
	return q.Answer.String()
}

// FormatRecordings renders the export history as a table.
func FormatRecordings(recs []*domain.Recording, now time.Time) string {
	if len(recs) == 0 {
		return Dim("No exports yet.") + "\n"
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		dur := Dim("-")
		if r.DurationSec > 0 {
			dur = Clock(r.DurationSec)
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			string(r.Kind),
			r.ExerciseID,
			dur,
			FormatBytes(r.SizeBytes),
			HumanTimestampFrom(r.CreatedAt, now),
			r.Path,
		})
	}
	return RenderTable([]string{"ID", "KIND", "EXERCISE", "LENGTH", "SIZE", "WHEN", "PATH"}, rows)
}
