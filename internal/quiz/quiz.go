// Package quiz scores reading, listening and type exercises.
//
// A Quiz collects one response per sub-question. Check freezes the quiz and
// computes the score; Reset clears every response and unfreezes it.
package quiz

import (
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/domain"
)

// Response is a learner's answer to one sub-question: a selected option or a
// typed text.
type Response struct {
	Choice *int
	Text   string
}

// Choice builds a response selecting option i.
func Choice(i int) Response { return Response{Choice: &i} }

// Text builds a free-text response.
func Text(s string) Response { return Response{Text: s} }

// IsZero reports whether the response carries no answer.
func (r Response) IsZero() bool {
	return r.Choice == nil && r.Text == ""
}

// QuestionResult is the verdict for a single sub-question.
type QuestionResult struct {
	Key     string
	Correct bool
}

// Result is the outcome of Check.
type Result struct {
	Per   []QuestionResult
	Score int
	Total int
}

// Quiz holds the responses for one exercise view.
type Quiz struct {
	questions []domain.Question
	responses map[string]Response
	checked   bool
}

// New builds a quiz over questions. The slice is copied.
func New(questions []domain.Question) *Quiz {
	qs := make([]domain.Question, len(questions))
	for i, q := range questions {
		qs[i] = q.Clone()
	}
	return &Quiz{questions: qs, responses: make(map[string]Response)}
}

func (q *Quiz) Questions() []domain.Question { return q.questions }

func (q *Quiz) Len() int { return len(q.questions) }

// Key returns the response key of the i-th question.
func (q *Quiz) Key(i int) string { return q.questions[i].Key(i) }

func (q *Quiz) Checked() bool { return q.checked }

// SetAnswer records a response. Responses are frozen while the quiz is checked.
func (q *Quiz) SetAnswer(key string, r Response) {
	if q.checked {
		return
	}
	q.responses[key] = r
}

// Response returns the stored response for key.
func (q *Quiz) Response(key string) (Response, bool) {
	r, ok := q.responses[key]
	return r, ok
}

// AnsweredCount counts non-empty responses.
func (q *Quiz) AnsweredCount() int {
	n := 0
	for _, r := range q.responses {
		if !r.IsZero() {
			n++
		}
	}
	return n
}

// Check freezes the quiz and scores every question. An empty quiz cannot be
// checked and yields a zero result.
func (q *Quiz) Check() Result {
	if len(q.questions) == 0 {
		return Result{}
	}
	q.checked = true
	return q.Result()
}

// Result scores the current responses without changing state.
func (q *Quiz) Result() Result {
	res := Result{Total: len(q.questions), Per: make([]QuestionResult, 0, len(q.questions))}
	for i, question := range q.questions {
		key := question.Key(i)
		ok := IsCorrect(question, q.responses[key])
		if ok {
			res.Score++
		}
		res.Per = append(res.Per, QuestionResult{Key: key, Correct: ok})
	}
	return res
}

// Reset clears all responses and unfreezes the quiz.
func (q *Quiz) Reset() {
	q.responses = make(map[string]Response)
	q.checked = false
}

// IsCorrect grades a single response.
//
// Multiple-choice questions compare option indexes when the answer is an
// index, or the selected option's text when the answer is text. Free-text
// questions compare the typed text. Text comparison ignores case and
// surrounding whitespace. A question without a usable answer is never correct.
func IsCorrect(q domain.Question, r Response) bool {
	if q.HasOptions() {
		switch {
		case q.Answer.Index != nil:
			return r.Choice != nil && *r.Choice == *q.Answer.Index
		case q.Answer.Text != nil:
			if r.Choice == nil || *r.Choice < 0 || *r.Choice >= len(q.Options) {
				return false
			}
			return normalize(q.Options[*r.Choice]) == normalize(*q.Answer.Text)
		}
		return false
	}
	if q.Answer.Text != nil {
		return normalize(r.Text) == normalize(*q.Answer.Text)
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
