package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Question is a sub-question of a quiz-style exercise. A nil Options slice
// means the question is answered with free text.
type Question struct {
	ID          string   `json:"id,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Options     []string `json:"options" validate:"omitempty,dive,required"`
	Answer      Answer   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// HasOptions reports whether the question is multiple choice.
func (q Question) HasOptions() bool {
	return q.Options != nil
}

// Key identifies the question within its exercise; questions without an id
// are keyed by position.
func (q Question) Key(index int) string {
	if q.ID != "" {
		return q.ID
	}
	return "q-" + strconv.Itoa(index+1)
}

func (q Question) Clone() Question {
	c := q
	c.Options = cloneStrings(q.Options)
	return c
}

// Answer is the expected answer of a question: either the index of the
// correct option or an expected text. Any other JSON value leaves both unset,
// which no response can ever match.
type Answer struct {
	Index *int
	Text  *string
}

// IndexAnswer builds an option-index answer.
func IndexAnswer(i int) Answer { return Answer{Index: &i} }

// TextAnswer builds a text answer.
func TextAnswer(s string) Answer { return Answer{Text: &s} }

// IsZero reports whether neither form of answer is set.
func (a Answer) IsZero() bool {
	return a.Index == nil && a.Text == nil
}

func (a Answer) String() string {
	switch {
	case a.Index != nil:
		return strconv.Itoa(*a.Index)
	case a.Text != nil:
		return *a.Text
	default:
		return ""
	}
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		a.Text = &s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		// Out-of-range numbers are no answer rather than a wrapped index.
		if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
			i := int(f)
			a.Index = &i
		}
	}
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Index != nil:
		return json.Marshal(*a.Index)
	case a.Text != nil:
		return json.Marshal(*a.Text)
	default:
		return []byte("null"), nil
	}
}
