package domain

import (
	"encoding/json"
	"fmt"
)

// MaxExamples is how many sample answers are shown for an exercise.
const MaxExamples = 3

// Exercise is the unit of practice content. Fields the trainer does not know
// about are kept in Extra so that content survives a save/load cycle intact.
type Exercise struct {
	ID           string     `json:"id" validate:"required"`
	Type         ExamType   `json:"type,omitempty" validate:"required,exam_type"`
	Skill        Skill      `json:"skill,omitempty" validate:"required,skill"`
	Task         int        `json:"task,omitempty" validate:"gte=0"`
	Title        string     `json:"title,omitempty"`
	Subtitle     string     `json:"subtitle,omitempty"`
	Question     string     `json:"question,omitempty"`
	Examples     []string   `json:"examples,omitempty"`
	Verbs        []string   `json:"verbs,omitempty"`
	Keywords     []string   `json:"keywords,omitempty"`
	TimeLimitSec int        `json:"timeLimitSec,omitempty" validate:"gte=0"`
	TargetWords  int        `json:"targetWords,omitempty" validate:"gte=0"`
	MinWords     int        `json:"minWords,omitempty" validate:"gte=0"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	VideoURL     string     `json:"videoUrl,omitempty"`
	YouTubeID    string     `json:"youtubeId,omitempty"`
	Questions    []Question `json:"questions,omitempty" validate:"dive"`

	Extra map[string]json.RawMessage `json:"-"`

	// set holds the typed JSON keys the exercise was given, zero values
	// included. nil means every typed field counts as given.
	set map[string]bool
}

// exerciseFields is the wire shape of Exercise without the custom codec.
type exerciseFields Exercise

// exerciseKeyZero maps each JSON key owned by a typed field to the encoding
// of its zero value.
var exerciseKeyZero = map[string]json.RawMessage{
	"id": json.RawMessage(`""`), "type": json.RawMessage(`""`),
	"skill": json.RawMessage(`""`), "task": json.RawMessage(`0`),
	"title": json.RawMessage(`""`), "subtitle": json.RawMessage(`""`),
	"question": json.RawMessage(`""`), "examples": json.RawMessage(`[]`),
	"verbs": json.RawMessage(`[]`), "keywords": json.RawMessage(`[]`),
	"timeLimitSec": json.RawMessage(`0`), "targetWords": json.RawMessage(`0`),
	"minWords": json.RawMessage(`0`), "imageUrl": json.RawMessage(`""`),
	"videoUrl": json.RawMessage(`""`), "youtubeId": json.RawMessage(`""`),
	"questions": json.RawMessage(`[]`),
}

func isExerciseKey(k string) bool {
	_, ok := exerciseKeyZero[k]
	return ok
}

func (e *Exercise) UnmarshalJSON(data []byte) error {
	var f exerciseFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.set = make(map[string]bool, len(raw))
	for k := range raw {
		if isExerciseKey(k) {
			f.set[k] = true
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		f.Extra = raw
	} else {
		f.Extra = nil
	}
	*e = Exercise(f)
	return nil
}

func (e Exercise) MarshalJSON() ([]byte, error) {
	fields, err := e.fieldMap()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// MarkSet records keys as given even when their value is zero, so that an
// overlay or a save carries the zero value. Unknown keys are ignored.
func (e *Exercise) MarkSet(keys ...string) {
	if e.set == nil {
		e.set = make(map[string]bool, len(keys))
	}
	for _, k := range keys {
		if isExerciseKey(k) {
			e.set[k] = true
		}
	}
}

// IsSet reports whether the typed field behind key was given.
func (e Exercise) IsSet(key string) bool {
	if !isExerciseKey(key) {
		return false
	}
	return e.set == nil || e.set[key]
}

// fieldMap flattens the exercise into its JSON object form, extras included.
// A typed key is present when its value is non-zero or it was given.
func (e Exercise) fieldMap() (map[string]json.RawMessage, error) {
	data, err := json.Marshal(exerciseFields(e))
	if err != nil {
		return nil, fmt.Errorf("encoding exercise %q: %w", e.ID, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding exercise %q: %w", e.ID, err)
	}
	for k, zero := range exerciseKeyZero {
		if _, ok := fields[k]; !ok && e.IsSet(k) {
			fields[k] = zero
		}
	}
	for k, v := range e.Extra {
		if !isExerciseKey(k) {
			fields[k] = v
		}
	}
	return fields, nil
}

// Overlay returns a copy of e with every field present in top replacing the
// field of the same name, zero values included. Fields absent from top keep
// e's value.
func (e Exercise) Overlay(top Exercise) (Exercise, error) {
	base, err := e.fieldMap()
	if err != nil {
		return Exercise{}, err
	}
	over, err := top.fieldMap()
	if err != nil {
		return Exercise{}, err
	}
	for k, v := range over {
		base[k] = v
	}
	data, err := json.Marshal(base)
	if err != nil {
		return Exercise{}, fmt.Errorf("encoding overlay for %q: %w", top.ID, err)
	}
	var merged Exercise
	if err := json.Unmarshal(data, &merged); err != nil {
		return Exercise{}, fmt.Errorf("decoding overlay for %q: %w", top.ID, err)
	}
	return merged, nil
}

// Clone returns a copy that shares no slices or maps with e.
func (e Exercise) Clone() Exercise {
	c := e
	c.Examples = cloneStrings(e.Examples)
	c.Verbs = cloneStrings(e.Verbs)
	c.Keywords = cloneStrings(e.Keywords)
	if e.Questions != nil {
		c.Questions = make([]Question, len(e.Questions))
		for i, q := range e.Questions {
			c.Questions[i] = q.Clone()
		}
	}
	if e.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if e.set != nil {
		c.set = make(map[string]bool, len(e.set))
		for k := range e.set {
			c.set[k] = true
		}
	}
	return c
}

// ApplyDefaults fills the fields the trainer assumes when content omits them.
func (e *Exercise) ApplyDefaults(examType ExamType, skill Skill) {
	if e.Type == "" {
		e.Type = examType
	}
	if e.Skill == "" {
		e.Skill = Coalesce(skill, DefaultSkill)
	}
}

// EffectiveSkill is the declared skill, or DefaultSkill when absent.
func (e Exercise) EffectiveSkill() Skill {
	return Coalesce(e.Skill, DefaultSkill)
}

// GroupTask is the task label used for grouping; missing tasks group under 1.
func (e Exercise) GroupTask() int {
	if e.Task == 0 {
		return 1
	}
	return e.Task
}

// DisplayTitle picks the best available heading for list views.
func (e Exercise) DisplayTitle() string {
	return Coalesce(e.Title, e.Question, "Exercise")
}

// DisplayExamples returns at most MaxExamples sample answers.
func (e Exercise) DisplayExamples() []string {
	if len(e.Examples) > MaxExamples {
		return e.Examples[:MaxExamples]
	}
	return e.Examples
}

// ExpectedKeywords returns the words used for pronunciation matching:
// explicit keywords when present, otherwise the suggested verbs.
func (e Exercise) ExpectedKeywords() []string {
	if len(e.Keywords) > 0 {
		return e.Keywords
	}
	return e.Verbs
}

// FilePrefix is the base name for artifacts exported from this exercise.
func (e Exercise) FilePrefix(suffix string) string {
	return Coalesce(e.ID, string(e.Type), "exercise") + "-" + suffix
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
