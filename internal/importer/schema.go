// Package importer parses exercise files uploaded by the learner.
//
// Two JSON shapes are accepted: a bare array of exercises, or an object with
// an "exercises" array and an optional "type" applied to items that lack one.
// Spreadsheets written by the export package are accepted as well.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrUnreadable means the upload is not JSON at all.
	ErrUnreadable = errors.New("error reading JSON")
	// ErrFormatNotRecognized means the JSON is neither accepted shape, or
	// holds no exercises.
	ErrFormatNotRecognized = errors.New("JSON format not recognized")
)

// Selection is the exam type and skill the learner is browsing; items that
// omit them inherit these values.
type Selection struct {
	Type  domain.ExamType
	Skill domain.Skill
}

// envelope is the object form of an upload.
type envelope struct {
	Type      string             `json:"type"`
	Exercises *[]json.RawMessage `json:"exercises"`
}

// LoadFile reads and parses an upload from disk. Files ending in .xlsx are
// read as workbooks, everything else as JSON.
func LoadFile(path string, sel Selection) ([]domain.Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ParseWorkbook(data, sel)
	}
	return Parse(data, sel)
}

// Parse decodes an upload, fills defaults and validates every item. Either
// all items are returned or none.
func Parse(data []byte, sel Selection) ([]domain.Exercise, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, ErrUnreadable
	}

	var raws []json.RawMessage
	defaultType := sel.Type

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, ErrUnreadable
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil || env.Exercises == nil {
			return nil, ErrFormatNotRecognized
		}
		raws = *env.Exercises
		if env.Type != "" {
			defaultType = domain.ExamType(env.Type)
		}
	default:
		return nil, ErrFormatNotRecognized
	}

	if len(raws) == 0 {
		return nil, ErrFormatNotRecognized
	}

	items := make([]domain.Exercise, 0, len(raws))
	for i, raw := range raws {
		var ex domain.Exercise
		if err := json.Unmarshal(raw, &ex); err != nil {
			return nil, fmt.Errorf("%w: item %d is not an exercise object", ErrFormatNotRecognized, i)
		}
		ex.ApplyDefaults(defaultType, sel.Skill)
		if ex.ID == "" {
			ex.ID = uuid.New().String()
		}
		items = append(items, ex)
	}

	if errs := Validate(items); len(errs) > 0 {
		return nil, &ValidationError{Errs: errs}
	}
	return items, nil
}
