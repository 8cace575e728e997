// Package catalog loads the exercise catalog bundled with the trainer.
//
// The catalog is one JSON document per (exam type, skill) pair, stored at
// seeds/<type>/<skill>.json. A document holds either a single exercise
// object or an array of them. Pairs without a document are simply empty.
package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/alexanderramin/speaktrainer/internal/domain"
)

//go:embed seeds
var bundled embed.FS

// Bundled returns the seed catalog compiled into the binary.
func Bundled() (domain.Dataset, error) {
	sub, err := fs.Sub(bundled, "seeds")
	if err != nil {
		return nil, fmt.Errorf("opening bundled seeds: %w", err)
	}
	return Load(sub)
}

// Load assembles a Dataset from fsys. Each exam type's collection is the
// concatenation of its skill documents in domain.Skills order. Exercises that
// omit type or skill take them from the document's location.
func Load(fsys fs.FS) (domain.Dataset, error) {
	ds := make(domain.Dataset, len(domain.ExamTypes))
	for _, examType := range domain.ExamTypes {
		list := []domain.Exercise{}
		for _, skill := range domain.Skills {
			name := path.Join(string(examType), string(skill)+".json")
			data, err := fs.ReadFile(fsys, name)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading seed %s: %w", name, err)
			}
			items, err := DecodeDocument(data)
			if err != nil {
				return nil, fmt.Errorf("decoding seed %s: %w", name, err)
			}
			for i := range items {
				items[i].ApplyDefaults(examType, skill)
			}
			list = append(list, items...)
		}
		ds[examType] = list
	}
	return ds, nil
}

// DecodeDocument decodes a seed document holding one exercise or an array.
func DecodeDocument(data []byte) ([]domain.Exercise, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '[' {
		var items []domain.Exercise
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var one domain.Exercise
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []domain.Exercise{one}, nil
}
