package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ieltsReading = Selection{Type: domain.ExamIELTS, Skill: domain.SkillReading}

func TestParse_BareArrayInheritsSelection(t *testing.T) {
	items, err := Parse([]byte(`[{"id":"a"},{"id":"b","skill":"writing","type":"celpip"}]`), ieltsReading)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, domain.ExamIELTS, items[0].Type)
	assert.Equal(t, domain.SkillReading, items[0].Skill)
	assert.Equal(t, domain.ExamCELPIP, items[1].Type)
	assert.Equal(t, domain.SkillWriting, items[1].Skill)
}

func TestParse_EnvelopeTypeAppliesToItems(t *testing.T) {
	items, err := Parse([]byte(`{"type":"cambridge","exercises":[{"id":"x"},{"id":"y","type":"ielts"}]}`), ieltsReading)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, domain.ExamCambridge, items[0].Type)
	assert.Equal(t, domain.ExamIELTS, items[1].Type)
	assert.Equal(t, domain.SkillReading, items[0].Skill)
}

func TestParse_EnvelopeWithoutType(t *testing.T) {
	items, err := Parse([]byte(`{"exercises":[{"id":"x"}]}`), ieltsReading)
	require.NoError(t, err)
	assert.Equal(t, domain.ExamIELTS, items[0].Type)
}

func TestParse_MissingIDGetsGenerated(t *testing.T) {
	items, err := Parse([]byte(`[{"title":"no id"},{"title":"also none"}]`), ieltsReading)
	require.NoError(t, err)
	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestParse_RejectsUnknownShapes(t *testing.T) {
	cases := map[string]string{
		"object without exercises": `{"foo": 1}`,
		"exercises not an array":   `{"exercises": "nope"}`,
		"empty array":              `[]`,
		"empty exercises":          `{"exercises": []}`,
		"scalar":                   `42`,
		"array of scalars":         `[1, 2]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			items, err := Parse([]byte(in), ieltsReading)
			assert.Nil(t, items)
			assert.True(t, errors.Is(err, ErrFormatNotRecognized), "got %v", err)
		})
	}
}

func TestParse_UnreadableJSON(t *testing.T) {
	_, err := Parse([]byte(`{"exercises": [`), ieltsReading)
	assert.True(t, errors.Is(err, ErrUnreadable))

	_, err = Parse(nil, ieltsReading)
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestParse_InvalidItemsRejectWholeUpload(t *testing.T) {
	in := `[{"id":"ok"},{"id":"bad","type":"toefl"},{"id":"neg","timeLimitSec":-5}]`

	items, err := Parse([]byte(in), ieltsReading)
	assert.Nil(t, items)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errs, 2)
	assert.Contains(t, err.Error(), `exercise "bad"`)
	assert.Contains(t, err.Error(), "timeLimitSec")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"f1"}]`), 0o644))

	items, err := LoadFile(path, ieltsReading)
	require.NoError(t, err)
	assert.Equal(t, "f1", items[0].ID)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), ieltsReading)
	assert.Error(t, err)
}
