package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/export"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads a spreadsheet in the layout written by
// export.Workbook. Each sheet named after a skill contributes its rows; other
// sheets use the selected skill. Question sets cannot be expressed in a
// sheet and are left untouched on merge.
func ParseWorkbook(data []byte, sel Selection) ([]domain.Exercise, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	var items []domain.Exercise
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		headerMap := make(map[string]int, len(rows[0]))
		for i, h := range rows[0] {
			headerMap[strings.TrimSpace(h)] = i
		}
		if _, ok := headerMap["id"]; !ok {
			continue
		}
		skill := sel.Skill
		if s, ok := domain.ParseSkill(sheet); ok {
			skill = s
		}
		for rowIndex, row := range rows[1:] {
			ex, err := exerciseFromRow(row, headerMap)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", sheet, rowIndex+2, err)
			}
			if ex.ID == "" && ex.Title == "" && ex.Question == "" {
				continue
			}
			ex.ApplyDefaults(sel.Type, skill)
			if ex.ID == "" {
				ex.ID = uuid.New().String()
			}
			items = append(items, ex)
		}
	}

	if len(items) == 0 {
		return nil, ErrFormatNotRecognized
	}
	if errs := Validate(items); len(errs) > 0 {
		return nil, &ValidationError{Errs: errs}
	}
	return items, nil
}

func exerciseFromRow(row []string, headerMap map[string]int) (domain.Exercise, error) {
	cell := func(name string) string {
		i, ok := headerMap[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(name string) (int, error) {
		v := cell(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a whole number", name, v)
		}
		return n, nil
	}
	list := func(name string) []string {
		v := cell(name)
		if v == "" {
			return nil
		}
		parts := strings.Split(v, strings.TrimSpace(export.ListSeparator))
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	ex := domain.Exercise{
		ID:       cell("id"),
		Title:    cell("title"),
		Subtitle: cell("subtitle"),
		Question: cell("question"),
		VideoURL: cell("videoUrl"),
		Keywords: list("keywords"),
		Verbs:    list("verbs"),
		Examples: list("examples"),
	}
	if s := cell("skill"); s != "" {
		ex.Skill = domain.Skill(strings.ToLower(s))
	}
	// Only filled cells count as given; a blank cell keeps the existing value
	// on merge.
	given := make([]string, 0, len(headerMap))
	for name := range headerMap {
		if cell(name) != "" {
			given = append(given, name)
		}
	}
	ex.MarkSet(given...)
	var err error
	if ex.Task, err = number("task"); err != nil {
		return ex, err
	}
	if ex.TimeLimitSec, err = number("timeLimitSec"); err != nil {
		return ex, err
	}
	if ex.TargetWords, err = number("targetWords"); err != nil {
		return ex, err
	}
	if ex.MinWords, err = number("minWords"); err != nil {
		return ex, err
	}
	return ex, nil
}
