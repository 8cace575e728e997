package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ListSeparator joins list fields inside a single cell.
const ListSeparator = " | "

// WorkbookHeaders are the columns of every sheet, in order.
var WorkbookHeaders = []string{
	"id", "skill", "task", "title", "subtitle", "question",
	"timeLimitSec", "targetWords", "minWords",
	"keywords", "verbs", "examples", "videoUrl", "questions",
}

// Workbook renders one exam type as a spreadsheet with one sheet per skill
// that has exercises. Questions are summarized as a count.
func Workbook(examType domain.ExamType, items []domain.Exercise) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bySkill := make(map[domain.Skill][]domain.Exercise)
	for _, ex := range items {
		s := ex.EffectiveSkill()
		bySkill[s] = append(bySkill[s], ex)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheet := defaultSheet
	first := true
	for _, skill := range domain.Skills {
		rows, ok := bySkill[skill]
		if !ok {
			continue
		}
		if first {
			if err := f.SetSheetName(defaultSheet, string(skill)); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(string(skill)); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", skill, err)
		}
		sheet = string(skill)
		if err := writeSheet(f, sheet, rows, headerStyle); err != nil {
			return nil, err
		}
	}
	if first {
		// An empty collection still yields a readable workbook with headers.
		if err := writeSheet(f, sheet, nil, headerStyle); err != nil {
			return nil, err
		}
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: examType.Label() + " exercises", Creator: "speaktrainer"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows []domain.Exercise, headerStyle int) error {
	for i, h := range WorkbookHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(WorkbookHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for r, ex := range rows {
		values := exerciseRow(ex)
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+2, err)
			}
		}
	}
	return nil
}

func exerciseRow(ex domain.Exercise) []any {
	return []any{
		ex.ID,
		string(ex.EffectiveSkill()),
		ex.GroupTask(),
		ex.Title,
		ex.Subtitle,
		ex.Question,
		ex.TimeLimitSec,
		ex.TargetWords,
		ex.MinWords,
		strings.Join(ex.Keywords, ListSeparator),
		strings.Join(ex.Verbs, ListSeparator),
		strings.Join(ex.Examples, ListSeparator),
		ex.VideoURL,
		strconv.Itoa(len(ex.Questions)),
	}
}

// WorkbookFilename is the export name of a collection workbook.
func WorkbookFilename(examType domain.ExamType, w *Writer) string {
	return Filename(string(examType)+"-exercises", "xlsx", w.now())
}
