package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/importer"
)

type importService struct {
	datasets DatasetService
	observer UseCaseObserver
}

func NewImportService(datasets DatasetService, observers ...UseCaseObserver) ImportService {
	return &importService{datasets: datasets, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string, sel importer.Selection) (*ImportResult, error) {
	return s.run(ctx, sel, map[string]any{"path": path}, func() ([]domain.Exercise, error) {
		return importer.LoadFile(path, sel)
	})
}

func (s *importService) ImportData(ctx context.Context, data []byte, sel importer.Selection) (*ImportResult, error) {
	return s.run(ctx, sel, map[string]any{"bytes": len(data)}, func() ([]domain.Exercise, error) {
		return importer.Parse(data, sel)
	})
}

func (s *importService) run(ctx context.Context, sel importer.Selection, fields map[string]any, parse func() ([]domain.Exercise, error)) (result *ImportResult, err error) {
	fields["type"] = string(sel.Type)
	fields["skill"] = string(sel.Skill)
	done := track(ctx, s.observer, "import-exercises", fields)
	defer func() { done(err) }()

	items, err := parse()
	if err != nil {
		return nil, err
	}
	merged, err := s.datasets.Merge(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("merging import: %w", err)
	}
	fields["items"] = len(items)
	return &ImportResult{
		MergeResult: *merged,
		Items:       items,
		Status:      fmt.Sprintf("Loaded: %d exercises added", len(items)),
	}, nil
}

// ImportStatus is the one-line status shown after an upload attempt.
func ImportStatus(result *ImportResult, err error) string {
	switch {
	case err == nil:
		if result == nil {
			return ""
		}
		return result.Status
	case errors.Is(err, importer.ErrFormatNotRecognized):
		return "JSON format not recognized"
	case errors.Is(err, importer.ErrUnreadable):
		return "Error reading JSON"
	default:
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			return fmt.Sprintf("Import rejected: %d invalid fields", len(verr.Errs))
		}
		return "Import failed: " + err.Error()
	}
}
