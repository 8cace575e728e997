package service

import (
	"context"

	"github.com/alexanderramin/speaktrainer/internal/dataset"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/importer"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
)

// DatasetService owns the working dataset: the seed catalog reconciled with
// the persisted record. Every change is written back through the store.
type DatasetService interface {
	// Load builds the working dataset and writes it back. A failed write
	// is returned but the loaded dataset stays in use.
	Load(ctx context.Context) (dataset.LoadResult, error)
	Current(ctx context.Context) domain.Dataset
	List(ctx context.Context, examType domain.ExamType, skill domain.Skill) []domain.Exercise
	Get(ctx context.Context, examType domain.ExamType, id string) (domain.Exercise, error)
	Merge(ctx context.Context, items []domain.Exercise) (*MergeResult, error)
	Reset(ctx context.Context) error
}

// MergeResult counts how merged items landed in the working dataset.
type MergeResult struct {
	Added   int
	Updated int
	ByType  map[domain.ExamType]int
}

// ImportResult holds the outcome of an upload.
type ImportResult struct {
	MergeResult
	Items  []domain.Exercise
	Status string
}

type ImportService interface {
	ImportFile(ctx context.Context, path string, sel importer.Selection) (*ImportResult, error)
	ImportData(ctx context.Context, data []byte, sel importer.Selection) (*ImportResult, error)
}

// TakeResult lists the history entries written for one recording take.
type TakeResult struct {
	Audio      *domain.Recording
	Transcript *domain.Recording
}

// RecordingService exports artifacts to disk and keeps their history.
type RecordingService interface {
	SaveTake(ctx context.Context, ex domain.Exercise, art *recorder.Artifact, transcript string) (*TakeResult, error)
	SaveTranscript(ctx context.Context, ex domain.Exercise, transcript string) (*domain.Recording, error)
	SaveWriting(ctx context.Context, ex domain.Exercise, text string) (*domain.Recording, error)
	ExportWorkbook(ctx context.Context, examType domain.ExamType, items []domain.Exercise) (*domain.Recording, error)
	ListByExercise(ctx context.Context, examType domain.ExamType, exerciseID string) ([]*domain.Recording, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Recording, error)
	Delete(ctx context.Context, id string, removeFile bool) error
}
