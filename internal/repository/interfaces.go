package repository

import (
	"context"

	"github.com/alexanderramin/speaktrainer/internal/domain"
)

// KVStore is the storage port for the persisted dataset: one string value per
// key. Get wraps ErrNotFound when the key has never been written.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type RecordingRepo interface {
	Create(ctx context.Context, r *domain.Recording) error
	GetByID(ctx context.Context, id string) (*domain.Recording, error)
	ListByExercise(ctx context.Context, examType domain.ExamType, exerciseID string) ([]*domain.Recording, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Recording, error)
	Delete(ctx context.Context, id string) error
}
