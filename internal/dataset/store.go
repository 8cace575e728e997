package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/repository"
)

// CurrentVersion tags the persisted record. Bump it whenever the bundled
// catalog changes incompatibly; records written under older tags are never
// read again.
const CurrentVersion = 3

const keyPrefix = "speaktrainer:data:v"

// Key returns the storage key for a record version.
func Key(version int) string {
	return fmt.Sprintf("%s%d", keyPrefix, version)
}

// Source says where a loaded dataset came from.
type Source string

const (
	SourceSeed       Source = "seed"
	SourceReconciled Source = "reconciled"
	SourceFallback   Source = "fallback"
)

// LoadResult is the working dataset plus how it was produced.
type LoadResult struct {
	Dataset domain.Dataset
	Source  Source
}

// Store reads and writes the working dataset through a KVStore.
type Store struct {
	kv     repository.KVStore
	key    string
	logger *slog.Logger
}

// NewStore creates a Store for the given record version. A nil logger
// discards output.
func NewStore(kv repository.KVStore, version int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: kv, key: Key(version), logger: logger}
}

// Key is the storage key this store reads and writes.
func (s *Store) Key() string { return s.key }

// Load builds the working dataset. With no record the seed is returned as
// is. An unreadable or unparsable record is treated as absent.
func (s *Store) Load(ctx context.Context, seed domain.Dataset) LoadResult {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoadResult{Dataset: withDefaults(seed.Clone()), Source: SourceSeed}
		}
		s.logger.WarnContext(ctx, "dataset_read_failed", "key", s.key, "error", err.Error())
		return LoadResult{Dataset: withDefaults(seed.Clone()), Source: SourceFallback}
	}

	var persisted domain.Dataset
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		s.logger.WarnContext(ctx, "dataset_record_malformed", "key", s.key, "error", err.Error())
		return LoadResult{Dataset: withDefaults(seed.Clone()), Source: SourceFallback}
	}

	return LoadResult{Dataset: withDefaults(ReconcileAll(persisted, seed)), Source: SourceReconciled}
}

// Save writes the dataset under the store's key.
func (s *Store) Save(ctx context.Context, ds domain.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	return nil
}

func withDefaults(ds domain.Dataset) domain.Dataset {
	for t, list := range ds {
		for i := range list {
			list[i].ApplyDefaults(t, "")
		}
	}
	return ds
}
