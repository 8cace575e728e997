package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/speaktrainer/internal/dataset"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/repository"
)

type datasetService struct {
	store    *dataset.Store
	seed     domain.Dataset
	observer UseCaseObserver

	mu      sync.RWMutex
	current domain.Dataset
	loaded  bool
}

func NewDatasetService(store *dataset.Store, seed domain.Dataset, observers ...UseCaseObserver) DatasetService {
	return &datasetService{
		store:    store,
		seed:     seed,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *datasetService) Load(ctx context.Context) (res dataset.LoadResult, err error) {
	fields := map[string]any{"key": s.store.Key()}
	done := track(ctx, s.observer, "load-dataset", fields)
	defer func() { done(err) }()

	res = s.store.Load(ctx, s.seed)
	fields["source"] = string(res.Source)
	fields["exercises"] = res.Dataset.Count()

	s.mu.Lock()
	s.current = res.Dataset
	s.loaded = true
	s.mu.Unlock()

	if err = s.store.Save(ctx, res.Dataset); err != nil {
		return res, err
	}
	return res, nil
}

func (s *datasetService) ensureLoaded(ctx context.Context) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		_, _ = s.Load(ctx)
	}
}

func (s *datasetService) Current(ctx context.Context) domain.Dataset {
	s.ensureLoaded(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *datasetService) List(ctx context.Context, examType domain.ExamType, skill domain.Skill) []domain.Exercise {
	s.ensureLoaded(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.current.Filter(examType, skill)
	out := make([]domain.Exercise, len(items))
	for i, ex := range items {
		out[i] = ex.Clone()
	}
	return out
}

func (s *datasetService) Get(ctx context.Context, examType domain.ExamType, id string) (domain.Exercise, error) {
	s.ensureLoaded(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	ex, ok := s.current.Find(examType, id)
	if !ok {
		return domain.Exercise{}, fmt.Errorf("exercise %s/%s: %w", examType, id, repository.ErrNotFound)
	}
	return ex.Clone(), nil
}

// Merge reconciles items into their exam type collections, items winning
// field by field, and persists the result. Nothing changes when the save
// fails.
func (s *datasetService) Merge(ctx context.Context, items []domain.Exercise) (result *MergeResult, err error) {
	fields := map[string]any{"items": len(items)}
	done := track(ctx, s.observer, "merge-exercises", fields)
	defer func() { done(err) }()

	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	byType := make(map[domain.ExamType][]domain.Exercise)
	var order []domain.ExamType
	for _, ex := range items {
		if _, seen := byType[ex.Type]; !seen {
			order = append(order, ex.Type)
		}
		byType[ex.Type] = append(byType[ex.Type], ex)
	}

	result = &MergeResult{ByType: make(map[domain.ExamType]int)}
	next := s.current.Clone()
	for _, t := range order {
		incoming := byType[t]
		existing := next[t]
		for _, ex := range incoming {
			if _, ok := next.Find(t, ex.ID); ok {
				result.Updated++
			} else {
				result.Added++
			}
		}
		next[t] = dataset.Reconcile(incoming, existing)
		result.ByType[t] = len(incoming)
	}
	fields["added"] = result.Added
	fields["updated"] = result.Updated

	if err = s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.current = next
	return result, nil
}

// Reset discards every learner change and persists the seed catalog.
func (s *datasetService) Reset(ctx context.Context) (err error) {
	done := track(ctx, s.observer, "reset-dataset", nil)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := s.seed.Clone()
	for t, list := range fresh {
		for i := range list {
			list[i].ApplyDefaults(t, "")
		}
	}
	if err = s.store.Save(ctx, fresh); err != nil {
		return err
	}
	s.current = fresh
	s.loaded = true
	return nil
}
