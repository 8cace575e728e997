// Package dataset merges the learner's saved exercises with the bundled
// catalog and persists the result under a versioned key.
package dataset

import "github.com/alexanderramin/speaktrainer/internal/domain"

// Reconcile merges persisted exercises into the seed collection by id.
//
// Every seed exercise is present in the result, in seed order. A persisted
// exercise whose id is also in the seed is overlaid on the seed copy, field
// by field, persisted values winning. Persisted exercises unknown to the seed
// are appended in persisted order. Inputs are not modified.
func Reconcile(persisted, seed []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(seed)+len(persisted))
	index := make(map[string]int, len(seed)+len(persisted))

	for _, ex := range seed {
		if i, ok := index[ex.ID]; ok {
			out[i] = ex.Clone()
			continue
		}
		index[ex.ID] = len(out)
		out = append(out, ex.Clone())
	}

	for _, ex := range persisted {
		i, ok := index[ex.ID]
		if !ok {
			index[ex.ID] = len(out)
			out = append(out, ex.Clone())
			continue
		}
		merged, err := out[i].Overlay(ex)
		if err != nil {
			merged = ex.Clone()
		}
		out[i] = merged
	}
	return out
}

// ReconcileAll applies Reconcile per exam type across domain.ExamTypes.
// Exam types outside that set are not carried over.
func ReconcileAll(persisted, seed domain.Dataset) domain.Dataset {
	out := make(domain.Dataset, len(domain.ExamTypes))
	for _, t := range domain.ExamTypes {
		out[t] = Reconcile(persisted[t], seed[t])
	}
	return out
}
