package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/speaktrainer/internal/dataset"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/export"
	"github.com/alexanderramin/speaktrainer/internal/repository"
	"github.com/alexanderramin/speaktrainer/internal/testutil"
)

type failingKV struct {
	repository.KVStore
	setErr error
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.KVStore.Set(ctx, key, value)
}

func seedDataset() domain.Dataset {
	return domain.Dataset{
		domain.ExamCELPIP: {
			testutil.NewTestExercise(domain.ExamCELPIP, "c1", testutil.WithVerbs("describe")),
			testutil.NewTestExercise(domain.ExamCELPIP, "c2", testutil.WithSkill(domain.SkillWriting), testutil.WithWordTargets(150, 200)),
		},
		domain.ExamCambridge: {},
		domain.ExamIELTS: {
			testutil.NewTestExercise(domain.ExamIELTS, "i1", testutil.WithSkill(domain.SkillReading),
				testutil.WithQuestions(testutil.ChoiceQuestion("q1", 1, "a", "b"))),
		},
	}
}

type testServices struct {
	kv       *failingKV
	store    *dataset.Store
	datasets DatasetService
	imports  ImportService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	kv := &failingKV{KVStore: repository.NewSQLiteKVStore(testutil.NewTestDB(t))}
	store := dataset.NewStore(kv, dataset.CurrentVersion, nil)
	datasets := NewDatasetService(store, seedDataset())
	return &testServices{
		kv:       kv,
		store:    store,
		datasets: datasets,
		imports:  NewImportService(datasets),
	}
}

func newTestWriter(t *testing.T) *export.Writer {
	t.Helper()
	return export.NewWriter(t.TempDir())
}
