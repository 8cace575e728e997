package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/speaktrainer/internal/dataset"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/repository"
	"github.com/alexanderramin/speaktrainer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetService_FirstLoadUsesSeedAndPersists(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	res, err := s.datasets.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset.SourceSeed, res.Source)
	assert.Equal(t, 3, res.Dataset.Count())

	raw, err := s.kv.Get(ctx, dataset.Key(dataset.CurrentVersion))
	require.NoError(t, err)
	assert.Contains(t, raw, `"c1"`)
}

func TestDatasetService_LoadKeepsLearnerEdits(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	edited := seedDataset()
	edited[domain.ExamCELPIP][0].Title = "Learner title"
	edited[domain.ExamCELPIP] = append(edited[domain.ExamCELPIP], testutil.NewTestExercise(domain.ExamCELPIP, "mine"))
	require.NoError(t, s.store.Save(ctx, edited))

	res, err := s.datasets.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset.SourceReconciled, res.Source)

	got, err := s.datasets.Get(ctx, domain.ExamCELPIP, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Learner title", got.Title)

	_, err = s.datasets.Get(ctx, domain.ExamCELPIP, "mine")
	assert.NoError(t, err)
}

func TestDatasetService_LoadSaveFailureKeepsDataset(t *testing.T) {
	s := setupServices(t)
	s.kv.setErr = errors.New("disk full")

	res, err := s.datasets.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, 3, res.Dataset.Count())
	assert.Len(t, s.datasets.List(context.Background(), domain.ExamCELPIP, domain.SkillSpeaking), 1)
}

func TestDatasetService_ListFiltersBySkill(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	speaking := s.datasets.List(ctx, domain.ExamCELPIP, domain.SkillSpeaking)
	require.Len(t, speaking, 1)
	assert.Equal(t, "c1", speaking[0].ID)

	writing := s.datasets.List(ctx, domain.ExamCELPIP, domain.SkillWriting)
	require.Len(t, writing, 1)
	assert.Equal(t, "c2", writing[0].ID)

	assert.Empty(t, s.datasets.List(ctx, domain.ExamCambridge, domain.SkillSpeaking))
}

func TestDatasetService_ListReturnsCopies(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	items := s.datasets.List(ctx, domain.ExamCELPIP, domain.SkillSpeaking)
	items[0].Verbs[0] = "mutated"

	again := s.datasets.List(ctx, domain.ExamCELPIP, domain.SkillSpeaking)
	assert.Equal(t, "describe", again[0].Verbs[0])
}

func TestDatasetService_GetMissing(t *testing.T) {
	s := setupServices(t)
	_, err := s.datasets.Get(context.Background(), domain.ExamIELTS, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDatasetService_MergeOverlaysAndAppends(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	imported := domain.Exercise{ID: "c1", Type: domain.ExamCELPIP, Skill: domain.SkillSpeaking, Title: "Imported"}
	imported.MarkSet("id", "type", "skill", "title")

	res, err := s.datasets.Merge(ctx, []domain.Exercise{
		imported,
		{ID: "new", Type: domain.ExamCELPIP, Skill: domain.SkillSpeaking, Title: "Brand new"},
		{ID: "i9", Type: domain.ExamIELTS, Skill: domain.SkillWriting},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.ByType[domain.ExamCELPIP])

	c1, err := s.datasets.Get(ctx, domain.ExamCELPIP, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Imported", c1.Title)
	assert.Equal(t, []string{"describe"}, c1.Verbs, "fields absent from the import are kept")

	ids := []string{}
	for _, ex := range s.datasets.Current(ctx)[domain.ExamCELPIP] {
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"c1", "c2", "new"}, ids)

	// Persisted: a fresh service over the same store sees the merge.
	fresh := NewDatasetService(s.store, seedDataset())
	_, err = fresh.Get(ctx, domain.ExamIELTS, "i9")
	assert.NoError(t, err)
}

func TestDatasetService_MergeSaveFailureLeavesDatasetUnchanged(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	_, err := s.datasets.Load(ctx)
	require.NoError(t, err)

	s.kv.setErr = errors.New("read-only")
	_, err = s.datasets.Merge(ctx, []domain.Exercise{{ID: "x", Type: domain.ExamCELPIP, Skill: domain.SkillSpeaking}})

	require.Error(t, err)
	_, err = s.datasets.Get(ctx, domain.ExamCELPIP, "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDatasetService_ResetRestoresSeed(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	_, err := s.datasets.Merge(ctx, []domain.Exercise{{ID: "c1", Type: domain.ExamCELPIP, Skill: domain.SkillSpeaking, Title: "Changed"}})
	require.NoError(t, err)

	require.NoError(t, s.datasets.Reset(ctx))

	c1, err := s.datasets.Get(ctx, domain.ExamCELPIP, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Title c1", c1.Title)

	res := s.store.Load(ctx, seedDataset())
	got, _ := res.Dataset.Find(domain.ExamCELPIP, "c1")
	assert.Equal(t, "Title c1", got.Title)
}

func TestDatasetService_ObserverSeesUseCases(t *testing.T) {
	var buf bytes.Buffer
	kv := repository.NewMemoryKVStore()
	svc := NewDatasetService(dataset.NewStore(kv, dataset.CurrentVersion, nil), seedDataset(), NewLogUseCaseObserver(&buf))

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "use_case=load-dataset"), out)
	assert.Contains(t, out, "source=seed")
	assert.Contains(t, out, "success=true")
}
