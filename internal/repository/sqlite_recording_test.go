package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteRecordingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := testutil.NewTestRecording("celpip-s1", domain.ExamCELPIP, domain.ArtifactAudio)
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ExerciseID, got.ExerciseID)
	assert.Equal(t, domain.ExamCELPIP, got.ExamType)
	assert.Equal(t, domain.ArtifactAudio, got.Kind)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, rec.SizeBytes, got.SizeBytes)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestRecordingRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteRecordingRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordingRepo_ListByExerciseNewestFirst(t *testing.T) {
	repo := NewSQLiteRecordingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	older := testutil.NewTestRecording("ielts-w1", domain.ExamIELTS, domain.ArtifactWriting)
	older.CreatedAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := testutil.NewTestRecording("ielts-w1", domain.ExamIELTS, domain.ArtifactWriting)
	newer.CreatedAt = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	other := testutil.NewTestRecording("ielts-w2", domain.ExamIELTS, domain.ArtifactWriting)

	for _, r := range []*domain.Recording{older, newer, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	list, err := repo.ListByExercise(ctx, domain.ExamIELTS, "ielts-w1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestRecordingRepo_ListRecentLimit(t *testing.T) {
	repo := NewSQLiteRecordingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := testutil.NewTestRecording("cambridge-s1", domain.ExamCambridge, domain.ArtifactTranscript)
		rec.CreatedAt = time.Date(2026, 3, i+1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, rec))
	}

	list, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 5, list[0].CreatedAt.Day())
}

func TestRecordingRepo_Delete(t *testing.T) {
	repo := NewSQLiteRecordingRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := testutil.NewTestRecording("celpip-s2", domain.ExamCELPIP, domain.ArtifactAudio)
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Delete(ctx, rec.ID))

	err := repo.Delete(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
