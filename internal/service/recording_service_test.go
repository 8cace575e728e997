package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/speaktrainer/internal/db"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/export"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/repository"
	"github.com/alexanderramin/speaktrainer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRecordingService(t *testing.T, uow db.UnitOfWork) (RecordingService, repository.RecordingRepo, *export.Writer) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRecordingRepo(database)
	if uow == nil {
		uow = testutil.NewTestUoW(database)
	} else if f, ok := uow.(*testutil.FailOnNthExecUoW); ok {
		f.DB = database
	}
	w := newTestWriter(t)
	return NewRecordingService(repo, w, uow), repo, w
}

func testArtifact() *recorder.Artifact {
	return &recorder.Artifact{
		Data:        []byte("webm-bytes"),
		ContentType: "audio/webm",
		Filename:    "c1-speaking-2026-01-01T00-00-00-000Z.webm",
		DurationSec: 42,
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSaveTake_WritesAudioAndTranscript(t *testing.T) {
	svc, repo, w := setupRecordingService(t, nil)
	ctx := context.Background()
	ex := testutil.NewTestExercise(domain.ExamCELPIP, "c1")

	res, err := svc.SaveTake(ctx, ex, testArtifact(), " I would go ")
	require.NoError(t, err)
	require.NotNil(t, res.Audio)
	require.NotNil(t, res.Transcript)

	assert.Equal(t, filepath.Join(w.Dir, "c1-speaking-2026-01-01T00-00-00-000Z.webm"), res.Audio.Path)
	assert.Equal(t, 42, res.Audio.DurationSec)
	assert.EqualValues(t, len("webm-bytes"), res.Audio.SizeBytes)

	text, err := os.ReadFile(res.Transcript.Path)
	require.NoError(t, err)
	assert.Equal(t, "I would go", string(text))

	history, err := repo.ListByExercise(ctx, domain.ExamCELPIP, "c1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSaveTake_NoTranscript(t *testing.T) {
	svc, repo, _ := setupRecordingService(t, nil)
	ctx := context.Background()
	ex := testutil.NewTestExercise(domain.ExamCELPIP, "c1")

	res, err := svc.SaveTake(ctx, ex, testArtifact(), "   ")
	require.NoError(t, err)
	assert.Nil(t, res.Transcript)

	history, err := repo.ListByExercise(ctx, domain.ExamCELPIP, "c1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ArtifactAudio, history[0].Kind)
}

func TestSaveTake_EmptyArtifact(t *testing.T) {
	svc, _, _ := setupRecordingService(t, nil)
	_, err := svc.SaveTake(context.Background(), testutil.NewTestExercise(domain.ExamCELPIP, "c1"), &recorder.Artifact{}, "x")
	assert.ErrorIs(t, err, export.ErrEmpty)
}

func TestSaveTake_RollbackRemovesFiles(t *testing.T) {
	// ExecContext #1 = audio row, #2 = transcript row.
	failUoW := &testutil.FailOnNthExecUoW{FailOn: 2, Err: fmt.Errorf("injected transcript insert failure")}
	svc, repo, w := setupRecordingService(t, failUoW)
	ctx := context.Background()

	_, err := svc.SaveTake(ctx, testutil.NewTestExercise(domain.ExamCELPIP, "c1"), testArtifact(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected transcript insert failure")

	history, err := repo.ListByExercise(ctx, domain.ExamCELPIP, "c1")
	require.NoError(t, err)
	assert.Empty(t, history, "audio row rolled back with the transcript row")
	assert.Empty(t, dirEntries(t, w.Dir), "written files are removed")
}

func TestSaveWriting(t *testing.T) {
	svc, repo, _ := setupRecordingService(t, nil)
	ctx := context.Background()
	ex := testutil.NewTestExercise(domain.ExamIELTS, "w1", testutil.WithSkill(domain.SkillWriting))

	rec, err := svc.SaveWriting(ctx, ex, "Dear sir,\nI am writing")
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactWriting, rec.Kind)
	assert.Contains(t, filepath.Base(rec.Path), "w1-writing-")

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Path, got.Path)

	_, err = svc.SaveWriting(ctx, ex, "")
	assert.ErrorIs(t, err, export.ErrEmpty)
}

func TestSaveTranscript(t *testing.T) {
	svc, _, _ := setupRecordingService(t, nil)
	rec, err := svc.SaveTranscript(context.Background(), testutil.NewTestExercise(domain.ExamCELPIP, "c1"), "words")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(rec.Path), "c1-speaking-transcript-")
	assert.Equal(t, "text/plain", rec.ContentType)
}

func TestExportWorkbook(t *testing.T) {
	svc, repo, _ := setupRecordingService(t, nil)
	ctx := context.Background()

	rec, err := svc.ExportWorkbook(ctx, domain.ExamCELPIP, seedDataset()[domain.ExamCELPIP])
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactWorkbook, rec.Kind)
	assert.Equal(t, ".xlsx", filepath.Ext(rec.Path))

	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, domain.ExamCELPIP, recent[0].ExamType)
}

func TestDelete_RemovesRowAndFile(t *testing.T) {
	svc, repo, _ := setupRecordingService(t, nil)
	ctx := context.Background()
	rec, err := svc.SaveWriting(ctx, testutil.NewTestExercise(domain.ExamIELTS, "w1"), "text")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID, true))

	_, err = repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, statErr := os.Stat(rec.Path)
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, svc.Delete(ctx, rec.ID, true), repository.ErrNotFound)
}

func TestDelete_KeepFile(t *testing.T) {
	svc, _, _ := setupRecordingService(t, nil)
	ctx := context.Background()
	rec, err := svc.SaveWriting(ctx, testutil.NewTestExercise(domain.ExamIELTS, "w1"), "text")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID, false))
	_, statErr := os.Stat(rec.Path)
	assert.NoError(t, statErr)
}
