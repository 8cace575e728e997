package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/db"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/export"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/repository"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type recordingService struct {
	recordings repository.RecordingRepo
	writer     *export.Writer
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewRecordingService(recordings repository.RecordingRepo, writer *export.Writer, uow db.UnitOfWork, observers ...UseCaseObserver) RecordingService {
	return &recordingService{
		recordings: recordings,
		writer:     writer,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func newRecording(ex domain.Exercise, kind domain.ArtifactKind, f export.File, contentType string) *domain.Recording {
	return &domain.Recording{
		ID:          uuid.New().String(),
		ExerciseID:  ex.ID,
		ExamType:    ex.Type,
		Kind:        kind,
		Path:        f.Path,
		ContentType: contentType,
		SizeBytes:   f.SizeBytes,
		CreatedAt:   time.Now().UTC(),
	}
}

// SaveTake writes the audio and, when there is one, the transcript, then
// records both in one transaction. Files are removed again if the history
// cannot be written.
func (s *recordingService) SaveTake(ctx context.Context, ex domain.Exercise, art *recorder.Artifact, transcript string) (result *TakeResult, err error) {
	fields := map[string]any{"exercise": ex.ID, "type": string(ex.Type)}
	done := track(ctx, s.observer, "save-take", fields)
	defer func() { done(err) }()

	if art == nil || len(art.Data) == 0 {
		return nil, export.ErrEmpty
	}

	audioFile, err := s.writer.WriteAudio(art.Filename, art.Data)
	if err != nil {
		return nil, err
	}
	written := []string{audioFile.Path}
	result = &TakeResult{Audio: newRecording(ex, domain.ArtifactAudio, audioFile, art.ContentType)}
	result.Audio.DurationSec = art.DurationSec
	fields["bytes"] = audioFile.SizeBytes

	tf, terr := s.writer.WriteTranscript(ex.FilePrefix(string(ex.EffectiveSkill())), transcript)
	switch {
	case terr == nil:
		written = append(written, tf.Path)
		result.Transcript = newRecording(ex, domain.ArtifactTranscript, tf, "text/plain")
	case !errors.Is(terr, export.ErrEmpty):
		removeAll(written)
		return nil, terr
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteRecordingRepo(tx)
		if err := repo.Create(ctx, result.Audio); err != nil {
			return err
		}
		if result.Transcript != nil {
			return repo.Create(ctx, result.Transcript)
		}
		return nil
	})
	if err != nil {
		removeAll(written)
		return nil, fmt.Errorf("recording history: %w", err)
	}
	return result, nil
}

func (s *recordingService) SaveTranscript(ctx context.Context, ex domain.Exercise, transcript string) (rec *domain.Recording, err error) {
	done := track(ctx, s.observer, "save-transcript", map[string]any{"exercise": ex.ID})
	defer func() { done(err) }()

	f, err := s.writer.WriteTranscript(ex.FilePrefix(string(ex.EffectiveSkill())), transcript)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, newRecording(ex, domain.ArtifactTranscript, f, "text/plain"))
}

func (s *recordingService) SaveWriting(ctx context.Context, ex domain.Exercise, text string) (rec *domain.Recording, err error) {
	done := track(ctx, s.observer, "save-writing", map[string]any{"exercise": ex.ID})
	defer func() { done(err) }()

	f, err := s.writer.WriteText(ex.FilePrefix("writing"), text)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, newRecording(ex, domain.ArtifactWriting, f, "text/plain"))
}

func (s *recordingService) ExportWorkbook(ctx context.Context, examType domain.ExamType, items []domain.Exercise) (rec *domain.Recording, err error) {
	fields := map[string]any{"type": string(examType), "exercises": len(items)}
	done := track(ctx, s.observer, "export-workbook", fields)
	defer func() { done(err) }()

	data, err := export.Workbook(examType, items)
	if err != nil {
		return nil, err
	}
	f, err := s.writer.Write(export.WorkbookFilename(examType, s.writer), data)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, newRecording(domain.Exercise{Type: examType}, domain.ArtifactWorkbook, f, xlsxContentType))
}

func (s *recordingService) record(ctx context.Context, rec *domain.Recording) (*domain.Recording, error) {
	if err := s.recordings.Create(ctx, rec); err != nil {
		_ = os.Remove(rec.Path)
		return nil, fmt.Errorf("recording history: %w", err)
	}
	return rec, nil
}

func (s *recordingService) ListByExercise(ctx context.Context, examType domain.ExamType, exerciseID string) ([]*domain.Recording, error) {
	return s.recordings.ListByExercise(ctx, examType, exerciseID)
}

func (s *recordingService) ListRecent(ctx context.Context, limit int) ([]*domain.Recording, error) {
	return s.recordings.ListRecent(ctx, limit)
}

// Delete drops a history entry and, when asked, the file it points to. A
// file that is already gone is not an error.
func (s *recordingService) Delete(ctx context.Context, id string, removeFile bool) (err error) {
	done := track(ctx, s.observer, "delete-recording", map[string]any{"id": id, "remove_file": removeFile})
	defer func() { done(err) }()

	rec, err := s.recordings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.recordings.Delete(ctx, id); err != nil {
		return err
	}
	if removeFile {
		if rmErr := os.Remove(rec.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", rec.Path, rmErr)
		}
	}
	return nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
