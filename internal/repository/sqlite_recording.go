package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/db"
	"github.com/alexanderramin/speaktrainer/internal/domain"
)

// SQLiteRecordingRepo implements RecordingRepo using a SQLite database.
type SQLiteRecordingRepo struct {
	db db.DBTX
}

func NewSQLiteRecordingRepo(conn db.DBTX) *SQLiteRecordingRepo {
	return &SQLiteRecordingRepo{db: conn}
}

const recordingColumns = `id, exercise_id, exam_type, kind, path, content_type, size_bytes, duration_sec, created_at`

func (r *SQLiteRecordingRepo) Create(ctx context.Context, rec *domain.Recording) error {
	query := `INSERT INTO recordings (` + recordingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.ExerciseID,
		string(rec.ExamType),
		string(rec.Kind),
		rec.Path,
		rec.ContentType,
		rec.SizeBytes,
		rec.DurationSec,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting recording: %w", err)
	}
	return nil
}

func (r *SQLiteRecordingRepo) GetByID(ctx context.Context, id string) (*domain.Recording, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id)
	rec, err := scanRecording(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recording: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning recording: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRecordingRepo) ListByExercise(ctx context.Context, examType domain.ExamType, exerciseID string) ([]*domain.Recording, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordingColumns+` FROM recordings
		 WHERE exam_type = ? AND exercise_id = ?
		 ORDER BY created_at DESC, id`, string(examType), exerciseID)
	if err != nil {
		return nil, fmt.Errorf("listing recordings by exercise: %w", err)
	}
	defer rows.Close()
	return scanRecordings(rows)
}

func (r *SQLiteRecordingRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Recording, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordingColumns+` FROM recordings ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent recordings: %w", err)
	}
	defer rows.Close()
	return scanRecordings(rows)
}

func (r *SQLiteRecordingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting recording: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recording %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner) (*domain.Recording, error) {
	var rec domain.Recording
	var examType, kind, createdAt string
	if err := row.Scan(
		&rec.ID,
		&rec.ExerciseID,
		&examType,
		&kind,
		&rec.Path,
		&rec.ContentType,
		&rec.SizeBytes,
		&rec.DurationSec,
		&createdAt,
	); err != nil {
		return nil, err
	}
	rec.ExamType = domain.ExamType(examType)
	rec.Kind = domain.ArtifactKind(kind)
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

func scanRecordings(rows *sql.Rows) ([]*domain.Recording, error) {
	var out []*domain.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recording row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recordings: %w", err)
	}
	return out, nil
}
