package domain

import "time"

type ArtifactKind string

const (
	ArtifactAudio      ArtifactKind = "audio"
	ArtifactTranscript ArtifactKind = "transcript"
	ArtifactWriting    ArtifactKind = "writing"
	ArtifactWorkbook   ArtifactKind = "workbook"
)

// Recording is the history entry for an artifact the learner exported.
type Recording struct {
	ID          string
	ExerciseID  string
	ExamType    ExamType
	Kind        ArtifactKind
	Path        string
	ContentType string
	SizeBytes   int64
	DurationSec int
	CreatedAt   time.Time
}
