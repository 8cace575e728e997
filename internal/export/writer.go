package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrEmpty is returned when there is nothing to write.
var ErrEmpty = errors.New("nothing to export")

// File describes an artifact written to disk.
type File struct {
	Path      string
	Name      string
	SizeBytes int64
}

// Writer places artifacts under Dir.
type Writer struct {
	Dir string
	Now func() time.Time
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Write stores data under name, creating Dir if needed.
func (w *Writer) Write(name string, data []byte) (File, error) {
	if len(data) == 0 {
		return File{}, ErrEmpty
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return File{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return File{}, fmt.Errorf("write %s: %w", name, err)
	}
	return File{Path: path, Name: name, SizeBytes: int64(len(data))}, nil
}

// WriteAudio stores a recording using its own file name.
func (w *Writer) WriteAudio(filename string, data []byte) (File, error) {
	return w.Write(filename, data)
}

// WriteTranscript stores a trimmed transcript. Blank transcripts are not written.
func (w *Writer) WriteTranscript(prefix, transcript string) (File, error) {
	text := strings.TrimSpace(transcript)
	if text == "" {
		return File{}, ErrEmpty
	}
	return w.Write(TranscriptFilename(prefix, w.now()), []byte(text))
}

// WriteText stores writing-panel content verbatim.
func (w *Writer) WriteText(prefix, text string) (File, error) {
	if text == "" {
		return File{}, ErrEmpty
	}
	return w.Write(Filename(prefix, "txt", w.now()), []byte(text))
}
