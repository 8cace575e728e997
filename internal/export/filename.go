// Package export writes user artifacts to disk: recorded audio, transcripts,
// writing text and spreadsheet snapshots of an exercise collection.
package export

import (
	"strings"
	"time"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

// Timestamp renders t as a UTC ISO-8601 instant with millisecond precision,
// with ':' and '.' replaced by '-' so it is safe in file names.
func Timestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(isoMillis))
}

// Filename builds "<prefix>-<timestamp>.<ext>".
func Filename(prefix, ext string, t time.Time) string {
	return prefix + "-" + Timestamp(t) + "." + ext
}

// TranscriptFilename builds "<prefix>-transcript-<timestamp>.txt".
func TranscriptFilename(prefix string, t time.Time) string {
	return Filename(prefix+"-transcript", "txt", t)
}

// AudioExtension maps a recording content type to its file extension.
func AudioExtension(contentType string) string {
	switch {
	case strings.Contains(contentType, "mp4"):
		return "mp4"
	case strings.Contains(contentType, "ogg"):
		return "ogg"
	default:
		return "webm"
	}
}
