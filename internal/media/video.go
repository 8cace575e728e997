// Package media normalizes references to externally hosted video.
package media

import (
	"regexp"
	"strings"
)

var (
	bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,}$`)
	urlIDPattern  = regexp.MustCompile(`(?:youtu\.be/|v=|embed/)([a-zA-Z0-9_-]{11})`)
)

// ExtractVideoID reduces a raw identifier or a known video URL to the bare
// identifier. It returns "" when nothing usable is found.
func ExtractVideoID(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if !strings.Contains(ref, "/") && bareIDPattern.MatchString(ref) {
		return ref
	}
	if m := urlIDPattern.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	return ""
}

// VideoID resolves the embed identifier for an exercise, preferring an
// explicit id over a URL.
func VideoID(youtubeID, videoURL string) string {
	if youtubeID != "" {
		return ExtractVideoID(youtubeID)
	}
	return ExtractVideoID(videoURL)
}

// EmbedURL returns the player URL for id, or "" when id is empty.
func EmbedURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}

// WatchURL returns the regular watch page URL for id.
func WatchURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}
