package recorder

import "context"

// Capture is an open audio capture. Stop ends it, releases the device and
// returns the encoded audio.
type Capture interface {
	Stop() ([]byte, error)
}

// Capturer opens audio captures on the host.
type Capturer interface {
	// Supports reports whether the capturer can encode the content type.
	Supports(contentType string) bool
	Open(ctx context.Context, contentType string) (Capture, error)
}

// Result is one recognition result. Interim results are replaced by the next
// result; final results accumulate.
type Result struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Recognizer is a continuous speech recognizer. A recognizer may end on its
// own at any time; Start runs it again.
type Recognizer interface {
	Start() error
	Stop()
	Results() <-chan Result
	// Done is closed when the current run ends.
	Done() <-chan struct{}
}

// RecognizerFactory builds recognizers for a language. It reports false when
// the host has no recognition capability.
type RecognizerFactory interface {
	New(lang string) (Recognizer, bool)
}

// NoRecognizer is the factory of a host without speech recognition.
type NoRecognizer struct{}

func (NoRecognizer) New(string) (Recognizer, bool) { return nil, false }
