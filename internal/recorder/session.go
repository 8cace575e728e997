// Package recorder implements the speaking session: timed audio capture with
// an optional live transcript and a keyword heatmap.
//
// A Session is driven from a single goroutine. Timer ticks, recognition
// results and recognition end notifications are fed in by the caller (see
// Run, or the TUI recorder view); the session never starts goroutines of its
// own.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/export"
)

// MicrophoneErrorMessage is the user-visible message for a failed start.
const MicrophoneErrorMessage = "Could not access the microphone. Check device permissions."

// ErrMicrophoneUnavailable is wrapped by Start when capture cannot be opened.
var ErrMicrophoneUnavailable = errors.New("microphone unavailable")

// DefaultContentType is used when no preferred type is supported.
const DefaultContentType = "audio/webm"

// PreferredContentTypes is the order in which capture formats are tried.
var PreferredContentTypes = []string{"audio/webm", "audio/mp4", "audio/ogg"}

// State of a session.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Artifact is the audio produced by a stopped session.
type Artifact struct {
	Data        []byte
	ContentType string
	Filename    string
	DurationSec int
}

// Options configure a session.
type Options struct {
	LimitSec   int
	Lang       string
	STTEnabled bool
	FilePrefix string
	Keywords   []string
	Now        func() time.Time
}

// Session is the per-view recording state machine.
type Session struct {
	capturer    Capturer
	recognizers RecognizerFactory
	opts        Options
	contentType string

	state      State
	elapsed    int
	capture    Capture
	recognizer Recognizer

	final    string
	interim  string
	artifact *Artifact
	errMsg   string

	observers []Observer
}

// New builds an idle session. A nil factory means recognition is unavailable.
func New(capturer Capturer, recognizers RecognizerFactory, opts Options) *Session {
	if recognizers == nil {
		recognizers = NoRecognizer{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FilePrefix == "" {
		opts.FilePrefix = "recording"
	}
	return &Session{
		capturer:    capturer,
		recognizers: recognizers,
		opts:        opts,
		contentType: PreferredContentType(capturer),
	}
}

// PreferredContentType returns the first supported entry of
// PreferredContentTypes, or DefaultContentType.
func PreferredContentType(c Capturer) string {
	if c == nil {
		return DefaultContentType
	}
	for _, ct := range PreferredContentTypes {
		if c.Supports(ct) {
			return ct
		}
	}
	return DefaultContentType
}

// Subscribe registers an observer for session events.
func (s *Session) Subscribe(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

func (s *Session) emit(ev Event) {
	ev.Elapsed = s.elapsed
	for _, o := range s.observers {
		o.OnEvent(ev)
	}
}

// Start clears the previous take and begins capturing. When the capture
// cannot be opened the session stays idle, the timer does not start, Err
// returns MicrophoneErrorMessage and the returned error wraps
// ErrMicrophoneUnavailable. Starting a recording session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	if s.state == Recording {
		return nil
	}
	s.errMsg = ""
	s.artifact = nil
	s.final = ""
	s.interim = ""
	s.elapsed = 0

	if s.capturer == nil {
		return s.failStart(errors.New("no capture device"))
	}
	capture, err := s.capturer.Open(ctx, s.contentType)
	if err != nil {
		return s.failStart(err)
	}
	s.capture = capture
	s.state = Recording
	s.emit(Event{Kind: EventStarted})
	s.startRecognition()
	return nil
}

func (s *Session) failStart(cause error) error {
	s.state = Idle
	s.capture = nil
	s.errMsg = MicrophoneErrorMessage
	err := fmt.Errorf("%w: %v", ErrMicrophoneUnavailable, cause)
	s.emit(Event{Kind: EventError, Err: err})
	return err
}

func (s *Session) startRecognition() {
	if !s.opts.STTEnabled {
		return
	}
	if s.recognizer == nil {
		rec, ok := s.recognizers.New(s.opts.Lang)
		if !ok || rec == nil {
			return
		}
		s.recognizer = rec
	}
	_ = s.recognizer.Start()
}

// Tick advances the timer by one second while recording. The session stops
// on the tick that reaches the limit; Tick reports whether that happened.
func (s *Session) Tick() bool {
	if s.state != Recording {
		return false
	}
	s.elapsed++
	s.emit(Event{Kind: EventTick})
	if s.opts.LimitSec > 0 && s.elapsed >= s.opts.LimitSec {
		_ = s.Stop()
		return true
	}
	return false
}

// Stop ends the take: the capture device and the recognizer are released and
// the artifact is built. Stopping an idle session does nothing.
func (s *Session) Stop() error {
	if s.state != Recording {
		return nil
	}
	s.state = Idle
	s.stopRecognizer()

	capture := s.capture
	s.capture = nil
	data, err := capture.Stop()
	if err != nil {
		s.errMsg = "Recording failed: " + err.Error()
		s.emit(Event{Kind: EventError, Err: err})
		s.emit(Event{Kind: EventStopped})
		return fmt.Errorf("stop capture: %w", err)
	}
	s.artifact = &Artifact{
		Data:        data,
		ContentType: s.contentType,
		Filename:    export.Filename(s.opts.FilePrefix, export.AudioExtension(s.contentType), s.opts.Now()),
		DurationSec: s.elapsed,
	}
	s.emit(Event{Kind: EventStopped})
	return nil
}

func (s *Session) stopRecognizer() {
	if s.recognizer != nil {
		s.recognizer.Stop()
	}
}

// Close releases every resource held by the session. It is safe to call in
// any state and more than once.
func (s *Session) Close() {
	_ = s.Stop()
	s.stopRecognizer()
	s.recognizer = nil
}

// Deliver applies a recognition result.
func (s *Session) Deliver(r Result) {
	if r.Final {
		if s.final != "" {
			s.final += " "
		}
		s.final += r.Text
		s.interim = ""
		s.emit(Event{Kind: EventFinal, Text: r.Text})
		return
	}
	s.interim = r.Text
	s.emit(Event{Kind: EventInterim, Text: r.Text})
}

// RecognitionEnded handles a recognizer ending on its own. While recording
// with recognition enabled it is restarted; restart failures are ignored.
func (s *Session) RecognitionEnded() {
	if s.state == Recording && s.opts.STTEnabled && s.recognizer != nil {
		_ = s.recognizer.Start()
	}
}

// SetSTTEnabled toggles live transcription. Disabling it stops a running
// recognizer; enabling it while recording starts one.
func (s *Session) SetSTTEnabled(on bool) {
	if s.opts.STTEnabled == on {
		return
	}
	s.opts.STTEnabled = on
	if !on {
		s.stopRecognizer()
		return
	}
	if s.state == Recording {
		s.startRecognition()
	}
}

// SetLang changes the recognition language. It takes effect on the next
// take.
func (s *Session) SetLang(lang string) {
	if lang == s.opts.Lang {
		return
	}
	s.opts.Lang = lang
	if s.state == Idle && s.recognizer != nil {
		s.recognizer.Stop()
		s.recognizer = nil
	}
}

func (s *Session) State() State { return s.state }
func (s *Session) Recording() bool { return s.state == Recording }
func (s *Session) Elapsed() int { return s.elapsed }
func (s *Session) LimitSec() int { return s.opts.LimitSec }
func (s *Session) Lang() string { return s.opts.Lang }
func (s *Session) STTEnabled() bool { return s.opts.STTEnabled }
func (s *Session) ContentType() string { return s.contentType }
func (s *Session) Err() string { return s.errMsg }
func (s *Session) Artifact() *Artifact { return s.artifact }
func (s *Session) Recognizer() Recognizer { return s.recognizer }
func (s *Session) FinalTranscript() string { return s.final }
func (s *Session) InterimTranscript() string { return s.interim }

// Remaining is the number of seconds left, or 0 without a limit.
func (s *Session) Remaining() int {
	if s.opts.LimitSec <= 0 || s.elapsed >= s.opts.LimitSec {
		return 0
	}
	return s.opts.LimitSec - s.elapsed
}

// ProgressPct is the elapsed share of the limit, rounded and capped at 100.
func (s *Session) ProgressPct() int {
	if s.opts.LimitSec <= 0 {
		return 0
	}
	pct := int(math.Round(float64(s.elapsed) / float64(s.opts.LimitSec) * 100))
	return min(pct, 100)
}

// Transcript is the final text followed by the pending interim text.
func (s *Session) Transcript() string {
	return strings.TrimSpace(s.final + " " + s.interim)
}

// Heatmap matches the expected keywords against the current transcript.
func (s *Session) Heatmap() []KeywordHit {
	return MatchKeywords(s.opts.Keywords, s.Transcript())
}
