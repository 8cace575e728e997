// Package recordertest provides in-memory capture and recognition hosts for
// tests.
package recordertest

import (
	"context"
	"errors"
	"sync"

	"github.com/alexanderramin/speaktrainer/internal/recorder"
)

// ErrDenied is returned by a Capturer configured to refuse access.
var ErrDenied = errors.New("permission denied")

// Capturer is a fake microphone.
type Capturer struct {
	mu        sync.Mutex
	Supported map[string]bool
	Deny      bool
	Audio     []byte
	StopErr   error
	Opened    int
	Released  int
	Active    int
	LastType  string
}

// NewCapturer supports every preferred content type and yields audio.
func NewCapturer(audio []byte) *Capturer {
	return &Capturer{Audio: audio}
}

func (c *Capturer) Supports(contentType string) bool {
	if c.Supported == nil {
		return true
	}
	return c.Supported[contentType]
}

func (c *Capturer) Open(_ context.Context, contentType string) (recorder.Capture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Deny {
		return nil, ErrDenied
	}
	c.Opened++
	c.Active++
	c.LastType = contentType
	return &capture{owner: c}, nil
}

// Live reports how many captures are still holding the device.
func (c *Capturer) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Active
}

type capture struct {
	owner   *Capturer
	stopped bool
}

func (c *capture) Stop() ([]byte, error) {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		c.owner.Active--
		c.owner.Released++
	}
	if c.owner.StopErr != nil {
		return nil, c.owner.StopErr
	}
	return append([]byte(nil), c.owner.Audio...), nil
}

// Recognizer is a fake recognizer whose results and ends are pushed by the
// test.
type Recognizer struct {
	mu       sync.Mutex
	Lang     string
	StartErr error
	Starts   int
	Stops    int
	running  bool
	results  chan recorder.Result
	done     chan struct{}
}

func newRecognizer(lang string) *Recognizer {
	done := make(chan struct{})
	return &Recognizer{Lang: lang, results: make(chan recorder.Result, 16), done: done}
}

func (r *Recognizer) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Starts++
	if r.StartErr != nil {
		return r.StartErr
	}
	if !r.running {
		r.running = true
		r.done = make(chan struct{})
	}
	return nil
}

func (r *Recognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stops++
	r.running = false
}

func (r *Recognizer) Results() <-chan recorder.Result { return r.results }

func (r *Recognizer) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Running reports whether the recognizer is started.
func (r *Recognizer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// StartCount returns how many times Start was called.
func (r *Recognizer) StartCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Starts
}

// Emit queues a recognition result.
func (r *Recognizer) Emit(text string, final bool) {
	r.results <- recorder.Result{Text: text, Final: final}
}

// End simulates the host ending recognition on its own.
func (r *Recognizer) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		close(r.done)
	}
}

// Factory hands out fake recognizers and remembers them.
type Factory struct {
	Unavailable bool
	StartErr    error
	Built       []*Recognizer
}

func (f *Factory) New(lang string) (recorder.Recognizer, bool) {
	if f.Unavailable {
		return nil, false
	}
	r := newRecognizer(lang)
	r.StartErr = f.StartErr
	f.Built = append(f.Built, r)
	return r, true
}

// Last returns the most recently built recognizer.
func (f *Factory) Last() *Recognizer {
	if len(f.Built) == 0 {
		return nil
	}
	return f.Built[len(f.Built)-1]
}
