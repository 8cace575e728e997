package recorder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/alexanderramin/speaktrainer/internal/recorder/recordertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 600_000_000, time.UTC)

type eventLog struct {
	kinds []recorder.EventKind
}

func (l *eventLog) OnEvent(ev recorder.Event) { l.kinds = append(l.kinds, ev.Kind) }

func newSession(t *testing.T, limit int, stt bool) (*recorder.Session, *recordertest.Capturer, *recordertest.Factory, *eventLog) {
	t.Helper()
	c := recordertest.NewCapturer([]byte("audio"))
	f := &recordertest.Factory{}
	s := recorder.New(c, f, recorder.Options{
		LimitSec:   limit,
		Lang:       "en-CA",
		STTEnabled: stt,
		FilePrefix: "c1-speaking",
		Keywords:   []string{"café", "Visit"},
		Now:        func() time.Time { return fixedNow },
	})
	log := &eventLog{}
	s.Subscribe(log)
	return s, c, f, log
}

func TestStart_MicrophoneDeniedStaysIdle(t *testing.T) {
	s, c, _, log := newSession(t, 5, true)
	c.Deny = true

	err := s.Start(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, recorder.ErrMicrophoneUnavailable))
	assert.Equal(t, recorder.Idle, s.State())
	assert.Equal(t, recorder.MicrophoneErrorMessage, s.Err())
	assert.False(t, s.Tick(), "timer must not run")
	assert.Zero(t, s.Elapsed())
	assert.Equal(t, []recorder.EventKind{recorder.EventError}, log.kinds)
}

func TestStart_NilCapturerReportsError(t *testing.T) {
	s := recorder.New(nil, nil, recorder.Options{})
	err := s.Start(context.Background())
	assert.ErrorIs(t, err, recorder.ErrMicrophoneUnavailable)
	assert.Equal(t, recorder.Idle, s.State())
	assert.Equal(t, recorder.DefaultContentType, s.ContentType())
}

func TestTick_AutoStopsOnLimitTick(t *testing.T) {
	s, c, _, _ := newSession(t, 5, false)
	require.NoError(t, s.Start(context.Background()))

	for i := 1; i <= 4; i++ {
		assert.False(t, s.Tick())
		assert.Equal(t, recorder.Recording, s.State(), "tick %d", i)
	}
	assert.True(t, s.Tick())
	assert.Equal(t, recorder.Idle, s.State())
	assert.Equal(t, 5, s.Elapsed())
	assert.Zero(t, c.Live(), "auto-stop releases the device")

	a := s.Artifact()
	require.NotNil(t, a)
	assert.Equal(t, []byte("audio"), a.Data)
	assert.Equal(t, "audio/webm", a.ContentType)
	assert.Equal(t, "c1-speaking-2026-01-02T03-04-05-600Z.webm", a.Filename)
	assert.Equal(t, 5, a.DurationSec)
}

func TestStop_IsIdempotent(t *testing.T) {
	s, c, f, log := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	assert.Equal(t, 1, c.Released)
	assert.False(t, f.Last().Running())
	assert.Equal(t, []recorder.EventKind{recorder.EventStarted, recorder.EventStopped}, log.kinds)
}

func TestStop_CaptureFailureReported(t *testing.T) {
	s, c, _, _ := newSession(t, 0, false)
	c.StopErr = errors.New("device lost")
	require.NoError(t, s.Start(context.Background()))

	err := s.Stop()

	require.Error(t, err)
	assert.Equal(t, recorder.Idle, s.State())
	assert.Nil(t, s.Artifact())
	assert.Contains(t, s.Err(), "device lost")
}

func TestClose_ReleasesEverything(t *testing.T) {
	s, c, f, _ := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))
	rec := f.Last()
	require.True(t, rec.Running())

	s.Close()
	s.Close()

	assert.Zero(t, c.Live())
	assert.False(t, rec.Running())
	assert.Nil(t, s.Recognizer())
}

func TestStart_ClearsPreviousTake(t *testing.T) {
	s, _, f, _ := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))
	s.Deliver(recorder.Result{Text: "hello", Final: true})
	s.Tick()
	require.NoError(t, s.Stop())
	require.NotNil(t, s.Artifact())

	require.NoError(t, s.Start(context.Background()))

	assert.Nil(t, s.Artifact())
	assert.Empty(t, s.Transcript())
	assert.Zero(t, s.Elapsed())
	assert.Len(t, f.Built, 1, "recognizer is reused across takes")
}

func TestDeliver_FinalsAccumulateInterimReplaced(t *testing.T) {
	s, _, _, _ := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))

	s.Deliver(recorder.Result{Text: "I would"})
	s.Deliver(recorder.Result{Text: "I would visit"})
	assert.Equal(t, "I would visit", s.Transcript())

	s.Deliver(recorder.Result{Text: "I would visit the", Final: true})
	s.Deliver(recorder.Result{Text: "café", Final: true})
	s.Deliver(recorder.Result{Text: "every"})

	assert.Equal(t, "I would visit the café", s.FinalTranscript())
	assert.Equal(t, "every", s.InterimTranscript())
	assert.Equal(t, "I would visit the café every", s.Transcript())
}

func TestHeatmap_FollowsTranscript(t *testing.T) {
	s, _, _, _ := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))

	hits := s.Heatmap()
	require.Len(t, hits, 2)
	assert.False(t, hits[0].Matched)

	s.Deliver(recorder.Result{Text: "We VISIT the CAFE", Final: false})
	hits = s.Heatmap()
	assert.Equal(t, []recorder.KeywordHit{{Keyword: "cafe", Matched: true}, {Keyword: "visit", Matched: true}}, hits)
}

func TestRecognitionEnded_RestartsWhileRecording(t *testing.T) {
	s, _, f, _ := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))
	rec := f.Last()
	require.Equal(t, 1, rec.Starts)

	rec.End()
	s.RecognitionEnded()
	assert.Equal(t, 2, rec.Starts)
	assert.True(t, rec.Running())

	require.NoError(t, s.Stop())
	rec.End()
	s.RecognitionEnded()
	assert.Equal(t, 2, rec.Starts, "no restart once stopped")
}

func TestRecognitionEnded_RestartErrorsSwallowed(t *testing.T) {
	s, _, f, _ := newSession(t, 0, true)
	f.StartErr = errors.New("busy")

	require.NoError(t, s.Start(context.Background()))
	assert.NotPanics(t, s.RecognitionEnded)
	assert.Equal(t, recorder.Recording, s.State())
	assert.Empty(t, s.Err())
}

func TestRecognition_UnavailableIsSilent(t *testing.T) {
	c := recordertest.NewCapturer([]byte("a"))
	s := recorder.New(c, &recordertest.Factory{Unavailable: true}, recorder.Options{STTEnabled: true})

	require.NoError(t, s.Start(context.Background()))

	assert.Nil(t, s.Recognizer())
	assert.Empty(t, s.Err())
	assert.Empty(t, s.Transcript())
}

func TestSTTDisabled_NoRecognizer(t *testing.T) {
	s, _, f, _ := newSession(t, 0, false)
	require.NoError(t, s.Start(context.Background()))
	assert.Empty(t, f.Built)

	s.SetSTTEnabled(true)
	require.Len(t, f.Built, 1)
	assert.True(t, f.Last().Running())

	s.SetSTTEnabled(false)
	assert.False(t, f.Last().Running())
}

func TestSetLang_RebuildsRecognizerOnNextTake(t *testing.T) {
	s, _, f, _ := newSession(t, 0, true)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())

	s.SetLang("es-ES")
	require.NoError(t, s.Start(context.Background()))

	require.Len(t, f.Built, 2)
	assert.Equal(t, "es-ES", f.Last().Lang)
}

func TestContentTypePreference(t *testing.T) {
	tests := []struct {
		name      string
		supported map[string]bool
		want      string
		ext       string
	}{
		{"webm first", map[string]bool{"audio/webm": true, "audio/ogg": true}, "audio/webm", "webm"},
		{"mp4 before ogg", map[string]bool{"audio/mp4": true, "audio/ogg": true}, "audio/mp4", "mp4"},
		{"ogg only", map[string]bool{"audio/ogg": true}, "audio/ogg", "ogg"},
		{"nothing supported", map[string]bool{}, "audio/webm", "webm"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := recordertest.NewCapturer([]byte("x"))
			c.Supported = tc.supported
			s := recorder.New(c, nil, recorder.Options{FilePrefix: "p", Now: func() time.Time { return fixedNow }})
			assert.Equal(t, tc.want, s.ContentType())

			require.NoError(t, s.Start(context.Background()))
			require.NoError(t, s.Stop())
			assert.Equal(t, "p-2026-01-02T03-04-05-600Z."+tc.ext, s.Artifact().Filename)
		})
	}
}

func TestProgressAndRemaining(t *testing.T) {
	s, _, _, _ := newSession(t, 3, false)
	require.NoError(t, s.Start(context.Background()))
	assert.Zero(t, s.ProgressPct())
	assert.Equal(t, 3, s.Remaining())

	s.Tick()
	assert.Equal(t, 33, s.ProgressPct())
	s.Tick()
	assert.Equal(t, 67, s.ProgressPct(), "rounded, not floored")
	assert.Equal(t, 1, s.Remaining())
	s.Tick()
	assert.Equal(t, 100, s.ProgressPct())
	assert.Zero(t, s.Remaining())
}

func TestNoLimit_NeverAutoStops(t *testing.T) {
	s, _, _, _ := newSession(t, 0, false)
	require.NoError(t, s.Start(context.Background()))
	for i := 0; i < 1000; i++ {
		s.Tick()
	}
	assert.True(t, s.Recording())
	assert.Zero(t, s.ProgressPct())
	assert.Zero(t, s.Remaining())
}
