package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/speaktrainer/internal/cli/formatter"
	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/recorder"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// recorderTickMsg advances the recording timer. Ticks from an earlier take
// carry a stale generation and are dropped.
type recorderTickMsg struct{ gen int }

// recognitionMsg carries one recognizer result.
type recognitionMsg struct {
	gen    int
	result recorder.Result
}

// recognitionEndedMsg reports that the recognizer stopped on its own.
type recognitionEndedMsg struct{ gen int }

// takeSavedMsg reports the outcome of exporting a take.
type takeSavedMsg struct {
	paths []string
	err   error
}

// recorderView records a spoken answer with a countdown, live transcript and
// keyword heatmap.
type recorderView struct {
	state   *SharedState
	ex      domain.Exercise
	session *recorder.Session

	// gen increments on every start so that timers from an earlier take do
	// not touch this one. lgen does the same for recognizer listeners and
	// also moves when transcription is toggled.
	gen  int
	lgen int

	// ended is set when a restarted recognizer is still finished; the
	// restart is retried on the next tick instead of spinning.
	ended bool

	saved   []string
	saveErr error
}

func newRecorderView(state *SharedState, ex domain.Exercise) *recorderView {
	s := recorder.New(state.App.Capturer, state.App.Recognizers, recorder.Options{
		LimitSec:   ex.TimeLimitSec,
		Lang:       state.Lang,
		STTEnabled: state.STTEnabled,
		FilePrefix: ex.FilePrefix(string(ex.EffectiveSkill())),
		Keywords:   ex.ExpectedKeywords(),
	})
	return &recorderView{state: state, ex: ex, session: s}
}

func (v *recorderView) ID() ViewID    { return ViewRecorder }
func (v *recorderView) Title() string { return "Record" }

func (v *recorderView) ShortHelp() []key.Binding {
	toggle := "start"
	if v.session.Recording() {
		toggle = "stop"
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", toggle)),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transcript on/off")),
	}
}

func (v *recorderView) Init() tea.Cmd { return nil }

func (v *recorderView) close() { v.session.Close() }

func (v *recorderView) activity() string {
	if !v.session.Recording() {
		return ""
	}
	return "● REC " + formatter.Clock(v.session.Elapsed())
}

func (v *recorderView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case recorderTickMsg:
		if msg.gen != v.gen || !v.session.Recording() {
			return v, nil
		}
		var listen tea.Cmd
		if v.ended {
			v.ended = false
			v.session.RecognitionEnded()
			listen = v.relisten()
		}
		if v.session.Tick() {
			return v, nil
		}
		return v, tea.Batch(v.tick(), listen)

	case recognitionMsg:
		v.session.Deliver(msg.result)
		if msg.gen != v.lgen {
			return v, nil
		}
		return v, v.listen()

	case recognitionEndedMsg:
		if msg.gen != v.lgen {
			return v, nil
		}
		v.session.RecognitionEnded()
		return v, v.relisten()

	case takeSavedMsg:
		v.saved, v.saveErr = msg.paths, msg.err
		return v, refreshCmd
	}
	return v, nil
}

func (v *recorderView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "r":
		if v.session.Recording() {
			_ = v.session.Stop()
			return v, nil
		}
		return v, v.start()
	case "s":
		return v, v.save()
	case "t":
		v.session.SetSTTEnabled(!v.session.STTEnabled())
		v.state.STTEnabled = v.session.STTEnabled()
		v.lgen++
		return v, v.listen()
	}
	return v, nil
}

func (v *recorderView) start() tea.Cmd {
	v.saved, v.saveErr = nil, nil
	if err := v.session.Start(context.Background()); err != nil {
		return nil
	}
	v.gen++
	v.lgen++
	v.ended = false
	return tea.Batch(v.tick(), v.listen())
}

func (v *recorderView) tick() tea.Cmd {
	gen := v.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return recorderTickMsg{gen: gen} })
}

// listen waits for the next recognizer result or end.
func (v *recorderView) listen() tea.Cmd {
	rec := v.session.Recognizer()
	if rec == nil || !v.session.STTEnabled() || !v.session.Recording() {
		return nil
	}
	gen, results, done := v.lgen, rec.Results(), rec.Done()
	return func() tea.Msg {
		select {
		case r, ok := <-results:
			if !ok {
				return nil
			}
			return recognitionMsg{gen: gen, result: r}
		case <-done:
			return recognitionEndedMsg{gen: gen}
		}
	}
}

// relisten resumes listening after a restart, unless the recognizer is
// still finished.
func (v *recorderView) relisten() tea.Cmd {
	if rec := v.session.Recognizer(); rec != nil && isDone(rec.Done()) {
		v.ended = v.session.Recording()
		return nil
	}
	return v.listen()
}

func isDone(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// save exports the finished take and its transcript.
func (v *recorderView) save() tea.Cmd {
	art := v.session.Artifact()
	if art == nil {
		return outputCmd("\n  " + formatter.Dim("Nothing recorded yet."))
	}
	app, ex, transcript := v.state.App, v.ex, v.session.Transcript()
	return func() tea.Msg {
		res, err := app.Recordings.SaveTake(context.Background(), ex, art, transcript)
		if err != nil {
			return takeSavedMsg{err: err}
		}
		paths := []string{res.Audio.Path}
		if res.Transcript != nil {
			paths = append(paths, res.Transcript.Path)
		}
		return takeSavedMsg{paths: paths}
	}
}

func (v *recorderView) View() string {
	s := v.session
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(v.ex.DisplayTitle()) + "\n")
	if v.ex.Question != "" && v.ex.Question != v.ex.Title {
		b.WriteString("  " + formatter.StyleFg.Render(v.ex.Question) + "\n")
	}
	b.WriteString("\n")

	status := formatter.Dim("● idle")
	if s.Recording() {
		status = formatter.StyleRed.Render("● REC")
	}
	clock := formatter.Clock(s.Elapsed())
	if s.LimitSec() > 0 {
		clock = fmt.Sprintf("%s / %s  %s remaining", clock, formatter.Clock(s.LimitSec()), formatter.Clock(s.Remaining()))
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", status, clock))
	if s.LimitSec() > 0 {
		b.WriteString("  " + formatter.RenderTimeBar(s.ProgressPct(), 30) + "\n")
	}

	stt := "off"
	switch {
	case s.STTEnabled() && s.Recognizer() == nil && s.Recording():
		stt = "unavailable"
	case s.STTEnabled():
		stt = "on (" + s.Lang() + ")"
	}
	b.WriteString("  " + formatter.Dim("Transcript: "+stt) + "\n")

	if msg := s.Err(); msg != "" {
		b.WriteString("\n  " + formatter.StyleRed.Render(msg) + "\n")
	}

	if t := s.Transcript(); t != "" {
		b.WriteString("\n  " + formatter.StyleFg.Render(s.FinalTranscript()))
		if s.InterimTranscript() != "" {
			b.WriteString(" " + formatter.Dim(s.InterimTranscript()))
		}
		b.WriteString("\n")
	}

	if heat := formatter.FormatHeatmap(s.Heatmap()); heat != "" {
		b.WriteString("\n" + indent(heat, "  ") + "\n")
	}

	if art := s.Artifact(); art != nil && !s.Recording() {
		b.WriteString(fmt.Sprintf("\n  %s %s (%s, %s)\n",
			formatter.StyleGreen.Render("Take ready:"),
			art.Filename,
			formatter.Clock(art.DurationSec),
			formatter.FormatBytes(int64(len(art.Data))),
		))
	}
	if v.saveErr != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Save failed: "+v.saveErr.Error()) + "\n")
	}
	for _, p := range v.saved {
		b.WriteString("  " + formatter.StyleGreen.Render("Saved: ") + p + "\n")
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
