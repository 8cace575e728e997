package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// LangPlaceholder in a recognizer command is replaced by the language tag.
const LangPlaceholder = "{lang}"

// ExecRecognizerFactory builds recognizers backed by an external speech to
// text command. The command reads the microphone itself and prints one JSON
// object per line: {"text": "...", "final": true}.
type ExecRecognizerFactory struct {
	Command []string
}

// NewRecognizerFactory returns NoRecognizer when command is empty.
func NewRecognizerFactory(command []string) RecognizerFactory {
	if len(command) == 0 {
		return NoRecognizer{}
	}
	return &ExecRecognizerFactory{Command: command}
}

func (f *ExecRecognizerFactory) New(lang string) (Recognizer, bool) {
	if len(f.Command) == 0 {
		return nil, false
	}
	if _, err := exec.LookPath(f.Command[0]); err != nil {
		return nil, false
	}
	args := make([]string, len(f.Command))
	for i, a := range f.Command {
		args[i] = strings.ReplaceAll(a, LangPlaceholder, lang)
	}
	return &execRecognizer{args: args, results: make(chan Result, 64)}, true
}

type execRecognizer struct {
	args    []string
	results chan Result

	mu   sync.Mutex
	cmd  *exec.Cmd
	stop chan struct{}
	done chan struct{}
}

func (r *execRecognizer) Results() <-chan Result { return r.results }

func (r *execRecognizer) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Start launches a new run unless one is active.
func (r *execRecognizer) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return nil
	}
	cmd := exec.Command(r.args[0], r.args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("recognizer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start recognizer: %w", err)
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	r.cmd = cmd
	r.stop = stop
	r.done = done

	go func() {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			var res Result
			if err := json.Unmarshal(sc.Bytes(), &res); err != nil || res.Text == "" {
				continue
			}
			select {
			case r.results <- res:
			case <-stop:
			}
		}
		_ = cmd.Wait()
		r.mu.Lock()
		if r.cmd == cmd {
			r.cmd = nil
		}
		r.mu.Unlock()
		close(done)
	}()
	return nil
}

// Stop kills the active run, if any.
func (r *execRecognizer) Stop() {
	r.mu.Lock()
	cmd, stop := r.cmd, r.stop
	r.cmd, r.stop = nil, nil
	r.mu.Unlock()
	if cmd == nil {
		return
	}
	close(stop)
	_ = cmd.Process.Kill()
}
