package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// FormatPlaceholder in a capture command is replaced by the container format
// (webm, ogg) of the requested content type.
const FormatPlaceholder = "{format}"

// DefaultCaptureCommand records the default PulseAudio source with ffmpeg and
// streams the encoded audio to stdout.
var DefaultCaptureCommand = []string{
	"ffmpeg", "-hide_banner", "-loglevel", "error",
	"-f", "pulse", "-i", "default",
	"-f", FormatPlaceholder, "pipe:1",
}

// startupGrace is how long a capture process must survive to count as open.
const startupGrace = 300 * time.Millisecond

// streamableFormats maps content types to formats that can be written to a
// pipe. MP4 needs a seekable output and is not offered.
var streamableFormats = map[string]string{
	"audio/webm": "webm",
	"audio/ogg":  "ogg",
}

// ExecCapturer captures audio by running an external recorder that writes
// the encoded stream to stdout.
type ExecCapturer struct {
	Command []string
}

// NewExecCapturer returns a capturer for command, or for
// DefaultCaptureCommand when command is empty.
func NewExecCapturer(command []string) *ExecCapturer {
	if len(command) == 0 {
		command = DefaultCaptureCommand
	}
	return &ExecCapturer{Command: command}
}

// ParseCommand splits a configured command line on whitespace.
func ParseCommand(line string) []string {
	return strings.Fields(line)
}

func (c *ExecCapturer) Supports(contentType string) bool {
	if len(c.Command) == 0 {
		return false
	}
	_, ok := streamableFormats[contentType]
	return ok
}

func (c *ExecCapturer) Open(ctx context.Context, contentType string) (Capture, error) {
	format, ok := streamableFormats[contentType]
	if !ok || len(c.Command) == 0 {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	args := make([]string, len(c.Command))
	for i, a := range c.Command {
		args[i] = strings.ReplaceAll(a, FormatPlaceholder, format)
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("capture command: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 2 * time.Second
	ec := &execCapture{cmd: cmd, done: make(chan struct{})}
	cmd.Stdout = &ec.out
	cmd.Stderr = &ec.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start capture: %w", err)
	}
	go func() {
		ec.waitErr = cmd.Wait()
		close(ec.done)
	}()

	select {
	case <-ec.done:
		return nil, fmt.Errorf("capture exited: %s", ec.failure())
	case <-time.After(startupGrace):
		return ec, nil
	}
}

type execCapture struct {
	cmd     *exec.Cmd
	out     bytes.Buffer
	stderr  bytes.Buffer
	done    chan struct{}
	waitErr error
	once    sync.Once
}

// Stop interrupts the recorder so it can finalize the container, then
// returns everything it wrote.
func (c *execCapture) Stop() ([]byte, error) {
	c.once.Do(func() {
		_ = c.cmd.Process.Signal(os.Interrupt)
	})
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		_ = c.cmd.Process.Kill()
		<-c.done
	}
	if c.out.Len() == 0 {
		return nil, fmt.Errorf("no audio captured: %s", c.failure())
	}
	return c.out.Bytes(), nil
}

func (c *execCapture) failure() string {
	msg := strings.TrimSpace(c.stderr.String())
	if msg != "" {
		return msg
	}
	var exitErr *exec.ExitError
	if errors.As(c.waitErr, &exitErr) {
		return exitErr.Error()
	}
	if c.waitErr != nil {
		return c.waitErr.Error()
	}
	return "no output"
}
