// Package writing implements the timed writing panel: a one-second timer
// paired with word-count tracking against optional minimum and target
// thresholds.
package writing

import (
	"errors"
	"strings"
)

// NearTargetWords is the distance from TargetWords still considered on target.
const NearTargetWords = 20

// ErrInputClosed is returned by SetText once the time limit has been reached
// and the timer is not running.
var ErrInputClosed = errors.New("writing time is over")

// Panel is the per-view writing session. Zero thresholds are disabled.
type Panel struct {
	LimitSec    int
	TargetWords int
	MinWords    int

	text    string
	elapsed int
	running bool
}

// NewPanel builds a panel with the given thresholds.
func NewPanel(limitSec, targetWords, minWords int) *Panel {
	return &Panel{LimitSec: limitSec, TargetWords: targetWords, MinWords: minWords}
}

// Start begins timing. Starting a running panel is a no-op.
func (p *Panel) Start() {
	p.running = true
}

func (p *Panel) Stop() {
	p.running = false
}

// Reset stops the timer and clears elapsed time and text.
func (p *Panel) Reset() {
	p.Stop()
	p.elapsed = 0
	p.text = ""
}

// Tick advances the timer by one second and stops it on the tick that reaches
// the limit. It reports whether the timer stopped on this tick.
func (p *Panel) Tick() bool {
	if !p.running {
		return false
	}
	p.elapsed++
	if p.LimitSec > 0 && p.elapsed >= p.LimitSec {
		p.Stop()
		return true
	}
	return false
}

func (p *Panel) Running() bool { return p.running }
func (p *Panel) Elapsed() int { return p.elapsed }
func (p *Panel) Text() string { return p.text }

// SetText replaces the panel text unless input is closed.
func (p *Panel) SetText(s string) error {
	if p.Disabled() {
		return ErrInputClosed
	}
	p.text = s
	return nil
}

// Disabled reports whether input is closed: the limit has been reached and
// the timer is not running.
func (p *Panel) Disabled() bool {
	return p.LimitSec > 0 && !p.running && p.elapsed >= p.LimitSec
}

// WordCount counts whitespace-separated words.
func (p *Panel) WordCount() int {
	return CountWords(p.text)
}

// CountWords counts whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// MeetsMin is true when no minimum is set or the count reaches it.
func (p *Panel) MeetsMin() bool {
	if p.MinWords <= 0 {
		return true
	}
	return p.WordCount() >= p.MinWords
}

// NearTarget is true when a target is set and the count is within
// NearTargetWords of it.
func (p *Panel) NearTarget() bool {
	if p.TargetWords <= 0 {
		return false
	}
	d := p.WordCount() - p.TargetWords
	if d < 0 {
		d = -d
	}
	return d <= NearTargetWords
}

// TimePct is the elapsed share of the limit, floored and capped at 100.
func (p *Panel) TimePct() int {
	return floorPct(p.elapsed, p.LimitSec)
}

// WordPct is the word count as a share of the target, or of the minimum when
// no target is set.
func (p *Panel) WordPct() int {
	if p.TargetWords > 0 {
		return floorPct(p.WordCount(), p.TargetWords)
	}
	return floorPct(p.WordCount(), p.MinWords)
}

// Remaining is the number of seconds left, or 0 without a limit.
func (p *Panel) Remaining() int {
	if p.LimitSec <= 0 || p.elapsed >= p.LimitSec {
		return 0
	}
	return p.LimitSec - p.elapsed
}

func floorPct(n, of int) int {
	if of <= 0 {
		return 0
	}
	pct := n * 100 / of
	if pct > 100 {
		return 100
	}
	return pct
}
