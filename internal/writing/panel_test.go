package writing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestTick_AutoStopsAtLimit(t *testing.T) {
	p := NewPanel(3, 0, 0)
	p.Start()

	assert.False(t, p.Tick())
	assert.False(t, p.Tick())
	assert.True(t, p.Tick())

	assert.False(t, p.Running())
	assert.Equal(t, 3, p.Elapsed())
	assert.False(t, p.Tick(), "stopped panel does not advance")
	assert.Equal(t, 3, p.Elapsed())
}

func TestTick_NoLimitKeepsRunning(t *testing.T) {
	p := NewPanel(0, 0, 0)
	p.Start()
	for i := 0; i < 500; i++ {
		p.Tick()
	}
	assert.True(t, p.Running())
	assert.Zero(t, p.TimePct())
	assert.False(t, p.Disabled())
}

func TestSetText_RejectedAfterLimit(t *testing.T) {
	p := NewPanel(1, 0, 0)
	require.NoError(t, p.SetText("before"))
	p.Start()
	p.Tick()

	assert.True(t, p.Disabled())
	assert.ErrorIs(t, p.SetText("after"), ErrInputClosed)
	assert.Equal(t, "before", p.Text())

	p.Start()
	assert.False(t, p.Disabled(), "restarting reopens input")
	assert.NoError(t, p.SetText("after"))
}

func TestReset_ClearsState(t *testing.T) {
	p := NewPanel(10, 0, 0)
	p.Start()
	p.Tick()
	require.NoError(t, p.SetText("some text"))

	p.Reset()

	assert.False(t, p.Running())
	assert.Zero(t, p.Elapsed())
	assert.Empty(t, p.Text())
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t "))
	assert.Equal(t, 3, CountWords(" one\ttwo\n three  "))
}

func TestThresholds(t *testing.T) {
	tests := []struct {
		name       string
		target     int
		min        int
		words      int
		meetsMin   bool
		nearTarget bool
		wordPct    int
	}{
		{"no thresholds", 0, 0, 5, true, false, 0},
		{"below min", 0, 150, 100, false, false, 66},
		{"at min", 0, 150, 150, true, false, 100},
		{"just outside target window", 250, 0, 229, true, false, 91},
		{"lower edge of target window", 250, 0, 230, true, true, 92},
		{"upper edge of target window", 250, 0, 270, true, true, 100},
		{"past target window", 250, 0, 271, true, false, 100},
		{"target wins over min", 200, 100, 100, true, false, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPanel(0, tc.target, tc.min)
			require.NoError(t, p.SetText(words(tc.words)))
			assert.Equal(t, tc.meetsMin, p.MeetsMin())
			assert.Equal(t, tc.nearTarget, p.NearTarget())
			assert.Equal(t, tc.wordPct, p.WordPct())
		})
	}
}

func TestTimePct_Floors(t *testing.T) {
	p := NewPanel(3, 0, 0)
	p.Start()
	p.Tick()
	assert.Equal(t, 33, p.TimePct())
	assert.Equal(t, 2, p.Remaining())
	p.Tick()
	assert.Equal(t, 66, p.TimePct())
	p.Tick()
	assert.Equal(t, 100, p.TimePct())
	assert.Zero(t, p.Remaining())
}
