package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReached(t *testing.T) {
	tests := []struct {
		name     string
		now      Micros
		deadline Micros
		want     bool
	}{
		{"before", 100, 200, false},
		{"equal", 200, 200, true},
		{"after", 300, 200, true},
		{"deadline wrapped, now not yet", 0xFFFFFF00, 0x00000100, false},
		{"both wrapped", 0x00000200, 0x00000100, true},
		{"now wrapped past deadline", 0x00000010, 0xFFFFFFF0, true},
		{"now just before wrap", 0xFFFFFFFF, 0x00000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reached(tt.now, tt.deadline))
		})
	}
}

func TestMicrosAddWraps(t *testing.T) {
	m := Micros(0xFFFFFFFF - 999)
	next := m.Add(6000)
	assert.Equal(t, Micros(5000), next)
	assert.Equal(t, int32(6000), next.Sub(m))
}

func TestSpinUntilCountsIterations(t *testing.T) {
	c := NewFakeClock(0, 10)
	spins := SpinUntil(c, 100)
	// reads at 0,10,...,90 are short of the deadline; the read at 100 ends it
	assert.Equal(t, uint32(10), spins)
}

func TestSpinUntilAcrossWrap(t *testing.T) {
	start := Micros(0xFFFFFFFF - 49)
	c := NewFakeClock(start, 1)
	deadline := start.Add(100)
	require.Less(t, uint32(deadline), uint32(start))

	spins := SpinUntil(c, deadline)
	assert.Equal(t, uint32(100), spins)
	assert.True(t, Reached(c.Now(), deadline))
}

func TestSpinUntilPastDeadline(t *testing.T) {
	c := NewFakeClock(500, 1)
	assert.Zero(t, SpinUntil(c, 400))
}

func TestDelay(t *testing.T) {
	c := NewFakeClock(1000, 5)
	Delay(c, 50)
	assert.True(t, Reached(c.Now(), 1050))
}

func TestSystemClockAdvances(t *testing.T) {
	c := NewSystemClockAt(0xFFFFFFFF - 100)
	first := c.Micros()
	time.Sleep(2 * time.Millisecond)
	second := c.Micros()
	assert.Greater(t, second.Sub(first), int32(1000))
}
