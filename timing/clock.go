// Package timing provides the wrapping microsecond clock that the scheduler
// and the protocol modules pace packets against.
package timing

import "time"

// Micros is a microsecond timestamp from a free-running 32-bit counter.
// It wraps roughly every 71.6 minutes; compare with Reached or Sub, never
// with < or >.
type Micros uint32

// Add returns m advanced by us microseconds, wrapping at 2^32.
func (m Micros) Add(us uint32) Micros { return m + Micros(us) }

// Sub returns the signed distance m-o. Valid while the two timestamps are
// less than 2^31 µs apart.
func (m Micros) Sub(o Micros) int32 { return int32(uint32(m) - uint32(o)) }

// Reached reports whether now is at or past deadline.
func Reached(now, deadline Micros) bool { return now.Sub(deadline) >= 0 }

// Clock is a monotonic microsecond source.
type Clock interface {
	Micros() Micros
}

// SpinUntil busy-waits until c reaches deadline and returns the number of
// loop iterations spent waiting.
func SpinUntil(c Clock, deadline Micros) (spins uint32) {
	for !Reached(c.Micros(), deadline) {
		spins++
	}
	return spins
}

// Delay busy-waits for us microseconds.
func Delay(c Clock, us uint32) {
	SpinUntil(c, c.Micros().Add(us))
}

// SystemClock derives Micros from the runtime's monotonic clock.
type SystemClock struct {
	start  time.Time
	origin Micros
}

// NewSystemClock returns a clock that reads zero now.
func NewSystemClock() *SystemClock { return NewSystemClockAt(0) }

// NewSystemClockAt returns a clock that reads origin now. Starting close to
// 2^32 exercises the wraparound path early.
func NewSystemClockAt(origin Micros) *SystemClock {
	return &SystemClock{start: time.Now(), origin: origin}
}

func (c *SystemClock) Micros() Micros {
	return c.origin + Micros(uint32(time.Since(c.start)/time.Microsecond))
}
