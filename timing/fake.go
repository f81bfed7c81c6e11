package timing

import "sync/atomic"

// FakeClock is a deterministic Clock for tests and dry runs. Every call to
// Micros returns the current value and then advances it by the step, so a
// spin loop against a FakeClock always terminates when step > 0.
type FakeClock struct {
	now  atomic.Uint32
	step atomic.Uint32
}

func NewFakeClock(start Micros, step uint32) *FakeClock {
	c := &FakeClock{}
	c.now.Store(uint32(start))
	c.step.Store(step)
	return c
}

func (c *FakeClock) Micros() Micros {
	step := c.step.Load()
	return Micros(c.now.Add(step) - step)
}

// Now returns the current value without advancing.
func (c *FakeClock) Now() Micros { return Micros(c.now.Load()) }

func (c *FakeClock) Set(m Micros) { c.now.Store(uint32(m)) }

func (c *FakeClock) Advance(us uint32) { c.now.Add(us) }

func (c *FakeClock) SetStep(us uint32) { c.step.Store(us) }
