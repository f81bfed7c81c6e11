package ppm

import "time"

// SyncGap is the shortest interval treated as the gap between two PPM
// frames. Channel pulses never exceed about 2.1ms.
const SyncGap = 3 * time.Millisecond

// Decoder turns the intervals between successive PPM edges into frames.
// HandlePulse is meant to be called from the capture interrupt; it does not
// allocate and never blocks.
type Decoder struct {
	sampler *Sampler
	work    Frame
	next    int
	synced  bool
}

func NewDecoder(s *Sampler) *Decoder {
	return &Decoder{sampler: s, work: DefaultFrame}
}

// HandlePulse records the time between two consecutive edges of the same
// polarity. A sync gap publishes the channels collected since the previous
// gap; streams with fewer than NumChannels channels keep the remaining
// channels at their defaults.
func (d *Decoder) HandlePulse(width time.Duration) {
	if width >= SyncGap {
		if d.synced && d.next > 0 {
			d.sampler.Publish(d.work)
		}
		d.synced = true
		d.next = 0
		return
	}

	// ignore everything until the first sync, and any channels past the twelfth
	if !d.synced || d.next >= NumChannels {
		return
	}

	us := width / time.Microsecond
	if us > 0xFFFF {
		us = 0xFFFF
	}
	d.work[d.next] = Clamp(uint16(us))
	d.next++
}
