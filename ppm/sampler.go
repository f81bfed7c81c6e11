package ppm

import "sync/atomic"

// Sampler is the hand-off point between the capture side, which may run in
// interrupt context, and the control loop. It is a sequence lock over
// atomics: the writer makes the sequence odd, stores every channel, then
// makes it even again; a reader retries until it sees the same even
// sequence before and after copying. Readers never observe a frame mixed
// from two publishes and the writer never blocks.
//
// There must be a single writer.
type Sampler struct {
	seq      atomic.Uint32
	channels [NumChannels]atomic.Uint32
	frames   atomic.Uint32
}

func NewSampler() *Sampler {
	s := &Sampler{}
	s.store(DefaultFrame)
	return s
}

// Publish clamps f and makes it the current snapshot.
func (s *Sampler) Publish(f Frame) {
	s.store(f)
	s.frames.Add(1)
}

func (s *Sampler) store(f Frame) {
	f = f.Clamped()
	s.seq.Add(1)
	for i, v := range f {
		s.channels[i].Store(uint32(v))
	}
	s.seq.Add(1)
}

// Snapshot returns a consistent copy of the latest published frame.
func (s *Sampler) Snapshot() Frame {
	for {
		begin := s.seq.Load()
		if begin&1 != 0 {
			continue
		}
		var f Frame
		for i := range f {
			f[i] = uint16(s.channels[i].Load())
		}
		if s.seq.Load() == begin {
			return f
		}
	}
}

// Frames returns how many frames have been published so far.
func (s *Sampler) Frames() uint32 { return s.frames.Load() }
