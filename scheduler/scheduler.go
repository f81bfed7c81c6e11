// Package scheduler runs the transmit loop: it decides when to rebind,
// drives the active protocol module and holds the packet cadence.
package scheduler

import (
	"context"

	"github.com/ystepanoff/nrfmulti/eeprom"
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/radio"
	"github.com/ystepanoff/nrfmulti/selection"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

// DefaultProtocol is selected when no policy is configured.
const DefaultProtocol = protocol.CX10Blue

// throttlePoll is how long to wait between safe-throttle checks.
const throttlePoll = 100000

// Factory builds a protocol module. protocol.New is the default.
type Factory func(sel protocol.Selector, r radio.Radio, c timing.Clock) protocol.Module

// Options wires a Scheduler. Only Radio is required.
type Options struct {
	Sampler  *ppm.Sampler
	Radio    radio.Radio
	Clock    timing.Clock
	Storage  eeprom.Store
	Identity *txid.Store // defaults to a store over Storage
	Policy   selection.Policy
	Factory  Factory
	Observer Observer

	// WaitSafeThrottle holds a rebind until the throttle is down.
	WaitSafeThrottle bool
}

// Scheduler owns the active protocol module. It is not safe for concurrent
// use; only the Sampler is shared with the input side.
type Scheduler struct {
	opts Options

	module    protocol.Module
	active    protocol.Selector
	id        txid.ID
	resetHeld bool
	ticks     uint64
}

func New(opts Options) *Scheduler {
	if opts.Radio == nil {
		panic("scheduler: nil radio")
	}
	if opts.Sampler == nil {
		opts.Sampler = ppm.NewSampler()
	}
	if opts.Clock == nil {
		opts.Clock = timing.NewSystemClock()
	}
	if opts.Storage == nil {
		opts.Storage = eeprom.NewMemory()
	}
	if opts.Identity == nil {
		opts.Identity = txid.NewStore(opts.Storage, txid.NewRand(txid.NoiseSeed()))
	}
	if opts.Policy == nil {
		opts.Policy = selection.Static(DefaultProtocol)
	}
	if opts.Factory == nil {
		opts.Factory = protocol.New
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Scheduler{opts: opts}
}

// Tick runs one iteration: rebind if asked, send one packet, then wait
// for the packet's deadline.
func (s *Scheduler) Tick() Report {
	f := s.opts.Sampler.Snapshot()

	// The reset channel rebinds once per press, not once per tick.
	held := f.Flag(ppm.Aux8)
	rebind := s.module == nil || (held && !s.resetHeld)
	s.resetHeld = held

	if rebind {
		f = s.rebind(f, held)
	}

	r := Report{Protocol: s.active, Rebind: rebind}
	r.Deadline = s.module.Process(f)
	if late := s.opts.Clock.Micros().Sub(r.Deadline); late > 0 {
		r.Overrun = uint32(late)
	}
	r.Spins = timing.SpinUntil(s.opts.Clock, r.Deadline)
	s.ticks++

	s.opts.Observer.Tick(r)
	return r
}

// Run ticks until ctx is done. Cancellation is seen between ticks only.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Tick()
	}
}

// rebind selects, persists and binds a protocol. It returns the frame the
// first data packet should carry.
func (s *Scheduler) rebind(f ppm.Frame, requested bool) ppm.Frame {
	obs := s.opts.Observer
	obs.Stage(StageSelecting)

	persisted := protocol.Selector(s.opts.Storage.Read(eeprom.ProtocolID))
	sel := protocol.Clamp(uint8(s.opts.Policy.Resolve(f, persisted)))

	renew := requested || selection.RenewGesture(f)
	if renew {
		s.id = s.opts.Identity.Renew()
	} else {
		s.id = s.opts.Identity.Load()
	}
	s.opts.Storage.Update(eeprom.ProtocolID, byte(sel))
	s.active = sel
	obs.Selected(sel, s.id, renew)
	obs.Stage(StageSelected)

	if s.opts.WaitSafeThrottle && f[ppm.Throttle] > ppm.SafeThrottle {
		obs.Stage(StageThrottleWait)
		for f[ppm.Throttle] > ppm.SafeThrottle {
			timing.Delay(s.opts.Clock, throttlePoll)
			f = s.opts.Sampler.Snapshot()
		}
	}

	_ = s.opts.Radio.Reset()
	obs.Stage(StageRadioReset)
	_ = s.opts.Radio.Initialize(protocol.Lookup(sel).Config)
	obs.Stage(StageRadioInit)

	m := s.opts.Factory(sel, s.opts.Radio, s.opts.Clock)
	if m == nil {
		m = protocol.New(sel, s.opts.Radio, s.opts.Clock)
	}
	m.Init()
	m.Bind(s.id)
	s.module = m
	obs.Stage(StageProtocolInit)
	return f
}

// Active returns the protocol selected by the last rebind.
func (s *Scheduler) Active() protocol.Selector { return s.active }

// Identity returns the transmitter id the active module was bound with.
func (s *Scheduler) Identity() txid.ID { return s.id }

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() uint64 { return s.ticks }
