package scheduler

import (
	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

// Stage marks progress through a rebind.
type Stage uint8

const (
	StageSelecting Stage = iota
	StageSelected
	StageThrottleWait
	StageRadioReset
	StageRadioInit
	StageProtocolInit
)

var stageText = [...]string{
	StageSelecting:    "selecting protocol",
	StageSelected:     "selected protocol.",
	StageThrottleWait: "waiting for safe throttle.",
	StageRadioReset:   "nrf24l01 reset.",
	StageRadioInit:    "nrf24l01 init.",
	StageProtocolInit: "init protocol.",
}

func (s Stage) String() string {
	if int(s) < len(stageText) {
		return stageText[s]
	}
	return "unknown stage"
}

// Report describes one tick.
type Report struct {
	Protocol protocol.Selector
	Rebind   bool
	Deadline timing.Micros
	// Spins counts wait loop iterations before the deadline; it is the
	// slack left after processing.
	Spins uint32
	// Overrun is how many µs past the deadline processing finished, zero
	// when the tick was on time.
	Overrun uint32
}

// Observer receives scheduler progress. Calls happen on the scheduler's
// goroutine and must not block for long: the packet cadence waits on them.
type Observer interface {
	Stage(s Stage)
	Selected(sel protocol.Selector, id txid.ID, renewed bool)
	Tick(r Report)
}

// Observers fans out to each element in order.
type Observers []Observer

func (o Observers) Stage(s Stage) {
	for _, ob := range o {
		ob.Stage(s)
	}
}

func (o Observers) Selected(sel protocol.Selector, id txid.ID, renewed bool) {
	for _, ob := range o {
		ob.Selected(sel, id, renewed)
	}
}

func (o Observers) Tick(r Report) {
	for _, ob := range o {
		ob.Tick(r)
	}
}

type nopObserver struct{}

func (nopObserver) Stage(Stage)                               {}
func (nopObserver) Selected(protocol.Selector, txid.ID, bool) {}
func (nopObserver) Tick(Report)                               {}
