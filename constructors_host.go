//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing).
package nrfmulti

import (
	"github.com/ystepanoff/nrfmulti/driver/stub"
	"github.com/ystepanoff/nrfmulti/scheduler"
)

// NewTransmitter returns a scheduler transmitting into the stub radio unless
// opts carries another one.
func NewTransmitter(opts Options) *Transmitter {
	if opts.Radio == nil {
		opts.Radio = stub.New()
	}
	return scheduler.New(opts)
}
