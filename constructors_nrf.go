//go:build tinygo || baremetal

// This file is built only for embedded targets (using real radio hardware).
package nrfmulti

import (
	"github.com/ystepanoff/nrfmulti/driver/nrf"
	"github.com/ystepanoff/nrfmulti/scheduler"
)

func NewTransmitter(opts Options) *Transmitter {
	if opts.Radio == nil {
		opts.Radio = nrf.New()
	}
	return scheduler.New(opts)
}
