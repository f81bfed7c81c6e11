// Package nrfmulti provides a façade over the transmitter scheduler and the
// protocol modules it drives.
package nrfmulti

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/txid"
)

// The radio is chosen by build tag:
// - constructors_nrf.go - for embedded platforms (//go:build tinygo || baremetal)
// - constructors_host.go - for development/testing (//go:build !tinygo && !baremetal)

type (
	Module      = protocol.Module
	Selector    = protocol.Selector
	Info        = protocol.Info
	Transmitter = scheduler.Scheduler
	Options     = scheduler.Options
	Report      = scheduler.Report
	Observer    = scheduler.Observer
	Frame       = ppm.Frame
	Sampler     = ppm.Sampler
	ID          = txid.ID
)

var ErrUnknownProtocol = protocol.ErrUnknownProtocol

const (
	V2x2      = protocol.V2x2
	CG023     = protocol.CG023
	CX10Blue  = protocol.CX10Blue
	CX10Green = protocol.CX10Green
	H7        = protocol.H7
	Bayang    = protocol.Bayang
	SymaX5C1  = protocol.SymaX5C1
	YD829     = protocol.YD829
	H83D      = protocol.H83D
)
