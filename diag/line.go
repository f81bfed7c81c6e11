// Package diag turns scheduler progress into operator-facing output: plain
// lines for a UART console, structured logs and a logger factory for host
// runs.
package diag

import (
	"fmt"
	"io"

	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/txid"
)

// SlackThreshold is the spin count under which a tick is worth a line:
// the loop finished close to its deadline.
const SlackThreshold = 1000

// Line writes one short text line per event, the way a serial console
// expects it.
type Line struct {
	w io.Writer
}

func NewLine(w io.Writer) *Line { return &Line{w: w} }

func (l *Line) Stage(s scheduler.Stage) {
	fmt.Fprintln(l.w, s)
}

func (l *Line) Selected(sel protocol.Selector, id txid.ID, renewed bool) {
	if renewed {
		fmt.Fprintf(l.w, "protocol %s txid %s (new)\n", sel, id)
		return
	}
	fmt.Fprintf(l.w, "protocol %s txid %s\n", sel, id)
}

func (l *Line) Tick(r scheduler.Report) {
	switch {
	case r.Overrun > 0:
		fmt.Fprintf(l.w, "overrun %dus\n", r.Overrun)
	case r.Spins < SlackThreshold:
		fmt.Fprintln(l.w, r.Spins)
	}
}
