//go:build !tinygo && !baremetal

// Package serial feeds the channel sampler from a tty carrying one line of
// comma separated pulse widths per frame, the format the firmware's debug
// console accepts.
package serial

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/term"

	"github.com/ystepanoff/nrfmulti/ppm"
)

// DefaultBaud matches the firmware console.
const DefaultBaud = 115200

// Open opens dev in raw mode at the given speed.
func Open(dev string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	t, err := term.Open(dev, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev, err)
	}
	return t, nil
}

// Feed opens dev and publishes every line into s until ctx is cancelled or
// the device closes. The device is closed when ctx is done so a blocked
// read returns.
func Feed(ctx context.Context, dev string, baud int, s *ppm.Sampler) (ppm.LineStats, error) {
	rw, err := Open(dev, baud)
	if err != nil {
		return ppm.LineStats{}, err
	}

	stop := context.AfterFunc(ctx, func() { _ = rw.Close() })
	defer func() {
		if stop() {
			_ = rw.Close()
		}
	}()

	stats, err := ppm.ReadLines(ctx, rw, s)
	if ctx.Err() != nil {
		return stats, ctx.Err()
	}
	return stats, err
}
