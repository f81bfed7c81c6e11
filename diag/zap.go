//go:build !tinygo && !baremetal

package diag

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/txid"
)

// Zap logs scheduler events. Overrun lines are rate limited; the ones
// dropped are counted and reported with the next line that gets through.
type Zap struct {
	log        *zap.Logger
	limiter    *rate.Limiter
	suppressed uint64
}

// NewZap allows perSecond overrun lines with the given burst. A zero rate
// logs only the burst.
func NewZap(log *zap.Logger, perSecond float64, burst int) *Zap {
	if burst < 1 {
		burst = 1
	}
	return &Zap{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (z *Zap) Stage(s scheduler.Stage) {
	z.log.Debug("rebind", zap.Stringer("stage", s))
}

func (z *Zap) Selected(sel protocol.Selector, id txid.ID, renewed bool) {
	z.log.Info("protocol selected",
		zap.Stringer("protocol", sel),
		zap.Stringer("txid", id),
		zap.Bool("renewed", renewed),
	)
}

func (z *Zap) Tick(r scheduler.Report) {
	if r.Overrun == 0 {
		return
	}
	if !z.limiter.Allow() {
		z.suppressed++
		return
	}
	z.log.Warn("deadline overrun",
		zap.Stringer("protocol", r.Protocol),
		zap.Uint32("overrun_us", r.Overrun),
		zap.Uint64("suppressed", z.suppressed),
	)
	z.suppressed = 0
}

// Suppressed returns the overrun lines dropped since the last one logged.
func (z *Zap) Suppressed() uint64 { return z.suppressed }
