//go:build !tinygo && !baremetal

// Package metrics exports scheduler progress to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/txid"
)

// NewRegistry returns a registry carrying the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Observer implements scheduler.Observer over Prometheus collectors.
type Observer struct {
	Ticks     prometheus.Counter
	Rebinds   *prometheus.CounterVec // labels: protocol
	Renewals  prometheus.Counter
	Overruns  prometheus.Counter
	OverrunUS prometheus.Counter
	Spins     prometheus.Histogram
	Active    prometheus.Gauge
}

// NewObserver registers the scheduler collectors with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nrfmulti_ticks_total",
			Help: "Scheduler ticks completed.",
		}),
		Rebinds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nrfmulti_rebinds_total",
			Help: "Rebinds by selected protocol.",
		}, []string{"protocol"}),
		Renewals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nrfmulti_txid_renewals_total",
			Help: "Transmitter id renewals.",
		}),
		Overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nrfmulti_overruns_total",
			Help: "Ticks that finished past their deadline.",
		}),
		OverrunUS: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nrfmulti_overrun_microseconds_total",
			Help: "Accumulated lateness of overrun ticks.",
		}),
		Spins: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nrfmulti_wait_spins",
			Help:    "Wait loop iterations before each deadline.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nrfmulti_active_protocol",
			Help: "Selector of the active protocol.",
		}),
	}
	reg.MustRegister(o.Ticks, o.Rebinds, o.Renewals, o.Overruns, o.OverrunUS, o.Spins, o.Active)
	return o
}

func (o *Observer) Stage(scheduler.Stage) {}

func (o *Observer) Selected(sel protocol.Selector, _ txid.ID, renewed bool) {
	o.Rebinds.WithLabelValues(sel.String()).Inc()
	o.Active.Set(float64(sel))
	if renewed {
		o.Renewals.Inc()
	}
}

func (o *Observer) Tick(r scheduler.Report) {
	o.Ticks.Inc()
	o.Spins.Observe(float64(r.Spins))
	if r.Overrun > 0 {
		o.Overruns.Inc()
		o.OverrunUS.Add(float64(r.Overrun))
	}
}
