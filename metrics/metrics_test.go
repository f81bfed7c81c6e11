//go:build !tinygo && !baremetal

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/txid"
)

var _ scheduler.Observer = (*Observer)(nil)

func TestObserverCounts(t *testing.T) {
	o := NewObserver(prometheus.NewRegistry())

	o.Selected(protocol.H7, txid.ID{}, false)
	o.Selected(protocol.Bayang, txid.ID{}, true)
	o.Tick(scheduler.Report{Spins: 40})
	o.Tick(scheduler.Report{Overrun: 120})
	o.Tick(scheduler.Report{Overrun: 80})

	assert.Equal(t, 3.0, testutil.ToFloat64(o.Ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Rebinds.WithLabelValues("h7")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Rebinds.WithLabelValues("bayang")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Renewals))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.Overruns))
	assert.Equal(t, 200.0, testutil.ToFloat64(o.OverrunUS))
	assert.Equal(t, float64(protocol.Bayang), testutil.ToFloat64(o.Active))
	assert.Equal(t, 1, testutil.CollectAndCount(o.Spins))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	o := NewObserver(reg)
	o.Tick(scheduler.Report{})

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "nrfmulti_ticks_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
