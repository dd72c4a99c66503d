package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.UniverseResolved("nasdaq", 6000)
	r.BatchDone(false)
	r.BatchDone(false)
	r.BatchDone(true)
	r.TickerVerdict("accepted")
	r.TickerVerdict("rejected")
	r.TickerVerdict("rejected")
	r.SignalOutcome(SignalAccepted)
	r.SignalOutcome(SignalSaved)
	r.RunDone("success", 90*time.Second, time.Unix(1_700_000_000, 0))

	assert.Equal(t, 6000.0, testutil.ToFloat64(r.universeSize.WithLabelValues("nasdaq")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.batches.WithLabelValues(BatchOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.batches.WithLabelValues(BatchFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.tickers.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signals.WithLabelValues(SignalSaved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("success")))
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(r.lastRun))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.UniverseResolved("sp500", 500)
		r.BatchDone(true)
		r.TickerVerdict("no_data")
		r.AnalysisDone(time.Second)
		r.SignalOutcome(SignalFailed)
		r.RunDone("aborted", time.Second, time.Now())
		r.ObserveHTTP("/scan", "POST", 200, time.Second)
	})
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.ObserveHTTP("/scan", http.MethodPost, http.StatusOK, 2*time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `sniper_http_requests_total{method="POST",route="/scan",status="OK"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
