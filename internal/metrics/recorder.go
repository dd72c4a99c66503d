package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sniper"

// Batch outcomes
const (
	BatchOK     = "ok"
	BatchFailed = "failed"
)

// Fast-filter verdict and emission outcome labels
const (
	SignalAccepted = "accepted"
	SignalSaved    = "saved"
	SignalFailed   = "failed"
)

// Recorder owns the scan metrics on a private registry
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	registry *prometheus.Registry

	universeSize     *prometheus.GaugeVec
	batches          *prometheus.CounterVec
	tickers          *prometheus.CounterVec
	signals          *prometheus.CounterVec
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	analysisDuration prometheus.Histogram
	lastRun          prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Recorder with every collector registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		universeSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "universe",
			Name:      "size",
			Help:      "Tickers in the last resolved universe",
		}, []string{"source"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fastfilter",
			Name:      "batches_total",
			Help:      "Fast-filter batches by outcome",
		}, []string{"outcome"}),
		tickers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fastfilter",
			Name:      "tickers_total",
			Help:      "Fast-filter tickers by verdict",
		}, []string{"verdict"}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "signals_total",
			Help:      "Signals by outcome",
		}, []string{"outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Scan runs by status",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Duration of a full scan run",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200, 1800, 3600},
		}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scorer",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one deep analysis",
			Buckets:   prometheus.DefBuckets,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last scan finished",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
		}, []string{"route", "method"}),
	}

	r.registry.MustRegister(
		r.universeSize, r.batches, r.tickers, r.signals, r.runs,
		r.runDuration, r.analysisDuration, r.lastRun,
		r.httpRequests, r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the private registry (tests, custom handlers)
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// UniverseResolved records the universe size per source
func (r *Recorder) UniverseResolved(source string, size int) {
	if r == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	r.universeSize.WithLabelValues(source).Set(float64(size))
}

// BatchDone records a batch outcome
func (r *Recorder) BatchDone(failed bool) {
	if r == nil {
		return
	}
	if failed {
		r.batches.WithLabelValues(BatchFailed).Inc()
		return
	}
	r.batches.WithLabelValues(BatchOK).Inc()
}

// TickerVerdict records one fast-filter verdict
func (r *Recorder) TickerVerdict(verdict string) {
	if r == nil {
		return
	}
	r.tickers.WithLabelValues(verdict).Inc()
}

// AnalysisDone records the duration of one deep analysis
func (r *Recorder) AnalysisDone(d time.Duration) {
	if r == nil {
		return
	}
	r.analysisDuration.Observe(d.Seconds())
}

// SignalOutcome records accepted/saved/failed emissions
func (r *Recorder) SignalOutcome(outcome string) {
	if r == nil {
		return
	}
	r.signals.WithLabelValues(outcome).Inc()
}

// RunDone records a finished (or aborted) scan
func (r *Recorder) RunDone(status string, d time.Duration, finishedAt time.Time) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(status).Inc()
	r.runDuration.Observe(d.Seconds())
	r.lastRun.Set(float64(finishedAt.Unix()))
}

// ObserveHTTP records one served request
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, http.StatusText(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
