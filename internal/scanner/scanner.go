package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/internal/metrics"
	"github.com/wonny/sniper/internal/s1_universe"
	"github.com/wonny/sniper/internal/s2_fastfilter"
	"github.com/wonny/sniper/internal/s4_emitter"
	"github.com/wonny/sniper/pkg/logger"
)

// ErrScanInProgress is returned when Run is called while another run is active
var ErrScanInProgress = errors.New("scan already in progress")

// Run statuses recorded in metrics
const (
	StatusSuccess  = "success"
	StatusAborted  = "aborted"
	StatusCanceled = "canceled"
)

// UniverseResolver resolves the ticker universe (S1)
type UniverseResolver interface {
	Resolve(ctx context.Context) (*contracts.Universe, error)
}

// BatchScreener applies the fast filter to one batch (S2)
type BatchScreener interface {
	Screen(ctx context.Context, index int, batch []string) s2_fastfilter.BatchResult
}

// Analyzer scores one survivor (S3)
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) contracts.ScoreBreakdown
}

// SignalEmitter gates and stores a scored survivor (S4)
type SignalEmitter interface {
	Emit(ctx context.Context, survivor contracts.FastFilterResult, score contracts.ScoreBreakdown) s4_emitter.Result
}

// Config holds pipeline pacing
type Config struct {
	BatchSize  int
	BatchDelay time.Duration // pause between batches
}

// Scanner coordinates S1 → S2 → S3 → S4
// ⭐ SSOT: 스캔 파이프라인 조율은 여기서만
type Scanner struct {
	resolver UniverseResolver
	screener BatchScreener
	analyzer Analyzer
	emitter  SignalEmitter
	metrics  *metrics.Recorder
	config   Config
	logger   *logger.Logger

	running atomic.Bool
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// New creates a new scanner; rec may be nil
func New(
	resolver UniverseResolver,
	screener BatchScreener,
	analyzer Analyzer,
	emitter SignalEmitter,
	rec *metrics.Recorder,
	config Config,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		resolver: resolver,
		screener: screener,
		analyzer: analyzer,
		emitter:  emitter,
		metrics:  rec,
		config:   config,
		logger:   log,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

// Running reports whether a scan is active
func (s *Scanner) Running() bool {
	return s.running.Load()
}

// Run performs one full scan.
//
// It returns an error only when the universe is empty (the run is aborted),
// when another run is active, or when ctx is canceled between batches.
// Batch, ticker, and store failures are counted in the summary.
func (s *Scanner) Run(ctx context.Context) (*contracts.ScanSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.running.Store(false)

	summary := &contracts.ScanSummary{StartedAt: s.now()}

	// S1: Universe
	universe, err := s.resolver.Resolve(ctx)
	if err == nil && universe.Count() == 0 {
		err = s1_universe.ErrEmptyUniverse
	}
	if universe != nil {
		summary.Source = universe.Source
		summary.UniverseSize = universe.Count()
	}
	s.metrics.UniverseResolved(summary.Source, summary.UniverseSize)
	if err != nil {
		s.finish(summary, StatusAborted)
		s.logger.WithError(err).Error("no tickers resolved, scan aborted")
		return summary, fmt.Errorf("scan aborted: %w", err)
	}

	batches := s2_fastfilter.Chunk(universe.Tickers, s.config.BatchSize)
	summary.Batches = len(batches)

	s.logger.WithFields(map[string]interface{}{
		"source":   universe.Source,
		"universe": universe.Count(),
		"batches":  len(batches),
	}).Info("scan started")

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			s.finish(summary, StatusCanceled)
			return summary, err
		}

		s.runBatch(ctx, i+1, len(batches), batch, summary)

		if i < len(batches)-1 && s.config.BatchDelay > 0 {
			if err := s.sleep(ctx, s.config.BatchDelay); err != nil {
				s.finish(summary, StatusCanceled)
				return summary, err
			}
		}
	}

	s.finish(summary, StatusSuccess)

	s.logger.WithFields(map[string]interface{}{
		"universe":       summary.UniverseSize,
		"failed_batches": summary.FailedBatches,
		"survivors":      summary.Survivors,
		"accepted":       summary.Accepted,
		"saved":          summary.Saved,
		"duration":       summary.Duration.String(),
	}).Info("scan complete")

	return summary, nil
}

// runBatch screens one batch, then scores and emits its survivors
func (s *Scanner) runBatch(ctx context.Context, index, total int, batch []string, summary *contracts.ScanSummary) {
	log := s.logger.WithFields(map[string]interface{}{
		"batch": fmt.Sprintf("%d/%d", index, total),
		"size":  len(batch),
	})

	// S2: Fast filter
	res := s.screener.Screen(ctx, index, batch)
	if res.Err != nil {
		summary.FailedBatches++
		s.metrics.BatchDone(true)
		log.WithError(res.Err).Warn("batch skipped")
		return
	}
	s.metrics.BatchDone(false)
	for _, v := range res.Verdicts {
		s.metrics.TickerVerdict(string(v))
	}
	summary.Evaluated += res.Evaluated()
	summary.Survivors += len(res.Survivors)

	// S3 + S4: Deep scoring and emission
	saved := 0
	for _, survivor := range res.Survivors {
		started := s.now()
		score := s.analyzer.Analyze(ctx, survivor.Ticker)
		s.metrics.AnalysisDone(s.now().Sub(started))
		summary.Analyzed++

		out := s.emitter.Emit(ctx, survivor, score)
		if !out.Accepted {
			continue
		}
		summary.Accepted++
		s.metrics.SignalOutcome(metrics.SignalAccepted)

		if out.Err != nil {
			summary.SaveFailures++
			s.metrics.SignalOutcome(metrics.SignalFailed)
			log.WithTicker(survivor.Ticker).WithError(out.Err).Error("signal not saved")
			continue
		}
		saved++
		s.metrics.SignalOutcome(metrics.SignalSaved)
	}
	summary.Saved += saved

	log.WithFields(map[string]interface{}{
		"evaluated": res.Evaluated(),
		"survivors": len(res.Survivors),
		"saved":     saved,
	}).Info("batch complete")
}

func (s *Scanner) finish(summary *contracts.ScanSummary, status string) {
	end := s.now()
	summary.Duration = end.Sub(summary.StartedAt)
	s.metrics.RunDone(status, summary.Duration, end)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
