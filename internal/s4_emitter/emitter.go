package s4_emitter

import (
	"context"
	"fmt"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

// DefaultThreshold is the minimum score to beat (strict >)
const DefaultThreshold = 75

// Result is the outcome of one emission attempt
type Result struct {
	Ticker   string
	Accepted bool              // score cleared the threshold
	Signal   *contracts.Signal // nil when not accepted
	Err      error             // store write failed
}

// Saved reports whether the signal reached the store
func (r Result) Saved() bool {
	return r.Accepted && r.Err == nil
}

// Emitter gates scored tickers and forwards accepted signals to the store
type Emitter struct {
	store     contracts.SignalStore
	threshold int
	logger    *logger.Logger
}

// New creates a new signal emitter
func New(store contracts.SignalStore, threshold int, log *logger.Logger) *Emitter {
	return &Emitter{store: store, threshold: threshold, logger: log}
}

// Threshold returns the configured gate
func (e *Emitter) Threshold() int { return e.threshold }

// Accepts reports whether a score clears the gate
func (e *Emitter) Accepts(score int) bool {
	return score > e.threshold
}

// Emit stores an OPEN signal when the score clears the threshold.
// ⭐ SSOT: S4 시그널 생성 (entry price = fast filter 종가)
//
// The entry price is the fast-filter close, not the scorer's own price.
func (e *Emitter) Emit(ctx context.Context, survivor contracts.FastFilterResult, score contracts.ScoreBreakdown) Result {
	result := Result{Ticker: survivor.Ticker}
	if !e.Accepts(score.FinalScore) {
		return result
	}

	result.Accepted = true
	result.Signal = &contracts.Signal{
		Ticker:          survivor.Ticker,
		EntryPrice:      survivor.LastClose,
		ConfidenceScore: float64(score.FinalScore),
		Reasons:         score.ReasonsString(),
		Status:          contracts.SignalOpen,
	}

	if err := e.store.Insert(ctx, result.Signal); err != nil {
		result.Err = fmt.Errorf("store signal %s: %w", survivor.Ticker, err)
		return result
	}

	e.logger.WithTicker(survivor.Ticker).WithFields(map[string]interface{}{
		"score":       score.FinalScore,
		"entry_price": survivor.LastClose,
	}).Info("signal saved")

	return result
}
