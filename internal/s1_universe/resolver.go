package s1_universe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

// ErrEmptyUniverse means no source produced a tradable ticker; the run must abort
var ErrEmptyUniverse = errors.New("empty universe")

// Config holds resolver policy
type Config struct {
	// FallbackOnEmpty also falls back when the primary succeeds but cleans to nothing
	FallbackOnEmpty bool
}

// Resolver builds the scan universe from a primary and a fallback source
type Resolver struct {
	primary  contracts.UniverseSource
	fallback contracts.UniverseSource
	config   Config
	logger   *logger.Logger
	now      func() time.Time
}

// NewResolver creates a new Universe Resolver; fallback may be nil
func NewResolver(primary, fallback contracts.UniverseSource, config Config, log *logger.Logger) *Resolver {
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		config:   config,
		logger:   log,
		now:      time.Now,
	}
}

// Resolve returns the cleaned universe
// ⭐ SSOT: S1 유니버스 결정
//
// The fallback runs when the primary fails outright. When the primary
// succeeds but nothing survives cleaning, the fallback runs only if
// FallbackOnEmpty is set. An empty result always comes with ErrEmptyUniverse.
func (r *Resolver) Resolve(ctx context.Context) (*contracts.Universe, error) {
	universe, primaryErr := r.resolveFrom(ctx, r.primary)
	if primaryErr == nil && (universe.Count() > 0 || !r.config.FallbackOnEmpty) {
		if universe.Count() == 0 {
			r.logger.WithField("source", universe.Source).Warn("primary universe cleaned to empty, fallback disabled")
			return universe, fmt.Errorf("%w: %s cleaned to zero symbols", ErrEmptyUniverse, universe.Source)
		}
		return universe, nil
	}

	if primaryErr == nil {
		primaryErr = fmt.Errorf("%s cleaned to zero symbols", r.primary.Name())
	}
	r.logger.WithError(primaryErr).WithField("source", r.primary.Name()).Warn("primary universe source failed, falling back")

	if r.fallback == nil {
		return r.empty(), fmt.Errorf("%w: %w", ErrEmptyUniverse, primaryErr)
	}

	universe, fallbackErr := r.resolveFrom(ctx, r.fallback)
	if fallbackErr != nil {
		r.logger.WithError(fallbackErr).WithField("source", r.fallback.Name()).Error("fallback universe source failed")
		return r.empty(), fmt.Errorf("%w: %w", ErrEmptyUniverse, errors.Join(primaryErr, fallbackErr))
	}
	if universe.Count() == 0 {
		return universe, fmt.Errorf("%w: %s cleaned to zero symbols", ErrEmptyUniverse, universe.Source)
	}
	return universe, nil
}

func (r *Resolver) resolveFrom(ctx context.Context, src contracts.UniverseSource) (*contracts.Universe, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}

	tickers, rejected := CleanSymbols(raw)

	r.logger.WithFields(map[string]interface{}{
		"source":   src.Name(),
		"raw":      len(raw),
		"tickers":  len(tickers),
		"rejected": len(rejected),
	}).Info("universe fetched")

	return &contracts.Universe{
		Source:    src.Name(),
		Tickers:   tickers,
		Rejected:  rejected,
		FetchedAt: r.now(),
	}, nil
}

func (r *Resolver) empty() *contracts.Universe {
	return &contracts.Universe{Tickers: []string{}, FetchedAt: r.now()}
}
