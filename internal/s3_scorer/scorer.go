package s3_scorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

// Config holds deep scorer settings
type Config struct {
	MinPrice      float64 // hard filter, strict <
	HistoryDays   int     // calendar days of daily history
	HeadlineCount int     // most recent headlines inspected
}

// DefaultConfig returns the standard scorer settings
func DefaultConfig() Config {
	return Config{
		MinPrice:      2.0,
		HistoryDays:   365,
		HeadlineCount: 3,
	}
}

// Scorer computes the composite score of one ticker
// ⭐ SSOT: S3 딥 스코어링은 여기서만
type Scorer struct {
	history   contracts.HistoryProvider
	news      contracts.NewsProvider
	reference contracts.ReferenceProvider
	config    Config
	logger    *logger.Logger
}

// New creates a new deep scorer
func New(history contracts.HistoryProvider, news contracts.NewsProvider, reference contracts.ReferenceProvider, config Config, log *logger.Logger) *Scorer {
	return &Scorer{
		history:   history,
		news:      news,
		reference: reference,
		config:    config,
		logger:    log,
	}
}

// NewFromProvider wires all collaborators from one market data provider
func NewFromProvider(p contracts.MarketDataProvider, config Config, log *logger.Logger) *Scorer {
	return New(p, p, p, config, log)
}

// Analyze scores one ticker. It never fails: errors and panics become a
// zero score with an "Error: ..." reason.
func (s *Scorer) Analyze(ctx context.Context, ticker string) (result contracts.ScoreBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithTicker(ticker).WithField("panic", r).Error("deep analysis panicked")
			result = failed(ticker, fmt.Errorf("%v", r))
		}
	}()

	sb, err := s.analyze(ctx, ticker)
	if err != nil {
		s.logger.WithTicker(ticker).WithError(err).Warn("deep analysis failed")
		return failed(ticker, err)
	}
	return *sb
}

func (s *Scorer) analyze(ctx context.Context, ticker string) (*contracts.ScoreBreakdown, error) {
	sb := &contracts.ScoreBreakdown{Ticker: ticker}

	bars, err := s.history.FetchHistory(ctx, ticker, s.config.HistoryDays)
	if err != nil && !errors.Is(err, contracts.ErrNoData) {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	bars = dropInvalid(bars)

	// Hard filter
	if len(bars) == 0 {
		sb.Add(contracts.FactorOutcome{
			Factor:      contracts.FactorHardFilter,
			Status:      contracts.FactorInsufficient,
			Explanation: "No data found",
		})
		return sb, nil
	}
	price := bars[len(bars)-1].Close
	if price < s.config.MinPrice {
		sb.Add(contracts.FactorOutcome{
			Factor:      contracts.FactorHardFilter,
			Status:      contracts.FactorFired,
			Explanation: fmt.Sprintf("Price $%.2f < $%s (Hard Filter)", price, formatMinPrice(s.config.MinPrice)),
		})
		return sb, nil
	}

	// 1-4. Technical
	sb.Add(maStack(bars))
	sb.Add(relativeVolume(bars))
	sb.Add(nearHigh(bars, price))
	sb.Add(atrStability(bars, price))

	// 5. News sentiment (fetch failure is neutral)
	headlines, err := s.news.FetchNews(ctx, ticker, s.config.HeadlineCount)
	if err != nil {
		s.logger.WithTicker(ticker).WithError(err).Debug("news unavailable")
		headlines = nil
	}
	sb.Add(sentiment(headlines, s.config.HeadlineCount))

	// 6. Analyst consensus
	// no coverage (ErrNoData) is neutral; only a failed lookup is reported
	ref, err := s.reference.FetchReference(ctx, ticker)
	if errors.Is(err, contracts.ErrNoData) {
		ref, err = &contracts.ReferenceData{}, nil
	}
	if err != nil || ref == nil {
		if err != nil {
			s.logger.WithTicker(ticker).WithError(err).Debug("analyst data unavailable")
		}
		sb.Add(analystUnavailable())
	} else {
		for _, o := range analyst(ref, price) {
			sb.Add(o)
		}
	}

	s.logger.WithTicker(ticker).WithFields(map[string]interface{}{
		"score": sb.FinalScore,
		"bars":  len(bars),
	}).Debug("deep analysis complete")

	return sb, nil
}

func failed(ticker string, err error) contracts.ScoreBreakdown {
	return contracts.ScoreBreakdown{
		Ticker: ticker,
		Factors: []contracts.FactorOutcome{{
			Factor:      contracts.FactorAnalysis,
			Status:      contracts.FactorFailed,
			Explanation: fmt.Sprintf("Error: %s", err),
		}},
	}
}

// formatMinPrice renders 2.0 as "2" and 2.5 as "2.50"
func formatMinPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
