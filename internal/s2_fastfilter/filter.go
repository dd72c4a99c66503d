package s2_fastfilter

import (
	"context"
	"fmt"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

// Verdict is the per-ticker outcome of the liquidity gate
type Verdict string

const (
	Accepted Verdict = "accepted"
	Rejected Verdict = "rejected"
	NoData   Verdict = "no_data"
)

// Config holds the liquidity gate thresholds
type Config struct {
	MinPrice        float64 // 최소 종가 (inclusive)
	MinDollarVolume float64 // 최소 거래대금 close*volume (inclusive)
	Days            int     // 조회 거래일 수
}

// DefaultConfig returns the standard gate
func DefaultConfig() Config {
	return Config{
		MinPrice:        2.0,
		MinDollarVolume: 5_000_000,
		Days:            5,
	}
}

// BatchResult is the outcome of screening one batch
type BatchResult struct {
	Index     int
	Tickers   []string
	Survivors []contracts.FastFilterResult
	Verdicts  map[string]Verdict
	Err       error // bulk download failed; the whole batch is skipped
}

// Evaluated returns how many tickers had data to evaluate
func (r *BatchResult) Evaluated() int {
	n := 0
	for _, v := range r.Verdicts {
		if v != NoData {
			n++
		}
	}
	return n
}

// Filter applies the cheap price/liquidity gate to batches of tickers
type Filter struct {
	provider contracts.BarProvider
	config   Config
	logger   *logger.Logger
}

// New creates a new fast filter
func New(provider contracts.BarProvider, config Config, log *logger.Logger) *Filter {
	if config.Days <= 0 {
		config.Days = DefaultConfig().Days
	}
	return &Filter{provider: provider, config: config, logger: log}
}

// Screen downloads one batch in a single bulk call and gates every ticker
// ⭐ SSOT: S2 유동성 필터
func (f *Filter) Screen(ctx context.Context, index int, batch []string) BatchResult {
	result := BatchResult{
		Index:    index,
		Tickers:  batch,
		Verdicts: make(map[string]Verdict, len(batch)),
	}

	bars, err := f.provider.FetchDailyBars(ctx, batch, f.config.Days)
	if err != nil {
		result.Err = fmt.Errorf("bulk download batch %d: %w", index, err)
		return result
	}
	if len(bars) == 0 {
		result.Err = fmt.Errorf("bulk download batch %d: %w", index, contracts.ErrNoData)
		return result
	}

	for _, ticker := range batch {
		survivor, verdict := f.Evaluate(ticker, bars[ticker])
		result.Verdicts[ticker] = verdict
		if verdict == Accepted {
			result.Survivors = append(result.Survivors, survivor)
		}
	}

	return result
}

// Evaluate gates one ticker on its last available bar
func (f *Filter) Evaluate(ticker string, bars []contracts.PriceBar) (contracts.FastFilterResult, Verdict) {
	if len(bars) == 0 {
		return contracts.FastFilterResult{}, NoData
	}

	last := bars[len(bars)-1]
	if !isFinite(last.Close) || !isFinite(last.Volume) {
		return contracts.FastFilterResult{}, NoData
	}

	if last.Close < f.config.MinPrice || last.DollarVolume() < f.config.MinDollarVolume {
		return contracts.FastFilterResult{}, Rejected
	}

	return contracts.FastFilterResult{
		Ticker:    ticker,
		LastClose: last.Close,
		Volume:    last.Volume,
	}, Accepted
}

// Chunk splits tickers into consecutive batches of at most size
func Chunk(tickers []string, size int) [][]string {
	if size <= 0 {
		size = len(tickers)
	}
	if len(tickers) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(tickers)+size-1)/size)
	for start := 0; start < len(tickers); start += size {
		end := start + size
		if end > len(tickers) {
			end = len(tickers)
		}
		batches = append(batches, tickers[start:end])
	}
	return batches
}
