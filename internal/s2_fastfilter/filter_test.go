package s2_fastfilter

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

type fakeBars struct {
	bars  map[string][]contracts.PriceBar
	err   error
	calls int
	days  int
}

func (f *fakeBars) FetchDailyBars(ctx context.Context, tickers []string, days int) (map[string][]contracts.PriceBar, error) {
	f.calls++
	f.days = days
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]contracts.PriceBar)
	for _, t := range tickers {
		if b, ok := f.bars[t]; ok {
			out[t] = b
		}
	}
	return out, nil
}

func bar(close, volume float64) contracts.PriceBar {
	return contracts.PriceBar{Open: close, High: close, Low: close, Close: close, Volume: volume}
}

func TestChunk(t *testing.T) {
	tickers := []string{"A", "B", "C", "D", "E"}

	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, Chunk(tickers, 2))
	assert.Equal(t, [][]string{{"A", "B", "C", "D", "E"}}, Chunk(tickers, 300))
	assert.Equal(t, [][]string{{"A", "B", "C", "D", "E"}}, Chunk(tickers, 0))
	assert.Nil(t, Chunk(nil, 300))
}

func TestEvaluate(t *testing.T) {
	f := New(nil, DefaultConfig(), logger.Nop())

	tests := []struct {
		name    string
		bars    []contracts.PriceBar
		verdict Verdict
	}{
		{"no bars", nil, NoData},
		{"nan close", []contracts.PriceBar{bar(math.NaN(), 1e7)}, NoData},
		{"nan volume", []contracts.PriceBar{bar(10, math.NaN())}, NoData},
		{"price below minimum", []contracts.PriceBar{bar(1.99, 1e9)}, Rejected},
		{"dollar volume below minimum", []contracts.PriceBar{bar(10, 499_999)}, Rejected},
		{"exact thresholds pass", []contracts.PriceBar{bar(2.0, 2_500_000)}, Accepted},
		{"uses last bar", []contracts.PriceBar{bar(1, 1), bar(50, 200_000)}, Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, verdict := f.Evaluate("XYZ", tt.bars)
			assert.Equal(t, tt.verdict, verdict)
			if verdict == Accepted {
				assert.Equal(t, "XYZ", res.Ticker)
				assert.Equal(t, tt.bars[len(tt.bars)-1].Close, res.LastClose)
			}
		})
	}
}

func TestScreen_MixedBatch(t *testing.T) {
	provider := &fakeBars{bars: map[string][]contracts.PriceBar{
		"LIQD": {bar(10, 100), bar(20, 1_000_000)},
		"THIN": {bar(20, 1_000)},
	}}
	f := New(provider, DefaultConfig(), logger.Nop())

	res := f.Screen(context.Background(), 1, []string{"LIQD", "THIN", "GONE"})
	require.NoError(t, res.Err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 5, provider.days)
	assert.Equal(t, []contracts.FastFilterResult{{Ticker: "LIQD", LastClose: 20, Volume: 1_000_000}}, res.Survivors)
	assert.Equal(t, map[string]Verdict{"LIQD": Accepted, "THIN": Rejected, "GONE": NoData}, res.Verdicts)
	assert.Equal(t, 2, res.Evaluated())
}

func TestScreen_BulkFailureSkipsBatch(t *testing.T) {
	provider := &fakeBars{err: errors.New("429 too many requests")}
	f := New(provider, DefaultConfig(), logger.Nop())

	res := f.Screen(context.Background(), 3, []string{"AAPL"})
	require.Error(t, res.Err)
	assert.Empty(t, res.Survivors)
	assert.Equal(t, 0, res.Evaluated())
}

func TestScreen_EmptyBulkResultSkipsBatch(t *testing.T) {
	provider := &fakeBars{bars: map[string][]contracts.PriceBar{}}
	f := New(provider, DefaultConfig(), logger.Nop())

	res := f.Screen(context.Background(), 1, []string{"AAPL", "MSFT"})
	assert.ErrorIs(t, res.Err, contracts.ErrNoData)
}
