package s3_scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

type fakeMarket struct {
	bars       []contracts.PriceBar
	historyErr error
	headlines  []contracts.Headline
	newsErr    error
	ref        *contracts.ReferenceData
	refErr     error
	panicOn    string

	newsCalls int
	refCalls  int
}

func (f *fakeMarket) FetchHistory(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error) {
	if ticker == f.panicOn {
		panic("index out of range")
	}
	return f.bars, f.historyErr
}

func (f *fakeMarket) FetchNews(ctx context.Context, ticker string, limit int) ([]contracts.Headline, error) {
	f.newsCalls++
	return f.headlines, f.newsErr
}

func (f *fakeMarket) FetchReference(ctx context.Context, ticker string) (*contracts.ReferenceData, error) {
	f.refCalls++
	if f.ref == nil && f.refErr == nil {
		return &contracts.ReferenceData{}, nil
	}
	return f.ref, f.refErr
}

func (f *fakeMarket) FetchDailyBars(ctx context.Context, tickers []string, days int) (map[string][]contracts.PriceBar, error) {
	return nil, nil
}

// risingBars closes from 50 upward by 0.2 per session, ranges of 1.0, and a last-session volume
func risingBars(n int, volume, lastVolume float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		c := 50 + float64(i)*0.2
		bars[i] = contracts.PriceBar{Open: c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: volume}
	}
	if n > 0 {
		bars[n-1].Volume = lastVolume
	}
	return bars
}

func newScorer(m *fakeMarket) *Scorer {
	return NewFromProvider(m, DefaultConfig(), logger.Nop())
}

func TestAnalyze_AllTechnicalFactorsFire(t *testing.T) {
	m := &fakeMarket{bars: risingBars(250, 1_000_000, 2_000_000)}

	sb := newScorer(m).Analyze(context.Background(), "UPUP")

	assert.Equal(t, "UPUP", sb.Ticker)
	assert.Equal(t, 80, sb.FinalScore)
	assert.Equal(t, []string{
		"MA Stack (20>50>200): +30",
		"RVOL 2.00 > 1.5: +20",
		"Price within 5% of 52w High (100.30): +20",
		"ATR (1.00) < 5% Price (4.99): +10",
		"Neutral/No News Sentiment",
	}, sb.Reasons())
}

func TestAnalyze_FactorOrderIsFixed(t *testing.T) {
	m := &fakeMarket{
		bars:      risingBars(250, 1_000_000, 1_000_000),
		headlines: []contracts.Headline{{Title: "Upgrade"}},
		ref:       &contracts.ReferenceData{TargetMeanPrice: ptr(200), RecommendationKey: "buy"},
	}

	sb := newScorer(m).Analyze(context.Background(), "ORDR")

	factors := make([]string, 0, len(sb.Factors))
	for _, f := range sb.Factors {
		factors = append(factors, f.Factor)
	}
	assert.Equal(t, []string{
		contracts.FactorMAStack,
		contracts.FactorRVOL,
		contracts.FactorNearHigh,
		contracts.FactorATR,
		contracts.FactorSentiment,
		contracts.FactorAnalystTgt,
		contracts.FactorAnalystRate,
	}, factors)
	// 30 + 0 + 20 + 10 + 10 + 10 + 5
	assert.Equal(t, 85, sb.FinalScore)
}

func TestAnalyze_ShortHistory(t *testing.T) {
	m := &fakeMarket{bars: risingBars(150, 1000, 1000)}

	sb := newScorer(m).Analyze(context.Background(), "YUNG")

	require.NotEmpty(t, sb.Factors)
	assert.Equal(t, contracts.FactorMAStack, sb.Factors[0].Factor)
	assert.Equal(t, 0, sb.Factors[0].Delta)
	assert.Equal(t, contracts.FactorInsufficient, sb.Factors[0].Status)
}

func TestAnalyze_PennyStockShortCircuits(t *testing.T) {
	m := &fakeMarket{bars: flatBars(250, 1.5)}

	sb := newScorer(m).Analyze(context.Background(), "PENY")

	assert.Equal(t, 0, sb.FinalScore)
	assert.Equal(t, []string{"Price $1.50 < $2 (Hard Filter)"}, sb.Reasons())
	assert.Len(t, sb.Factors, 1)
	assert.Equal(t, 0, m.newsCalls)
	assert.Equal(t, 0, m.refCalls)
}

func TestAnalyze_NoData(t *testing.T) {
	tests := []struct {
		name string
		m    *fakeMarket
	}{
		{"empty history", &fakeMarket{}},
		{"provider no data", &fakeMarket{historyErr: contracts.ErrNoData}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := newScorer(tt.m).Analyze(context.Background(), "NONE")
			assert.Equal(t, 0, sb.FinalScore)
			assert.Equal(t, "No data found", sb.ReasonsString())
		})
	}
}

func TestAnalyze_HistoryErrorBecomesReason(t *testing.T) {
	m := &fakeMarket{historyErr: errors.New("connection reset")}

	sb := newScorer(m).Analyze(context.Background(), "FAIL")

	assert.Equal(t, 0, sb.FinalScore)
	require.Len(t, sb.Reasons(), 1)
	assert.True(t, strings.HasPrefix(sb.Reasons()[0], "Error: "))
	assert.Contains(t, sb.Reasons()[0], "connection reset")
}

func TestAnalyze_PanicBecomesReason(t *testing.T) {
	m := &fakeMarket{panicOn: "BOOM"}

	var sb contracts.ScoreBreakdown
	assert.NotPanics(t, func() {
		sb = newScorer(m).Analyze(context.Background(), "BOOM")
	})
	assert.Equal(t, 0, sb.FinalScore)
	assert.Equal(t, "Error: index out of range", sb.ReasonsString())
}

func TestAnalyze_NewsAndAnalystFailuresDegrade(t *testing.T) {
	m := &fakeMarket{
		bars:    flatBars(30, 10),
		newsErr: errors.New("news 500"),
		refErr:  errors.New("quoteSummary: API error 500"),
	}

	sb := newScorer(m).Analyze(context.Background(), "FLAT")

	reasons := sb.Reasons()
	assert.Contains(t, reasons, "Neutral/No News Sentiment")
	assert.Equal(t, "No Analyst Data", reasons[len(reasons)-1])
	// flat prices: only near-high (+20) and ATR 0 < 0.5 (+10) fire
	assert.Equal(t, 30, sb.FinalScore)
}

func TestAnalyze_NoAnalystCoverageIsSilent(t *testing.T) {
	m := &fakeMarket{
		bars:   flatBars(30, 10),
		refErr: fmt.Errorf("quoteSummary ZZZZ: %w", contracts.ErrNoData),
	}

	sb := newScorer(m).Analyze(context.Background(), "ZZZZ")

	assert.NotContains(t, sb.Reasons(), "No Analyst Data")
	assert.Equal(t, "Neutral/No News Sentiment", sb.Reasons()[len(sb.Reasons())-1])
	for _, f := range sb.Factors {
		assert.NotEqual(t, contracts.FactorFailed, f.Status, f.Factor)
	}
	assert.Equal(t, 30, sb.FinalScore)
}

func TestAnalyze_NaNBarsDropped(t *testing.T) {
	bars := flatBars(20, 10)
	bars = append(bars, contracts.PriceBar{Close: nan()})

	sb := newScorer(&fakeMarket{bars: bars}).Analyze(context.Background(), "GAPS")
	assert.Equal(t, 30, sb.FinalScore)
}
