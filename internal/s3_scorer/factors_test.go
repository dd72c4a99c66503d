package s3_scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sniper/internal/contracts"
)

func flatBars(n int, close float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		bars[i] = contracts.PriceBar{Open: close, High: close, Low: close, Close: close, Volume: 1000}
	}
	return bars
}

func TestMAStack_InsufficientBelow200Bars(t *testing.T) {
	for _, n := range []int{0, 1, 150, 199} {
		out := maStack(risingBars(n, 1000, 1000))
		assert.Equal(t, 0, out.Delta)
		assert.Equal(t, contracts.FactorInsufficient, out.Status)
		assert.Equal(t, "Not enough data for MA Stack", out.Explanation)
	}
}

func TestMAStack(t *testing.T) {
	out := maStack(risingBars(200, 1000, 1000))
	assert.Equal(t, MAStackPoints, out.Delta)
	assert.Equal(t, "MA Stack (20>50>200): +30", out.Explanation)

	out = maStack(flatBars(200, 10))
	assert.Equal(t, 0, out.Delta)
	assert.Equal(t, contracts.FactorNotFired, out.Status)
	assert.Equal(t, "No MA Stack (20=10.00, 50=10.00, 200=10.00)", out.Explanation)
}

func TestRelativeVolumeFactor(t *testing.T) {
	tests := []struct {
		name   string
		bars   []contracts.PriceBar
		delta  int
		reason string
	}{
		{"2x fires", volumeBars(append(repeat(1000, 14), 2000)...), 20, "RVOL 2.00 > 1.5: +20"},
		{"1.5x does not fire", volumeBars(append(repeat(1000, 14), 1500)...), 0, "RVOL 1.50 <= 1.5"},
		{"zero divisor neutral", volumeBars(append(repeat(0, 14), 10)...), 0, "Avg Vol is 0"},
		{"short history", volumeBars(repeat(1000, 10)...), 0, "Not enough data for RVOL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := relativeVolume(tt.bars)
			assert.Equal(t, tt.delta, out.Delta)
			assert.Equal(t, tt.reason, out.Explanation)
		})
	}
}

func TestNearHigh(t *testing.T) {
	bars := []contracts.PriceBar{{High: 100, Close: 90}, {High: 96, Close: 95}}

	out := nearHigh(bars, 95)
	assert.Equal(t, NearHighPoints, out.Delta, "boundary is inclusive")
	assert.Equal(t, "Price within 5% of 52w High (100.00): +20", out.Explanation)

	out = nearHigh(bars, 94.99)
	assert.Equal(t, 0, out.Delta)
	assert.Equal(t, "Price not near 52w High (100.00)", out.Explanation)
}

func TestATRStability(t *testing.T) {
	calm := make([]contracts.PriceBar, 15)
	for i := range calm {
		calm[i] = contracts.PriceBar{High: 101, Low: 99, Close: 100}
	}
	out := atrStability(calm, 100)
	assert.Equal(t, ATRPoints, out.Delta)
	assert.Equal(t, "ATR (2.00) < 5% Price (5.00): +10", out.Explanation)

	wild := make([]contracts.PriceBar, 15)
	for i := range wild {
		wild[i] = contracts.PriceBar{High: 106, Low: 94, Close: 100}
	}
	out = atrStability(wild, 100)
	assert.Equal(t, 0, out.Delta)
	assert.Equal(t, "ATR (12.00) >= 5% Price", out.Explanation)

	out = atrStability(wild[:10], 100)
	assert.Equal(t, "Not enough data for ATR", out.Explanation)
}

func TestHeadlineScore(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Analyst upgrade lifts shares", 10},
		{"Record growth, bulls cheer", 10},
		{"Shares DROP after earnings miss", -20},
		{"Buy now before the crash", -10},
		{"Company holds annual meeting", 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, HeadlineScore(tt.title))
		})
	}
}

func TestSentiment(t *testing.T) {
	headlines := []contracts.Headline{
		{Title: "Upgrade to buy"},
		{Title: "Surge continues"},
		{Title: "Lawsuit filed"},
		{Title: "Record quarter"}, // beyond limit
	}

	out := sentiment(headlines, 3)
	assert.Equal(t, 0, out.Delta)
	assert.Equal(t, "Neutral/No News Sentiment", out.Explanation)

	out = sentiment(headlines[:2], 3)
	assert.Equal(t, 20, out.Delta)
	assert.Equal(t, "Positive News Sentiment: +20", out.Explanation)

	out = sentiment([]contracts.Headline{{Title: "Buy before crash"}}, 3)
	assert.Equal(t, -10, out.Delta)
	assert.Equal(t, "Negative News Sentiment: -10", out.Explanation)

	out = sentiment(nil, 3)
	assert.Equal(t, contracts.FactorNeutral, out.Status)
}

func ptr(v float64) *float64 { return &v }

func TestAnalyst(t *testing.T) {
	tests := []struct {
		name    string
		ref     contracts.ReferenceData
		price   float64
		delta   int
		reasons []string
	}{
		{
			name:    "upside and strong buy",
			ref:     contracts.ReferenceData{TargetMeanPrice: ptr(150), RecommendationKey: "strong_buy"},
			price:   100,
			delta:   15,
			reasons: []string{"Analyst Upside > 20% (Target $150.0): +10", "Analyst Rating 'strong_buy': +5"},
		},
		{
			name:    "overvalued",
			ref:     contracts.ReferenceData{TargetMeanPrice: ptr(87.5), RecommendationKey: "hold"},
			price:   100,
			delta:   -10,
			reasons: []string{"Price > Analyst Target ($87.5): -10"},
		},
		{
			name:    "exactly 20 percent upside does not fire",
			ref:     contracts.ReferenceData{TargetMeanPrice: ptr(120)},
			price:   100,
			delta:   0,
			reasons: nil,
		},
		{
			name:    "rating normalized",
			ref:     contracts.ReferenceData{RecommendationKey: "Strong Buy"},
			price:   100,
			delta:   5,
			reasons: []string{"Analyst Rating 'strong_buy': +5"},
		},
		{
			name:    "missing data is silent",
			ref:     contracts.ReferenceData{},
			price:   100,
			delta:   0,
			reasons: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := &contracts.ScoreBreakdown{}
			for _, o := range analyst(&tt.ref, tt.price) {
				sb.Add(o)
			}
			assert.Equal(t, tt.delta, sb.FinalScore)
			if tt.reasons == nil {
				assert.Empty(t, sb.Reasons())
			} else {
				assert.Equal(t, tt.reasons, sb.Reasons())
			}
		})
	}
}

func TestNormalizeRecommendation(t *testing.T) {
	assert.Equal(t, "strong_buy", NormalizeRecommendation(" Strong-Buy "))
	assert.Equal(t, "buy", NormalizeRecommendation("BUY"))
	assert.Equal(t, "", NormalizeRecommendation(""))
}
