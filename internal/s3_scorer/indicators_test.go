package s3_scorer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sniper/internal/contracts"
)

func volumeBars(volumes ...float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, len(volumes))
	for i, v := range volumes {
		bars[i] = contracts.PriceBar{Open: 10, High: 10, Low: 10, Close: 10, Volume: v}
	}
	return bars
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSMA(t *testing.T) {
	v, ok := SMA([]float64{1, 2, 3, 4, 5}, 2)
	assert.True(t, ok)
	assert.InDelta(t, 4.5, v, 1e-9)

	_, ok = SMA([]float64{1, 2}, 3)
	assert.False(t, ok)

	_, ok = SMA([]float64{1, 2}, 0)
	assert.False(t, ok)
}

func TestTrueRange(t *testing.T) {
	bars := []contracts.PriceBar{
		{High: 10, Low: 8, Close: 9},
		{High: 12, Low: 11, Close: 11.5}, // gap up: |12-9| = 3
		{High: 11, Low: 7, Close: 8},     // gap down: |7-11.5| = 4.5
		{High: 8, Low: 7.5, Close: 7.8},  // |7.5-8| = 0.5, 8-7.5 = 0.5
	}
	assert.Equal(t, []float64{2, 3, 4.5, 0.5}, TrueRange(bars))
}

func TestATR(t *testing.T) {
	bars := make([]contracts.PriceBar, 15)
	for i := range bars {
		bars[i] = contracts.PriceBar{High: 101, Low: 99, Close: 100}
	}
	atr, ok := ATR(bars, 14)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, atr, 1e-9)

	_, ok = ATR(bars[:14], 14)
	assert.False(t, ok)
}

func TestRelativeVolume(t *testing.T) {
	tests := []struct {
		name      string
		bars      []contracts.PriceBar
		wantRatio float64
		wantOK    bool
		wantZero  bool
	}{
		{"double volume", volumeBars(append(repeat(1000, 14), 2000)...), 2.0, true, false},
		{"one and a half", volumeBars(append(repeat(1000, 14), 1500)...), 1.5, true, false},
		{"current session excluded from mean", volumeBars(append(append([]float64{1e9}, repeat(1000, 14)...), 3000)...), 3.0, true, false},
		{"zero average", volumeBars(append(repeat(0, 14), 500)...), 0, true, true},
		{"too short", volumeBars(repeat(1000, 14)...), 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, ok, zero := RelativeVolume(tt.bars, RVOLPeriod)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantZero, zero)
			assert.InDelta(t, tt.wantRatio, ratio, 1e-9)
		})
	}
}

func TestMaxHigh(t *testing.T) {
	bars := []contracts.PriceBar{{High: 5}, {High: 9}, {High: 7}}
	assert.Equal(t, 9.0, MaxHigh(bars))
	assert.True(t, math.IsInf(MaxHigh(nil), -1))
}

func TestDropInvalid(t *testing.T) {
	bars := []contracts.PriceBar{
		{Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
		{Open: 1, High: 1, Low: 1, Close: math.NaN(), Volume: 1},
		{Open: 2, High: 2, Low: 2, Close: 2, Volume: 2},
	}
	out := dropInvalid(bars)
	assert.Len(t, out, 2)
	assert.Equal(t, 2.0, out[1].Close)
}

func nan() float64 { return math.NaN() }
