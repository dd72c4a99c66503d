package s3_scorer

import (
	"math"

	"github.com/wonny/sniper/internal/contracts"
)

// Indicator windows
const (
	MAShort    = 20
	MAMedium   = 50
	MALong     = 200
	RVOLPeriod = 14
	ATRPeriod  = 14
)

// SMA returns the simple moving average of the trailing n values
func SMA(values []float64, n int) (float64, bool) {
	if n <= 0 || len(values) < n {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n), true
}

// Closes extracts the close series
func Closes(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// TrueRange returns the true range per session.
// The first session has no previous close, so its range is high-low.
func TrueRange(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr = math.Max(tr, math.Abs(b.High-prev))
			tr = math.Max(tr, math.Abs(b.Low-prev))
		}
		out[i] = tr
	}
	return out
}

// ATR returns the n-session average true range ending at the last bar.
// Needs n+1 bars so every averaged range has a previous close.
func ATR(bars []contracts.PriceBar, n int) (float64, bool) {
	if n <= 0 || len(bars) < n+1 {
		return 0, false
	}
	return SMA(TrueRange(bars), n)
}

// RelativeVolume is last-session volume over the mean of the n sessions before it.
// ok is false with fewer than n+1 bars; avgZero is true when the divisor is zero.
func RelativeVolume(bars []contracts.PriceBar, n int) (ratio float64, ok bool, avgZero bool) {
	if n <= 0 || len(bars) < n+1 {
		return 0, false, false
	}

	last := len(bars) - 1
	sum := 0.0
	for _, b := range bars[last-n : last] {
		sum += b.Volume
	}
	avg := sum / float64(n)
	if avg == 0 {
		return 0, true, true
	}
	return bars[last].Volume / avg, true, false
}

// MaxHigh returns the highest high over all bars
func MaxHigh(bars []contracts.PriceBar) float64 {
	high := math.Inf(-1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
	}
	return high
}

// dropInvalid removes bars with missing OHLCV values, keeping order
func dropInvalid(bars []contracts.PriceBar) []contracts.PriceBar {
	out := make([]contracts.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Valid() {
			out = append(out, b)
		}
	}
	return out
}
