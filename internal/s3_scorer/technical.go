package s3_scorer

import (
	"fmt"

	"github.com/wonny/sniper/internal/contracts"
)

// Technical factor weights
const (
	MAStackPoints  = 30
	RVOLPoints     = 20
	NearHighPoints = 20
	ATRPoints      = 10

	RVOLThreshold     = 1.5  // strict >
	NearHighRatio     = 0.95 // inclusive >=
	ATRPriceThreshold = 0.05 // strict <
)

// maStack fires when SMA20 > SMA50 > SMA200
func maStack(bars []contracts.PriceBar) contracts.FactorOutcome {
	out := contracts.FactorOutcome{Factor: contracts.FactorMAStack}

	closes := Closes(bars)
	sma200, ok := SMA(closes, MALong)
	if !ok {
		out.Status = contracts.FactorInsufficient
		out.Explanation = "Not enough data for MA Stack"
		return out
	}
	sma20, _ := SMA(closes, MAShort)
	sma50, _ := SMA(closes, MAMedium)

	if sma20 > sma50 && sma50 > sma200 {
		out.Status = contracts.FactorFired
		out.Delta = MAStackPoints
		out.Explanation = fmt.Sprintf("MA Stack (20>50>200): +%d", MAStackPoints)
		return out
	}

	out.Status = contracts.FactorNotFired
	out.Explanation = fmt.Sprintf("No MA Stack (20=%.2f, 50=%.2f, 200=%.2f)", sma20, sma50, sma200)
	return out
}

// relativeVolume fires when today's volume is more than 1.5x the prior 14-session mean
func relativeVolume(bars []contracts.PriceBar) contracts.FactorOutcome {
	out := contracts.FactorOutcome{Factor: contracts.FactorRVOL}

	rvol, ok, avgZero := RelativeVolume(bars, RVOLPeriod)
	switch {
	case !ok:
		out.Status = contracts.FactorInsufficient
		out.Explanation = "Not enough data for RVOL"
	case avgZero:
		out.Status = contracts.FactorNeutral
		out.Explanation = "Avg Vol is 0"
	case rvol > RVOLThreshold:
		out.Status = contracts.FactorFired
		out.Delta = RVOLPoints
		out.Explanation = fmt.Sprintf("RVOL %.2f > 1.5: +%d", rvol, RVOLPoints)
	default:
		out.Status = contracts.FactorNotFired
		out.Explanation = fmt.Sprintf("RVOL %.2f <= 1.5", rvol)
	}
	return out
}

// nearHigh fires when the close is within 5% of the window high
func nearHigh(bars []contracts.PriceBar, price float64) contracts.FactorOutcome {
	out := contracts.FactorOutcome{Factor: contracts.FactorNearHigh}

	high := MaxHigh(bars)
	if price >= high*NearHighRatio {
		out.Status = contracts.FactorFired
		out.Delta = NearHighPoints
		out.Explanation = fmt.Sprintf("Price within 5%% of 52w High (%.2f): +%d", high, NearHighPoints)
		return out
	}

	out.Status = contracts.FactorNotFired
	out.Explanation = fmt.Sprintf("Price not near 52w High (%.2f)", high)
	return out
}

// atrStability fires when ATR(14) is under 5% of price
func atrStability(bars []contracts.PriceBar, price float64) contracts.FactorOutcome {
	out := contracts.FactorOutcome{Factor: contracts.FactorATR}

	atr, ok := ATR(bars, ATRPeriod)
	if !ok {
		out.Status = contracts.FactorInsufficient
		out.Explanation = "Not enough data for ATR"
		return out
	}

	limit := price * ATRPriceThreshold
	if atr < limit {
		out.Status = contracts.FactorFired
		out.Delta = ATRPoints
		out.Explanation = fmt.Sprintf("ATR (%.2f) < 5%% Price (%.2f): +%d", atr, limit, ATRPoints)
		return out
	}

	out.Status = contracts.FactorNotFired
	out.Explanation = fmt.Sprintf("ATR (%.2f) >= 5%% Price", atr)
	return out
}
