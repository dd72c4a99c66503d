package s3_scorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/sniper/internal/contracts"
)

// Analyst factor weights
const (
	AnalystUpsidePoints    = 10
	AnalystOvervaluedDelta = -10
	AnalystRatingPoints    = 5
	AnalystUpsideRatio     = 1.20 // strict >
)

// analyst scores target upside and rating; both sub-factors are silent when they don't fire
func analyst(ref *contracts.ReferenceData, price float64) []contracts.FactorOutcome {
	target := contracts.FactorOutcome{Factor: contracts.FactorAnalystTgt, Status: contracts.FactorNeutral}
	if ref.TargetMeanPrice != nil {
		tp := *ref.TargetMeanPrice
		switch {
		case tp > price*AnalystUpsideRatio:
			target.Status = contracts.FactorFired
			target.Delta = AnalystUpsidePoints
			target.Explanation = fmt.Sprintf("Analyst Upside > 20%% (Target $%s): +%d", formatPrice(tp), AnalystUpsidePoints)
		case price > tp:
			target.Status = contracts.FactorFired
			target.Delta = AnalystOvervaluedDelta
			target.Explanation = fmt.Sprintf("Price > Analyst Target ($%s): %d", formatPrice(tp), AnalystOvervaluedDelta)
		default:
			target.Status = contracts.FactorNotFired
		}
	}

	rating := contracts.FactorOutcome{Factor: contracts.FactorAnalystRate, Status: contracts.FactorNeutral}
	rec := NormalizeRecommendation(ref.RecommendationKey)
	if rec == "buy" || rec == "strong_buy" {
		rating.Status = contracts.FactorFired
		rating.Delta = AnalystRatingPoints
		rating.Explanation = fmt.Sprintf("Analyst Rating '%s': +%d", rec, AnalystRatingPoints)
	} else if rec != "" {
		rating.Status = contracts.FactorNotFired
	}

	return []contracts.FactorOutcome{target, rating}
}

// analystUnavailable is recorded when the reference lookup itself fails
func analystUnavailable() contracts.FactorOutcome {
	return contracts.FactorOutcome{
		Factor:      contracts.FactorAnalyst,
		Status:      contracts.FactorFailed,
		Explanation: "No Analyst Data",
	}
}

// NormalizeRecommendation lowercases and maps spaces/hyphens to '_' ("Strong Buy" -> "strong_buy")
func NormalizeRecommendation(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

// formatPrice prints a float the way it reads in a quote: 150 -> "150.0", 187.25 -> "187.25"
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
