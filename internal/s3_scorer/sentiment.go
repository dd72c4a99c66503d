package s3_scorer

import (
	"fmt"
	"strings"

	"github.com/wonny/sniper/internal/contracts"
)

// Headline keyword scoring
const (
	PositiveHeadlinePoints = 10
	NegativeHeadlinePoints = -20
)

var (
	positiveKeywords = []string{"upgrade", "buy", "surge", "jump", "growth", "beat", "record", "bull"}
	negativeKeywords = []string{"downgrade", "sell", "drop", "miss", "loss", "lawsuit", "crash"}
)

// HeadlineScore scores one title: at most one positive and one negative hit
func HeadlineScore(title string) int {
	t := strings.ToLower(title)
	score := 0
	if containsAny(t, positiveKeywords) {
		score += PositiveHeadlinePoints
	}
	if containsAny(t, negativeKeywords) {
		score += NegativeHeadlinePoints
	}
	return score
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// sentiment sums headline scores over the first limit headlines
func sentiment(headlines []contracts.Headline, limit int) contracts.FactorOutcome {
	out := contracts.FactorOutcome{Factor: contracts.FactorSentiment}

	if limit >= 0 && len(headlines) > limit {
		headlines = headlines[:limit]
	}
	total := 0
	for _, h := range headlines {
		total += HeadlineScore(h.Title)
	}

	out.Delta = total
	switch {
	case total > 0:
		out.Status = contracts.FactorFired
		out.Explanation = fmt.Sprintf("Positive News Sentiment: +%d", total)
	case total < 0:
		out.Status = contracts.FactorFired
		out.Explanation = fmt.Sprintf("Negative News Sentiment: %d", total)
	default:
		out.Status = contracts.FactorNeutral
		out.Explanation = "Neutral/No News Sentiment"
	}
	return out
}
