package contracts

import "strings"

// ReasonSeparator joins reasons at the storage boundary
const ReasonSeparator = "; "

// Factor names in evaluation order
const (
	FactorHardFilter  = "hard_filter"
	FactorMAStack     = "ma_stack"
	FactorRVOL        = "rvol"
	FactorNearHigh    = "near_52w_high"
	FactorATR         = "atr"
	FactorSentiment   = "news_sentiment"
	FactorAnalyst     = "analyst"
	FactorAnalystTgt  = "analyst_target"
	FactorAnalystRate = "analyst_rating"
	FactorAnalysis    = "analysis"
)

// FactorStatus is the outcome class of one factor
type FactorStatus string

const (
	FactorFired        FactorStatus = "fired"
	FactorNotFired     FactorStatus = "not_fired"
	FactorInsufficient FactorStatus = "insufficient_data"
	FactorNeutral      FactorStatus = "neutral"
	FactorFailed       FactorStatus = "failed"
)

// FactorOutcome is one entry of the reasons trail
// An empty Explanation contributes no text (silent outcome).
type FactorOutcome struct {
	Factor      string       `json:"factor"`
	Delta       int          `json:"delta"`
	Status      FactorStatus `json:"status"`
	Explanation string       `json:"explanation,omitempty"`
}

// ScoreBreakdown is the result of one deep analysis
// ⭐ SSOT: S3 → S4 점수 전달
type ScoreBreakdown struct {
	Ticker     string          `json:"ticker"`
	FinalScore int             `json:"final_score"`
	Factors    []FactorOutcome `json:"factors"`
}

// Reasons returns the non-empty explanations in factor order
func (s *ScoreBreakdown) Reasons() []string {
	reasons := make([]string, 0, len(s.Factors))
	for _, f := range s.Factors {
		if f.Explanation != "" {
			reasons = append(reasons, f.Explanation)
		}
	}
	return reasons
}

// ReasonsString renders the reasons trail as stored text
func (s *ScoreBreakdown) ReasonsString() string {
	return strings.Join(s.Reasons(), ReasonSeparator)
}

// Add appends an outcome and applies its delta
func (s *ScoreBreakdown) Add(o FactorOutcome) {
	s.Factors = append(s.Factors, o)
	s.FinalScore += o.Delta
}

// SplitReasons splits a stored reasons string back into entries
func SplitReasons(reasons string) []string {
	if reasons == "" {
		return nil
	}
	return strings.Split(reasons, ReasonSeparator)
}
