package contracts

import (
	"errors"
	"math"
	"time"
)

// ErrNoData is returned by providers when a ticker has no bars, news, or reference data
var ErrNoData = errors.New("no data")

// PriceBar is one daily session of one ticker
// Missing values are NaN, never zero-filled.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Valid reports whether every OHLCV field is a finite number
func (b PriceBar) Valid() bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DollarVolume returns close * volume
func (b PriceBar) DollarVolume() float64 {
	return b.Close * b.Volume
}

// Headline is a news item title for a ticker
type Headline struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// ReferenceData holds analyst consensus for a ticker
type ReferenceData struct {
	TargetMeanPrice   *float64 `json:"target_mean_price,omitempty"` // nil = not covered
	RecommendationKey string   `json:"recommendation_key,omitempty"`
}

// FastFilterResult is a ticker that passed the liquidity gate
// ⭐ SSOT: S2 → S3/S4 전달 (LastClose가 곧 entry price)
type FastFilterResult struct {
	Ticker    string  `json:"ticker"`
	LastClose float64 `json:"last_close"`
	Volume    float64 `json:"volume"`
}
