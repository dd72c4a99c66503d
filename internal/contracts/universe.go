package contracts

import "time"

// Universe is the ticker set resolved for one scan run
// ⭐ SSOT: S1 → S2 유니버스 전달
type Universe struct {
	Source    string            `json:"source"`
	Tickers   []string          `json:"tickers"`
	Rejected  map[string]string `json:"rejected,omitempty"` // symbol -> reason
	FetchedAt time.Time         `json:"fetched_at"`
}

// Count returns the number of tickers
func (u *Universe) Count() int {
	if u == nil {
		return 0
	}
	return len(u.Tickers)
}

// Contains checks if a ticker is in the universe
func (u *Universe) Contains(ticker string) bool {
	if u == nil {
		return false
	}
	for _, t := range u.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}
