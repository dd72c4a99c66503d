package contracts

import (
	"fmt"
	"strings"
	"time"
)

// SignalStatus is the lifecycle state of a stored signal
type SignalStatus string

const (
	SignalOpen   SignalStatus = "OPEN"
	SignalClosed SignalStatus = "CLOSED"
)

// ParseSignalStatus validates a status string (case-insensitive)
func ParseSignalStatus(s string) (SignalStatus, error) {
	switch SignalStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case SignalOpen:
		return SignalOpen, nil
	case SignalClosed:
		return SignalClosed, nil
	}
	return "", fmt.Errorf("invalid signal status %q", s)
}

// SignalOrder selects the ordering of a signal query
type SignalOrder string

const (
	OrderByScore     SignalOrder = "score"
	OrderByCreatedAt SignalOrder = "created_at"
)

// ParseSignalOrder validates an order string; empty means score
func ParseSignalOrder(s string) (SignalOrder, error) {
	switch SignalOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderByScore:
		return OrderByScore, nil
	case OrderByCreatedAt:
		return OrderByCreatedAt, nil
	}
	return "", fmt.Errorf("invalid signal order %q", s)
}

// Signal is an accepted scan result persisted to the store
// ⭐ SSOT: S4 → Store 시그널 레코드
type Signal struct {
	ID              string       `json:"id,omitempty"`
	Ticker          string       `json:"ticker"`
	EntryPrice      float64      `json:"entry_price"`
	ConfidenceScore float64      `json:"confidence_score"`
	Reasons         string       `json:"reasons"`
	Status          SignalStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at,omitempty"`
}

// ReasonList splits the stored reasons text
func (s *Signal) ReasonList() []string {
	return SplitReasons(s.Reasons)
}

// SignalQuery filters ListByStatus
type SignalQuery struct {
	Status SignalStatus
	Order  SignalOrder
	Limit  int // 0 = no limit
}

// ScanSummary reports one pipeline run
type ScanSummary struct {
	Source        string        `json:"source"`
	UniverseSize  int           `json:"universe_size"`
	Batches       int           `json:"batches"`
	FailedBatches int           `json:"failed_batches"`
	Evaluated     int           `json:"evaluated"`
	Survivors     int           `json:"survivors"`
	Analyzed      int           `json:"analyzed"`
	Accepted      int           `json:"accepted"`
	Saved         int           `json:"saved"`
	SaveFailures  int           `json:"save_failures"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}
