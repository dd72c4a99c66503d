package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

// Config holds the PostgREST endpoint of a hosted signal store
type Config struct {
	URL     string // project URL, e.g. https://xyz.supabase.co
	Key     string // service or anon key
	Table   string
	Timeout time.Duration
}

// Store implements contracts.SignalStore over the Supabase REST API
// ⭐ SSOT: Supabase 시그널 테이블 접근은 여기서만
type Store struct {
	client *resty.Client
	table  string
	logger *logger.Logger
}

// APIError is a non-2xx PostgREST response
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("supabase: HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Code)
}

// NewStore creates a new Supabase signal store
func NewStore(cfg Config, log *logger.Logger) (*Store, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	if cfg.Table == "" {
		cfg.Table = "sniper_signals"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")+"/rest/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.Key).
		SetAuthToken(cfg.Key).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(retryableRead)

	return &Store{
		client: client,
		table:  cfg.Table,
		logger: log,
	}, nil
}

// retryableRead retries reads on transport errors and 5xx. Inserts are never retried: a 502 after
// a committed POST would store the signal twice.
func retryableRead(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || r.StatusCode() >= http.StatusInternalServerError
}

type signalRow struct {
	ID              string    `json:"id,omitempty"`
	Ticker          string    `json:"ticker"`
	EntryPrice      float64   `json:"entry_price"`
	ConfidenceScore float64   `json:"confidence_score"`
	Reasons         *string   `json:"reasons"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

func (r signalRow) toSignal() *contracts.Signal {
	s := &contracts.Signal{
		ID:              r.ID,
		Ticker:          r.Ticker,
		EntryPrice:      r.EntryPrice,
		ConfidenceScore: r.ConfidenceScore,
		Status:          contracts.SignalStatus(r.Status),
		CreatedAt:       r.CreatedAt,
	}
	if r.Reasons != nil {
		s.Reasons = *r.Reasons
	}
	return s
}

// insertRow omits id and created_at so the table defaults apply
type insertRow struct {
	Ticker          string  `json:"ticker"`
	EntryPrice      float64 `json:"entry_price"`
	ConfidenceScore float64 `json:"confidence_score"`
	Reasons         string  `json:"reasons"`
	Status          string  `json:"status"`
}

// Insert stores one signal and fills ID and CreatedAt from the returned row
func (s *Store) Insert(ctx context.Context, signal *contracts.Signal) error {
	status := signal.Status
	if status == "" {
		status = contracts.SignalOpen
	}

	var created []signalRow
	apiErr := &APIError{}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(insertRow{
			Ticker:          signal.Ticker,
			EntryPrice:      signal.EntryPrice,
			ConfidenceScore: signal.ConfidenceScore,
			Reasons:         signal.Reasons,
			Status:          string(status),
		}).
		SetResult(&created).
		SetError(apiErr).
		Post("/" + s.table)
	if err != nil {
		return fmt.Errorf("insert signal %s: %w", signal.Ticker, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return fmt.Errorf("insert signal %s: %w", signal.Ticker, apiErr)
	}

	signal.Status = status
	if len(created) > 0 {
		signal.ID = created[0].ID
		signal.CreatedAt = created[0].CreatedAt
	}
	return nil
}

// ListByStatus returns signals with the given status in the requested order
func (s *Store) ListByStatus(ctx context.Context, q contracts.SignalQuery) ([]*contracts.Signal, error) {
	var rows []signalRow
	apiErr := &APIError{}
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(listParams(q)).
		SetResult(&rows).
		SetError(apiErr).
		Get("/" + s.table)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, fmt.Errorf("list signals: %w", apiErr)
	}

	signals := make([]*contracts.Signal, 0, len(rows))
	for _, r := range rows {
		signals = append(signals, r.toSignal())
	}
	return signals, nil
}

func listParams(q contracts.SignalQuery) map[string]string {
	status := q.Status
	if status == "" {
		status = contracts.SignalOpen
	}

	params := map[string]string{
		"select": "*",
		"status": "eq." + string(status),
	}
	switch q.Order {
	case contracts.OrderByCreatedAt:
		params["order"] = "created_at.desc"
	default:
		params["order"] = "confidence_score.desc,created_at.desc"
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	return params
}
