package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

const maxSignalLimit = 500

// SignalLister reads stored signals
type SignalLister interface {
	ListByStatus(ctx context.Context, q contracts.SignalQuery) ([]*contracts.Signal, error)
}

// SignalHandler serves stored signals to dashboards
type SignalHandler struct {
	store  SignalLister
	logger *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(store SignalLister, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		store:  store,
		logger: log,
	}
}

// SignalItem is one signal with its reasons split into a list
type SignalItem struct {
	ID              string    `json:"id"`
	Ticker          string    `json:"ticker"`
	EntryPrice      float64   `json:"entryPrice"`
	ConfidenceScore float64   `json:"confidenceScore"`
	Reasons         []string  `json:"reasons"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SignalListResponse is the body of GET /api/signals
type SignalListResponse struct {
	Count   int          `json:"count"`
	Signals []SignalItem `json:"signals"`
}

// ParseSignalQuery reads status, order and limit query parameters
func ParseSignalQuery(r *http.Request) (contracts.SignalQuery, error) {
	q := contracts.SignalQuery{Status: contracts.SignalOpen, Order: contracts.OrderByScore}
	params := r.URL.Query()

	if s := params.Get("status"); s != "" {
		status, err := contracts.ParseSignalStatus(s)
		if err != nil {
			return q, err
		}
		q.Status = status
	}

	order, err := contracts.ParseSignalOrder(params.Get("order"))
	if err != nil {
		return q, err
	}
	q.Order = order

	if l := params.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			return q, fmt.Errorf("invalid limit %q", l)
		}
		if limit > maxSignalLimit {
			limit = maxSignalLimit
		}
		q.Limit = limit
	}

	return q, nil
}

// List returns signals filtered by status
// GET /api/signals?status=OPEN&order=score|created_at&limit=N
func (h *SignalHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseSignalQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	signals, err := h.store.ListByStatus(r.Context(), q)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list signals")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	items := make([]SignalItem, 0, len(signals))
	for _, s := range signals {
		reasons := s.ReasonList()
		if reasons == nil {
			reasons = []string{}
		}
		items = append(items, SignalItem{
			ID:              s.ID,
			Ticker:          s.Ticker,
			EntryPrice:      s.EntryPrice,
			ConfidenceScore: s.ConfidenceScore,
			Reasons:         reasons,
			Status:          string(s.Status),
			CreatedAt:       s.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, SignalListResponse{
		Count:   len(items),
		Signals: items,
	})
}
