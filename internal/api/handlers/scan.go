package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/internal/scanner"
	"github.com/wonny/sniper/pkg/logger"
)

// ServiceName is reported by the health endpoint
const ServiceName = "Sniper Bot Scanner"

// ScanRunner runs one full pipeline pass
type ScanRunner interface {
	Run(ctx context.Context) (*contracts.ScanSummary, error)
}

// ScanHandler exposes the synchronous scan trigger
// ⭐ SSOT: 스캔 트리거 API는 여기서만
type ScanHandler struct {
	runner ScanRunner
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(runner ScanRunner, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		runner: runner,
		logger: log,
	}
}

// Scan runs a full market scan and reports the outcome
// GET|POST /scan
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	// the run outlives a disconnected client
	ctx := context.WithoutCancel(r.Context())

	summary, err := h.runner.Run(ctx)
	switch {
	case errors.Is(err, scanner.ErrScanInProgress):
		respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Scan request failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "Market scan completed successfully.",
		Summary: summary,
	})
}

// Health reports liveness
// GET / and GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}
