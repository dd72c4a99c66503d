package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/sniper/pkg/config"
	"github.com/wonny/sniper/pkg/logger"
)

// Server serves the scan trigger and the signals API
// ⭐ SSOT: API 서버 설정은 이 파일에서만
type Server struct {
	httpServer  *http.Server
	logger      *logger.Logger
	env         string
	scanTimeout time.Duration
}

// New creates the API server.
// /scan answers only after the whole universe is processed, so the write
// deadline is SCAN_HTTP_TIMEOUT instead of a request-sized timeout.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      cfg.ScanHTTPTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger:      log,
		env:         cfg.Env,
		scanTimeout: cfg.ScanHTTPTimeout,
	}
}

// Addr is the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving until Shutdown
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"addr":         s.httpServer.Addr,
		"env":          s.env,
		"scan_timeout": s.scanTimeout.String(),
	}).Info("Starting scanner API")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests. A /scan already in flight keeps its
// connection until the run ends or ctx expires; the run itself is detached
// from the request and is not canceled here.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down scanner API")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
