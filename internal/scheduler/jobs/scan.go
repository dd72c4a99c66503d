package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

// ScanRunner runs one full pipeline pass
type ScanRunner interface {
	Run(ctx context.Context) (*contracts.ScanSummary, error)
}

// ScanJob runs the market scan on a cron schedule
// ⭐ SSOT: 정기 스캔 스케줄은 이 Job에서만
type ScanJob struct {
	runner   ScanRunner
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a new scan job
func NewScanJob(runner ScanRunner, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "market_scan"
}

// Schedule returns the cron schedule (default: weekdays 16:30, after the US close)
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one scan
func (j *ScanJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled market scan")

	summary, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("market scan: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"source":    summary.Source,
		"universe":  summary.UniverseSize,
		"survivors": summary.Survivors,
		"accepted":  summary.Accepted,
		"saved":     summary.Saved,
		"duration":  summary.Duration,
	}).Info("Scheduled market scan finished")

	return nil
}
