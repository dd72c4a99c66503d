package scheduler

import (
	"context"
	"time"
)

// Job is a unit the scheduler fires on a cron spec. The market scan is the
// only production job; Run returns the scan error so failed runs get retried.
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	Run(ctx context.Context) error

	// Schedule is a cron spec with a leading seconds field,
	// e.g. "0 30 16 * * 1-5" for weekdays after the US close, or "@every 1h"
	Schedule() string
}

// JobResult records one scheduled run including its retries
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// maxHistory keeps roughly five months of one scan per trading day
const maxHistory = 100

// JobHistory is the in-memory run log of one job, oldest first.
// It is lost on restart; the signals table is the durable record of a scan.
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a run and drops the oldest beyond maxHistory
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)

	if len(h.Results) > maxHistory {
		h.Results = h.Results[len(h.Results)-maxHistory:]
	}
}

// LastResult returns the most recent run
func (h *JobHistory) LastResult() (JobResult, bool) {
	if len(h.Results) == 0 {
		return JobResult{}, false
	}
	return h.Results[len(h.Results)-1], true
}

// GetLatestResults returns up to n most recent runs, oldest first
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// GetFailedResults returns the runs that failed after all retries
func (h *JobHistory) GetFailedResults() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// GetSuccessRate is the share of successful runs (0.0 - 1.0); 0 before the first run
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}
	return float64(len(h.Results)-len(h.GetFailedResults())) / float64(len(h.Results))
}
