package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sniper/internal/contracts"
	"github.com/wonny/sniper/pkg/logger"
)

type stubRunner struct {
	err   error
	calls int
}

func (s *stubRunner) Run(ctx context.Context) (*contracts.ScanSummary, error) {
	s.calls++
	if s.err != nil {
		return &contracts.ScanSummary{}, s.err
	}
	return &contracts.ScanSummary{Source: "nasdaq", UniverseSize: 10, Saved: 2}, nil
}

func TestScanJob(t *testing.T) {
	runner := &stubRunner{}
	job := NewScanJob(runner, "0 30 16 * * 1-5", logger.Nop())

	assert.Equal(t, "market_scan", job.Name())
	assert.Equal(t, "0 30 16 * * 1-5", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, runner.calls)
}

func TestScanJob_Error(t *testing.T) {
	cause := errors.New("scan aborted: empty universe")
	job := NewScanJob(&stubRunner{err: cause}, "@daily", logger.Nop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}
