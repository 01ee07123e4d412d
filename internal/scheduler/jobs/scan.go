package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/kscan/internal/scan"
	"github.com/wonny/kscan/pkg/logger"
)

// ScanJob runs the scan pipeline on schedule, after collection
// ⭐ SSOT: 스캔 스케줄은 이 Job에서만
type ScanJob struct {
	pipeline *scan.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a new scan job
func NewScanJob(pipeline *scan.Pipeline, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		pipeline: pipeline,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "scan"
}

// Schedule returns the cron schedule expression
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one scan cycle
func (j *ScanJob) Run(ctx context.Context) error {
	result, err := j.pipeline.Execute(ctx)
	if err != nil {
		return fmt.Errorf("scan pipeline: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"scanned": result.Scanned,
		"skipped": result.Skipped,
		"matches": result.Total(),
		"trend":   result.Regime.Trend,
	}).Info("Scheduled scan completed")
	return nil
}
