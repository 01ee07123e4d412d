package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/kscan/internal/collect"
	"github.com/wonny/kscan/internal/universe"
	"github.com/wonny/kscan/pkg/logger"
)

// CollectJob refreshes the daily bar history for the scan universe
// ⭐ SSOT: 일봉 수집 스케줄은 이 Job에서만
type CollectJob struct {
	builder   *universe.Builder
	collector *collect.Collector
	cfg       collect.Config
	schedule  string
	logger    *logger.Logger
}

// NewCollectJob creates a new collect job
func NewCollectJob(builder *universe.Builder, collector *collect.Collector, cfg collect.Config, schedule string, log *logger.Logger) *CollectJob {
	return &CollectJob{
		builder:   builder,
		collector: collector,
		cfg:       cfg,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *CollectJob) Name() string {
	return "collect"
}

// Schedule returns the cron schedule expression
func (j *CollectJob) Schedule() string {
	return j.schedule
}

// Run executes the collection for every instrument in the universe
func (j *CollectJob) Run(ctx context.Context) error {
	instruments, err := j.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build universe: %w", err)
	}

	results, err := j.collector.CollectAll(ctx, instruments, j.cfg)
	if err != nil {
		return fmt.Errorf("collect bars: %w", err)
	}

	failCount := 0
	for _, r := range results {
		if r.Error != nil {
			failCount++
		}
	}
	// 절반 이상 실패하면 소스 장애로 보고 작업 실패 처리
	if failCount > len(results)/2 {
		return fmt.Errorf("collection mostly failed: %d/%d instruments", failCount, len(results))
	}

	return nil
}
