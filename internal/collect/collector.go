package collect

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/pkg/logger"
	"github.com/wonny/kscan/pkg/metrics"
)

// Fetcher pulls daily bars from the remote source
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error)
}

// BarStore persists fetched bars
type BarStore interface {
	SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error
}

// Collector refreshes the daily bar history for a set of instruments
// ⭐ SSOT: 일봉 일괄 수집은 이 패키지에서만
type Collector struct {
	fetcher Fetcher
	store   BarStore
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// Config holds collector configuration
type Config struct {
	Workers      int // 동시 수집 워커 수
	LookbackDays int // 수집할 거래일 수
}

// NewCollector creates a new Collector instance
func NewCollector(fetcher Fetcher, store BarStore, log *logger.Logger, m *metrics.Metrics) *Collector {
	return &Collector{
		fetcher: fetcher,
		store:   store,
		logger:  log.WithField("module", "collector"),
		metrics: m,
	}
}

// FetchResult represents the outcome for one instrument
type FetchResult struct {
	Symbol   string
	BarCount int
	Error    error
}

// CollectAll fetches and persists bars for every instrument.
// 개별 종목 실패는 결과에 기록되고 전체 수집은 계속된다.
func (c *Collector) CollectAll(ctx context.Context, instruments []contracts.Instrument, cfg Config) ([]FetchResult, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	to := time.Now()
	// 거래일 대비 달력일 여유
	from := to.AddDate(0, 0, -cfg.LookbackDays*8/5)

	c.logger.WithFields(map[string]interface{}{
		"count":   len(instruments),
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"workers": workers,
	}).Info("Starting bar collection")

	instCh := make(chan contracts.Instrument, len(instruments))
	resultCh := make(chan FetchResult, len(instruments))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, instCh, resultCh, from, to)
		}()
	}

	for _, inst := range instruments {
		instCh <- inst
	}
	close(instCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]FetchResult, 0, len(instruments))
	successCount := 0
	failCount := 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failCount++
		} else {
			successCount++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
		"total":   len(results),
	}).Info("Bar collection completed")

	return results, ctx.Err()
}

// worker fetches and persists bars for instruments from the channel
func (c *Collector) worker(ctx context.Context, instCh <-chan contracts.Instrument, resultCh chan<- FetchResult, from, to time.Time) {
	for inst := range instCh {
		select {
		case <-ctx.Done():
			resultCh <- FetchResult{Symbol: inst.Symbol, Error: ctx.Err()}
			continue
		default:
		}

		bars, err := c.fetcher.FetchDailyBars(ctx, inst.Symbol, from, to)
		if err != nil {
			if c.metrics != nil {
				c.metrics.FetchErrors.WithLabelValues("naver").Inc()
			}
			c.logger.WithError(err).WithField("symbol", inst.Symbol).Warn("Bar fetch failed")
			resultCh <- FetchResult{Symbol: inst.Symbol, Error: err}
			continue
		}

		if err := c.store.SaveBars(ctx, inst.Symbol, bars); err != nil {
			c.logger.WithError(err).WithField("symbol", inst.Symbol).Warn("Bar save failed")
			resultCh <- FetchResult{Symbol: inst.Symbol, Error: err}
			continue
		}

		resultCh <- FetchResult{Symbol: inst.Symbol, BarCount: len(bars)}
	}
}
