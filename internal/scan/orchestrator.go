// Package scan runs one full scan cycle over the instrument universe.
package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/regime"
	"github.com/wonny/kscan/internal/strategy"
	"github.com/wonny/kscan/pkg/logger"
	"github.com/wonny/kscan/pkg/metrics"
)

// BarProvider supplies daily bar history for an instrument.
// 히스토리를 공급할 수 없으면 contracts.ErrDataUnavailable로 실패한다.
type BarProvider interface {
	GetBars(ctx context.Context, symbol string, lookbackDays int) (*contracts.BarSeries, error)
}

// Orchestrator coordinates one scan cycle across all evaluators
// ⭐ SSOT: 스캔 사이클 조율은 여기서만
type Orchestrator struct {
	provider   BarProvider
	classifier *regime.Classifier
	evaluators []strategy.Evaluator

	lookbackDays int
	workers      int

	logger  *logger.Logger
	metrics *metrics.Metrics

	now func() time.Time
}

// Config holds orchestrator settings
type Config struct {
	LookbackDays int
	Workers      int // 0 또는 1이면 순차 처리
}

// NewOrchestrator creates a scan orchestrator
func NewOrchestrator(
	provider BarProvider,
	classifier *regime.Classifier,
	evaluators []strategy.Evaluator,
	cfg Config,
	log *logger.Logger,
	m *metrics.Metrics,
) *Orchestrator {
	return &Orchestrator{
		provider:     provider,
		classifier:   classifier,
		evaluators:   evaluators,
		lookbackDays: cfg.LookbackDays,
		workers:      cfg.Workers,
		logger:       log,
		metrics:      m,
		now:          time.Now,
	}
}

// Run executes one scan cycle.
// 개별 종목의 데이터 실패는 로그 후 건너뛰며 사이클 전체를 중단시키지 않는다.
// 레짐 분류 실패만이 사이클 수준 에러다 (지수 시리즈 자체가 무효).
func (o *Orchestrator) Run(ctx context.Context, universe []contracts.Instrument, indexSeries *contracts.BarSeries) (*contracts.ScanResultSet, error) {
	startTime := o.now()

	marketRegime, err := o.classifier.Classify(indexSeries)
	if err != nil {
		return nil, fmt.Errorf("classify market regime: %w", err)
	}

	result := contracts.NewScanResultSet(startTime, marketRegime)

	o.logger.WithFields(map[string]interface{}{
		"universe": len(universe),
		"trend":    marketRegime.Trend,
		"rsi":      marketRegime.RSI,
		"workers":  o.workers,
	}).Info("Starting scan cycle")

	var mu sync.Mutex
	collect := func(signals []contracts.Signal, skipped bool) {
		mu.Lock()
		defer mu.Unlock()
		result.Scanned++
		if skipped {
			result.Skipped++
		}
		for _, sig := range signals {
			result.Add(sig)
		}
	}

	if o.workers > 1 {
		o.runParallel(ctx, universe, marketRegime, collect)
	} else {
		o.runSequential(ctx, universe, marketRegime, collect)
	}

	result.SortByScore()

	if o.metrics != nil {
		o.metrics.ScanCycles.Inc()
		o.metrics.ScanDuration.Observe(o.now().Sub(startTime).Seconds())
		for name, group := range result.Signals {
			o.metrics.Matches.WithLabelValues(name).Add(float64(len(group)))
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"scanned":  result.Scanned,
		"skipped":  result.Skipped,
		"matches":  result.Total(),
		"duration": o.now().Sub(startTime),
	}).Info("Scan cycle completed")

	return result, nil
}

// runSequential processes the universe one instrument at a time.
// 종목 사이에서만 취소를 확인한다.
func (o *Orchestrator) runSequential(ctx context.Context, universe []contracts.Instrument, marketRegime contracts.MarketRegime, collect func([]contracts.Signal, bool)) {
	for _, inst := range universe {
		select {
		case <-ctx.Done():
			o.logger.Warn("Scan cycle interrupted")
			return
		default:
		}
		signals, skipped := o.evaluateInstrument(ctx, inst, marketRegime)
		collect(signals, skipped)
	}
}

// runParallel fans the universe out to a bounded worker pool.
// 평가기는 순수 함수이고 레짐은 읽기 전용 공유라 락이 필요 없다.
func (o *Orchestrator) runParallel(ctx context.Context, universe []contracts.Instrument, marketRegime contracts.MarketRegime, collect func([]contracts.Signal, bool)) {
	work := make(chan contracts.Instrument)
	var wg sync.WaitGroup

	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inst := range work {
				signals, skipped := o.evaluateInstrument(ctx, inst, marketRegime)
				collect(signals, skipped)
			}
		}()
	}

feed:
	for _, inst := range universe {
		select {
		case <-ctx.Done():
			o.logger.Warn("Scan cycle interrupted")
			break feed
		case work <- inst:
		}
	}
	close(work)
	wg.Wait()
}

// evaluateInstrument loads bars and runs every evaluator for one instrument.
// 반환된 skipped는 데이터 로드 실패 여부다.
func (o *Orchestrator) evaluateInstrument(ctx context.Context, inst contracts.Instrument, marketRegime contracts.MarketRegime) ([]contracts.Signal, bool) {
	series, err := o.provider.GetBars(ctx, inst.Symbol, o.lookbackDays)
	if err != nil {
		o.logger.WithError(err).WithField("symbol", inst.Symbol).Warn("Bar series unavailable, skipping instrument")
		if o.metrics != nil {
			o.metrics.SkippedStocks.Inc()
		}
		return nil, true
	}

	now := o.now()
	signals := make([]contracts.Signal, 0, len(o.evaluators))

	for _, eval := range o.evaluators {
		sig, err := eval.Evaluate(inst, series, marketRegime, now)
		if err != nil {
			// 지표 정의역 위반: 이 종목만 치명적, 사이클은 계속
			o.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol":   inst.Symbol,
				"strategy": eval.Name(),
			}).Error("Evaluator computation failed")
			if o.metrics != nil {
				o.metrics.SkippedStocks.Inc()
			}
			return nil, true
		}
		if sig.Matched {
			signals = append(signals, sig)
		}
	}

	return signals, false
}
