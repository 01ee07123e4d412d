package scan

import (
	"context"
	"fmt"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/pkg/logger"
)

// UniverseSource builds the instrument universe for a cycle
type UniverseSource interface {
	Build(ctx context.Context) ([]contracts.Instrument, error)
}

// UniverseSink persists the universe snapshot. nil이면 생략된다.
type UniverseSink interface {
	Save(ctx context.Context, instruments []contracts.Instrument) error
}

// SignalSink persists matched signals. nil이면 생략된다.
type SignalSink interface {
	SaveResultSet(ctx context.Context, result *contracts.ScanResultSet) error
}

// ResultWriter renders the result set for consumption. nil이면 생략된다.
type ResultWriter interface {
	Write(result *contracts.ScanResultSet) error
}

// Pipeline runs the full scan flow: universe, index series, orchestrated
// evaluation, persistence, and dashboard output.
type Pipeline struct {
	source       UniverseSource
	universeSink UniverseSink
	orchestrator *Orchestrator
	provider     BarProvider
	signalSink   SignalSink
	writer       ResultWriter

	indexSymbol  string
	lookbackDays int

	logger *logger.Logger
}

// PipelineConfig holds pipeline settings
type PipelineConfig struct {
	IndexSymbol  string // 레짐 분류용 지수 (KOSPI 등)
	LookbackDays int
}

// NewPipeline assembles the scan pipeline.
// universeSink, signalSink, writer는 nil로 꺼둘 수 있다.
func NewPipeline(
	source UniverseSource,
	universeSink UniverseSink,
	orchestrator *Orchestrator,
	provider BarProvider,
	signalSink SignalSink,
	writer ResultWriter,
	cfg PipelineConfig,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		source:       source,
		universeSink: universeSink,
		orchestrator: orchestrator,
		provider:     provider,
		signalSink:   signalSink,
		writer:       writer,
		indexSymbol:  cfg.IndexSymbol,
		lookbackDays: cfg.LookbackDays,
		logger:       log,
	}
}

// Execute runs one complete scan cycle
func (p *Pipeline) Execute(ctx context.Context) (*contracts.ScanResultSet, error) {
	universe, err := p.source.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build universe: %w", err)
	}
	if len(universe) == 0 {
		return nil, fmt.Errorf("empty scan universe")
	}

	if p.universeSink != nil {
		if err := p.universeSink.Save(ctx, universe); err != nil {
			// 스냅샷 저장 실패는 스캔을 막지 않는다
			p.logger.WithError(err).Warn("Universe snapshot save failed")
		}
	}

	indexSeries, err := p.provider.GetBars(ctx, p.indexSymbol, p.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("load index series %s: %w", p.indexSymbol, err)
	}

	result, err := p.orchestrator.Run(ctx, universe, indexSeries)
	if err != nil {
		return nil, err
	}

	if p.signalSink != nil {
		if err := p.signalSink.SaveResultSet(ctx, result); err != nil {
			p.logger.WithError(err).Warn("Signal persistence failed")
		}
	}
	if p.writer != nil {
		if err := p.writer.Write(result); err != nil {
			p.logger.WithError(err).Warn("Dashboard write failed")
		}
	}

	return result, nil
}
