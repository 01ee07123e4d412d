package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/regime"
	"github.com/wonny/kscan/pkg/logger"
)

type fakeSource struct {
	universe []contracts.Instrument
	err      error
}

func (f *fakeSource) Build(context.Context) ([]contracts.Instrument, error) {
	return f.universe, f.err
}

type fakeUniverseSink struct {
	saved []contracts.Instrument
	err   error
}

func (f *fakeUniverseSink) Save(_ context.Context, instruments []contracts.Instrument) error {
	f.saved = instruments
	return f.err
}

type fakeSignalSink struct {
	result *contracts.ScanResultSet
}

func (f *fakeSignalSink) SaveResultSet(_ context.Context, result *contracts.ScanResultSet) error {
	f.result = result
	return nil
}

type fakeWriter struct {
	result *contracts.ScanResultSet
	err    error
}

func (f *fakeWriter) Write(result *contracts.ScanResultSet) error {
	f.result = result
	return f.err
}

func newTestPipeline(t *testing.T, source UniverseSource, provider BarProvider, uSink UniverseSink, sSink SignalSink, writer ResultWriter) *Pipeline {
	t.Helper()
	o := NewOrchestrator(provider, regime.NewClassifier(logger.NewNop()), evaluators(),
		Config{LookbackDays: 400}, logger.NewNop(), nil)
	return NewPipeline(source, uSink, o, provider, sSink, writer,
		PipelineConfig{IndexSymbol: "KOSPI", LookbackDays: 400}, logger.NewNop())
}

func TestPipelineExecute(t *testing.T) {
	universe := universeOf(3)
	provider := &fakeProvider{series: map[string]*contracts.BarSeries{"KOSPI": bullishIndex(t)}, failing: map[string]bool{}}
	for _, inst := range universe {
		provider.series[inst.Symbol] = breakoutSeries(t)
	}

	uSink := &fakeUniverseSink{}
	sSink := &fakeSignalSink{}
	writer := &fakeWriter{}

	p := newTestPipeline(t, &fakeSource{universe: universe}, provider, uSink, sSink, writer)

	result, err := p.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Len(t, uSink.saved, 3)
	assert.Same(t, result, sSink.result)
	assert.Same(t, result, writer.result)
}

func TestPipelineUniverseError(t *testing.T) {
	p := newTestPipeline(t, &fakeSource{err: errors.New("listing down")},
		&fakeProvider{failing: map[string]bool{}}, nil, nil, nil)

	_, err := p.Execute(context.Background())
	require.Error(t, err)
}

func TestPipelineEmptyUniverse(t *testing.T) {
	p := newTestPipeline(t, &fakeSource{},
		&fakeProvider{failing: map[string]bool{}}, nil, nil, nil)

	_, err := p.Execute(context.Background())
	require.Error(t, err)
}

func TestPipelineIndexUnavailable(t *testing.T) {
	universe := universeOf(2)
	provider := &fakeProvider{series: map[string]*contracts.BarSeries{}, failing: map[string]bool{"KOSPI": true}}
	for _, inst := range universe {
		provider.series[inst.Symbol] = breakoutSeries(t)
	}

	p := newTestPipeline(t, &fakeSource{universe: universe}, provider, nil, nil, nil)

	_, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrDataUnavailable))
}

func TestPipelineSinkFailureDoesNotAbort(t *testing.T) {
	universe := universeOf(2)
	provider := &fakeProvider{series: map[string]*contracts.BarSeries{"KOSPI": bullishIndex(t)}, failing: map[string]bool{}}
	for _, inst := range universe {
		provider.series[inst.Symbol] = breakoutSeries(t)
	}

	p := newTestPipeline(t, &fakeSource{universe: universe}, provider,
		&fakeUniverseSink{err: errors.New("db down")}, nil, &fakeWriter{err: errors.New("disk full")})

	result, err := p.Execute(context.Background())
	require.NoError(t, err, "sink failures are logged, not fatal")
	assert.Equal(t, 2, result.Scanned)
}
