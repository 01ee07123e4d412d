package strategy

import (
	"time"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/indicator"
	"github.com/wonny/kscan/pkg/logger"
)

// LivermoreParams configures the breakout evaluator
type LivermoreParams struct {
	BreakoutWindow int     `yaml:"breakout_window"`  // 신고가 판정 기간 (기본 252 = 52주)
	VolumeWindow   int     `yaml:"volume_window"`    // 거래량 평균 기간
	MinVolumeRatio float64 `yaml:"min_volume_ratio"` // 돌파 확인 최소 거래량 배율
}

// DefaultLivermoreParams returns the textbook configuration
func DefaultLivermoreParams() LivermoreParams {
	return LivermoreParams{
		BreakoutWindow: 252,
		VolumeWindow:   20,
		MinVolumeRatio: 1.5,
	}
}

// Livermore matches a close at or above the prior 52-week high, confirmed by
// volume participation and gated by the market regime.
type Livermore struct {
	params LivermoreParams
	logger *logger.Logger
}

// NewLivermore creates the breakout evaluator
func NewLivermore(params LivermoreParams, log *logger.Logger) *Livermore {
	return &Livermore{params: params, logger: log}
}

// Name returns the strategy name
func (e *Livermore) Name() string { return NameLivermore }

// Evaluate checks for a new-high breakout with volume confirmation.
// 신고가 기준은 오늘을 제외한 직전 BreakoutWindow봉의 최고 종가.
func (e *Livermore) Evaluate(inst contracts.Instrument, series *contracts.BarSeries, regime contracts.MarketRegime, now time.Time) (contracts.Signal, error) {
	// 오늘 1봉 + 직전 BreakoutWindow봉 + 거래량 평균 기간
	required := e.params.BreakoutWindow + 1
	if series.Len() < required || series.Len() < e.params.VolumeWindow+1 {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}

	today, err := series.Last()
	if err != nil {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}

	prior, err := series.Slice(0, series.Len()-1)
	if err != nil {
		return contracts.Signal{}, err
	}
	priorHigh, err := indicator.RollingMaxClose(prior, e.params.BreakoutWindow)
	if err != nil {
		if contracts.IsInsufficientData(err) {
			return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
		}
		return contracts.Signal{}, err
	}

	if today.Close < priorHigh {
		return contracts.NoMatch(inst, e.Name(), now, "below-prior-high"), nil
	}

	relVol, ok, err := indicator.RelativeVolume(series, e.params.VolumeWindow)
	if err != nil {
		if contracts.IsInsufficientData(err) {
			return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
		}
		return contracts.Signal{}, err
	}
	if !ok || relVol < e.params.MinVolumeRatio {
		return contracts.NoMatch(inst, e.Name(), now, "volume-not-confirmed"), nil
	}

	if regime.Trend == contracts.TrendBearish {
		return contracts.NoMatch(inst, e.Name(), now, "bearish-regime"), nil
	}

	// 돌파 폭과 거래량 확인 강도를 함께 반영
	score := (today.Close/priorHigh - 1.0) * relVol

	e.logger.WithFields(map[string]interface{}{
		"symbol":     inst.Symbol,
		"close":      today.Close,
		"prior_high": priorHigh,
		"rel_volume": relVol,
		"score":      score,
	}).Debug("Livermore breakout matched")

	return contracts.Match(inst, e.Name(), score, now, "new-52w-high", "volume-surge"), nil
}
