package strategy

import (
	"time"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/indicator"
	"github.com/wonny/kscan/pkg/logger"
)

// MinerviniParams configures the VCP evaluator
type MinerviniParams struct {
	SpanBars        int     `yaml:"span_bars"`          // 베이스 분석 구간 (기본 60 = 약 12주)
	Legs            int     `yaml:"legs"`               // 요구 축소 구간 수
	TighteningRatio float64 `yaml:"tightening_ratio"`   // 연속 축소 판정 배율
	HighWindow      int     `yaml:"high_window"`        // 52주 고가 기간
	MaxDistFromHigh float64 `yaml:"max_dist_from_high"` // 고가 대비 최대 이격
	VolumeWindow    int     `yaml:"volume_window"`      // 거래량 평균 기간
}

// DefaultMinerviniParams returns the textbook configuration
func DefaultMinerviniParams() MinerviniParams {
	return MinerviniParams{
		SpanBars:        60,
		Legs:            3,
		TighteningRatio: 0.8,
		HighWindow:      252,
		MaxDistFromHigh: 0.10,
		VolumeWindow:    50,
	}
}

// Minervini detects a volatility contraction pattern: successively narrower
// price swings near the 52-week high on quiet volume.
// 축소가 진행 중인 베이스를 찾는다. 이미 돌파한 상태는 대상이 아니다.
type Minervini struct {
	params MinerviniParams
	logger *logger.Logger
}

// NewMinervini creates the VCP evaluator
func NewMinervini(params MinerviniParams, log *logger.Logger) *Minervini {
	return &Minervini{params: params, logger: log}
}

// Name returns the strategy name
func (e *Minervini) Name() string { return NameMinervini }

// Evaluate checks for a tightening base near the 52-week high
func (e *Minervini) Evaluate(inst contracts.Instrument, series *contracts.BarSeries, regime contracts.MarketRegime, now time.Time) (contracts.Signal, error) {
	if series.Len() < e.params.SpanBars || series.Len() < e.params.VolumeWindow+1 {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}

	ratios, finalRatio, ok, err := e.contractionLegs(series)
	if err != nil {
		if contracts.IsInsufficientData(err) {
			return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
		}
		return contracts.Signal{}, err
	}
	if !ok {
		return contracts.NoMatch(inst, e.Name(), now, "no-contraction"), nil
	}

	// 각 구간의 비율이 직전 비율의 TighteningRatio 이하: 엄격한 연속 축소
	for i := 1; i < len(ratios); i++ {
		if ratios[i] > ratios[i-1]*e.params.TighteningRatio {
			return contracts.NoMatch(inst, e.Name(), now, "not-tightening"), nil
		}
	}

	today, err := series.Last()
	if err != nil {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}

	highWindow := e.params.HighWindow
	if series.Len() < highWindow {
		highWindow = series.Len()
	}
	high52, err := indicator.RollingMaxHigh(series, highWindow)
	if err != nil {
		return contracts.Signal{}, err
	}
	if today.Close < high52*(1.0-e.params.MaxDistFromHigh) {
		return contracts.NoMatch(inst, e.Name(), now, "far-from-high"), nil
	}

	// 돌파 전의 조용한 베이스: 거래량은 평균 아래여야 한다
	relVol, volOK, err := indicator.RelativeVolume(series, e.params.VolumeWindow)
	if err != nil {
		if contracts.IsInsufficientData(err) {
			return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
		}
		return contracts.Signal{}, err
	}
	if volOK && relVol >= 1.0 {
		return contracts.NoMatch(inst, e.Name(), now, "volume-not-quiet"), nil
	}

	// 마지막 축소가 강할수록(비율이 작을수록) 높은 점수
	score := 1.0 / finalRatio

	e.logger.WithFields(map[string]interface{}{
		"symbol":      inst.Symbol,
		"ratios":      ratios,
		"final_ratio": finalRatio,
		"score":       score,
	}).Debug("Minervini VCP matched")

	return contracts.Match(inst, e.Name(), score, now, "vcp-tightening", "near-52w-high", "quiet-volume"), nil
}

// contractionLegs splits the trailing span into equal non-overlapping legs and
// returns the range ratio per leg, oldest first. 첫 구간은 자기 자신이 기준이므로 1.0.
// ok=false면 유효한 축소 구간을 만들 수 없는 시리즈다 (범위 0 등).
func (e *Minervini) contractionLegs(series *contracts.BarSeries) (ratios []float64, finalRatio float64, ok bool, err error) {
	span, err := series.Tail(e.params.SpanBars)
	if err != nil {
		return nil, 0, false, err
	}

	legWidth := e.params.SpanBars / e.params.Legs
	if legWidth < 2 {
		return nil, 0, false, contracts.ErrInsufficientData
	}

	prevRange := -1.0
	ratios = make([]float64, 0, e.params.Legs)

	for leg := 0; leg < e.params.Legs; leg++ {
		window, err := span.Slice(leg*legWidth, (leg+1)*legWidth)
		if err != nil {
			return nil, 0, false, err
		}

		high, err := indicator.RollingMaxHigh(window, window.Len())
		if err != nil {
			return nil, 0, false, err
		}
		low, err := indicator.RollingMinLow(window, window.Len())
		if err != nil {
			return nil, 0, false, err
		}
		legRange := high - low

		if prevRange < 0 {
			ratios = append(ratios, 1.0)
		} else {
			if prevRange == 0 {
				return nil, 0, false, nil
			}
			ratios = append(ratios, legRange/prevRange)
		}
		prevRange = legRange
	}

	if len(ratios) < e.params.Legs {
		return nil, 0, false, nil
	}
	return ratios, ratios[len(ratios)-1], true, nil
}
