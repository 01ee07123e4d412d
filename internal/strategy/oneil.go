package strategy

import (
	"time"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/indicator"
	"github.com/wonny/kscan/pkg/logger"
)

// ONeilParams configures the volume-surge evaluator
type ONeilParams struct {
	VolumeWindow     int     `yaml:"volume_window"`      // 상대 거래량 기준 기간
	MinRelativeVol   float64 `yaml:"min_relative_vol"`   // 최소 상대 거래량
	RangeWindow      int     `yaml:"range_window"`       // 가격 위치 판정 기간
	MinRangePosition float64 `yaml:"min_range_position"` // 고저 범위 내 최소 위치 (0~1)
	ScoreCeiling     float64 `yaml:"score_ceiling"`      // 점수 상한 (저유동성 이상치 방지)
}

// DefaultONeilParams returns the textbook configuration
func DefaultONeilParams() ONeilParams {
	return ONeilParams{
		VolumeWindow:     50,
		MinRelativeVol:   2.0,
		RangeWindow:      50,
		MinRangePosition: 0.75,
		ScoreCeiling:     10.0,
	}
}

// ONeil matches an unusual volume surge on an up day with the close in the
// upper part of the recent range. 가격 강세 없는 거래량 증가는 매도일 수 있어 제외.
type ONeil struct {
	params ONeilParams
	logger *logger.Logger
}

// NewONeil creates the volume-surge evaluator
func NewONeil(params ONeilParams, log *logger.Logger) *ONeil {
	return &ONeil{params: params, logger: log}
}

// Name returns the strategy name
func (e *ONeil) Name() string { return NameONeil }

// Evaluate checks for a volume surge co-located with price strength
func (e *ONeil) Evaluate(inst contracts.Instrument, series *contracts.BarSeries, regime contracts.MarketRegime, now time.Time) (contracts.Signal, error) {
	if series.Len() < e.params.VolumeWindow+1 || series.Len() < e.params.RangeWindow+1 {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}

	today, err := series.Last()
	if err != nil {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}
	prev, err := series.At(series.Len() - 2)
	if err != nil {
		return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
	}

	relVol, ok, err := indicator.RelativeVolume(series, e.params.VolumeWindow)
	if err != nil {
		if contracts.IsInsufficientData(err) {
			return contracts.NoMatch(inst, e.Name(), now, ReasonInsufficientHistory), nil
		}
		return contracts.Signal{}, err
	}
	if !ok || relVol < e.params.MinRelativeVol {
		return contracts.NoMatch(inst, e.Name(), now, "no-volume-surge"), nil
	}

	// 급증은 상승일에만 의미가 있다
	if today.Close <= prev.Close {
		return contracts.NoMatch(inst, e.Name(), now, "down-day"), nil
	}

	high, err := indicator.RollingMaxHigh(series, e.params.RangeWindow)
	if err != nil {
		return contracts.Signal{}, err
	}
	low, err := indicator.RollingMinLow(series, e.params.RangeWindow)
	if err != nil {
		return contracts.Signal{}, err
	}
	if high == low {
		return contracts.NoMatch(inst, e.Name(), now, "flat-range"), nil
	}

	position := (today.Close - low) / (high - low)
	if position < e.params.MinRangePosition {
		return contracts.NoMatch(inst, e.Name(), now, "weak-range-position"), nil
	}

	score := relVol
	if score > e.params.ScoreCeiling {
		score = e.params.ScoreCeiling
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":     inst.Symbol,
		"rel_volume": relVol,
		"position":   position,
		"score":      score,
	}).Debug("O'Neil volume surge matched")

	return contracts.Match(inst, e.Name(), score, now, "volume-surge", "up-day", "range-strength"), nil
}
