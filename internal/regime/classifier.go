// Package regime classifies the overall market state from an index bar series.
package regime

import (
	"fmt"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/internal/indicator"
	"github.com/wonny/kscan/pkg/logger"
)

const (
	trendFastWindow = 20
	trendSlowWindow = 60
	rsiPeriod       = 14

	overboughtRSI = 70.0
	oversoldRSI   = 30.0
)

// Classifier derives the market regime for one scan cycle.
// 상태를 갖지 않으며 매 호출마다 시리즈에서 새로 계산한다.
type Classifier struct {
	logger *logger.Logger
}

// NewClassifier creates a regime classifier
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Classify computes the regime from the index series (KOSPI).
// 지수 시리즈가 60봉 미만이면 에러를 반환한다.
func (c *Classifier) Classify(index *contracts.BarSeries) (contracts.MarketRegime, error) {
	var regime contracts.MarketRegime

	last, err := index.Last()
	if err != nil {
		return regime, fmt.Errorf("index series empty: %w", err)
	}

	ma20, err := indicator.SMA(index, trendFastWindow)
	if err != nil {
		return regime, fmt.Errorf("index SMA%d: %w", trendFastWindow, err)
	}
	ma60, err := indicator.SMA(index, trendSlowWindow)
	if err != nil {
		return regime, fmt.Errorf("index SMA%d: %w", trendSlowWindow, err)
	}

	rsi, err := indicator.RSI(index, rsiPeriod)
	if err != nil {
		return regime, fmt.Errorf("index RSI: %w", err)
	}
	if rsi < 0 || rsi > 100 {
		return regime, &contracts.ComputationError{Indicator: "rsi", Value: rsi}
	}

	switch {
	case last.Close > ma20 && ma20 > ma60:
		regime.Trend = contracts.TrendBullish
	case last.Close < ma20 && ma20 < ma60:
		regime.Trend = contracts.TrendBearish
	default:
		regime.Trend = contracts.TrendNeutral
	}

	regime.RSI = rsi
	regime.Overbought = rsi >= overboughtRSI
	regime.Oversold = rsi <= oversoldRSI

	c.logger.WithFields(map[string]interface{}{
		"trend":      regime.Trend,
		"rsi":        regime.RSI,
		"overbought": regime.Overbought,
		"oversold":   regime.Oversold,
	}).Debug("Classified market regime")

	return regime, nil
}
