package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/pkg/logger"
)

var testInst = contracts.Instrument{Symbol: "005930", Name: "삼성전자", Market: contracts.MarketKOSPI}

func evalTime() time.Time {
	return time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)
}

// buildSeries constructs a series from parallel close/volume slices
func buildSeries(t *testing.T, closes []float64, volumes []int64) *contracts.BarSeries {
	t.Helper()
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.Bar{
			Date: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: volumes[i],
		}
	}
	s, err := contracts.NewBarSeries(bars)
	require.NoError(t, err)
	return s
}

// risingSeries: 260일간 100 → 200 단조 상승, 마지막 날 거래량 2배
func risingSeries(t *testing.T) *contracts.BarSeries {
	closes := make([]float64, 260)
	volumes := make([]int64, 260)
	for i := range closes {
		closes[i] = 100 + 100*float64(i)/259
		volumes[i] = 1000
	}
	volumes[259] = 2000
	return buildSeries(t, closes, volumes)
}

// flatSeries: 종가와 거래량이 일정한 시리즈
func flatSeries(t *testing.T, n int) *contracts.BarSeries {
	closes := make([]float64, n)
	volumes := make([]int64, n)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}
	return buildSeries(t, closes, volumes)
}

func bullish() contracts.MarketRegime {
	return contracts.MarketRegime{Trend: contracts.TrendBullish, RSI: 60}
}

func TestLivermore_BreakoutMatch(t *testing.T) {
	e := NewLivermore(DefaultLivermoreParams(), logger.NewNop())

	sig, err := e.Evaluate(testInst, risingSeries(t), bullish(), evalTime())
	require.NoError(t, err)

	assert.True(t, sig.Matched)
	assert.Greater(t, sig.Score, 0.0)
	assert.Contains(t, sig.ReasonTags, "new-52w-high")
	assert.Contains(t, sig.ReasonTags, "volume-surge")
	assert.Equal(t, NameLivermore, sig.Strategy)
}

func TestLivermore_FlatSeriesNoMatch(t *testing.T) {
	e := NewLivermore(DefaultLivermoreParams(), logger.NewNop())

	sig, err := e.Evaluate(testInst, flatSeries(t, 300), bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
}

func TestLivermore_InsufficientHistory(t *testing.T) {
	e := NewLivermore(DefaultLivermoreParams(), logger.NewNop())

	// 252봉 미만은 에러가 아니라 No-Match
	sig, err := e.Evaluate(testInst, flatSeries(t, 100), bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, ReasonInsufficientHistory)
}

func TestLivermore_BearishRegimeGate(t *testing.T) {
	e := NewLivermore(DefaultLivermoreParams(), logger.NewNop())
	bearish := contracts.MarketRegime{Trend: contracts.TrendBearish, RSI: 35}

	sig, err := e.Evaluate(testInst, risingSeries(t), bearish, evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, "bearish-regime")
}

func TestLivermore_VolumeGate(t *testing.T) {
	// 돌파는 했지만 거래량 확인 실패
	closes := make([]float64, 260)
	volumes := make([]int64, 260)
	for i := range closes {
		closes[i] = 100 + 100*float64(i)/259
		volumes[i] = 1000
	}
	s := buildSeries(t, closes, volumes)

	e := NewLivermore(DefaultLivermoreParams(), logger.NewNop())
	sig, err := e.Evaluate(testInst, s, bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, "volume-not-confirmed")
}

func TestLivermore_NeutralRegimeAllowed(t *testing.T) {
	e := NewLivermore(DefaultLivermoreParams(), logger.NewNop())
	neutral := contracts.MarketRegime{Trend: contracts.TrendNeutral, RSI: 50}

	sig, err := e.Evaluate(testInst, risingSeries(t), neutral, evalTime())
	require.NoError(t, err)

	assert.True(t, sig.Matched, "breakout is gated only by a bearish regime")
}
