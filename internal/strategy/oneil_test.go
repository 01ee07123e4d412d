package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscan/internal/contracts"
	"github.com/wonny/kscan/pkg/logger"
)

// surgeSeries: 60일 횡보 후 마지막 날 상승 + 거래량 폭발
func surgeSeries(t *testing.T, lastVolume int64) *contracts.BarSeries {
	t.Helper()
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 60)
	for i := range bars {
		c := 100 + float64(i%5) // 95~104 박스권
		bars[i] = contracts.Bar{
			Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	// 마지막 날: 박스 상단 돌파 상승일
	bars[59] = contracts.Bar{
		Date: base.AddDate(0, 0, 59), Open: 104, High: 106, Low: 103, Close: 105.5, Volume: lastVolume,
	}
	s, err := contracts.NewBarSeries(bars)
	require.NoError(t, err)
	return s
}

func TestONeil_VolumeSurgeMatch(t *testing.T) {
	e := NewONeil(DefaultONeilParams(), logger.NewNop())

	sig, err := e.Evaluate(testInst, surgeSeries(t, 3000), bullish(), evalTime())
	require.NoError(t, err)

	assert.True(t, sig.Matched)
	assert.InDelta(t, 3.0, sig.Score, 0.01)
	assert.Contains(t, sig.ReasonTags, "volume-surge")
}

func TestONeil_ScoreCeiling(t *testing.T) {
	e := NewONeil(DefaultONeilParams(), logger.NewNop())

	// 상대 거래량 50배라도 점수는 상한으로 잘린다
	sig, err := e.Evaluate(testInst, surgeSeries(t, 50000), bullish(), evalTime())
	require.NoError(t, err)

	assert.True(t, sig.Matched)
	assert.Equal(t, 10.0, sig.Score)
}

func TestONeil_FlatSeriesNoMatch(t *testing.T) {
	e := NewONeil(DefaultONeilParams(), logger.NewNop())

	sig, err := e.Evaluate(testInst, flatSeries(t, 60), bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, "no-volume-surge")
}

func TestONeil_DownDayNoMatch(t *testing.T) {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 60)
	for i := range bars {
		bars[i] = contracts.Bar{
			Date: base.AddDate(0, 0, i), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
		}
	}
	// 거래량 폭발이지만 하락일: 매도 물량일 수 있다
	bars[59] = contracts.Bar{
		Date: base.AddDate(0, 0, 59), Open: 100, High: 100, Low: 95, Close: 96, Volume: 5000,
	}
	s, err := contracts.NewBarSeries(bars)
	require.NoError(t, err)

	e := NewONeil(DefaultONeilParams(), logger.NewNop())
	sig, err := e.Evaluate(testInst, s, bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, "down-day")
}

func TestONeil_WeakRangePosition(t *testing.T) {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 60)
	for i := range bars {
		bars[i] = contracts.Bar{
			Date: base.AddDate(0, 0, i), Open: 100, High: 140, Low: 80, Close: 100, Volume: 1000,
		}
	}
	// 상승일 + 거래량 폭발이지만 종가가 범위 하단
	bars[59] = contracts.Bar{
		Date: base.AddDate(0, 0, 59), Open: 100, High: 105, Low: 99, Close: 101, Volume: 5000,
	}
	s, err := contracts.NewBarSeries(bars)
	require.NoError(t, err)

	e := NewONeil(DefaultONeilParams(), logger.NewNop())
	sig, err := e.Evaluate(testInst, s, bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, "weak-range-position")
}

func TestONeil_InsufficientHistory(t *testing.T) {
	e := NewONeil(DefaultONeilParams(), logger.NewNop())

	sig, err := e.Evaluate(testInst, flatSeries(t, 30), bullish(), evalTime())
	require.NoError(t, err)

	assert.False(t, sig.Matched)
	assert.Contains(t, sig.ReasonTags, ReasonInsufficientHistory)
}
