// Package indicator provides pure functions over daily bar series.
// 모든 함수는 동일 입력에 대해 동일 출력을 보장한다 (재현 가능한 테스트 픽스처 전제).
package indicator

import (
	"math"

	"github.com/wonny/kscan/internal/contracts"
)

// RollingMaxClose returns the highest close over the last window bars
func RollingMaxClose(s *contracts.BarSeries, window int) (float64, error) {
	tail, err := s.Tail(window)
	if err != nil {
		return 0, err
	}

	max := 0.0
	for _, b := range tail.Bars() {
		if b.Close > max {
			max = b.Close
		}
	}
	return max, nil
}

// RollingMaxHigh returns the highest high over the last window bars
func RollingMaxHigh(s *contracts.BarSeries, window int) (float64, error) {
	tail, err := s.Tail(window)
	if err != nil {
		return 0, err
	}

	max := 0.0
	for _, b := range tail.Bars() {
		if b.High > max {
			max = b.High
		}
	}
	return max, nil
}

// RollingMinLow returns the lowest low over the last window bars
func RollingMinLow(s *contracts.BarSeries, window int) (float64, error) {
	tail, err := s.Tail(window)
	if err != nil {
		return 0, err
	}

	bars := tail.Bars()
	min := bars[0].Low
	for _, b := range bars[1:] {
		if b.Low < min {
			min = b.Low
		}
	}
	return min, nil
}

// SMA returns the simple moving average of closes over the last window bars
func SMA(s *contracts.BarSeries, window int) (float64, error) {
	tail, err := s.Tail(window)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for _, b := range tail.Bars() {
		sum += b.Close
	}
	return sum / float64(window), nil
}

// EMA returns the exponential moving average of closes over the whole series,
// seeded with the SMA of the first period bars.
func EMA(s *contracts.BarSeries, period int) (float64, error) {
	if s.Len() < period {
		return 0, contracts.ErrInsufficientData
	}

	closes := s.Closes()
	sum := 0.0
	for _, c := range closes[:period] {
		sum += c
	}
	ema := sum / float64(period)

	multiplier := 2.0 / (float64(period) + 1.0)
	for _, c := range closes[period:] {
		ema = c*multiplier + ema*(1-multiplier)
	}
	return ema, nil
}

// BollingerWidth returns the Bollinger band width over the last period bars:
// (upper - lower) / middle with bands k standard deviations from the middle.
// 폭이 좁을수록 변동성 축소 국면이다.
func BollingerWidth(s *contracts.BarSeries, period int, k float64) (float64, error) {
	tail, err := s.Tail(period)
	if err != nil {
		return 0, err
	}

	closes := tail.Closes()
	mid := 0.0
	for _, c := range closes {
		mid += c
	}
	mid /= float64(period)

	variance := 0.0
	for _, c := range closes {
		d := c - mid
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))

	return 2 * k * sd / mid, nil
}

// RSI returns the Wilder-smoothed Relative Strength Index over the last period bars.
// 결과는 항상 [0,100]. 중간 gain/loss 합은 음수가 될 수 없다.
func RSI(s *contracts.BarSeries, period int) (float64, error) {
	if s.Len() < period+1 {
		return 0, contracts.ErrInsufficientData
	}

	closes := s.Closes()

	// Seed averages from the first period changes
	var gainSum, lossSum float64
	start := len(closes) - period - 1
	for i := start + 1; i <= start+period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum += -change
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0, nil // 가격 변화 없음
		}
		return 100.0, nil
	}

	rs := avgGain / avgLoss
	rsi := 100.0 - (100.0 / (1.0 + rs))

	// 계약: [0,100] 밖의 값은 절대 반환하지 않는다
	if rsi < 0 {
		rsi = 0
	} else if rsi > 100 {
		rsi = 100
	}
	return rsi, nil
}

// RelativeVolume returns today's volume divided by the average volume of the
// trailing window bars excluding today.
// 평균 거래량이 0이면 ok=false를 반환한다 (0으로 나누기 방지).
func RelativeVolume(s *contracts.BarSeries, window int) (ratio float64, ok bool, err error) {
	if s.Len() < window+1 {
		return 0, false, contracts.ErrInsufficientData
	}

	today, err := s.Last()
	if err != nil {
		return 0, false, err
	}
	prior, err := s.Slice(0, s.Len()-1)
	if err != nil {
		return 0, false, err
	}

	avg, err := AverageVolume(prior, window)
	if err != nil {
		return 0, false, err
	}
	if avg == 0 {
		return 0, false, nil
	}

	return float64(today.Volume) / avg, true, nil
}

// AverageVolume returns the mean volume of the last window bars
func AverageVolume(s *contracts.BarSeries, window int) (float64, error) {
	tail, err := s.Tail(window)
	if err != nil {
		return 0, err
	}

	var sum int64
	for _, b := range tail.Bars() {
		sum += b.Volume
	}
	return float64(sum) / float64(window), nil
}

// RangeContractionRatio returns the high-low range of the most recent window bars
// divided by the range of the preceding window bars.
// 1보다 작을수록 변동성이 축소되고 있음을 뜻한다. 직전 구간 범위가 0이면 ok=false.
func RangeContractionRatio(s *contracts.BarSeries, window int) (ratio float64, ok bool, err error) {
	if s.Len() < 2*window {
		return 0, false, contracts.ErrInsufficientData
	}

	recent, err := s.Tail(window)
	if err != nil {
		return 0, false, err
	}
	prior, err := s.Slice(s.Len()-2*window, s.Len()-window)
	if err != nil {
		return 0, false, err
	}

	recentRange, err := barRange(recent)
	if err != nil {
		return 0, false, err
	}
	priorRange, err := barRange(prior)
	if err != nil {
		return 0, false, err
	}

	if priorRange == 0 {
		return 0, false, nil
	}
	return recentRange / priorRange, true, nil
}

// ATR returns the Average True Range over the last period bars
func ATR(s *contracts.BarSeries, period int) (float64, error) {
	if s.Len() < period+1 {
		return 0, contracts.ErrInsufficientData
	}

	bars := s.Bars()
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1])
	}
	return sum / float64(period), nil
}

// barRange returns high-low spread over a window
func barRange(s *contracts.BarSeries) (float64, error) {
	high, err := RollingMaxHigh(s, s.Len())
	if err != nil {
		return 0, err
	}
	low, err := RollingMinLow(s, s.Len())
	if err != nil {
		return 0, err
	}
	return high - low, nil
}

// trueRange is the greatest of high-low, |high-prevClose|, |low-prevClose|
func trueRange(cur, prev contracts.Bar) float64 {
	tr := cur.High - cur.Low
	if hc := math.Abs(cur.High - prev.Close); hc > tr {
		tr = hc
	}
	if lc := math.Abs(cur.Low - prev.Close); lc > tr {
		tr = lc
	}
	return tr
}
