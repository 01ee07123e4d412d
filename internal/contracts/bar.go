package contracts

import (
	"fmt"
	"time"
)

// Bar is one trading day of OHLCV data for an instrument.
// 한 번 기록되면 변경하지 않는다.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// BarSeries is an ordered daily bar history, strictly increasing by date.
// fetch 계층이 소유하고 코어에는 읽기 전용으로 전달된다.
type BarSeries struct {
	bars []Bar
}

// NewBarSeries validates and wraps a bar slice.
// Bars must be in strictly ascending date order with sane OHLC values.
func NewBarSeries(bars []Bar) (*BarSeries, error) {
	for i, b := range bars {
		if b.High < b.Low {
			return nil, fmt.Errorf("bar %d (%s): high %.2f below low %.2f",
				i, b.Date.Format("2006-01-02"), b.High, b.Low)
		}
		if b.Close <= 0 || b.Open <= 0 {
			return nil, fmt.Errorf("bar %d (%s): non-positive price",
				i, b.Date.Format("2006-01-02"))
		}
		if b.Volume < 0 {
			return nil, fmt.Errorf("bar %d (%s): negative volume",
				i, b.Date.Format("2006-01-02"))
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return nil, fmt.Errorf("bar %d (%s): dates not strictly ascending",
				i, b.Date.Format("2006-01-02"))
		}
	}

	return &BarSeries{bars: bars}, nil
}

// Len returns the number of bars
func (s *BarSeries) Len() int {
	return len(s.bars)
}

// At returns the bar at index i (0 = oldest)
func (s *BarSeries) At(i int) (Bar, error) {
	if i < 0 || i >= len(s.bars) {
		return Bar{}, fmt.Errorf("bar index %d out of range [0,%d)", i, len(s.bars))
	}
	return s.bars[i], nil
}

// Last returns the most recent bar
func (s *BarSeries) Last() (Bar, error) {
	if len(s.bars) == 0 {
		return Bar{}, ErrInsufficientData
	}
	return s.bars[len(s.bars)-1], nil
}

// Tail returns a view of the last n bars.
// n이 시리즈 길이보다 크면 ErrInsufficientData.
func (s *BarSeries) Tail(n int) (*BarSeries, error) {
	if n > len(s.bars) {
		return nil, ErrInsufficientData
	}
	return &BarSeries{bars: s.bars[len(s.bars)-n:]}, nil
}

// Slice returns a view of bars [from, to).
func (s *BarSeries) Slice(from, to int) (*BarSeries, error) {
	if from < 0 || to > len(s.bars) || from > to {
		return nil, fmt.Errorf("slice [%d,%d) out of range [0,%d)", from, to, len(s.bars))
	}
	return &BarSeries{bars: s.bars[from:to]}, nil
}

// Closes returns the close prices, oldest first
func (s *BarSeries) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volumes, oldest first
func (s *BarSeries) Volumes() []int64 {
	out := make([]int64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Volume
	}
	return out
}

// Bars returns the underlying bars. 호출자는 수정하면 안 된다.
func (s *BarSeries) Bars() []Bar {
	return s.bars
}
