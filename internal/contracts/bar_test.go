package contracts

import (
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestNewBarSeries_Valid(t *testing.T) {
	bars := []Bar{
		{Date: day(0), Open: 100, High: 110, Low: 95, Close: 105, Volume: 1000},
		{Date: day(1), Open: 105, High: 115, Low: 100, Close: 110, Volume: 1200},
	}

	series, err := NewBarSeries(bars)
	if err != nil {
		t.Fatalf("NewBarSeries() error = %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("Len() = %d, want 2", series.Len())
	}
}

func TestNewBarSeries_Invalid(t *testing.T) {
	tests := []struct {
		name string
		bars []Bar
	}{
		{
			name: "high below low",
			bars: []Bar{{Date: day(0), Open: 100, High: 90, Low: 95, Close: 100, Volume: 1}},
		},
		{
			name: "non-positive close",
			bars: []Bar{{Date: day(0), Open: 100, High: 110, Low: 90, Close: 0, Volume: 1}},
		},
		{
			name: "negative volume",
			bars: []Bar{{Date: day(0), Open: 100, High: 110, Low: 90, Close: 100, Volume: -1}},
		},
		{
			name: "duplicate date",
			bars: []Bar{
				{Date: day(0), Open: 100, High: 110, Low: 90, Close: 100, Volume: 1},
				{Date: day(0), Open: 100, High: 110, Low: 90, Close: 100, Volume: 1},
			},
		},
		{
			name: "descending dates",
			bars: []Bar{
				{Date: day(1), Open: 100, High: 110, Low: 90, Close: 100, Volume: 1},
				{Date: day(0), Open: 100, High: 110, Low: 90, Close: 100, Volume: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBarSeries(tt.bars); err == nil {
				t.Error("NewBarSeries() expected error, got nil")
			}
		})
	}
}

func TestBarSeries_Accessors(t *testing.T) {
	bars := make([]Bar, 5)
	for i := range bars {
		bars[i] = Bar{Date: day(i), Open: 100, High: 110, Low: 90, Close: float64(100 + i), Volume: int64(1000 + i)}
	}
	series, err := NewBarSeries(bars)
	if err != nil {
		t.Fatal(err)
	}

	last, err := series.Last()
	if err != nil {
		t.Fatal(err)
	}
	if last.Close != 104 {
		t.Errorf("Last().Close = %v, want 104", last.Close)
	}

	if _, err := series.At(5); err == nil {
		t.Error("At(5) expected out-of-range error")
	}
	if _, err := series.At(-1); err == nil {
		t.Error("At(-1) expected out-of-range error")
	}

	tail, err := series.Tail(3)
	if err != nil {
		t.Fatal(err)
	}
	if tail.Len() != 3 {
		t.Errorf("Tail(3).Len() = %d, want 3", tail.Len())
	}
	first, _ := tail.At(0)
	if first.Close != 102 {
		t.Errorf("Tail(3) first close = %v, want 102", first.Close)
	}

	if _, err := series.Tail(6); err != ErrInsufficientData {
		t.Errorf("Tail(6) error = %v, want ErrInsufficientData", err)
	}

	closes := series.Closes()
	if len(closes) != 5 || closes[0] != 100 || closes[4] != 104 {
		t.Errorf("Closes() = %v", closes)
	}
}

func TestScanResultSet_SortByScore(t *testing.T) {
	rs := NewScanResultSet(day(0), MarketRegime{Trend: TrendBullish})
	inst := func(sym string) Instrument { return Instrument{Symbol: sym, Market: MarketKOSPI} }

	rs.Add(Match(inst("000660"), "livermore", 1.5, day(0)))
	rs.Add(Match(inst("005930"), "livermore", 3.0, day(0)))
	rs.Add(Match(inst("035420"), "livermore", 3.0, day(0)))
	rs.Add(NoMatch(inst("051910"), "livermore", day(0), "insufficient-history"))

	rs.SortByScore()

	got := rs.Matches("livermore")
	if len(got) != 3 {
		t.Fatalf("Matches() len = %d, want 3 (unmatched must not be added)", len(got))
	}
	if got[0].Instrument.Symbol != "005930" || got[1].Instrument.Symbol != "035420" {
		t.Errorf("tie-break order wrong: %s, %s", got[0].Instrument.Symbol, got[1].Instrument.Symbol)
	}
	if got[2].Score != 1.5 {
		t.Errorf("last score = %v, want 1.5", got[2].Score)
	}
	if rs.Total() != 3 {
		t.Errorf("Total() = %d, want 3", rs.Total())
	}
}
