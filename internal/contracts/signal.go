package contracts

import (
	"sort"
	"time"
)

// Signal is the outcome of one (instrument, strategy) evaluation.
// Evaluator가 생성하고 이후 변경되지 않는다.
type Signal struct {
	Instrument  Instrument `json:"instrument"`
	Strategy    string     `json:"strategy"`
	Matched     bool       `json:"matched"`
	Score       float64    `json:"score"`
	ReasonTags  []string   `json:"reason_tags"`
	EvaluatedAt time.Time  `json:"evaluated_at"`
}

// NoMatch builds an unmatched signal with reason tags
func NoMatch(inst Instrument, strategy string, now time.Time, reasons ...string) Signal {
	return Signal{
		Instrument:  inst,
		Strategy:    strategy,
		Matched:     false,
		ReasonTags:  reasons,
		EvaluatedAt: now,
	}
}

// Match builds a matched signal with a ranking score
func Match(inst Instrument, strategy string, score float64, now time.Time, reasons ...string) Signal {
	return Signal{
		Instrument:  inst,
		Strategy:    strategy,
		Matched:     true,
		Score:       score,
		ReasonTags:  reasons,
		EvaluatedAt: now,
	}
}

// ScanResultSet maps strategy name to matched signals, sorted by score descending.
// 엔진이 대시보드 생성기로 넘기는 유일한 외부 출력.
type ScanResultSet struct {
	Date    time.Time           `json:"date"`
	Regime  MarketRegime        `json:"regime"`
	Signals map[string][]Signal `json:"signals"` // key: strategy name
	Scanned int                 `json:"scanned"`
	Skipped int                 `json:"skipped"`
}

// NewScanResultSet creates an empty result set
func NewScanResultSet(date time.Time, regime MarketRegime) *ScanResultSet {
	return &ScanResultSet{
		Date:    date,
		Regime:  regime,
		Signals: make(map[string][]Signal),
	}
}

// Add appends a matched signal to its strategy group
func (r *ScanResultSet) Add(sig Signal) {
	if !sig.Matched {
		return
	}
	r.Signals[sig.Strategy] = append(r.Signals[sig.Strategy], sig)
}

// SortByScore orders every strategy group by score descending.
// 동점이면 심볼 오름차순으로 안정화한다.
func (r *ScanResultSet) SortByScore() {
	for _, group := range r.Signals {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].Instrument.Symbol < group[j].Instrument.Symbol
		})
	}
}

// Matches returns the sorted signals for one strategy
func (r *ScanResultSet) Matches(strategy string) []Signal {
	return r.Signals[strategy]
}

// Total returns the number of matched signals across strategies
func (r *ScanResultSet) Total() int {
	n := 0
	for _, group := range r.Signals {
		n += len(group)
	}
	return n
}
