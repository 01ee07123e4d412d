package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds prometheus collectors for the scanner
// ⭐ SSOT: 메트릭 등록은 여기서만
type Metrics struct {
	ScanCycles    prometheus.Counter
	ScanDuration  prometheus.Histogram
	Matches       *prometheus.CounterVec
	SkippedStocks prometheus.Counter
	FetchErrors   *prometheus.CounterVec
}

// New registers and returns the scanner metrics
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScanCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kscan",
			Name:      "scan_cycles_total",
			Help:      "Number of completed scan cycles",
		}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kscan",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a full scan cycle",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		Matches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kscan",
			Name:      "strategy_matches_total",
			Help:      "Matched signals per strategy",
		}, []string{"strategy"}),
		SkippedStocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kscan",
			Name:      "skipped_stocks_total",
			Help:      "Instruments skipped due to data failures",
		}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kscan",
			Name:      "fetch_errors_total",
			Help:      "Bar fetch failures per source",
		}, []string{"source"}),
	}
}
