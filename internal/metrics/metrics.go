package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeAborted = "aborted"
	OutcomeFailed  = "failed"
)

// RatesMetrics holds the collectors of the exchange rate service.
type RatesMetrics struct {
	// Refresh cycles by outcome
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram

	// Upstream fetches by source and result (ok|stale|error)
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Published table
	TableSize        prometheus.Gauge
	TableUpdatedTime prometheus.Gauge

	// Queries by mode (exact|fuzzy|all) and result (hit|miss|unavailable)
	QueryTotal *prometheus.CounterVec

	StoreErrorsTotal *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg registers nothing.
func New(reg prometheus.Registerer, namespace string) *RatesMetrics {
	f := promauto.With(reg)
	return &RatesMetrics{
		RefreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Rate table refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of rate table refresh cycles.",
			Buckets:   prometheus.DefBuckets,
		}),
		FetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Upstream fetches by source and result.",
		}, []string{"source", "result"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		TableSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_entries",
			Help:      "Number of entries in the published rate table.",
		}),
		TableUpdatedTime: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_updated_timestamp_seconds",
			Help:      "Unix time the rate table was last published.",
		}),
		QueryTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_total",
			Help:      "Rate queries by mode and result.",
		}, []string{"mode", "result"}),
		StoreErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Best guess store failures by operation.",
		}, []string{"op"}),
	}
}

// Discard returns collectors that are not registered anywhere.
func Discard() *RatesMetrics { return New(nil, "") }
