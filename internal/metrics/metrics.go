// Package metrics exposes polling cycle statistics to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trade_tracker/internal/domain"
)

type Metrics struct {
	AdsParsed     prometheus.Counter
	AdsMalformed  prometheus.Counter
	AdsStale      prometheus.Counter
	AdsSuppressed *prometheus.CounterVec
	Deliveries    *prometheus.CounterVec
	FetchFailures prometheus.Counter
	CycleDuration prometheus.Histogram
	Targets       prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the tracker metrics on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AdsParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ads_parsed_total",
			Help: "Trade ads parsed from fetched pages.",
		}),
		AdsMalformed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ads_malformed_total",
			Help: "Ad containers skipped because required fields were missing.",
		}),
		AdsStale: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ads_stale_total",
			Help: "Trade ads dropped by the freshness filter.",
		}),
		AdsSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_ads_suppressed_total",
			Help: "Trade ads suppressed as duplicates, by reason.",
		}, []string{"reason"}),
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_deliveries_total",
			Help: "Delivery attempts, by result.",
		}, []string{"result"}),
		FetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracker_fetch_failures_total",
			Help: "Page fetches that failed after retries.",
		}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_cycle_duration_seconds",
			Help:    "Duration of polling cycles.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		}),
		Targets: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_targets",
			Help: "Tracking targets loaded in the last cycle.",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveCycle(stats *domain.CycleStats) {
	m.AdsParsed.Add(float64(stats.Parsed))
	m.AdsMalformed.Add(float64(stats.Malformed))
	m.AdsStale.Add(float64(stats.Stale))
	for reason, n := range stats.SuppressedBy {
		m.AdsSuppressed.WithLabelValues(reason).Add(float64(n))
	}
	m.Deliveries.WithLabelValues("delivered").Add(float64(stats.Delivered))
	m.Deliveries.WithLabelValues("failed").Add(float64(stats.DeliveryFailures))
	m.Deliveries.WithLabelValues("persist_failed").Add(float64(stats.PersistFailures))
	m.FetchFailures.Add(float64(stats.FetchFailures))
	m.CycleDuration.Observe(stats.Duration.Seconds())
	m.Targets.Set(float64(stats.Targets))
}

func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	return mux
}
