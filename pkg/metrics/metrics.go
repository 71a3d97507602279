package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "queue_atlas"

// Metrics holds the Prometheus collectors shared by the fetch, report and sync services.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec
	FetchFailures    *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	ArchiveFailures  prometheus.Counter
	SyncedDays       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors with reg. A nil reg gets a private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		ReportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_generated_total",
				Help:      "Total number of analysis reports generated",
			},
			[]string{"period"},
		),
		FetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_failures_total",
				Help:      "Department history fetches replaced by zero-filled data",
			},
			[]string{"department"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of department history fetches in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"source"},
		),
		ArchiveFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archive_failures_total",
				Help:      "Reports that could not be uploaded to the archive",
			},
		),
		SyncedDays: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synced_days_total",
				Help:      "Daily metric rows copied into the local store",
			},
			[]string{"department"},
		),
		gatherer: reg,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
