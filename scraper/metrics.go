package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Item outcome labels.
const (
	ItemComplete = "complete"
	ItemPartial  = "partial"
)

// Skip unit labels.
const (
	SkipCategory = "category"
	SkipPage     = "page"
)

// Metrics bundles Prometheus collectors for the harvester. It also satisfies
// the client's Recorder interface for transport observations.
type Metrics struct {
	Registry        *prometheus.Registry
	PagesTotal      prometheus.Counter
	ItemsTotal      *prometheus.CounterVec
	SkippedTotal    *prometheus.CounterVec
	DuplicatesTotal prometheus.Counter
	RetriesTotal    prometheus.Counter
	RequestDuration prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_pages_total",
			Help: "Total listing pages fanned out to the worker pool.",
		},
	)
	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_items_total",
			Help: "Total items notified to listeners by outcome.",
		},
		[]string{"status"},
	)
	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_skipped_total",
			Help: "Total categories and pages skipped after enumeration failures.",
		},
		[]string{"unit"},
	)
	duplicates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_duplicates_total",
			Help: "Total entries suppressed as already-harvested resources.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_retries_total",
			Help: "Total transport-level retry attempts.",
		},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_request_duration_seconds",
			Help:    "HTTP request latency for catalog and image requests.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(pages, items, skipped, duplicates, retries, requestDuration)

	return &Metrics{
		Registry:        registry,
		PagesTotal:      pages,
		ItemsTotal:      items,
		SkippedTotal:    skipped,
		DuplicatesTotal: duplicates,
		RetriesTotal:    retries,
		RequestDuration: requestDuration,
	}
}

// IncPage increments the harvested-pages counter.
func (m *Metrics) IncPage() {
	if m == nil {
		return
	}
	m.PagesTotal.Inc()
}

// IncItem increments the items counter for an outcome label.
func (m *Metrics) IncItem(status string) {
	if m == nil {
		return
	}
	m.ItemsTotal.WithLabelValues(status).Inc()
}

// IncSkipped increments the skip counter for a unit label.
func (m *Metrics) IncSkipped(unit string) {
	if m == nil {
		return
	}
	m.SkippedTotal.WithLabelValues(unit).Inc()
}

// IncDuplicate increments the suppressed-duplicates counter.
func (m *Metrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

// IncRetry increments the transport retries counter.
func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}
