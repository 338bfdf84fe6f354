package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopfeed"

// Metrics holds the per-shop build counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ProductsFetched *prometheus.CounterVec
	RecordsEmitted  *prometheus.CounterVec
	ImagesUploaded  *prometheus.CounterVec
	RecordFailures  *prometheus.CounterVec
	BuildDuration   *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ProductsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_fetched_total",
			Help:      "Products returned by the catalog",
		}, []string{"shop"}),
		RecordsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Records written to the feed",
		}, []string{"shop"}),
		ImagesUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_uploaded_total",
			Help:      "Images uploaded to the image host",
		}, []string{"shop"}),
		RecordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_failures_total",
			Help:      "Eligible products dropped because their image could not be resolved",
		}, []string{"shop"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of feed builds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"shop"}),
		gatherer: registry,
	}

	registry.MustRegister(
		m.ProductsFetched,
		m.RecordsEmitted,
		m.ImagesUploaded,
		m.RecordFailures,
		m.BuildDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Build describes the outcome of one feed build.
type Build struct {
	Shop     string
	Fetched  int
	Emitted  int
	Uploaded int
	Failures int
	Duration time.Duration
}

func (m *Metrics) ObserveBuild(b Build) {
	if m == nil {
		return
	}

	m.ProductsFetched.WithLabelValues(b.Shop).Add(float64(b.Fetched))
	m.RecordsEmitted.WithLabelValues(b.Shop).Add(float64(b.Emitted))
	m.ImagesUploaded.WithLabelValues(b.Shop).Add(float64(b.Uploaded))
	m.RecordFailures.WithLabelValues(b.Shop).Add(float64(b.Failures))
	m.BuildDuration.WithLabelValues(b.Shop).Observe(b.Duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
