package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	conversions        *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	matrixRows         prometheus.Histogram
	matrixCols         prometheus.Histogram
	cacheLookups       *prometheus.CounterVec
	payloadBytes       *prometheus.HistogramVec
	dependencyUp       *prometheus.GaugeVec
}

// NewCollector creates a new Prometheus metrics collector registered on reg.
// A nil reg registers on the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clustergram_conversions_total",
				Help: "Total number of matrix conversions",
			},
			[]string{"source", "status"},
		),
		conversionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clustergram_conversion_duration_seconds",
				Help:    "Matrix conversion duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60},
			},
			[]string{"source"},
		),
		matrixRows: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clustergram_matrix_rows",
				Help:    "Number of rows in converted matrices",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		matrixCols: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clustergram_matrix_columns",
				Help:    "Number of columns in converted matrices",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clustergram_cache_lookups_total",
				Help: "Total number of result cache lookups",
			},
			[]string{"hit"},
		),
		payloadBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clustergram_payload_bytes",
				Help:    "Size of conversion inputs and outputs in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"direction"},
		),
		dependencyUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "clustergram_dependency_up",
				Help: "Whether a dependency passed its last health check (1) or not (0)",
			},
			[]string{"dependency"},
		),
	}
}

// RecordConversion records a finished conversion
func (c *Collector) RecordConversion(source, status string, duration time.Duration) {
	c.conversions.WithLabelValues(source, status).Inc()
	c.conversionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordMatrixSize records the shape of a loaded matrix
func (c *Collector) RecordMatrixSize(rows, cols int) {
	c.matrixRows.Observe(float64(rows))
	c.matrixCols.Observe(float64(cols))
}

// RecordCacheLookup records a cache hit or miss
func (c *Collector) RecordCacheLookup(hit bool) {
	c.cacheLookups.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

// RecordPayloadBytes records the size of an input or output document
func (c *Collector) RecordPayloadBytes(direction string, size int) {
	c.payloadBytes.WithLabelValues(direction).Observe(float64(size))
}

// RecordDependencyUp records the result of a dependency health check
func (c *Collector) RecordDependencyUp(name string, up bool) {
	value := 0.0
	if up {
		value = 1
	}
	c.dependencyUp.WithLabelValues(name).Set(value)
}
