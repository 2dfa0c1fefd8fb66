package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "filepublisher"

	// Status label values for success/error metrics
	StatusSuccess = "success"
	StatusError   = "error"

	// Publisher label values
	PublisherQueue  = "queue"
	PublisherStream = "stream"
)

// Labels holds constant labels applied to all metrics.
type Labels struct {
	Environment string // Deployment environment (e.g., "production", "staging")
	Region      string // Cloud region (e.g., "us-east-1")
}

// toPrometheusLabels converts Labels to prometheus.Labels map.
// Only non-empty labels are included to avoid empty label values.
func (l Labels) toPrometheusLabels() prometheus.Labels {
	labels := prometheus.Labels{}
	if l.Environment != "" {
		labels["environment"] = l.Environment
	}
	if l.Region != "" {
		labels["region"] = l.Region
	}
	return labels
}

type Metrics struct {
	published       *prometheus.CounterVec   // by publisher, status
	publishDuration *prometheus.HistogramVec // by publisher
	payloadBytes    *prometheus.HistogramVec // by publisher
	readErrors      *prometheus.CounterVec   // by publisher
}

// New creates a new Metrics instance and registers all metrics with the provided registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	return NewWithLabels(reg, Labels{})
}

// NewWithLabels creates a new Metrics instance with constant labels applied to all metrics.
func NewWithLabels(reg prometheus.Registerer, labels Labels) (*Metrics, error) {
	promLabels := labels.toPrometheusLabels()
	if len(promLabels) > 0 {
		reg = prometheus.WrapRegistererWith(promLabels, reg)
	}

	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "publish_total",
			Help:      "Total publish attempts by publisher and status",
		}, []string{"publisher", "status"}),
		publishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "publish_duration_seconds",
			Help:      "Duration of the outbound publish call",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"publisher"}),
		payloadBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "payload_bytes",
			Help:      "Size of the serialized payload handed to the transport",
			// 256B .. 1MiB; SQS caps bodies at 256KiB and Firehose records at 1000KiB
			Buckets: prometheus.ExponentialBuckets(256, 4, 7),
		}, []string{"publisher"}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "read_errors_total",
			Help:      "Total failures to read or encode the source file",
		}, []string{"publisher"}),
	}

	err := errors.Join(
		reg.Register(m.published),
		reg.Register(m.publishDuration),
		reg.Register(m.payloadBytes),
		reg.Register(m.readErrors),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPublish records the outcome of one outbound publish call.
func (m *Metrics) RecordPublish(publisher string, err error, durationSeconds float64) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.published.WithLabelValues(publisher, status).Inc()
	m.publishDuration.WithLabelValues(publisher).Observe(durationSeconds)
}

// ObservePayloadSize records the size of a serialized payload.
func (m *Metrics) ObservePayloadSize(publisher string, size int) {
	if m == nil {
		return
	}
	m.payloadBytes.WithLabelValues(publisher).Observe(float64(size))
}

// IncReadError records a failure that happened before any network call.
func (m *Metrics) IncReadError(publisher string) {
	if m == nil {
		return
	}
	m.readErrors.WithLabelValues(publisher).Inc()
}
