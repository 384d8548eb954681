// Package prommetrics exports index operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, _ := prommetrics.New(reg)
//	idx, _ := hnswkit.Create(128, 10000, 16, 200, space.Cosine,
//	    hnswkit.WithMetricsCollector(collector))
package prommetrics

import (
	"time"

	"github.com/hupe1980/hnswkit"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements hnswkit.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	searchK   prometheus.Histogram
}

var _ hnswkit.MetricsCollector = (*Collector)(nil)

type options struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
}

// Option configures New.
type Option func(*options)

// WithNamespace sets the metric name prefix. The default is "hnswkit".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithConstLabels attaches fixed labels to every metric, for example to
// tell several indexes apart.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// New creates a Collector and registers its metrics on reg.
func New(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	o := options{
		namespace: "hnswkit",
		buckets:   prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "operation_latency_seconds",
			Help:        "Latency of index operations",
			ConstLabels: o.constLabels,
			Buckets:     o.buckets,
		}, []string{"op", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "operation_errors_total",
			Help:        "Failed index operations by status code",
			ConstLabels: o.constLabels,
		}, []string{"op", "code"}),
		searchK: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "search_k",
			Help:        "Requested neighbor count per search",
			ConstLabels: o.constLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 11),
		}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.errors, c.searchK} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustNew is New that panics on registration failure.
func MustNew(reg prometheus.Registerer, optFns ...Option) *Collector {
	c, err := New(reg, optFns...)
	if err != nil {
		panic(err)
	}

	return c
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		c.errors.WithLabelValues(op, hnswkit.CodeOf(err).String()).Inc()
	}

	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
}

// RecordInsert implements hnswkit.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) { c.observe("insert", d, err) }

// RecordSearch implements hnswkit.MetricsCollector.
func (c *Collector) RecordSearch(k int, d time.Duration, err error) {
	c.observe("search", d, err)

	if k > 0 {
		c.searchK.Observe(float64(k))
	}
}

// RecordDelete implements hnswkit.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) { c.observe("delete", d, err) }

// RecordResize implements hnswkit.MetricsCollector.
func (c *Collector) RecordResize(d time.Duration, err error) { c.observe("resize", d, err) }

// RecordSave implements hnswkit.MetricsCollector.
func (c *Collector) RecordSave(d time.Duration, err error) { c.observe("save", d, err) }

// RecordLoad implements hnswkit.MetricsCollector.
func (c *Collector) RecordLoad(d time.Duration, err error) { c.observe("load", d, err) }
