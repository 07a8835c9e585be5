package observability

import (
	"fmt"

	"github.com/aretw0/trackable/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects tracker activity as Prometheus metrics.
type Metrics struct {
	mutations *prometheus.CounterVec
	pathDepth prometheus.Histogram
	nodes     *prometheus.CounterVec
	teardowns prometheus.Counter
}

// MetricsOption configures Metrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace   string
	constLabels prometheus.Labels
}

// WithNamespace sets the metric namespace (default: "trackable").
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithConstLabels attaches constant labels, e.g. to tell several trackers apart.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *metricsConfig) {
		c.constLabels = labels
	}
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) (*Metrics, error) {
	cfg := metricsConfig{namespace: "trackable"}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   cfg.namespace,
				Name:        "mutations_total",
				Help:        "Total number of mutations dispatched, by type",
				ConstLabels: cfg.constLabels,
			},
			[]string{"type"},
		),
		pathDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   cfg.namespace,
				Name:        "mutation_path_depth",
				Help:        "Number of keys in mutation paths",
				Buckets:     prometheus.LinearBuckets(0, 1, 8),
				ConstLabels: cfg.constLabels,
			},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   cfg.namespace,
				Name:        "nodes_total",
				Help:        "Total number of nodes created or discarded",
				ConstLabels: cfg.constLabels,
			},
			[]string{"event"},
		),
		teardowns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace:   cfg.namespace,
				Name:        "teardowns_total",
				Help:        "Total number of tracker teardowns",
				ConstLabels: cfg.constLabels,
			},
		),
	}

	for _, c := range []prometheus.Collector{m.mutations, m.pathDepth, m.nodes, m.teardowns} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) OnMutation(mu domain.Mutation) error {
	m.mutations.WithLabelValues(string(mu.Type)).Inc()
	m.pathDepth.Observe(float64(len(mu.Path)))
	return nil
}

// Hooks returns lifecycle hooks feeding the node counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnWrap: func(*domain.NodeEvent) {
			m.nodes.WithLabelValues("created").Inc()
		},
		OnDiscard: func(*domain.NodeEvent) {
			m.nodes.WithLabelValues("discarded").Inc()
		},
		OnTeardown: func() {
			m.teardowns.Inc()
		},
	}
}
