// Package metrics exposes Prometheus counters for schema loading and state upgrades.
//
// A nil *Metrics is valid and records nothing, so packages can accept one
// optionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "statemig"

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	SchemasLoaded   prometheus.Counter
	StatesUpgraded  prometheus.Counter
	StatesUnchanged prometheus.Counter
	UpgradeDuration prometheus.Histogram
}

// New creates a Metrics with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SchemasLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schemas_loaded_total",
			Help:      "Schema files loaded and converted.",
		}),
		StatesUpgraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "states_upgraded_total",
			Help:      "Block states changed by an upgrade.",
		}),
		StatesUnchanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "states_unchanged_total",
			Help:      "Stale block states an upgrade left as they were.",
		}),
		UpgradeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_upgrade_duration_seconds",
			Help:      "Wall time of a batch upgrade run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.SchemasLoaded, m.StatesUpgraded, m.StatesUnchanged, m.UpgradeDuration)
	return m
}

// SchemaLoaded counts one loaded schema file.
func (m *Metrics) SchemaLoaded() {
	if m == nil {
		return
	}
	m.SchemasLoaded.Inc()
}

// StateUpgraded counts one stale state, split by whether the upgrade changed it.
func (m *Metrics) StateUpgraded(changed bool) {
	if m == nil {
		return
	}
	if changed {
		m.StatesUpgraded.Inc()
	} else {
		m.StatesUnchanged.Inc()
	}
}

// ObserveBatch records the duration of a batch run that started at start.
func (m *Metrics) ObserveBatch(start time.Time) {
	if m == nil {
		return
	}
	m.UpgradeDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
