// Package metrics defines the relay's Prometheus gauges and counters and
// registers them with the default registry. It does not serve them over
// HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters and gauges a relay instance updates as it
// runs. All are registered against the default registry at construction.
type Metrics struct {
	SyncedHeight     prometheus.Gauge
	SourceTip        prometheus.Gauge
	TipLag           prometheus.Gauge
	BatchesSubmitted prometheus.Counter
	SubmissionErrors prometheus.Counter
	BlocksProcessed  prometheus.Counter
}

// New registers and returns a fresh Metrics set. Callers embedding more
// than one relay instance in a process should give each a distinct
// namespace/subsystem to avoid a duplicate-registration panic.
func New(namespace string) *Metrics {
	return &Metrics{
		SyncedHeight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "synced_height",
			Help:      "Last source height successfully committed to the destination contract.",
		}),
		SourceTip: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_tip",
			Help:      "Most recently observed source chain tip height.",
		}),
		TipLag: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tip_lag",
			Help:      "Difference between the source tip and the synced height.",
		}),
		BatchesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_submitted_total",
			Help:      "Number of Update batches successfully submitted.",
		}),
		SubmissionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_errors_total",
			Help:      "Number of Update calls that failed or returned a failed receipt.",
		}),
		BlocksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_processed_total",
			Help:      "Number of source blocks committed by successfully submitted batches.",
		}),
	}
}

// ObservePlan records the source tip and derived lag for one plan phase.
func (m *Metrics) ObservePlan(synced, tip uint64) {
	m.SyncedHeight.Set(float64(synced))
	m.SourceTip.Set(float64(tip))
	if tip > synced {
		m.TipLag.Set(float64(tip - synced))
	} else {
		m.TipLag.Set(0)
	}
}
