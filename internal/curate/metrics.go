// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports stage counts as Prometheus gauges.
type Metrics struct {
	StageItems *prometheus.GaugeVec
	Runs       prometheus.Counter
}

// NewMetrics registers the curation metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageItems: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "newsletter",
				Name:      "curation_stage_items",
				Help:      "Items left after each curation stage in the last run",
			},
			[]string{"stage"},
		),
		Runs: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "newsletter",
				Name:      "curation_runs_total",
				Help:      "Total number of curation pipeline runs",
			},
		),
	}
}

// ObserveStage records count for stage. The input stage marks a new run.
func (m *Metrics) ObserveStage(stage string, count int) {
	if stage == InputStage {
		m.Runs.Inc()
	}
	m.StageItems.WithLabelValues(stage).Set(float64(count))
}
