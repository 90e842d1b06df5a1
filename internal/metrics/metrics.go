// Package metrics exposes schedule quality and solver activity as
// prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/khryptorgraphics/flowsched/pkg/scheduler"
)

// Metrics holds the prometheus instruments for scheduling runs.
type Metrics struct {
	makespan       prometheus.Gauge
	totalTardiness prometheus.Gauge
	maxTardiness   prometheus.Gauge
	onTimeRate     prometheus.Gauge
	avgUtilization prometheus.Gauge
	utilization    *prometheus.GaugeVec
	runs           *prometheus.CounterVec
}

// New creates the instruments and registers them with the given
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		makespan: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "schedule_makespan_ms",
			Help:      "Makespan of the most recent schedule in milliseconds.",
		}),
		totalTardiness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "schedule_total_tardiness_ms",
			Help:      "Total tardiness of the most recent schedule in milliseconds.",
		}),
		maxTardiness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "schedule_max_tardiness_ms",
			Help:      "Maximum single-task tardiness of the most recent schedule in milliseconds.",
		}),
		onTimeRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "schedule_on_time_rate",
			Help:      "Fraction of scheduled tasks meeting their deadline.",
		}),
		avgUtilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "schedule_avg_utilization",
			Help:      "Mean utilization across resources with assignments.",
		}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "schedule_resource_utilization",
			Help:      "Per-resource utilization of the most recent schedule.",
		}, []string{"resource"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowsched",
			Name:      "solver_runs_total",
			Help:      "Completed solver runs by solver kind.",
		}, []string{"solver"}),
	}

	reg.MustRegister(
		m.makespan,
		m.totalTardiness,
		m.maxTardiness,
		m.onTimeRate,
		m.avgUtilization,
		m.utilization,
		m.runs,
	)
	return m
}

// ObserveKPI publishes the metrics of a completed schedule.
func (m *Metrics) ObserveKPI(kpi *scheduler.KPI) {
	m.makespan.Set(float64(kpi.MakespanMs))
	m.totalTardiness.Set(float64(kpi.TotalTardinessMs))
	m.maxTardiness.Set(float64(kpi.MaxTardinessMs))
	m.onTimeRate.Set(kpi.OnTimeRate)
	m.avgUtilization.Set(kpi.AvgUtilization)

	m.utilization.Reset()
	for resource, value := range kpi.UtilizationByResource {
		m.utilization.WithLabelValues(resource).Set(value)
	}
}

// ObserveRun counts one completed solver run ("greedy", "ga", "cp").
func (m *Metrics) ObserveRun(solver string) {
	m.runs.WithLabelValues(solver).Inc()
}
