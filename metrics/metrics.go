// Package metrics exposes Prometheus instrumentation for the decision core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the core's collectors. Create one per registry.
type Metrics struct {
	TicksEvaluated prometheus.Counter
	Decisions      *prometheus.CounterVec
	Issued         *prometheus.CounterVec
	Failures       *prometheus.CounterVec
	WorkerTasks    *prometheus.CounterVec
	WorkerFailures prometheus.Counter
	Events         *prometheus.CounterVec
	Supply         *prometheus.GaugeVec
	Sessions       prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TicksEvaluated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "ticks_evaluated_total",
			Help:      "Evaluation ticks processed.",
		}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "decisions_total",
			Help:      "Rules that fired, by rule and phase.",
		}, []string{"rule", "phase"}),
		Issued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "actions_issued_total",
			Help:      "Production actions accepted by the engine, by kind.",
		}, []string{"kind"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "action_failures_total",
			Help:      "Production actions refused by the engine, by kind and reason.",
		}, []string{"kind", "reason"}),
		WorkerTasks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "worker_tasks_total",
			Help:      "Worker orders issued, by task.",
		}, []string{"task"}),
		WorkerFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "worker_task_failures_total",
			Help:      "Worker orders refused by the engine.",
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "overmind",
			Name:      "colony_events_total",
			Help:      "Colony events detected between evaluations, by kind.",
		}, []string{"kind"}),
		Supply: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "overmind",
			Name:      "supply",
			Help:      "Supply used and cap at the last evaluation.",
		}, []string{"kind"}),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "overmind",
			Name:      "sessions_active",
			Help:      "Connected engine bridges.",
		}),
	}
}
