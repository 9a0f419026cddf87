package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TriggerFiresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_trigger_fires_total",
			Help: "Total number of pipeline trigger requests by credential source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	PipelinesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_pipelines_created_total",
			Help: "Total number of pipelines created by source.",
		},
		[]string{"source"},
	)

	JobsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_jobs_created_total",
			Help: "Total number of jobs created by initial status.",
		},
		[]string{"status"},
	)

	DispatchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_dispatch_duration_seconds",
			Help:    "Duration of pipeline dispatch in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	TriggerRegistryOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_trigger_registry_operations_total",
			Help: "Total number of trigger registry mutations by operation.",
		},
		[]string{"operation"},
	)

	ScheduleRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_schedule_runs_total",
			Help: "Total number of pipeline schedule runs by outcome.",
		},
		[]string{"outcome"},
	)

	EventSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_event_subscribers",
			Help: "Number of connected event stream subscribers.",
		},
	)
)

// Register registers all custom relay metrics with the default Prometheus registry.
func Register() {
	prometheus.MustRegister(
		TriggerFiresTotal,
		PipelinesCreatedTotal,
		JobsCreatedTotal,
		DispatchDurationSeconds,
		TriggerRegistryOperationsTotal,
		ScheduleRunsTotal,
		EventSubscribers,
	)
}
