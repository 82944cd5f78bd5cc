package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, jobTransitionsRejected) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "itinerary_jobs_processed_total",
		Help: "Total number of generation jobs reaching a terminal state, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var jobTransitionsRejected = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "itinerary_job_transitions_rejected_total",
		Help: "Count of illegal job state transitions that were logged and ignored.",
	},
)

func IncJob(status string) {
	jobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func IncTransitionRejected() {
	jobTransitionsRejected.Inc()
}
