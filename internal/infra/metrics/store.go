package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(storeReadsTotal, storeDurableWriteFailures, repairStrategyUsed) }

var storeReadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "job_store_reads_total",
		Help: "Job store reads by serving tier ('durable', 'primary') and outcome ('hit', 'miss').",
	},
	[]string{"tier", "outcome"},
)

var storeDurableWriteFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "job_store_durable_write_failures_total",
		Help: "Durable-tier writes that failed and were absorbed by the primary tier.",
	},
)

var repairStrategyUsed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "output_repair_strategy_total",
		Help: "Which repair-ladder strategy produced a parseable candidate ('direct', 'braces', 'rewrite', 'window', 'none').",
	},
	[]string{"strategy"},
)

func IncStoreRead(tier, outcome string) {
	storeReadsTotal.WithLabelValues(norm(tier), norm(outcome)).Inc()
}

func IncDurableWriteFailure() {
	storeDurableWriteFailures.Inc()
}

func IncRepairStrategy(strategy string) {
	repairStrategyUsed.WithLabelValues(norm(strategy)).Inc()
}
