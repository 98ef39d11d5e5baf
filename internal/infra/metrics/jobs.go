package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, jobsInFlight) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Total number of background jobs processed, labeled by kind and terminal status.",
	},
	[]string{"kind", "status"}, // 'completed', 'failed'
)

var jobsInFlight = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "jobs_in_flight",
		Help: "Number of jobs currently executing.",
	},
)

func IncJob(kind, status string) {
	jobsProcessedTotal.WithLabelValues(norm(kind), norm(status)).Inc()
}

func JobStarted()  { jobsInFlight.Inc() }
func JobFinished() { jobsInFlight.Dec() }
