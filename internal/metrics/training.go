package metrics

import "github.com/prometheus/client_golang/prometheus"

// Training job Prometheus metrics.
var (
	TrainingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recohub",
			Name:      "training_runs_total",
			Help:      "Total offline training runs",
		},
		[]string{"job", "status"},
	)

	TrainingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recohub",
			Name:      "training_duration_seconds",
			Help:      "Offline training run duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	ArtifactSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "recohub",
			Name:      "artifact_entries",
			Help:      "Entries in the currently published artifact",
		},
		[]string{"artifact"},
	)
)

var trainingMetricsRegistered bool

// RegisterTrainingMetrics registers training metrics. Must be called once from main.
func RegisterTrainingMetrics() {
	if trainingMetricsRegistered {
		return
	}
	prometheus.MustRegister(TrainingRunsTotal)
	prometheus.MustRegister(TrainingDuration)
	prometheus.MustRegister(ArtifactSize)
	trainingMetricsRegistered = true
}
