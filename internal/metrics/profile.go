package metrics

import "github.com/prometheus/client_golang/prometheus"

// Profiling Prometheus metrics.
var (
	ProfileRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tabprep",
			Name:      "profile_runs_total",
			Help:      "Total number of profiling runs",
		},
		[]string{"status"},
	)

	ProfileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tabprep",
			Name:      "profile_duration_seconds",
			Help:      "Profiling run duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	ColumnsFlaggedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tabprep",
			Name:      "columns_flagged_total",
			Help:      "Columns flagged by selection filters",
		},
		[]string{"filter"}, // low_information / highly_null / single_value / correlated_pair
	)
)

var profileMetricsRegistered bool

// RegisterProfileMetrics registers profiling metrics. Must be called once from main.
func RegisterProfileMetrics() {
	if profileMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProfileRunsTotal)
	prometheus.MustRegister(ProfileDuration)
	prometheus.MustRegister(ColumnsFlaggedTotal)
	profileMetricsRegistered = true
}
