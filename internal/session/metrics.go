package session

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgremover",
			Subsystem: "session",
			Name:      "completed_total",
			Help:      "Sessions by outcome (success, error, superseded)",
		},
		[]string{"outcome"},
	)

	sessionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgremover",
			Subsystem: "session",
			Name:      "errors_total",
			Help:      "Failed sessions by error kind",
		},
		[]string{"kind"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bgremover",
			Subsystem: "session",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(sessionsTotal, sessionErrorsTotal, stageDuration)
}
