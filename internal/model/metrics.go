package model

import "github.com/prometheus/client_golang/prometheus"

var (
	modelInitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgremover",
			Subsystem: "model",
			Name:      "init_attempts_total",
			Help:      "Backend initialization attempts by outcome",
		},
		[]string{"backend", "outcome"},
	)

	modelInitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bgremover",
			Subsystem: "model",
			Name:      "init_duration_seconds",
			Help:      "Duration of backend initialization attempts in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(modelInitTotal, modelInitDuration)
}
