package refs

import "github.com/prometheus/client_golang/prometheus"

var (
	liveRefs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bgremover",
			Subsystem: "refs",
			Name:      "live",
			Help:      "Live ephemeral references per slot",
		},
		[]string{"slot"},
	)

	publishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgremover",
			Subsystem: "refs",
			Name:      "published_total",
			Help:      "Ephemeral references published per slot",
		},
		[]string{"slot"},
	)

	revokedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgremover",
			Subsystem: "refs",
			Name:      "revoked_total",
			Help:      "Ephemeral references revoked per slot",
		},
		[]string{"slot"},
	)
)

func init() {
	prometheus.MustRegister(liveRefs, publishedTotal, revokedTotal)
}
