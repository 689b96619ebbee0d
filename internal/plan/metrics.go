package plan

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	applyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blueprints",
			Subsystem: "plan",
			Name:      "apply_total",
			Help:      "Total number of resource applies by kind and result",
		},
		[]string{"kind", "result"},
	)

	applyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blueprints",
			Subsystem: "plan",
			Name:      "apply_duration_seconds",
			Help:      "Duration of resource applies in seconds, retries included",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"kind"},
	)

	applyRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blueprints",
			Subsystem: "plan",
			Name:      "apply_retries_total",
			Help:      "Total number of retried resource applies by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		applyTotal,
		applyDuration,
		applyRetries,
	)
}

// Result label values.
const (
	resultSuccess     = "success"
	resultError       = "error"
	resultRenderError = "render_error"
)

func recordApply(kind, result string, seconds float64) {
	applyTotal.WithLabelValues(kind, result).Inc()
	applyDuration.WithLabelValues(kind).Observe(seconds)
}
