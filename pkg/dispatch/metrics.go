package dispatch

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-tool invocation counts and latencies.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates and registers dispatch metrics on reg. Registering
// twice on the same registerer reuses the existing collectors, so several
// dispatchers can share one registry without a duplicate-registration
// panic.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workbench",
		Name:      "tool_invocations_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workbench",
		Name:      "tool_duration_seconds",
		Help:      "Tool invocation duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})

	return &Metrics{
		invocations: registerCounterVec(reg, invocations),
		duration:    registerHistogramVec(reg, duration),
	}
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return c
}

func registerHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		panic(err)
	}
	return h
}

// Observe records one finished invocation.
func (m *Metrics) Observe(tool, outcome string, elapsed time.Duration) {
	m.invocations.WithLabelValues(tool, outcome).Inc()
	m.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}
