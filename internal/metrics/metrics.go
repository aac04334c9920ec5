// Package metrics registers the Prometheus collectors for the session
// engine and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ironlog",
		Subsystem: "sessions",
		Name:      "started_total",
		Help:      "Workout sessions started.",
	})
	sessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ironlog",
		Subsystem: "sessions",
		Name:      "completed_total",
		Help:      "Workout sessions completed.",
	})
	sessionsAbandoned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ironlog",
		Subsystem: "sessions",
		Name:      "abandoned_total",
		Help:      "Workout sessions abandoned.",
	})
	setsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ironlog",
		Subsystem: "sets",
		Name:      "completed_total",
		Help:      "Sets marked completed, including re-completions.",
	})
	setsUndone = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ironlog",
		Subsystem: "sets",
		Name:      "undone_total",
		Help:      "Set completions reverted via undo.",
	})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ironlog",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(sessionsStarted, sessionsCompleted, sessionsAbandoned,
		setsCompleted, setsUndone, requestDuration)
}

// SessionStarted counts a successful session start.
func SessionStarted() { sessionsStarted.Inc() }

// SessionCompleted counts a successful session completion.
func SessionCompleted() { sessionsCompleted.Inc() }

// SessionAbandoned counts an abandoned session.
func SessionAbandoned() { sessionsAbandoned.Inc() }

// SetCompleted counts a recorded set completion.
func SetCompleted() { setsCompleted.Inc() }

// SetUndone counts a reverted set completion.
func SetUndone() { setsUndone.Inc() }

// ObserveRequest records one HTTP request's latency.
func ObserveRequest(method string, status int, d time.Duration) {
	requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}
