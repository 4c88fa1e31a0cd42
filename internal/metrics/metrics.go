// Package metrics exposes Prometheus instruments for playback sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EnginesLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sessionctl_engines_live",
		Help: "Number of engine instances currently held by sessions",
	})

	EngineCreationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionctl_engine_creations_total",
		Help: "Engine creation attempts by outcome",
	}, []string{"outcome"})

	SessionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionctl_session_errors_total",
		Help: "Classified session errors by kind",
	}, []string{"kind"})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionctl_events_total",
		Help: "Session events published by kind",
	}, []string{"kind"})

	ListenerPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionctl_listener_panics_total",
		Help: "Listener panics recovered by the event bus",
	})

	SubscriptionDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionctl_subscription_drops_total",
		Help: "Events dropped because a channel subscription was full",
	})
)

// EngineCreated records a successful engine creation.
func EngineCreated() {
	EngineCreationsTotal.WithLabelValues("ok").Inc()
	EnginesLive.Inc()
}

// EngineCreateFailed records a failed engine creation.
func EngineCreateFailed() {
	EngineCreationsTotal.WithLabelValues("error").Inc()
}

// EngineReleased records an engine release.
func EngineReleased() {
	EnginesLive.Dec()
}

// IncSessionError records a classified error.
func IncSessionError(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	SessionErrorsTotal.WithLabelValues(kind).Inc()
}

// IncEvent records a published event.
func IncEvent(kind string) {
	EventsTotal.WithLabelValues(kind).Inc()
}
