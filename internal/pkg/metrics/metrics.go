// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LifecycleOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_lifecycle_operations_total",
		Help: "Lifecycle orchestrator operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	LegsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freight_legs_loaded_total",
		Help: "Total number of legs stamped as loaded.",
	})

	LegsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freight_legs_delivered_total",
		Help: "Total number of legs closed as delivered.",
	})

	TrucksDeactivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freight_trucks_deactivated_total",
		Help: "Total number of trucks deactivated for maintenance.",
	})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_events_publish_failed_total",
		Help: "Domain events that could not be handed to the task queue.",
	}, []string{"event"})
)

// ObserveOperation records the outcome of one orchestrator operation.
func ObserveOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	LifecycleOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
