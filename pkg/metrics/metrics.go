// Package metrics provides Prometheus instrumentation for client
// construction. The library performs no long-running work of its own, so the
// interesting signals are simply how often clients get built per backend and
// how often factories fail, split by error category.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClientsCreated counts successful client constructions per backend.
	ClientsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "armature_clients_created_total",
			Help: "Total number of backend clients successfully constructed",
		},
		[]string{"backend"},
	)

	// FactoryErrors counts failed constructions per backend and error type.
	FactoryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "armature_factory_errors_total",
			Help: "Total number of backend client construction failures",
		},
		[]string{"backend", "error_type"},
	)
)

// RecordCreated records a successful construction for a backend.
func RecordCreated(backend string) {
	ClientsCreated.WithLabelValues(backend).Inc()
}

// RecordError records a failed construction for a backend.
func RecordError(backend, errorType string) {
	FactoryErrors.WithLabelValues(backend, errorType).Inc()
}
