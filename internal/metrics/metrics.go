// Package metrics provides Prometheus instrumentation for the marketplace
// stores and checkout.
//
// Collectors are registered on a caller-supplied registry so tests and the
// CLI each get their own:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.PaymentProcessed("card", "completed")
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "notesmarket"

type Metrics struct {
	payments      *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
	orders        prometheus.Counter
	storageErrors *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		payments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "processed_total",
				Help:      "Payment attempts that reached the gateway, by method and status.",
			},
			[]string{"method", "status"},
		),
		cartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cart",
				Name:      "mutations_total",
				Help:      "Cart mutations by operation.",
			},
			[]string{"op"},
		),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "recorded_total",
			Help:      "Orders appended to the history.",
		}),
		storageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "errors_total",
				Help:      "Swallowed persistence failures, by key and operation.",
			},
			[]string{"key", "op"},
		),
	}

	reg.MustRegister(m.payments, m.cartMutations, m.orders, m.storageErrors)

	return m
}

// The recording methods are nil-safe so components can run without metrics.

func (m *Metrics) PaymentProcessed(method, status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(method, status).Inc()
}

func (m *Metrics) CartMutated(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) OrderRecorded() {
	if m == nil {
		return
	}
	m.orders.Inc()
}

func (m *Metrics) StorageError(key, op string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(key, op).Inc()
}

// WriteTextfile dumps every metric gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
