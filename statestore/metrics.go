package statestore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the store-level prometheus instruments. All methods are
// nil-receiver safe so an uninstrumented store pays nothing.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CASConflicts      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all store metrics
func NewMetrics() *Metrics {
	return &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "statekit",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of state store operations",
			},
			[]string{"op", "result"},
		),

		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "statekit",
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "State store operation latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),

		CASConflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "statekit",
				Subsystem: "store",
				Name:      "cas_conflicts_total",
				Help:      "Total number of compare-and-swap revision conflicts",
			},
		),
	}
}

// Register registers all metrics with the given registerer
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{m.Operations, m.OperationDuration, m.CASConflicts} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(op, result).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) conflict() {
	if m == nil {
		return
	}
	m.CASConflicts.Inc()
}
