// Package metrics instruments the tournament operations with prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "swiss"

// Outcomes of an operation
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Kinds of created turns
const (
	TurnRandom = "random"
	TurnPaired = "paired"
	TurnFinal  = "final"
)

// Metrics holds the collectors of the service.
// A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	turns      *prometheus.CounterVec
	matches    prometheus.Counter
	pairing    prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of tournament operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of tournament operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_created_total",
			Help:      "Number of created turns by kind.",
		}, []string{"kind"}),
		matches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Number of created matches.",
		}),
		pairing: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pairing_duration_seconds",
			Help:      "Duration of the pairing search of a turn.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *Metrics) RecordOperation(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordTurn(kind string, matches int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(kind).Inc()
	m.matches.Add(float64(matches))
	m.pairing.Observe(elapsed.Seconds())
}
