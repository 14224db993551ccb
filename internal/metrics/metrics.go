package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the simulator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Outbound calls by endpoint and outcome
	UpstreamCalls *prometheus.CounterVec

	// Outbound latency by endpoint
	UpstreamLatency *prometheus.HistogramVec

	// Reconciled offers by cascade branch
	OfferSource *prometheus.CounterVec

	// Processed CPFs by eligibility outcome
	Simulations *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clt_simulator_upstream_calls_total",
			Help: "Total calls to the Facta API by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clt_simulator_upstream_duration_seconds",
			Help:    "Duration of calls to the Facta API by endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),

		OfferSource: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clt_simulator_offer_source_total",
			Help: "Reconciled offers by the branch that produced them",
		}, []string{"source"}),

		Simulations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clt_simulator_simulations_total",
			Help: "Processed CPFs by eligibility outcome",
		}, []string{"outcome"}),
	}
}

// ObserveUpstreamCall records one outbound call
func (m *Metrics) ObserveUpstreamCall(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamCalls.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// IncrementOfferSource records which reconciliation branch was taken
func (m *Metrics) IncrementOfferSource(source string) {
	if m != nil {
		m.OfferSource.WithLabelValues(source).Inc()
	}
}

// IncrementSimulation records one processed CPF
func (m *Metrics) IncrementSimulation(outcome string) {
	if m != nil {
		m.Simulations.WithLabelValues(outcome).Inc()
	}
}
