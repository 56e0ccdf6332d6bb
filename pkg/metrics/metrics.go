package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the minutes pipeline
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline
	GenerationsTotal   *prometheus.CounterVec
	GenerationSeconds  prometheus.Histogram
	StageTransitions   *prometheus.CounterVec
	GenerationsRunning prometheus.Gauge

	// Editing and distribution
	CommitsTotal       prometheus.Counter
	RecipientsAccepted prometheus.Counter
	DeliveryFailures   prometheus.Counter
}

// New creates a metrics set on its own registry, including Go runtime collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg)
}

// NewWithRegistry registers every collector on reg
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutes_generations_total",
				Help: "Total generation attempts by outcome",
			},
			[]string{"outcome"},
		),
		GenerationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "minutes_generation_seconds",
				Help:    "Latency of the language model call",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
		StageTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutes_stage_transitions_total",
				Help: "Processing stage entries",
			},
			[]string{"stage"},
		),
		GenerationsRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "minutes_generations_running",
				Help: "Generations currently in flight",
			},
		),
		CommitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "minutes_commits_total",
				Help: "Working snapshots committed",
			},
		),
		RecipientsAccepted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "minutes_recipients_accepted_total",
				Help: "Recipients handed to the delivery collaborator",
			},
		),
		DeliveryFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "minutes_delivery_failures_total",
				Help: "Deliveries that failed after hand-off",
			},
		),
	}
}

// Registry exposes the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStage counts an entry into stage. Safe on a nil receiver.
func (m *Metrics) ObserveStage(stage string) {
	if m == nil {
		return
	}
	m.StageTransitions.WithLabelValues(stage).Inc()
}

// ObserveGeneration records the outcome and latency of one generation
func (m *Metrics) ObserveGeneration(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(outcome).Inc()
	m.GenerationSeconds.Observe(seconds)
}

// RunStarted marks a generation as in flight; the returned func marks it done
func (m *Metrics) RunStarted() func() {
	if m == nil {
		return func() {}
	}
	m.GenerationsRunning.Inc()
	return m.GenerationsRunning.Dec
}

// ObserveCommit counts one commit of the working snapshot
func (m *Metrics) ObserveCommit() {
	if m == nil {
		return
	}
	m.CommitsTotal.Inc()
}

// ObserveDelivery records accepted recipients and hand-off failures
func (m *Metrics) ObserveDelivery(accepted int, failed bool) {
	if m == nil {
		return
	}
	m.RecipientsAccepted.Add(float64(accepted))
	if failed {
		m.DeliveryFailures.Inc()
	}
}
