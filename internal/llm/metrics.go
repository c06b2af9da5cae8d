package llm

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records invocation outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	fallbacks       *prometheus.CounterVec
	guardrailBlocks *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vpaura_llm_requests_total",
				Help: "Total number of logical LLM invocations by outcome",
			},
			[]string{"model", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vpaura_llm_inference_duration_seconds",
				Help:    "Time spent waiting on the model provider",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model", "environment"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vpaura_llm_fallback_switches_total",
				Help: "Total number of switches to the fallback model",
			},
			[]string{"from", "to"},
		),
		guardrailBlocks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vpaura_guardrail_blocks_total",
				Help: "Total number of texts rejected by guardrails",
			},
			[]string{"stage"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.fallbacks, m.guardrailBlocks)
	return m
}

func (m *Metrics) recordRequest(model, status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(model, status).Inc()
}

func (m *Metrics) observeDuration(model, env string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(model, env).Observe(seconds)
}

func (m *Metrics) recordFallback(from, to string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(from, to).Inc()
}

func (m *Metrics) recordBlock(stage string) {
	if m == nil {
		return
	}
	m.guardrailBlocks.WithLabelValues(stage).Inc()
}
