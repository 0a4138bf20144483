package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for assistant turns.
type ConversationMetrics struct {
	turnsTotal        *prometheus.CounterVec
	quotesTotal       *prometheus.CounterVec
	leadCapturesTotal prometheus.Counter
	llmFailuresTotal  *prometheus.CounterVec
	leadScore         prometheus.Histogram
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurance",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"kind"}),
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurance",
			Subsystem: "conversation",
			Name:      "quotes_total",
			Help:      "Total premium quotes produced",
		}, []string{"product"}),
		leadCapturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "insurance",
			Subsystem: "conversation",
			Name:      "lead_captures_total",
			Help:      "Total leads handed to the sales pipeline",
		}),
		llmFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurance",
			Subsystem: "conversation",
			Name:      "llm_failures_total",
			Help:      "Total LLM call failures by stage",
		}, []string{"stage"}),
		leadScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insurance",
			Subsystem: "conversation",
			Name:      "lead_score",
			Help:      "Distribution of lead scores per turn",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.quotesTotal, m.leadCapturesTotal, m.llmFailuresTotal, m.leadScore)
	return m
}

func (m *ConversationMetrics) ObserveTurn(kind string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(kind).Inc()
}

func (m *ConversationMetrics) ObserveQuote(product string) {
	if m == nil {
		return
	}
	m.quotesTotal.WithLabelValues(product).Inc()
}

func (m *ConversationMetrics) ObserveLeadCapture() {
	if m == nil {
		return
	}
	m.leadCapturesTotal.Inc()
}

func (m *ConversationMetrics) ObserveLLMFailure(stage string) {
	if m == nil {
		return
	}
	m.llmFailuresTotal.WithLabelValues(stage).Inc()
}

func (m *ConversationMetrics) ObserveLeadScore(score float64) {
	if m == nil {
		return
	}
	m.leadScore.Observe(score)
}
