package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "groupchat_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupchat_ws_events_total",
			Help: "Total number of websocket events handled.",
		},
		[]string{"event"},
	)
	messagesPersistedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "groupchat_messages_persisted_total",
			Help: "Total number of chat messages appended to a group's log.",
		},
	)
	aiProviderFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupchat_ai_provider_failures_total",
			Help: "Total number of failed AI provider calls.",
		},
		[]string{"provider"},
	)
	aiAnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupchat_ai_answers_total",
			Help: "Total number of successful AI answers by provider.",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(
		wsActiveConnections,
		wsEventsTotal,
		messagesPersistedTotal,
		aiProviderFailuresTotal,
		aiAnswersTotal,
	)
}

func IncWSActive() { wsActiveConnections.Inc() }
func DecWSActive() { wsActiveConnections.Dec() }

func IncWSEvent(event string) { wsEventsTotal.WithLabelValues(event).Inc() }

func IncMessagePersisted() { messagesPersistedTotal.Inc() }

func IncAIProviderFailure(provider string) { aiProviderFailuresTotal.WithLabelValues(provider).Inc() }
func IncAIAnswer(provider string)          { aiAnswersTotal.WithLabelValues(provider).Inc() }
