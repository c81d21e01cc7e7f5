package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors for provider calls, tool calls and collection polls.
type Metrics struct {
	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	toolCalls        *prometheus.CounterVec
	collectionPolls  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scout_provider_requests_total",
				Help: "Total number of provider HTTP requests by status code",
			},
			[]string{"provider", "code"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scout_provider_request_duration_seconds",
				Help:    "Duration of provider HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scout_tool_calls_total",
				Help: "Total number of tool invocations by outcome",
			},
			[]string{"tool", "outcome"},
		),
		collectionPolls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scout_collection_polls_total",
				Help: "Total number of collection progress probes by reported status",
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.providerRequests, m.providerDuration, m.toolCalls, m.collectionPolls)
	return m
}

// ObserveProvider records one provider request. A code of 0 means the request never got a response.
func (m *Metrics) ObserveProvider(provider string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(provider, strconv.Itoa(code)).Inc()
	m.providerDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveTool records one tool call outcome ("ok" or an error code name).
func (m *Metrics) ObserveTool(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// ObservePoll records one collection progress probe.
func (m *Metrics) ObservePoll(status string) {
	if m == nil {
		return
	}
	m.collectionPolls.WithLabelValues(status).Inc()
}
