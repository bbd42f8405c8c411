package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_messages_total",
			Help: "Total number of chat messages appended to sessions",
		},
		[]string{"role"},
	)
	CannedRepliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_canned_replies_total",
			Help: "Replies answered locally without calling the model",
		},
	)
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_llm_requests_total",
			Help: "Total number of requests sent to the model",
		},
		[]string{"mode"}, // mode: generate, stream
	)
	LLMErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_llm_errors_total",
			Help: "Total number of failed model requests",
		},
		[]string{"mode"},
	)
	LLMLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gochat_llm_latency_seconds",
			Help:    "Latency of model requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_llm_tokens_total",
			Help: "Total number of tokens sent/received from the model",
		},
		[]string{"type"}, // type: prompt, completion, total
	)
	CodeBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_code_blocks_total",
			Help: "Code blocks extracted from assistant replies",
		},
		[]string{"language"},
	)
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gochat_active_sessions",
			Help: "Number of chat sessions held in memory",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
