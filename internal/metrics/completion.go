package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "pustaka"

// Completion gateway and pipeline metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Total number of text completion provider calls",
		},
		[]string{"provider", "model", "status"}, // status: success, error, rate_limited, timeout
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_request_duration_seconds",
			Help:      "Text completion provider call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"provider", "model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: prompt, output
	)

	CompletionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_cache_total",
			Help:      "Completion response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CompletionQuotaRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completion_quota_remaining",
			Help:      "Provider calls left in the current quota window",
		},
		[]string{"provider"},
	)

	ChatResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_responses_total",
			Help:      "Chat responses by response type",
		},
		[]string{"type"},
	)

	MetadataGenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_generation_total",
			Help:      "Metadata generation outcomes",
		},
		[]string{"kind", "outcome"}, // kind: book, playlist
	)
)

var completionMetricsRegistered bool

// RegisterCompletionMetrics registers completion, chat and generation metrics. Must be called once from main.
func RegisterCompletionMetrics() {
	if completionMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		CompletionRequestsTotal,
		CompletionRequestDuration,
		CompletionTokensTotal,
		CompletionCacheTotal,
		CompletionQuotaRemaining,
		ChatResponsesTotal,
		MetadataGenerationTotal,
	)
	completionMetricsRegistered = true
}
