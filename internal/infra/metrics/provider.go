// File: internal/infra/metrics/provider.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(providerCallLatencyMs, aiTokensTotal, aiCallsLatencyMs) }

var (
	providerCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_latency_ms",
			Help:    "Video data/analytics API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"call", "success"},
	)

	aiTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Sum of tokens per model and direction (in/out).",
		},
		[]string{"model", "direction"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		},
		[]string{"model", "success"},
	)
)

func ObserveProviderCall(call string, latencyMs int, success bool) {
	providerCallLatencyMs.WithLabelValues(norm(call), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func ObserveAIUsage(model string, tokensIn, tokensOut, latencyMs int, success bool) {
	aiTokensTotal.WithLabelValues(norm(model), "in").Add(float64(tokensIn))
	aiTokensTotal.WithLabelValues(norm(model), "out").Add(float64(tokensOut))
	aiCallsLatencyMs.WithLabelValues(norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
