package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline Prometheus metrics.
var (
	ForumRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threadsage",
			Name:      "forum_requests_total",
			Help:      "Total number of Reddit API requests",
		},
		[]string{"endpoint", "status"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threadsage",
			Name:      "generation_requests_total",
			Help:      "Total number of generative requests",
		},
		[]string{"provider", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "threadsage",
			Name:      "generation_request_duration_seconds",
			Help:      "Generative request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	VectorCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threadsage",
			Name:      "vector_cache_total",
			Help:      "Vector cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threadsage",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	FallbackAnswersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threadsage",
			Name:      "fallback_answers_total",
			Help:      "Answers synthesized by the extractive fallback",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ForumRequestsTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(VectorCacheTotal)
	prometheus.MustRegister(AnswerCacheTotal)
	prometheus.MustRegister(FallbackAnswersTotal)
	pipelineMetricsRegistered = true
}
