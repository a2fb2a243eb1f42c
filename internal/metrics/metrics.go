package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_assistant_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_assistant_http_request_duration_seconds",
			Help:    "Duration of handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	RateLimitedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_assistant_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		},
		[]string{"action"},
	)
	MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_assistant_match_score",
			Help:    "Distribution of computed match scores.",
			Buckets: []float64{0, 10, 25, 50, 75, 90, 100},
		},
	)
	AiCallDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "job_assistant_ai_call_duration_seconds",
			Help:       "Duration of language model calls.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"endpoint", "status"},
	)
	AiTokensCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_assistant_ai_tokens_total",
			Help: "Total number of language model tokens consumed.",
		},
		[]string{"model", "kind"},
	)
	FeedJobsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_assistant_feed_jobs_total",
			Help: "Total number of feed records by ingestion outcome.",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(RateLimitedCounter)
		prometheus.MustRegister(MatchScore)
		prometheus.MustRegister(AiCallDuration)
		prometheus.MustRegister(AiTokensCounter)
		prometheus.MustRegister(FeedJobsCounter)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
