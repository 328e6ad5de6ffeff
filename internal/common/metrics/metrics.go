// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailsSeen = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_emails_seen_total",
			Help: "Total number of unseen emails fetched, by outcome",
		},
		[]string{"outcome"},
	)

	RepliesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_replies_sent_total",
			Help: "Total number of replies delivered",
		},
	)

	RepliesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_replies_failed_total",
			Help: "Total number of replies that could not be produced or delivered",
		},
		[]string{"error_code"},
	)

	PollCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "assistant_poll_cycle_duration_seconds",
			Help: "Duration of a full poll cycle in seconds",
		},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_generation_duration_seconds",
			Help: "Duration of LLM response generation in seconds",
		},
		[]string{"backend"},
	)
)
