package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// InventoryConsumption counts debit attempts by outcome.
	InventoryConsumption = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewhub_inventory_consumption_total",
		Help: "Coffee bag debit attempts by outcome",
	}, []string{"outcome"})

	// GramsConsumed sums grams successfully debited from bags.
	GramsConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewhub_inventory_grams_consumed_total",
		Help: "Total grams debited from coffee bags",
	})

	// ExtractionCompletions counts completion workflow runs by the step they ended on.
	ExtractionCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewhub_extraction_completions_total",
		Help: "Extraction completions by final step and outcome",
	}, []string{"step", "outcome"})

	// SocialActions counts social graph mutations by action.
	SocialActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewhub_social_actions_total",
		Help: "Social graph mutations by action",
	}, []string{"action"})

	// FeedCacheLookups counts global feed cache lookups by result.
	FeedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewhub_feed_cache_lookups_total",
		Help: "Global feed cache lookups by result",
	}, []string{"result"})
)

// Outcome labels shared by the domain counters.
const (
	OutcomeSuccess           = "success"
	OutcomeNotFound          = "not_found"
	OutcomeForbidden         = "forbidden"
	OutcomeInvalid           = "invalid"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeError             = "error"
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordConsumption records one debit attempt.
func RecordConsumption(outcome string, grams float64) {
	InventoryConsumption.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		GramsConsumed.Add(grams)
	}
}

// RecordCompletion records how far a completion workflow got.
func RecordCompletion(step, outcome string) {
	ExtractionCompletions.WithLabelValues(step, outcome).Inc()
}

// RecordSocialAction records a social graph mutation.
func RecordSocialAction(action string) {
	SocialActions.WithLabelValues(action).Inc()
}

// RecordFeedCache records a global feed cache hit or miss.
func RecordFeedCache(hit bool) {
	if hit {
		FeedCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	FeedCacheLookups.WithLabelValues("miss").Inc()
}
