package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendLatency measures time from fact set to ranked result
	RecommendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "majorwise_recommend_latency_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"source"},
	)

	// Recommendations counts recommendation runs by top major
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "majorwise_recommendations_total",
			Help: "Total number of recommendation runs by top major",
		},
		[]string{"major"},
	)

	RulesFired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "majorwise_rules_fired_total",
			Help: "Total number of rules that fired across all runs",
		},
	)

	// RuleMutations counts add/update/delete requests against the rule base
	RuleMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "majorwise_rule_mutations_total",
			Help: "Total number of rule base mutations",
		},
		[]string{"op", "result"},
	)

	Rules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "majorwise_rules",
			Help: "Number of rules currently in the knowledge base",
		},
	)

	// HistoryWriteLatency measures database write latency for recommendation runs
	HistoryWriteLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "majorwise_history_write_latency_seconds",
			Help:    "Database write latency for recommendation runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"operation"},
	)
)
