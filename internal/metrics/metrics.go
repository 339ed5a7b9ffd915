// Package metrics provides Prometheus metrics for the aggregator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetches counts feed pulls by source and outcome.
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ainews",
			Name:      "feed_fetches_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"source", "status"},
	)

	// FeedEntries counts entries accepted into a batch per source.
	FeedEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ainews",
			Name:      "feed_entries_total",
			Help:      "Total number of recent feed entries collected",
		},
		[]string{"source"},
	)

	// EnrichmentCalls counts inference calls by operation and outcome.
	EnrichmentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ainews",
			Name:      "enrichment_calls_total",
			Help:      "Total number of inference calls",
		},
		[]string{"operation", "result"},
	)

	// CacheLookups counts cache checks by result (hit, miss, bypass).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ainews",
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups",
		},
		[]string{"result"},
	)

	// StoreErrors counts swallowed store failures by operation.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ainews",
			Name:      "store_errors_total",
			Help:      "Total number of cache store failures",
		},
		[]string{"operation"},
	)

	// StoreConnected reports whether the cache store is reachable (1) or not (0).
	StoreConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ainews",
			Name:      "store_connected",
			Help:      "Cache store connection status (1 = connected, 0 = disconnected)",
		},
	)
)
