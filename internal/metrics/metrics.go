package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of report cache lookups",
		},
		[]string{"category"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of report cache hits",
		},
		[]string{"category", "level"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of report cache misses",
		},
		[]string{"category"},
	)

	CacheBypass = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_bypass_total",
			Help: "Total number of requests for categories that bypass the cache",
		},
		[]string{"category"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of swallowed cache backend errors",
		},
		[]string{"level", "kind"},
	)

	CachePurgedEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_purged_entries_total",
			Help: "Total number of cache entries removed by purges",
		},
		[]string{"scope"},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries held by a cache level",
		},
		[]string{"level"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size_bytes",
			Help: "Bytes held by a cache level",
		},
		[]string{"level"},
	)

	// Period resolution
	PeriodResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "period_resolutions_total",
			Help: "Total number of period resolutions by matching tier",
		},
		[]string{"tier"},
	)

	CatalogErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_errors_total",
			Help: "Total number of period catalog lookups that failed",
		},
		[]string{"operation"},
	)

	// Aggregation collaborator
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of report aggregations run on cache misses",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"category"},
	)

	AggregationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_errors_total",
			Help: "Total number of failed report aggregations",
		},
		[]string{"category"},
	)
)

// RecordCacheRequest records a cache request
func RecordCacheRequest(category string) {
	CacheRequests.WithLabelValues(category).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(category string, level string) {
	CacheHits.WithLabelValues(category, level).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(category string) {
	CacheMisses.WithLabelValues(category).Inc()
}

// RecordCacheBypass records a request served without the cache
func RecordCacheBypass(category string) {
	CacheBypass.WithLabelValues(category).Inc()
}

// RecordCacheError records a cache error with level and kind
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// RecordPurge records the number of entries removed by a purge
func RecordPurge(scope string, count int) {
	CachePurgedEntries.WithLabelValues(scope).Add(float64(count))
}

// UpdateCacheUsage updates entry count and size gauges of a level
func UpdateCacheUsage(level string, entries, bytes int64) {
	CacheEntries.WithLabelValues(level).Set(float64(entries))
	CacheSize.WithLabelValues(level).Set(float64(bytes))
}

// RecordResolution records which tier resolved a period
func RecordResolution(tier string) {
	PeriodResolutions.WithLabelValues(tier).Inc()
}

// RecordCatalogError records a failed catalog lookup
func RecordCatalogError(operation string) {
	CatalogErrors.WithLabelValues(operation).Inc()
}

// RecordAggregationError records a failed aggregation
func RecordAggregationError(category string) {
	AggregationErrors.WithLabelValues(category).Inc()
}

// TimeCacheOperation returns a timer function for measuring cache operation duration
func TimeCacheOperation(operation, level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation, level))
	return func() {
		timer.ObserveDuration()
	}
}

// TimeAggregation returns a timer function for measuring an aggregation
func TimeAggregation(category string) func() {
	timer := prometheus.NewTimer(AggregationDuration.WithLabelValues(category))
	return func() {
		timer.ObserveDuration()
	}
}
