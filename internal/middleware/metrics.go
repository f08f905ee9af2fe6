package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64

	VerdictsSafe      uint64
	VerdictsRisky     uint64
	VerdictsDangerous uint64

	FallbacksConfig   uint64
	FallbacksUpstream uint64
	FallbacksQuota    uint64
	FallbacksParse    uint64

	StartTime time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementInProgress increments in-progress request counter
func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

// DecrementInProgress decrements in-progress request counter
func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

// RecordVerdict counts one verdict by level and, if set, by fallback kind.
// Unknown values are ignored.
func RecordVerdict(level, fallbackKind string) {
	switch level {
	case "SAFE":
		atomic.AddUint64(&globalMetrics.VerdictsSafe, 1)
	case "RISKY":
		atomic.AddUint64(&globalMetrics.VerdictsRisky, 1)
	case "DANGEROUS":
		atomic.AddUint64(&globalMetrics.VerdictsDangerous, 1)
	}

	switch fallbackKind {
	case "configuration_missing":
		atomic.AddUint64(&globalMetrics.FallbacksConfig, 1)
	case "upstream_unavailable":
		atomic.AddUint64(&globalMetrics.FallbacksUpstream, 1)
	case "quota_exceeded":
		atomic.AddUint64(&globalMetrics.FallbacksQuota, 1)
	case "parse_error":
		atomic.AddUint64(&globalMetrics.FallbacksParse, 1)
	}
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"verdicts": map[string]uint64{
			"SAFE":      atomic.LoadUint64(&globalMetrics.VerdictsSafe),
			"RISKY":     atomic.LoadUint64(&globalMetrics.VerdictsRisky),
			"DANGEROUS": atomic.LoadUint64(&globalMetrics.VerdictsDangerous),
		},
		"fallbacks": map[string]uint64{
			"configuration_missing": atomic.LoadUint64(&globalMetrics.FallbacksConfig),
			"upstream_unavailable":  atomic.LoadUint64(&globalMetrics.FallbacksUpstream),
			"quota_exceeded":        atomic.LoadUint64(&globalMetrics.FallbacksQuota),
			"parse_error":           atomic.LoadUint64(&globalMetrics.FallbacksParse),
		},
		"uptime_seconds": time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
