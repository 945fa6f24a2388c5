// Package metrics exposes Prometheus metrics for go-kvlock. Counters are
// incremented by the lock coordinator and must be registered on a registry by
// the host application.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AttemptCounter tracks individual acquisition attempts, including the
	// retries inside a blocking wait.
	AttemptCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvlock_attempts_total",
		Help: "Total number of lock acquisition attempts",
	})
	// AcquiredCounter tracks successful acquisitions.
	AcquiredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvlock_acquired_total",
		Help: "Total number of successful lock acquisitions",
	})
	// TakeoverCounter tracks acquisitions that reclaimed an expired record.
	TakeoverCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvlock_takeovers_total",
		Help: "Total number of expired-lock takeovers",
	})
	// TimeoutCounter tracks blocking acquisitions that exhausted their wait budget.
	TimeoutCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvlock_wait_timeouts_total",
		Help: "Total number of lock waits that timed out",
	})
	// ReleaseCounter tracks completed releases.
	ReleaseCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvlock_releases_total",
		Help: "Total number of lock releases",
	})
	// StoreErrorCounter tracks failures reported by the backing store.
	StoreErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvlock_store_errors_total",
		Help: "Total number of store failures observed by the coordinator",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterLockMetrics registers go-kvlock metrics on the provided registry.
func RegisterLockMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AttemptCounter, AcquiredCounter, TakeoverCounter, TimeoutCounter, ReleaseCounter, StoreErrorCounter)
}
