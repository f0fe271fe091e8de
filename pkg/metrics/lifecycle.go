package metrics

import "time"

// LifecycleMetrics records process lifecycle transitions.
//
// Pass nil to disable collection:
//
//	metrics.InitRegistry()
//	m := metrics.NewLifecycleMetrics()
//	proc, err := lifecycle.Initialize(ctx, rt, args, lifecycle.WithMetrics(m))
type LifecycleMetrics interface {
	// ObserveTransition records one Initialize or Finalize call.
	//
	// Parameters:
	//   - transition: "initialize" or "finalize"
	//   - success: whether the transition succeeded
	//   - duration: wall time of the transition, barriers included
	ObserveTransition(transition string, success bool, duration time.Duration)

	// SetRank publishes this process's position in its group.
	SetRank(rank, size int)

	// ObserveCopyRejection counts bounded copies that were rejected because
	// the source did not fit.
	ObserveCopyRejection(field string)
}

// newPrometheusLifecycleMetrics is set by pkg/metrics/prometheus.
// The indirection keeps this package free of the implementation.
var newPrometheusLifecycleMetrics func() LifecycleMetrics

// RegisterLifecycleMetricsConstructor registers the Prometheus implementation.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterLifecycleMetricsConstructor(constructor func() LifecycleMetrics) {
	newPrometheusLifecycleMetrics = constructor
}

// NewLifecycleMetrics returns Prometheus-backed lifecycle metrics, or nil
// when metrics are disabled or no implementation is linked in.
func NewLifecycleMetrics() LifecycleMetrics {
	if !IsEnabled() || newPrometheusLifecycleMetrics == nil {
		return nil
	}
	return newPrometheusLifecycleMetrics()
}

// ObserveTransition records a transition on m if it is non-nil.
func ObserveTransition(m LifecycleMetrics, transition string, success bool, duration time.Duration) {
	if m != nil {
		m.ObserveTransition(transition, success, duration)
	}
}

// SetRank publishes the rank on m if it is non-nil.
func SetRank(m LifecycleMetrics, rank, size int) {
	if m != nil {
		m.SetRank(rank, size)
	}
}

// ObserveCopyRejection counts a rejected copy on m if it is non-nil.
func ObserveCopyRejection(m LifecycleMetrics, field string) {
	if m != nil {
		m.ObserveCopyRejection(field)
	}
}
