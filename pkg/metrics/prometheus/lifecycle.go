package prometheus

import (
	"time"

	"github.com/dicengine/dice/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterLifecycleMetricsConstructor(NewLifecycleMetrics)
}

// lifecycleMetrics is the Prometheus implementation of metrics.LifecycleMetrics.
type lifecycleMetrics struct {
	transitions    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	rank           prometheus.Gauge
	worldSize      prometheus.Gauge
	copyRejections *prometheus.CounterVec
}

// NewLifecycleMetrics creates Prometheus-backed lifecycle metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewLifecycleMetrics() metrics.LifecycleMetrics {
	reg := metrics.GetRegistry()
	if reg == nil {
		return nil
	}

	return &lifecycleMetrics{
		transitions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dice_lifecycle_transitions_total",
				Help: "Total number of lifecycle transitions by transition and status",
			},
			[]string{"transition", "status"}, // status: "success", "error"
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dice_lifecycle_transition_duration_milliseconds",
				Help: "Duration of lifecycle transitions in milliseconds, barriers included",
				Buckets: []float64{
					0.1,   // no-op runtime
					1,     // 1ms
					10,    // 10ms - local coordinator
					100,   // 100ms
					1000,  // 1s - slow peers
					10000, // 10s
					60000, // 1m - start timeout
				},
			},
			[]string{"transition"},
		),
		rank: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "dice_process_rank",
			Help: "Rank of this process within its group",
		}),
		worldSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "dice_process_world_size",
			Help: "Number of processes in the group",
		}),
		copyRejections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dice_bufcopy_rejections_total",
				Help: "Bounded buffer copies rejected because the source did not fit",
			},
			[]string{"field"},
		),
	}
}

func (m *lifecycleMetrics) ObserveTransition(transition string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.transitions.WithLabelValues(transition, status).Inc()
	m.duration.WithLabelValues(transition).Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *lifecycleMetrics) SetRank(rank, size int) {
	m.rank.Set(float64(rank))
	m.worldSize.Set(float64(size))
}

func (m *lifecycleMetrics) ObserveCopyRejection(field string) {
	m.copyRejections.WithLabelValues(field).Inc()
}
