package config

import (
	"fmt"

	"github.com/dicengine/dice/internal/logger"
	"github.com/dicengine/dice/pkg/metrics"
)

// MetricsResult holds what InitializeMetrics set up.
// Both fields are nil when metrics are disabled.
type MetricsResult struct {
	// Server serves /metrics; the caller runs Serve and Shutdown.
	Server *metrics.Server

	// Lifecycle records Initialize and Finalize transitions.
	Lifecycle metrics.LifecycleMetrics
}

// InitializeMetrics creates the Prometheus registry, the lifecycle metrics
// and the HTTP server when cfg.Metrics.Enabled is set.
//
// The Prometheus implementation registers itself on import:
//
//	import _ "github.com/dicengine/dice/pkg/metrics/prometheus"
func InitializeMetrics(cfg *Config) (MetricsResult, error) {
	if !cfg.Metrics.Enabled {
		logger.Debug("Metrics disabled")
		return MetricsResult{}, nil
	}

	metrics.InitRegistry()

	srv, err := metrics.NewServer(cfg.Metrics.Port)
	if err != nil {
		metrics.ResetRegistry()
		return MetricsResult{}, fmt.Errorf("failed to start metrics server: %w", err)
	}

	logger.Debug("Metrics registry initialized", "addr", srv.Addr())
	return MetricsResult{
		Server:    srv,
		Lifecycle: metrics.NewLifecycleMetrics(),
	}, nil
}
