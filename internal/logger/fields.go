package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently so logs from every rank can be aggregated.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID
	KeySpanID  = "span_id"  // OpenTelemetry span ID

	// ========================================================================
	// Process Group
	// ========================================================================
	KeyRank      = "rank"       // Rank within the process group
	KeyWorldSize = "world_size" // Number of processes in the group
	KeyHost      = "host"       // Processor name
	KeyRuntime   = "runtime"    // Distributed runtime implementation
	KeyEpoch     = "epoch"      // Barrier epoch

	// ========================================================================
	// Lifecycle
	// ========================================================================
	KeyPhase   = "phase"   // Lifecycle phase
	KeyVerbose = "verbose" // Verbosity switch present on the command line
	KeyArgs    = "args"    // Number of process arguments

	// ========================================================================
	// Build
	// ========================================================================
	KeyRevision = "revision"          // Source revision
	KeyVersion  = "version"           // Release version
	KeyWorking  = "working_precision" // In-memory numeric precision
	KeyStorage  = "storage_precision" // On-disk numeric precision

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
)

// Rank returns a slog.Attr for the process rank
func Rank(rank int) slog.Attr {
	return slog.Int(KeyRank, rank)
}

// WorldSize returns a slog.Attr for the process group size
func WorldSize(size int) slog.Attr {
	return slog.Int(KeyWorldSize, size)
}

// DurationMs returns a slog.Attr for an elapsed duration in milliseconds
func DurationMs(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMs, float64(d.Microseconds())/1000.0)
}

// Err returns a slog.Attr for an error (nil-safe)
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
