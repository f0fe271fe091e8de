package logger

import "context"

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds process-scoped logging context
type LogContext struct {
	TraceID   string // OpenTelemetry trace ID
	SpanID    string // OpenTelemetry span ID
	Rank      int    // Rank within the process group
	WorldSize int    // Number of processes in the group (0 = unknown)
	Phase     string // Lifecycle phase (uninitialized, initialized, finalized)
	Host      string // Processor name
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given lifecycle phase
func NewLogContext(phase string) *LogContext {
	return &LogContext{
		Phase: phase,
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithRank returns a copy with rank and world size set
func (lc *LogContext) WithRank(rank, size int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Rank = rank
		clone.WorldSize = size
	}
	return clone
}

// WithPhase returns a copy with the phase set
func (lc *LogContext) WithPhase(phase string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Phase = phase
	}
	return clone
}

// WithHost returns a copy with the processor name set
func (lc *LogContext) WithHost(host string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Host = host
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}
