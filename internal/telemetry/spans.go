package telemetry

import (
	"context"
	"fmt"

	"github.com/dicengine/dice/pkg/buildinfo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for process bootstrap spans.
const (
	AttrRank        = "dice.rank"
	AttrWorldSize   = "dice.world_size"
	AttrPhase       = "dice.lifecycle.phase"
	AttrRuntime     = "dice.runtime"
	AttrHost        = "dice.host"
	AttrVerbose     = "dice.verbose"
	AttrDistributed = "dice.build.distributed"
	AttrWorking     = "dice.build.working_precision"
	AttrStorage     = "dice.build.storage_precision"
	AttrRevision    = "dice.build.revision"
)

// Span names.
const (
	SpanInitialize = "lifecycle.initialize"
	SpanFinalize   = "lifecycle.finalize"
	SpanBanner     = "lifecycle.banner"
)

// Span events.
const (
	EventBannerWritten = "banner.written"
)

// Rank returns an attribute for the process rank
func Rank(rank int) attribute.KeyValue {
	return attribute.Int(AttrRank, rank)
}

// WorldSize returns an attribute for the process group size
func WorldSize(size int) attribute.KeyValue {
	return attribute.Int(AttrWorldSize, size)
}

// Phase returns an attribute for the lifecycle phase
func Phase(phase fmt.Stringer) attribute.KeyValue {
	return attribute.String(AttrPhase, phase.String())
}

// Runtime returns an attribute for the distributed runtime implementation
func Runtime(name string) attribute.KeyValue {
	return attribute.String(AttrRuntime, name)
}

// Host returns an attribute for the processor name
func Host(name string) attribute.KeyValue {
	return attribute.String(AttrHost, name)
}

// Verbose returns an attribute for the verbosity switch
func Verbose(v bool) attribute.KeyValue {
	return attribute.Bool(AttrVerbose, v)
}

// StartLifecycleSpan starts a span for a lifecycle transition.
func StartLifecycleSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// BuildAttributes describes the build configuration as resource attributes.
func BuildAttributes(d buildinfo.Descriptor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(AttrDistributed, d.Distributed),
		attribute.String(AttrWorking, d.Working.String()),
		attribute.String(AttrStorage, d.Storage.String()),
		attribute.String(AttrRevision, d.Revision),
	}
}
