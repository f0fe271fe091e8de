package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans routes spans started through this package into an in-memory
// recorder for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := tracer
	tracer = tp.Tracer("test")
	t.Cleanup(func() {
		tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "dice", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Should be able to call shutdown without error
	err = shutdown(ctx)
	assert.NoError(t, err)

	// Should not be enabled
	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	prev := tracer
	tracer = nil
	t.Cleanup(func() { tracer = prev })

	tr := Tracer()
	require.NotNil(t, tr)

	_, span := tr.Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Even without initialization, StartSpan should work (no-op)
	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	// Should be able to end the span
	span.End()
}

func TestAddEvent(t *testing.T) {
	t.Run("NoActiveSpan", func(t *testing.T) {
		require.NotPanics(t, func() {
			AddEvent(context.Background(), EventBannerWritten)
		})
	})

	t.Run("RecordedOnSpan", func(t *testing.T) {
		rec := recordSpans(t)

		ctx, span := StartLifecycleSpan(context.Background(), SpanBanner)
		AddEvent(ctx, EventBannerWritten, Rank(0), WorldSize(4))
		span.End()

		ended := rec.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, SpanBanner, ended[0].Name())

		events := ended[0].Events()
		require.Len(t, events, 1)
		assert.Equal(t, EventBannerWritten, events[0].Name)
		attrs := attrMap(events[0].Attributes)
		assert.Equal(t, int64(0), attrs[AttrRank].AsInt64())
		assert.Equal(t, int64(4), attrs[AttrWorldSize].AsInt64())
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	// Should not panic with nil error
	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	// Should not panic with error
	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})

	t.Run("SetsErrorStatus", func(t *testing.T) {
		rec := recordSpans(t)

		spanCtx, span := StartLifecycleSpan(context.Background(), SpanFinalize)
		RecordError(spanCtx, errors.New("final barrier timed out"))
		span.End()

		ended := rec.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
		assert.Equal(t, "final barrier timed out", ended[0].Status().Description)
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	t.Run("NoActiveSpan", func(t *testing.T) {
		require.NotPanics(t, func() {
			SetAttributes(context.Background(), Rank(0), WorldSize(1), Host("node-0"))
		})
	})

	t.Run("RecordedOnSpan", func(t *testing.T) {
		rec := recordSpans(t)

		ctx, span := StartLifecycleSpan(context.Background(), SpanInitialize, Runtime("noop"))
		SetAttributes(ctx, Rank(2), WorldSize(3), Host("node-2"))
		span.End()

		ended := rec.Ended()
		require.Len(t, ended, 1)
		attrs := attrMap(ended[0].Attributes())
		assert.Equal(t, "noop", attrs[AttrRuntime].AsString())
		assert.Equal(t, int64(2), attrs[AttrRank].AsInt64())
		assert.Equal(t, int64(3), attrs[AttrWorldSize].AsInt64())
		assert.Equal(t, "node-2", attrs[AttrHost].AsString())
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

type phaseName string

func (p phaseName) String() string { return string(p) }

func TestAttributeHelpers(t *testing.T) {
	t.Run("Rank", func(t *testing.T) {
		attr := Rank(3)
		assert.Equal(t, AttrRank, string(attr.Key))
		assert.Equal(t, int64(3), attr.Value.AsInt64())
	})

	t.Run("WorldSize", func(t *testing.T) {
		attr := WorldSize(8)
		assert.Equal(t, AttrWorldSize, string(attr.Key))
		assert.Equal(t, int64(8), attr.Value.AsInt64())
	})

	t.Run("Phase", func(t *testing.T) {
		attr := Phase(phaseName("initialized"))
		assert.Equal(t, AttrPhase, string(attr.Key))
		assert.Equal(t, "initialized", attr.Value.AsString())
	})

	t.Run("Runtime", func(t *testing.T) {
		attr := Runtime("coordinated")
		assert.Equal(t, AttrRuntime, string(attr.Key))
		assert.Equal(t, "coordinated", attr.Value.AsString())
	})

	t.Run("Host", func(t *testing.T) {
		attr := Host("node-a")
		assert.Equal(t, AttrHost, string(attr.Key))
		assert.Equal(t, "node-a", attr.Value.AsString())
	})

	t.Run("Verbose", func(t *testing.T) {
		attr := Verbose(true)
		assert.Equal(t, AttrVerbose, string(attr.Key))
		assert.True(t, attr.Value.AsBool())
	})
}

func TestBuildAttributes(t *testing.T) {
	attrs := BuildAttributes(buildinfo.Descriptor{
		Distributed: true,
		Working:     buildinfo.Double,
		Storage:     buildinfo.StorageInt,
		Revision:    "abc",
	})

	byKey := attrMap(attrs)

	assert.True(t, byKey[AttrDistributed].AsBool())
	assert.Equal(t, "double", byKey[AttrWorking].AsString())
	assert.Equal(t, "int", byKey[AttrStorage].AsString())
	assert.Equal(t, "abc", byKey[AttrRevision].AsString())
}

func TestStartLifecycleSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartLifecycleSpan(ctx, SpanInitialize)
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	newCtx2, span2 := StartLifecycleSpan(ctx, SpanFinalize, Rank(0), WorldSize(1))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}
