// Package lifecycle brings a DICe process up and down.
//
// Initialize starts the distributed runtime, learns this process's rank and
// prints the build banner when asked to; Finalize stops the runtime again.
// Both are collective in a distributed build: every rank must call them.
//
//	proc, err := lifecycle.Initialize(ctx, dist.Default(cfg), os.Args[1:])
//	if err != nil {
//		os.Exit(1)
//	}
//	defer proc.Finalize(ctx)
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dicengine/dice/internal/logger"
	"github.com/dicengine/dice/internal/telemetry"
	"github.com/dicengine/dice/pkg/banner"
	"github.com/dicengine/dice/pkg/bufcopy"
	"github.com/dicengine/dice/pkg/dist"
	"github.com/dicengine/dice/pkg/metrics"
	"go.opentelemetry.io/otel/codes"
)

// Phase is the lifecycle state of a process.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitialized
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitialized:
		return "initialized"
	case PhaseFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

const (
	opInitialize = "initialize"
	opFinalize   = "finalize"
)

// Process is an initialized DICe process. It is returned by Initialize and
// must be finalized exactly once.
type Process struct {
	mu    sync.Mutex
	phase Phase

	rt      dist.Runtime
	rank    int
	size    int
	verbose bool

	// host holds the processor name as a NUL-terminated string.
	host [bufcopy.MaxBufferSize]byte

	opts options
}

// Verbose reports whether args hold the verbosity switch. Only the exact
// tokens "-v" and "--verbose" count.
func Verbose(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		return arg == "-v" || arg == "--verbose"
	})
}

// Initialize starts rt and returns the running process.
//
// args are the command line arguments without the program name. When they
// contain -v or --verbose, rank 0 writes the build banner. A nil rt runs the
// process alone, as with dist.NewNoop.
//
// Errors:
//   - ErrAlreadyInitialized: rt was started before
//   - ErrFinalized: rt was already stopped
//   - ErrStartup: rt failed to start; the process cannot continue
func Initialize(ctx context.Context, rt dist.Runtime, args []string, opts ...Option) (*Process, error) {
	if rt == nil {
		rt = dist.NewNoop()
	}
	o := newOptions(opts)
	verbose := Verbose(args)
	start := time.Now()

	ctx, span := telemetry.StartLifecycleSpan(ctx, telemetry.SpanInitialize,
		telemetry.Runtime(rt.Name()),
		telemetry.Verbose(verbose),
	)
	defer span.End()

	lc := logger.NewLogContext(PhaseUninitialized.String()).
		WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	ctx = logger.WithContext(ctx, lc)
	logger.DebugCtx(ctx, "Starting distributed runtime", logger.KeyRuntime, rt.Name())

	if err := rt.Start(ctx); err != nil {
		metrics.ObserveTransition(o.metrics, opInitialize, false, time.Since(start))
		telemetry.RecordError(ctx, err)
		telemetry.SetStatus(ctx, codes.Error, "runtime start failed")

		switch {
		case errors.Is(err, dist.ErrAlreadyStarted):
			return nil, &Error{Op: opInitialize, Phase: PhaseInitialized, Err: ErrAlreadyInitialized}
		case errors.Is(err, dist.ErrStopped):
			return nil, &Error{Op: opInitialize, Phase: PhaseFinalized, Err: ErrFinalized}
		}
		logger.ErrorCtx(ctx, "Distributed runtime failed to start",
			logger.KeyRuntime, rt.Name(), logger.Err(err))
		return nil, &Error{
			Op:    opInitialize,
			Phase: PhaseUninitialized,
			Err:   fmt.Errorf("%w: %w", ErrStartup, err),
		}
	}

	p := &Process{
		phase:   PhaseInitialized,
		rt:      rt,
		rank:    rt.Rank(),
		size:    rt.Size(),
		verbose: verbose,
		opts:    o,
	}
	if !bufcopy.SafeBufferCopy(p.host[:], len(p.host), []byte(rt.ProcessorName())) {
		logger.WarnCtx(ctx, "Processor name too long, not recorded", "limit", bufcopy.MaxBufferSize)
		metrics.ObserveCopyRejection(o.metrics, "processor_name")
	}

	ctx = logger.WithContext(ctx, lc.
		WithRank(p.rank, p.size).
		WithHost(p.ProcessorName()).
		WithPhase(PhaseInitialized.String()))
	telemetry.SetAttributes(ctx,
		telemetry.Rank(p.rank),
		telemetry.WorldSize(p.size),
		telemetry.Host(p.ProcessorName()),
		telemetry.Phase(PhaseInitialized),
	)

	if verbose && p.rank == 0 {
		bannerCtx, bannerSpan := telemetry.StartLifecycleSpan(ctx, telemetry.SpanBanner,
			telemetry.BuildAttributes(o.descriptor)...)
		banner.Write(o.output, o.descriptor)
		telemetry.AddEvent(bannerCtx, telemetry.EventBannerWritten,
			telemetry.Rank(p.rank), telemetry.WorldSize(p.size))
		bannerSpan.End()
	}

	elapsed := time.Since(start)
	metrics.SetRank(o.metrics, p.rank, p.size)
	metrics.ObserveTransition(o.metrics, opInitialize, true, elapsed)
	logger.InfoCtx(ctx, "Process initialized",
		logger.KeyRuntime, rt.Name(),
		logger.KeyVerbose, verbose,
		logger.DurationMs(elapsed))

	return p, nil
}

// Finalize stops the runtime. In a distributed build it waits for every
// rank to finalize. It is a no-op for a process without a distributed
// runtime.
//
// Finalize on a nil Process returns ErrNotInitialized, a second call
// returns ErrFinalized.
func (p *Process) Finalize(ctx context.Context) error {
	if p == nil {
		return &Error{Op: opFinalize, Phase: PhaseUninitialized, Err: ErrNotInitialized}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase == PhaseFinalized {
		return &Error{Op: opFinalize, Phase: PhaseFinalized, Err: ErrFinalized}
	}

	start := time.Now()
	ctx, span := telemetry.StartLifecycleSpan(ctx, telemetry.SpanFinalize,
		telemetry.Runtime(p.rt.Name()),
		telemetry.Rank(p.rank),
		telemetry.WorldSize(p.size),
	)
	defer span.End()

	lc := logger.NewLogContext(PhaseInitialized.String()).
		WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx)).
		WithRank(p.rank, p.size).
		WithHost(p.ProcessorName())
	ctx = logger.WithContext(ctx, lc)

	err := p.rt.Stop(ctx)
	p.phase = PhaseFinalized
	elapsed := time.Since(start)
	metrics.ObserveTransition(p.opts.metrics, opFinalize, err == nil, elapsed)

	if err != nil {
		telemetry.RecordError(ctx, err)
		telemetry.SetStatus(ctx, codes.Error, "runtime stop failed")
		logger.ErrorCtx(ctx, "Distributed runtime failed to stop",
			logger.KeyRuntime, p.rt.Name(), logger.Err(err))
		return &Error{
			Op:    opFinalize,
			Phase: PhaseInitialized,
			Err:   fmt.Errorf("stop %s runtime: %w", p.rt.Name(), err),
		}
	}

	logger.InfoCtx(logger.WithContext(ctx, lc.WithPhase(PhaseFinalized.String())),
		"Process finalized", logger.DurationMs(elapsed))
	return nil
}

// Rank is this process's position in its group.
func (p *Process) Rank() int { return p.rank }

// Size is the number of processes in the group.
func (p *Process) Size() int { return p.size }

// Verbose reports whether the process was started with -v or --verbose.
func (p *Process) Verbose() bool { return p.verbose }

// Runtime returns the distributed runtime the process was started on.
func (p *Process) Runtime() dist.Runtime { return p.rt }

// ProcessorName is the host name reported by the runtime, or "" when it
// did not fit.
func (p *Process) ProcessorName() string { return bufcopy.CString(p.host[:]) }

// Phase returns the current lifecycle phase.
func (p *Process) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}
