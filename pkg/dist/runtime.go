// Package dist provides the distributed runtime the process lifecycle is
// written against.
//
// A Runtime assigns this process a rank within a group of cooperating
// processes and lets the group synchronize. Two implementations exist:
//
//   - Noop: a single process, rank 0, every operation succeeds at once
//   - Coordinated: ranks come from the launcher environment and rank 0
//     hosts a small gRPC coordinator used for collective barriers
//
// Default picks one of them at compile time from the dice_dist build tag.
//
// Start and Stop are collective: every process in the group must call them,
// or the remaining processes block until their timeout expires.
package dist

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"github.com/dicengine/dice/pkg/buildinfo"
)

var (
	// ErrStartup wraps every failure to bring the runtime up.
	ErrStartup = errors.New("distributed runtime startup failed")

	// ErrAlreadyStarted is returned by Start on a runtime that was started before.
	ErrAlreadyStarted = errors.New("distributed runtime already started")

	// ErrNotStarted is returned by operations that need a started runtime.
	ErrNotStarted = errors.New("distributed runtime not started")

	// ErrStopped is returned by any operation after Stop.
	ErrStopped = errors.New("distributed runtime stopped")

	// ErrInvalidRank is returned when the rank does not fit the world size.
	ErrInvalidRank = errors.New("invalid rank")
)

// Runtime is a multi-process coordination substrate.
type Runtime interface {
	// Name identifies the implementation for logs.
	Name() string

	// Start joins the process group. It blocks until every process has
	// joined or ctx is done.
	Start(ctx context.Context) error

	// Rank is this process's position in the group. Only meaningful after Start.
	Rank() int

	// Size is the number of processes in the group. Only meaningful after Start.
	Size() int

	// ProcessorName is the name of the host this process runs on.
	ProcessorName() string

	// Barrier blocks until every process in the group has reached it.
	Barrier(ctx context.Context) error

	// Stop leaves the process group. It is collective like Start and may be
	// called at most once.
	Stop(ctx context.Context) error
}

// Config configures the coordinated runtime.
type Config struct {
	// Coordinator is the host:port rank 0 listens on and other ranks dial.
	Coordinator string

	// StartTimeout bounds the startup barrier.
	StartTimeout time.Duration

	// BarrierTimeout bounds every later barrier, including the one in Stop.
	BarrierTimeout time.Duration

	// Rank and Size override the launcher environment when Size > 0.
	Rank int
	Size int

	// Listener, when set, is used by rank 0 instead of listening on Coordinator.
	Listener net.Listener

	// Lookup reads launcher environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Coordinator:    "127.0.0.1:7400",
		StartTimeout:   60 * time.Second,
		BarrierTimeout: 60 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Coordinator == "" {
		c.Coordinator = def.Coordinator
	}
	if c.StartTimeout <= 0 {
		c.StartTimeout = def.StartTimeout
	}
	if c.BarrierTimeout <= 0 {
		c.BarrierTimeout = def.BarrierTimeout
	}
	if c.Lookup == nil {
		c.Lookup = os.LookupEnv
	}
}

// Default returns the runtime compiled into this binary: Coordinated when
// built with the dice_dist tag, Noop otherwise.
func Default(cfg Config) Runtime {
	if buildinfo.DistributedEnabled() {
		return NewCoordinated(cfg)
	}
	return NewNoop()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return name
}
