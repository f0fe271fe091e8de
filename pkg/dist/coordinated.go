package dist

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dicengine/dice/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Coordinated is a runtime for processes started together by a launcher.
//
// Rank 0 serves the coordinator; every rank, rank 0 included, talks to it
// over gRPC. Ranks other than 0 wait for the coordinator to come up, so
// start order does not matter within StartTimeout.
type Coordinated struct {
	cfg  Config
	host string

	rank int
	size int

	started bool
	stopped bool
	epoch   uint64

	server   *grpc.Server
	listener net.Listener
	conn     *grpc.ClientConn
}

// NewCoordinated creates a coordinated runtime. Nothing happens until Start.
func NewCoordinated(cfg Config) *Coordinated {
	cfg.applyDefaults()
	return &Coordinated{
		cfg:  cfg,
		host: hostname(),
	}
}

func (c *Coordinated) Name() string { return "coordinated" }

func (c *Coordinated) Rank() int { return c.rank }

func (c *Coordinated) Size() int { return c.size }

func (c *Coordinated) ProcessorName() string { return c.host }

// Start resolves the rank, brings up the coordinator on rank 0 and waits
// for the whole group at the first barrier. All failures wrap ErrStartup.
func (c *Coordinated) Start(ctx context.Context) error {
	switch {
	case c.stopped:
		return ErrStopped
	case c.started:
		return ErrAlreadyStarted
	}

	rank, size, err := resolveRank(c.cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}
	c.rank, c.size = rank, size

	if c.rank == 0 {
		if err := c.serve(); err != nil {
			return fmt.Errorf("%w: %w", ErrStartup, err)
		}
	}

	target := c.cfg.Coordinator
	if c.listener != nil {
		target = c.listener.Addr().String()
	}
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		c.shutdown(false)
		return fmt.Errorf("%w: dial coordinator %s: %w", ErrStartup, target, err)
	}
	c.conn = conn

	logger.Debug("Joining process group",
		logger.KeyRank, c.rank, logger.KeyWorldSize, c.size, "coordinator", target)

	startCtx, cancel := context.WithTimeout(ctx, c.cfg.StartTimeout)
	defer cancel()
	if err := c.barrier(startCtx); err != nil {
		c.shutdown(false)
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	c.started = true
	return nil
}

// Barrier blocks until every rank has called Barrier the same number of times.
func (c *Coordinated) Barrier(ctx context.Context) error {
	switch {
	case c.stopped:
		return ErrStopped
	case !c.started:
		return ErrNotStarted
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.BarrierTimeout)
	defer cancel()
	return c.barrier(ctx)
}

// Stop waits for every rank at a final barrier and then tears down the
// connection and, on rank 0, the coordinator. Resources are released even
// when the final barrier fails.
func (c *Coordinated) Stop(ctx context.Context) error {
	switch {
	case c.stopped:
		return ErrStopped
	case !c.started:
		return ErrNotStarted
	}
	c.stopped = true

	ctx, cancel := context.WithTimeout(ctx, c.cfg.BarrierTimeout)
	defer cancel()
	err := c.barrier(ctx)
	c.shutdown(err == nil)
	if err != nil {
		return fmt.Errorf("final barrier: %w", err)
	}
	return nil
}

func (c *Coordinated) serve() error {
	lis := c.cfg.Listener
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", c.cfg.Coordinator)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", c.cfg.Coordinator, err)
		}
	}
	c.listener = lis

	c.server = grpc.NewServer()
	c.server.RegisterService(&coordinatorServiceDesc, newCoordinator(c.size))

	go func() {
		if err := c.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("Coordinator stopped", "error", err)
		}
	}()

	logger.Debug("Coordinator listening", "address", lis.Addr().String(), logger.KeyWorldSize, c.size)
	return nil
}

func (c *Coordinated) barrier(ctx context.Context) error {
	c.epoch++
	req := &barrierRequest{Epoch: c.epoch, Rank: c.rank, Size: c.size, Host: c.host}
	resp := new(barrierResponse)
	if err := c.conn.Invoke(ctx, barrierMethod, req, resp, grpc.WaitForReady(true)); err != nil {
		return fmt.Errorf("barrier %d: %w", c.epoch, err)
	}
	return nil
}

// shutdown releases the client connection and the coordinator. A graceful
// shutdown lets in-flight barrier replies reach the other ranks.
func (c *Coordinated) shutdown(graceful bool) {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	if c.server != nil {
		if graceful {
			c.server.GracefulStop()
		} else {
			c.server.Stop()
		}
		c.server = nil
	}
}
