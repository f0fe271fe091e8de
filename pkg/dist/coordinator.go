package dist

import (
	"context"
	"sync"

	"github.com/dicengine/dice/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	coordinatorService = "dice.dist.Coordinator"
	barrierMethod      = "/" + coordinatorService + "/Barrier"
)

type barrierRequest struct {
	Epoch uint64 `json:"epoch"`
	Rank  int    `json:"rank"`
	Size  int    `json:"size"`
	Host  string `json:"host,omitempty"`
}

type barrierResponse struct {
	Epoch uint64 `json:"epoch"`
	Size  int    `json:"size"`
}

// coordinatorServer is the handler type of the coordinator service.
type coordinatorServer interface {
	barrier(ctx context.Context, req *barrierRequest) (*barrierResponse, error)
}

// barrierState tracks one barrier epoch until every rank has arrived.
type barrierState struct {
	arrived map[int]struct{}
	done    chan struct{}
}

// coordinator runs on rank 0 and releases each barrier epoch once all
// ranks of the group have reached it.
type coordinator struct {
	size int

	mu     sync.Mutex
	epochs map[uint64]*barrierState
}

func newCoordinator(size int) *coordinator {
	return &coordinator{
		size:   size,
		epochs: make(map[uint64]*barrierState),
	}
}

func (c *coordinator) barrier(ctx context.Context, req *barrierRequest) (*barrierResponse, error) {
	if req.Size != c.size {
		return nil, status.Errorf(codes.InvalidArgument, "rank %d reports world size %d, coordinator has %d", req.Rank, req.Size, c.size)
	}
	if req.Rank < 0 || req.Rank >= c.size {
		return nil, status.Errorf(codes.InvalidArgument, "rank %d outside world of size %d", req.Rank, c.size)
	}

	c.mu.Lock()
	st, ok := c.epochs[req.Epoch]
	if !ok {
		st = &barrierState{
			arrived: make(map[int]struct{}, c.size),
			done:    make(chan struct{}),
		}
		c.epochs[req.Epoch] = st
	}
	if _, dup := st.arrived[req.Rank]; dup {
		c.mu.Unlock()
		return nil, status.Errorf(codes.AlreadyExists, "rank %d already at barrier %d", req.Rank, req.Epoch)
	}
	st.arrived[req.Rank] = struct{}{}
	if len(st.arrived) == c.size {
		close(st.done)
		delete(c.epochs, req.Epoch)
	}
	c.mu.Unlock()

	logger.Debug("Barrier arrival", logger.KeyRank, req.Rank, logger.KeyEpoch, req.Epoch, "host", req.Host)

	select {
	case <-st.done:
		return &barrierResponse{Epoch: req.Epoch, Size: c.size}, nil
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

func barrierHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(barrierRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(coordinatorServer).barrier(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: barrierMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(coordinatorServer).barrier(ctx, req.(*barrierRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var coordinatorServiceDesc = grpc.ServiceDesc{
	ServiceName: coordinatorService,
	HandlerType: (*coordinatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Barrier", Handler: barrierHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dist/coordinator",
}
