package dist

import "context"

// Noop is the runtime of a single, non-distributed process.
type Noop struct {
	started bool
	stopped bool
}

// NewNoop returns a runtime with rank 0 in a group of one.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Name() string { return "noop" }

func (n *Noop) Start(context.Context) error {
	switch {
	case n.stopped:
		return ErrStopped
	case n.started:
		return ErrAlreadyStarted
	}
	n.started = true
	return nil
}

func (n *Noop) Rank() int { return 0 }

func (n *Noop) Size() int { return 1 }

func (n *Noop) ProcessorName() string { return hostname() }

func (n *Noop) Barrier(context.Context) error {
	if n.stopped {
		return ErrStopped
	}
	if !n.started {
		return ErrNotStarted
	}
	return nil
}

func (n *Noop) Stop(context.Context) error {
	switch {
	case n.stopped:
		return ErrStopped
	case !n.started:
		return ErrNotStarted
	}
	n.stopped = true
	return nil
}
