package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrStartup wraps a failure to bring the distributed runtime up. It is
	// fatal: the caller is expected to exit with a non-zero status.
	ErrStartup = errors.New("process startup failed")

	// ErrAlreadyInitialized is returned when Initialize is called on a
	// runtime that is already running.
	ErrAlreadyInitialized = errors.New("process already initialized")

	// ErrNotInitialized is returned by Finalize on a process that was never
	// initialized.
	ErrNotInitialized = errors.New("process not initialized")

	// ErrFinalized is returned by Finalize when it was already called.
	ErrFinalized = errors.New("process already finalized")
)

// Error wraps lifecycle failures with the transition that failed and the
// phase the process was in at the time.
//
//	_, err := lifecycle.Initialize(ctx, rt, args)
//	errors.Is(err, lifecycle.ErrStartup) // true when the runtime did not start
type Error struct {
	// Op is the transition: "initialize" or "finalize".
	Op string

	// Phase is the phase the process was in when Op was attempted.
	Phase Phase

	// Err is the wrapped cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lifecycle %s (phase %s): %v", e.Op, e.Phase, e.Err)
}

// Unwrap returns the wrapped cause so errors.Is matches the sentinels above.
func (e *Error) Unwrap() error {
	return e.Err
}
