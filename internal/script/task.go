package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle position of a single execution
type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
	Cancelled
)

// String returns a human-readable representation of the State
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed || s == Cancelled
}

// Task is the future for one execution and the result sink handed to the
// variant. The first Return* call wins; later calls are ignored.
type Task struct {
	title  string
	ctx    context.Context
	cancel context.CancelFunc
	data   any

	mu    sync.Mutex
	state State
	err   error
	done  chan struct{}
}

func newTask(parent context.Context, title string) *Task {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		title:  title,
		ctx:    ctx,
		cancel: cancel,
		state:  Running,
		done:   make(chan struct{}),
	}
}

// Context is cancelled when the caller cancels the run or the task completes
func (t *Task) Context() context.Context {
	return t.ctx
}

// Data returns the per-execution data created by the variant, if any
func (t *Task) Data() any {
	return t.data
}

// Title is the script title captured when the run started
func (t *Task) Title() string {
	return t.title
}

// Cancel requests cooperative cancellation. It is a no-op once the task
// has completed.
func (t *Task) Cancel() {
	t.cancel()
}

// ReturnSuccess completes the task successfully. A success reported after
// cancellation was requested resolves as Cancelled, and one reported after
// the deadline passed resolves as Failed.
func (t *Task) ReturnSuccess() bool {
	return t.complete(nil)
}

// ReturnError completes the task with err
func (t *Task) ReturnError(err error) bool {
	if err == nil {
		err = errors.New("unknown error")
	}
	return t.complete(err)
}

// ReturnErrorf completes the task with a formatted error message
func (t *Task) ReturnErrorf(format string, args ...any) bool {
	return t.complete(fmt.Errorf(format, args...))
}

// ReturnErrorIfCancelled completes the task when its context has ended and
// reports whether this call completed it. A cancelled context resolves as
// Cancelled; an expired deadline resolves as Failed.
func (t *Task) ReturnErrorIfCancelled() bool {
	if t.ctx.Err() == nil {
		return false
	}
	return t.complete(ErrCancelled)
}

func (t *Task) complete(err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return false
	}

	cause := t.ctx.Err()
	switch {
	case errors.Is(cause, context.DeadlineExceeded) && (err == nil || isInterrupt(err)):
		t.state, t.err = Failed, &ExecutionError{Script: t.title, Err: cause}
	case err == nil && cause != nil:
		t.state, t.err = Cancelled, ErrCancelled
	case err == nil:
		t.state = Succeeded
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		t.state, t.err = Cancelled, ErrCancelled
	case errors.Is(err, ErrMissingImplementation):
		t.state, t.err = Failed, err
	default:
		t.state, t.err = Failed, &ExecutionError{Script: t.title, Err: err}
	}

	close(t.done)
	t.cancel()
	return true
}

func isInterrupt(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Done is closed once the task reaches a terminal state
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// State returns the current lifecycle state
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the outcome without blocking; nil while running or on success
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task completes and returns its outcome
func (t *Task) Wait() error {
	<-t.done
	return t.Err()
}
