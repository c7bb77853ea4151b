// Package task implements the two concurrency primitives the driver
// schedules everything else on top of: Task (a unit of deferred work
// with a typed result cell and upstream dependencies) and Pool (the
// fixed-width worker set that runs them). Task state is managed with
// atomics the way burstgridgo's internal/node.Node manages node state:
// a single producer writes the result, many observers read after the
// state has flipped to Done.
package task

import (
	"context"
	"sync"
	"sync/atomic"
)

// State is a Task's position in its lifecycle: Pending -> Ready ->
// Running -> Done. A task transitions to Ready once every upstream
// dependency is Done.
type State int32

const (
	Pending State = iota
	Ready
	Running
	Done
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Func is the body of a task. deps are this task's upstream handles,
// already guaranteed Done by the time Func runs, so fetching a
// dependency's result is just Handle.Result, a non-blocking fetch from
// inside the body.
type Func func(ctx context.Context, deps []*Handle) (any, error)

// Task is a unit of deferred work: a name (for logging), a result cell
// written exactly once by exactly one worker, zero or more upstream
// dependencies, and a completion gate.
type Task struct {
	Name string

	fn   Func
	deps []*Handle

	state atomic.Int32
	done  chan struct{}
	once  sync.Once

	result any
	err    error
}

// newTask constructs a Pending task. Only Pool.Submit should call this;
// it is responsible for placing the task in the pool's ready or pending
// queue according to its dependencies.
func newTask(name string, deps []*Handle, fn Func) *Task {
	t := &Task{
		Name: name,
		fn:   fn,
		deps: deps,
		done: make(chan struct{}),
	}
	t.state.Store(int32(Pending))
	return t
}

// State atomically returns the task's current lifecycle state.
func (t *Task) State() State { return State(t.state.Load()) }

func (t *Task) setState(s State) { t.state.Store(int32(s)) }

// ready reports whether every dependency has reached Done.
func (t *Task) ready() bool {
	for _, d := range t.deps {
		if d.task.State() != Done {
			return false
		}
	}
	return true
}

// run executes the task body exactly once. A failed body still stores
// its error and flips the task to Done, so dependents scheduled after
// it can observe the failure rather than block forever.
func (t *Task) run(ctx context.Context) {
	t.once.Do(func() {
		t.setState(Running)
		result, err := t.fn(ctx, t.deps)
		t.result, t.err = result, err
		t.setState(Done)
		close(t.done)
	})
}

// Handle is the caller-facing reference to a submitted Task.
type Handle struct {
	task *Task
}

// Name returns the underlying task's name.
func (h *Handle) Name() string { return h.task.Name }

// State returns the underlying task's current lifecycle state.
func (h *Handle) State() State { return h.task.State() }

// AwaitResult blocks until the task is Done and returns its captured
// result and error. Calling it more than once, or concurrently from
// multiple goroutines, returns the same value every time: the result
// cell is written exactly once.
func (h *Handle) AwaitResult(ctx context.Context) (any, error) {
	select {
	case <-h.task.done:
		return h.task.result, h.task.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result is the non-blocking counterpart to AwaitResult, intended for
// use from inside a dependent task's body where the dependency is
// already guaranteed Done. Calling it before the task is Done returns a
// zero result and a nil error; that is a caller bug, not a legitimate
// race, since the pool never runs a task before all of its dependencies
// are Done.
func (h *Handle) Result() (any, error) {
	return h.task.result, h.task.err
}

// AwaitTyped blocks for the task's result the way AwaitResult does, then
// type-asserts it to T.
func AwaitTyped[T any](ctx context.Context, h *Handle) (T, error) {
	v, err := h.AwaitResult(ctx)
	return asType[T](v, err)
}

// DepResult is the typed counterpart to Handle.Result, for fetching a
// dependency's result from inside a dependent task's body.
func DepResult[T any](h *Handle) (T, error) {
	v, err := h.Result()
	return asType[T](v, err)
}

func asType[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}
