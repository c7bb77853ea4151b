package task

import (
	"context"
	"runtime"
	"sync"
)

// Pool is a fixed-width worker set that pulls tasks whose dependencies
// are satisfied from one shared ready-queue. A single mutex protects
// the ready-queue and the pending list; a condition variable wakes
// workers on submission and on every task completion.
//
// Pool is the single synchronization primitive between the driver's
// phases: the caller submits a batch, calls SetIsRunning(true), then JoinWorkers to
// establish a barrier before moving on to the next phase.
type Pool struct {
	mu   sync.Mutex
	cond *sync.Cond

	ready   []*Task
	pending []*Task
	busy    int
	workers int

	running bool
	closed  bool
}

// New constructs a Pool with the given worker width. A width <= 0
// defaults to runtime.NumCPU, the usual "hardware concurrency" default.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers, running: true}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		go p.workerLoop()
	}
	return p
}

// SetIsRunning gates worker pickups. The driver sets this to false
// while submitting a burst of tasks, to avoid contending the mutex on
// every individual submission's wakeup, then true at the barrier.
// Correctness never depends on this; it is strictly an optimization.
func (p *Pool) SetIsRunning(running bool) {
	p.mu.Lock()
	p.running = running
	p.mu.Unlock()
	if running {
		p.cond.Broadcast()
	}
}

// Submit enqueues a new task with the given name, dependencies, and
// body. If every dependency is already Done (or deps is empty) the task
// goes straight to the ready queue; otherwise it is parked in the
// pending list, rescanned whenever any task completes.
func (p *Pool) Submit(name string, deps []*Handle, fn Func) *Handle {
	t := newTask(name, deps, fn)
	h := &Handle{task: t}

	p.mu.Lock()
	if t.ready() {
		t.setState(Ready)
		p.ready = append(p.ready, t)
	} else {
		p.pending = append(p.pending, t)
	}
	running := p.running
	p.mu.Unlock()

	if running {
		p.cond.Broadcast()
	}
	return h
}

// JoinWorkers waits until the ready-queue is empty, every worker is
// idle, and the pending list is empty, i.e. every submitted task has
// reached Done. It is the pool's only barrier.
func (p *Pool) JoinWorkers() {
	p.mu.Lock()
	for len(p.ready) != 0 || len(p.pending) != 0 || p.busy != 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Close permanently stops every worker once the ready-queue drains. A
// pool is not reusable after Close; it exists so tests (and a CLI run
// that starts several pools in sequence) don't leak worker goroutines.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.running = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// workerLoop is the core processing loop for a single worker. It parks
// on the condition variable between tasks, the only suspension point a
// worker thread ever hits.
func (p *Pool) workerLoop() {
	for {
		p.mu.Lock()
		for !p.closed && (!p.running || len(p.ready) == 0) {
			p.cond.Wait()
		}
		if p.closed && len(p.ready) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.ready[0]
		p.ready = p.ready[1:]
		p.busy++
		p.mu.Unlock()

		t.run(context.Background())

		p.mu.Lock()
		p.busy--
		p.promotePending()
		p.mu.Unlock()
		p.cond.Broadcast()
	}
}

// promotePending moves every pending task whose dependencies are now
// all Done into the ready queue. Called with p.mu held, right after a
// task completes: the only point at which a pending task's readiness
// can have changed.
func (p *Pool) promotePending() {
	if len(p.pending) == 0 {
		return
	}
	remaining := p.pending[:0:0]
	for _, t := range p.pending {
		if t.ready() {
			t.setState(Ready)
			p.ready = append(p.ready, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	p.pending = remaining
}
