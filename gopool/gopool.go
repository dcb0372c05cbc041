package gopool

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// waitPollInterval is how often Wait re-checks the in-flight task count.
const waitPollInterval = 10 * time.Millisecond

// Task is a zero-argument unit of work producing a result and/or error.
// The caller owns the task until Submit; after that, invocation belongs to
// whichever worker receives it.
type Task[R any] func() (R, error)

// Pool is an elastic worker pool. It dispatches submitted tasks to a bounded
// set of reusable workers, growing and shrinking the worker count between
// the configured minimum and maximum based on queue depth.
//
// Type parameter R is the result type produced by tasks; results are
// delivered through the optional result callback.
type Pool[R any] struct {
	cfg *config[R]
	log *zap.Logger

	taskQueue chan Task[R]

	// lock guards workers, freeIdx, spare and live. cond is associated with
	// it: the dispatcher waits on cond while no worker is idle, Release
	// waits on it until every worker is idle.
	lock sync.Locker
	cond *sync.Cond

	// workers is an arena indexed by stable worker IDs. Slots of removed
	// workers are set to nil and recycled through spare on the next growth,
	// so indices held elsewhere never dangle.
	workers []*worker[R]
	freeIdx []int // idle worker indices, LIFO
	spare   []int // recyclable nil arena slots
	live    int   // number of live workers

	workerWG sync.WaitGroup

	// stopScaler is closed by the dispatcher on exit to stop the autoscaler.
	stopScaler chan struct{}
	// done is closed once the dispatcher and autoscaler have both exited.
	done chan struct{}

	stats poolStats
}

// NewPool creates a pool with at most maxWorkers workers, applies the given
// options, spawns the minimum worker count synchronously and starts the
// dispatch loop. The autoscale loop starts only when minWorkers differs
// from maxWorkers (by default they are equal and the pool stays fixed).
func NewPool[R any](maxWorkers int, opts ...Option[R]) (*Pool[R], error) {
	cfg, err := newConfig(maxWorkers, opts...)
	if err != nil {
		return nil, err
	}

	p := &Pool[R]{
		cfg:        cfg,
		log:        cfg.logger,
		taskQueue:  make(chan Task[R], cfg.queueSize),
		lock:       cfg.lock,
		stopScaler: make(chan struct{}),
		done:       make(chan struct{}),
	}
	p.cond = sync.NewCond(p.lock)

	p.lock.Lock()
	for range cfg.minWorkers {
		p.startWorker()
	}
	p.lock.Unlock()

	var g errgroup.Group
	g.Go(p.dispatch)
	if cfg.minWorkers != cfg.maxWorkers {
		g.Go(p.autoscale)
	}
	go func() {
		_ = g.Wait()
		close(p.done)
	}()

	p.log.Debug("pool started",
		zap.Int("min_workers", cfg.minWorkers),
		zap.Int("max_workers", cfg.maxWorkers),
		zap.Bool("elastic", cfg.minWorkers != cfg.maxWorkers),
	)

	return p, nil
}

// Submit enqueues a task for asynchronous execution. Tasks are dispatched to
// workers in submission order. Submit blocks only when the task queue is
// full.
//
// Submit must not be called after Release: the queue is closed at that
// point and the send panics.
func (p *Pool[R]) Submit(t Task[R]) {
	p.stats.submitted.Add(1)
	p.stats.inFlight.Add(1)
	p.taskQueue <- t
}

// Wait blocks until every submitted task has finished executing, including
// its terminal callback. This is deliberately stronger than waiting for the
// queue to drain: a task handed to a worker but still running also holds
// Wait back. The pool stays usable afterwards; more tasks may be submitted.
func (p *Pool[R]) Wait() {
	for p.stats.inFlight.Load() > 0 {
		time.Sleep(waitPollInterval)
	}
}

// Release shuts the pool down: it closes the task queue, waits for the
// dispatcher to drain it, waits until every worker has returned to idle,
// then closes every worker inbox and drops the worker set.
//
// Release is terminal. Submitting after Release panics, and calling Release
// twice is undefined.
func (p *Pool[R]) Release() {
	close(p.taskQueue)
	<-p.done

	p.lock.Lock()
	for len(p.freeIdx) != p.live {
		p.cond.Wait()
	}
	for _, w := range p.workers {
		if w != nil {
			close(w.inbox)
		}
	}
	p.workers = nil
	p.freeIdx = nil
	p.spare = nil
	p.live = 0
	p.lock.Unlock()

	p.workerWG.Wait()
	p.log.Debug("pool released")
}

// Running returns the current number of live workers.
func (p *Pool[R]) Running() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.live
}

// QueueDepth returns the number of tasks waiting to be dispatched.
func (p *Pool[R]) QueueDepth() int {
	return len(p.taskQueue)
}

// startWorker adds one worker to the arena and registers it idle.
// Caller must hold the pool lock.
func (p *Pool[R]) startWorker() {
	w := &worker[R]{inbox: make(chan Task[R], 1)}

	if n := len(p.spare); n > 0 {
		w.idx = p.spare[n-1]
		p.spare = p.spare[:n-1]
		p.workers[w.idx] = w
	} else {
		w.idx = len(p.workers)
		p.workers = append(p.workers, w)
	}

	p.live++
	p.freeIdx = append(p.freeIdx, w.idx)

	p.workerWG.Add(1)
	go func() {
		defer p.workerWG.Done()
		w.run(p)
	}()
}

// checkout blocks until a worker is idle, removes it from the registry and
// returns it. Only the dispatcher calls this, so no two dispatches can ever
// receive the same worker.
func (p *Pool[R]) checkout() *worker[R] {
	p.lock.Lock()
	defer p.lock.Unlock()

	for len(p.freeIdx) == 0 {
		p.cond.Wait()
	}

	idx := p.freeIdx[len(p.freeIdx)-1]
	p.freeIdx = p.freeIdx[:len(p.freeIdx)-1]
	return p.workers[idx]
}

// checkin returns a worker to the idle registry and wakes anyone blocked on
// the registry condition (the dispatcher, or Release draining the pool).
func (p *Pool[R]) checkin(idx int) {
	p.lock.Lock()
	p.freeIdx = append(p.freeIdx, idx)
	p.lock.Unlock()
	p.cond.Broadcast()
}
