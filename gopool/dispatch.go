package gopool

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// dispatch is the single loop matching queued tasks to idle workers. It
// consumes the task queue in FIFO order, blocks on the registry condition
// while no worker is free, and exits once the queue is closed and drained.
// It never resizes the worker set; that is the autoscaler's job.
func (p *Pool[R]) dispatch() error {
	defer close(p.stopScaler)

	for t := range p.taskQueue {
		if p.cfg.limiter != nil {
			if err := p.cfg.limiter.Wait(context.Background()); err != nil {
				return err
			}
		}
		w := p.checkout()
		w.inbox <- t
	}
	return nil
}

// autoscale periodically resizes the worker set based on queue depth. It
// stops when the dispatcher exits.
func (p *Pool[R]) autoscale() error {
	ticker := time.NewTicker(p.cfg.scaleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopScaler:
			return nil
		case <-ticker.C:
			p.resize(len(p.taskQueue))
		}
	}
}

// resize applies one autoscale decision. Growth is multiplicative: when the
// queue depth exceeds 75% of the live worker count, the count doubles,
// capped at maxWorkers. Shrinkage removes half the excess above minWorkers
// (at least one worker) once the queue is empty. Both react proportionally
// to burst load instead of thrashing by ±1.
func (p *Pool[R]) resize(depth int) {
	p.lock.Lock()
	defer p.lock.Unlock()

	switch {
	case depth*4 > p.live*3 && p.live < p.cfg.maxWorkers:
		target := min(p.live*2, p.cfg.maxWorkers)
		for p.live < target {
			p.startWorker()
		}
		p.log.Info("scaled up",
			zap.Int("workers", p.live),
			zap.Int("queue_depth", depth),
		)
		p.cond.Broadcast()

	case depth == 0 && p.live > p.cfg.minWorkers:
		n := max(1, (p.live-p.cfg.minWorkers)/2)
		removed := p.removeIdle(n)
		if removed > 0 {
			p.log.Info("scaled down",
				zap.Int("workers", p.live),
				zap.Int("removed", removed),
			)
		}
	}
}

// removeIdle retires up to n workers, taking them exclusively from the idle
// registry so a worker mid-task is never removed. If fewer than n workers
// are idle, only those are retired; the next cycle picks up the rest.
// Caller must hold the pool lock.
func (p *Pool[R]) removeIdle(n int) int {
	removed := 0
	for removed < n && p.live > p.cfg.minWorkers && len(p.freeIdx) > 0 {
		idx := p.freeIdx[len(p.freeIdx)-1]
		p.freeIdx = p.freeIdx[:len(p.freeIdx)-1]

		w := p.workers[idx]
		close(w.inbox)
		p.workers[idx] = nil
		p.spare = append(p.spare, idx)
		p.live--
		removed++
	}
	return removed
}
