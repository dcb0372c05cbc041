package gopool

import "sync/atomic"

// poolStats tracks pool-wide counters. All fields are atomic; Stats reads
// them without coordination, so a snapshot taken during heavy traffic may
// be momentarily inconsistent between fields.
type poolStats struct {
	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	retries   atomic.Uint64
	timedOut  atomic.Uint64
	inFlight  atomic.Int64
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	// Submitted is the total number of tasks accepted by Submit.
	Submitted uint64
	// Completed is the number of tasks that finished without an error.
	Completed uint64
	// Failed is the number of tasks whose final attempt returned an error.
	Failed uint64
	// Retries is the total number of re-executions across all tasks.
	Retries uint64
	// TimedOut is the number of attempts that exceeded the task timeout.
	TimedOut uint64
	// InFlight is the number of submitted tasks not yet finished.
	InFlight int64
	// Workers is the current live worker count.
	Workers int
	// IdleWorkers is the number of workers currently in the idle registry.
	IdleWorkers int
	// QueueDepth is the number of tasks waiting to be dispatched.
	QueueDepth int
}

// Stats returns a snapshot of pool counters and worker occupancy.
func (p *Pool[R]) Stats() Stats {
	p.lock.Lock()
	workers := p.live
	idle := len(p.freeIdx)
	p.lock.Unlock()

	return Stats{
		Submitted:   p.stats.submitted.Load(),
		Completed:   p.stats.completed.Load(),
		Failed:      p.stats.failed.Load(),
		Retries:     p.stats.retries.Load(),
		TimedOut:    p.stats.timedOut.Load(),
		InFlight:    p.stats.inFlight.Load(),
		Workers:     workers,
		IdleWorkers: idle,
		QueueDepth:  len(p.taskQueue),
	}
}
