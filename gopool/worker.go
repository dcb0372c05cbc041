package gopool

import (
	"fmt"
	"runtime"
	"time"
)

// worker is a single execution slot. Its inbox has capacity one, so at most
// one task is ever in flight per worker; only the dispatcher writes to the
// inbox and only the worker reads from it, so the channel needs no extra
// locking.
type worker[R any] struct {
	idx   int
	inbox chan Task[R]
}

// run pulls tasks from the inbox until it is closed. Each task goes through
// the retry/timeout execution procedure, then exactly one of the result or
// error callbacks fires, then the worker returns itself to the idle
// registry.
func (w *worker[R]) run(p *Pool[R]) {
	for t := range w.inbox {
		res, err := p.executeTask(t)
		if err != nil {
			p.stats.failed.Add(1)
			if p.cfg.errorCallback != nil {
				p.cfg.errorCallback(err)
			}
		} else {
			p.stats.completed.Add(1)
			if p.cfg.resultCallback != nil {
				p.cfg.resultCallback(res)
			}
		}
		p.checkin(w.idx)
		p.stats.inFlight.Add(-1)
	}
}

// executeTask runs a task through the retry loop: up to retryCount+1
// attempts, each re-running the full task body. The loop stops on the first
// nil error or once attempts are exhausted.
func (p *Pool[R]) executeTask(t Task[R]) (res R, err error) {
	for attempt := 0; ; attempt++ {
		res, err = p.runAttempt(t)
		if err == nil || attempt == p.cfg.retryCount {
			return res, err
		}

		p.stats.retries.Add(1)
		if p.cfg.retryDelay != nil {
			time.Sleep(p.cfg.retryDelay.Delay(attempt))
		}
	}
}

// runAttempt executes one attempt of the task body. With a timeout
// configured, the body runs on its own goroutine and races a deadline: if
// the deadline elapses first the attempt reports ErrTaskTimeout and the
// body is abandoned. Abandonment is not cancellation; the body keeps
// running and its side effects may still occur after the error is reported.
func (p *Pool[R]) runAttempt(t Task[R]) (R, error) {
	if p.cfg.taskTimeout <= 0 {
		return runRecovered(t)
	}

	type outcome struct {
		res R
		err error
	}
	// Buffered so the abandoned branch can deliver and exit after a timeout.
	ch := make(chan outcome, 1)
	go func() {
		res, err := runRecovered(t)
		ch <- outcome{res: res, err: err}
	}()

	timer := time.NewTimer(p.cfg.taskTimeout)
	defer timer.Stop()

	select {
	case o := <-ch:
		return o.res, o.err
	case <-timer.C:
		p.stats.timedOut.Add(1)
		var zero R
		return zero, fmt.Errorf("task exceeded %v: %w", p.cfg.taskTimeout, ErrTaskTimeout)
	}
}

// runRecovered invokes the task body, converting a panic into an error so a
// misbehaving task cannot take down its worker.
func runRecovered[R any](t Task[R]) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("%w: %v\n%s", ErrTaskPanic, r, buf[:n])
		}
	}()
	return t()
}
