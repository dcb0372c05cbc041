// Package gopool provides an elastic, generic worker pool for asynchronous
// task execution.
//
// The primary type is Pool[R], a bounded set of reusable workers fed from a
// FIFO task queue by a single dispatch loop. An autoscale loop grows the
// worker count multiplicatively under load and shrinks it back when the
// queue empties, always staying within the configured [min, max] bounds.
// Per-task timeout, retries with optional backoff, rate limiting, and
// result/error callbacks are configured through functional options.
//
// # Basic Usage
//
//	pool, err := gopool.NewPool[string](10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pool.Submit(func() (string, error) {
//	    return "done", nil
//	})
//	pool.Wait()
//	pool.Release()
//
// # Elastic Scaling
//
// By default minWorkers equals maxWorkers and the pool keeps a fixed worker
// count. Setting a lower minimum enables the autoscaler:
//
//	pool, err := gopool.NewPool[int](64,
//	    gopool.WithMinWorkers[int](4),
//	    gopool.WithScaleInterval[int](500*time.Millisecond),
//	)
//
// When the queue depth exceeds 75% of the live worker count the pool
// doubles its workers (capped at the maximum); when the queue is empty it
// retires half the excess above the minimum. Workers are only ever retired
// while idle; a worker mid-task is never removed.
//
// # Results and Errors
//
// Task outcomes are delivered exclusively through the optional callbacks;
// exactly one of them fires per task, after all retries have resolved:
//
//	pool, err := gopool.NewPool[int](8,
//	    gopool.WithResultCallback(func(n int) { fmt.Println("got", n) }),
//	    gopool.WithErrorCallback[int](func(err error) { fmt.Println("err", err) }),
//	)
//
// Without an error callback, task errors are silently discarded.
//
// # Retries and Timeout
//
//	pool, err := gopool.NewPool[int](8,
//	    gopool.WithRetryCount[int](3),
//	    gopool.WithRetryBackoff[int](gopool.BackoffExponential, 100*time.Millisecond, 5*time.Second),
//	    gopool.WithTimeout[int](2*time.Second),
//	)
//
// With retry count k a failing task body runs at most k+1 times. The
// timeout bounds how long a worker waits for one attempt, not the attempt
// itself: Go cannot preempt an arbitrary function, so a timed-out body is
// abandoned and keeps running to completion in the background. Its side
// effects may still occur after ErrTaskTimeout was reported. Do not rely on
// the timeout to cancel work; build cooperative cancellation into the task
// body if that matters.
//
// # Lifecycle
//
// Submit may be called from any goroutine until Release. Wait blocks until
// every submitted task has fully finished, callbacks included. Release
// drains the queue, waits for all workers to go idle, and tears the pool
// down; it is terminal, and submitting afterwards panics.
package gopool
