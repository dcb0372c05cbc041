package gopool

import "errors"

var (
	// ErrInvalidMaxWorkers is returned by NewPool when maxWorkers is not a
	// positive integer.
	ErrInvalidMaxWorkers = errors.New("max workers must be a positive integer")

	// ErrInvalidMinWorkers is returned by NewPool when WithMinWorkers sets a
	// value outside the range [1, maxWorkers].
	ErrInvalidMinWorkers = errors.New("min workers must be in range [1, max workers]")

	// ErrInvalidRetryCount is returned by NewPool when WithRetryCount sets a
	// negative value.
	ErrInvalidRetryCount = errors.New("retry count must be >= 0")

	// ErrInvalidTimeout is returned by NewPool when WithTimeout sets a
	// negative duration.
	ErrInvalidTimeout = errors.New("task timeout must be >= 0")

	// ErrInvalidScaleInterval is returned by NewPool when WithScaleInterval
	// sets a non-positive duration.
	ErrInvalidScaleInterval = errors.New("scale interval must be > 0")

	// ErrInvalidQueueSize is returned by NewPool when WithQueueSize sets a
	// non-positive capacity.
	ErrInvalidQueueSize = errors.New("queue size must be > 0")

	// ErrTaskTimeout is the sentinel wrapped into the error delivered to the
	// error callback when a task attempt exceeds the configured timeout.
	// Match it with errors.Is. The task body itself is abandoned, not
	// cancelled: it may still be running when this error is reported.
	ErrTaskTimeout = errors.New("task timed out")

	// ErrTaskPanic is the sentinel wrapped into the error delivered to the
	// error callback when a task body panics. The panic value and a stack
	// trace are included in the error message.
	ErrTaskPanic = errors.New("task panicked")
)
