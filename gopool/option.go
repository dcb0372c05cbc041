package gopool

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/devchat-ai/gopool/internal/backoff"
)

const (
	defaultQueueSize     = 1_000_000
	defaultScaleInterval = time.Second
)

// Option is a functional option for configuring a Pool.
type Option[R any] func(*config[R])

type config[R any] struct {
	maxWorkers int
	minWorkers int
	minSet     bool

	lock sync.Locker

	taskTimeout time.Duration
	retryCount  int
	retryDelay  backoff.Strategy

	resultCallback func(R)
	errorCallback  func(error)

	scaleInterval time.Duration
	queueSize     int

	limiter *rate.Limiter
	logger  *zap.Logger
}

// WithLock sets the lock implementation guarding the worker registry.
// Any sync.Locker works; the default is a sync.Mutex. A spin lock can be
// preferable for very short critical sections under high submission rates.
func WithLock[R any](lock sync.Locker) Option[R] {
	return func(cfg *config[R]) {
		if lock != nil {
			cfg.lock = lock
		}
	}
}

// WithMinWorkers sets the lower bound of the worker count and enables
// elastic scaling whenever it differs from maxWorkers.
// If not specified, minWorkers defaults to maxWorkers and the pool keeps a
// fixed worker count.
func WithMinWorkers[R any](n int) Option[R] {
	return func(cfg *config[R]) {
		cfg.minWorkers = n
		cfg.minSet = true
	}
}

// WithTimeout sets the per-task execution timeout. Zero (the default)
// disables the timeout. An attempt that exceeds the timeout reports
// ErrTaskTimeout; the task body itself is abandoned, not cancelled.
func WithTimeout[R any](d time.Duration) Option[R] {
	return func(cfg *config[R]) {
		cfg.taskTimeout = d
	}
}

// WithRetryCount sets how many times a failed task is re-executed.
// The default 0 disables retries; with retry count k a task body runs at
// most k+1 times. Each retry re-runs the full body from scratch.
func WithRetryCount[R any](n int) Option[R] {
	return func(cfg *config[R]) {
		cfg.retryCount = n
	}
}

// BackoffKind selects the delay strategy applied between retry attempts.
type BackoffKind int

const (
	// BackoffNone runs retries back to back. This is the default.
	BackoffNone BackoffKind = iota
	// BackoffFixed waits the initial delay before every retry.
	BackoffFixed
	// BackoffExponential doubles the delay with each retry, capped at max.
	BackoffExponential
	// BackoffJittered is exponential with ±10% randomization to avoid
	// synchronized retry bursts.
	BackoffJittered
)

// defaultJitterFactor is the relative jitter width for BackoffJittered.
const defaultJitterFactor = 0.1

// WithRetryBackoff sets the delay strategy applied between retry attempts.
// initial is the first delay; max caps the growth of the exponential kinds
// and is ignored by BackoffFixed. If not specified, retries run back to
// back.
func WithRetryBackoff[R any](kind BackoffKind, initial, max time.Duration) Option[R] {
	return func(cfg *config[R]) {
		switch kind {
		case BackoffFixed:
			cfg.retryDelay = backoff.Fixed(initial)
		case BackoffExponential:
			cfg.retryDelay = backoff.Exponential(initial, max)
		case BackoffJittered:
			cfg.retryDelay = backoff.Jittered(initial, max, defaultJitterFactor)
		default:
			cfg.retryDelay = nil
		}
	}
}

// WithResultCallback sets the function invoked with the result of every task
// that completes without an error. It runs on the worker goroutine that
// executed the task, so it must be safe for concurrent use.
func WithResultCallback[R any](fn func(R)) Option[R] {
	return func(cfg *config[R]) {
		cfg.resultCallback = fn
	}
}

// WithErrorCallback sets the function invoked with the terminal error of
// every task that fails after all retries. Without it, task errors are
// silently discarded. It runs on the worker goroutine, so it must be safe
// for concurrent use.
func WithErrorCallback[R any](fn func(error)) Option[R] {
	return func(cfg *config[R]) {
		cfg.errorCallback = fn
	}
}

// WithScaleInterval sets how often the autoscaler inspects queue depth.
// Defaults to one second. Only relevant when minWorkers != maxWorkers.
func WithScaleInterval[R any](d time.Duration) Option[R] {
	return func(cfg *config[R]) {
		cfg.scaleInterval = d
	}
}

// WithQueueSize sets the capacity of the task queue. Submit blocks once the
// queue is full. Defaults to 1,000,000.
func WithQueueSize[R any](n int) Option[R] {
	return func(cfg *config[R]) {
		cfg.queueSize = n
	}
}

// WithRateLimit throttles dispatch to at most tasksPerSecond with the given
// burst. Useful when tasks call an external service that must not be
// overwhelmed. If not specified, no rate limiting is applied.
func WithRateLimit[R any](tasksPerSecond float64, burst int) Option[R] {
	return func(cfg *config[R]) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithLogger sets the logger used for pool lifecycle and autoscale events.
// Defaults to a no-op logger.
func WithLogger[R any](logger *zap.Logger) Option[R] {
	return func(cfg *config[R]) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newConfig[R any](maxWorkers int, opts ...Option[R]) (*config[R], error) {
	if maxWorkers <= 0 {
		return nil, ErrInvalidMaxWorkers
	}

	cfg := &config[R]{
		maxWorkers:    maxWorkers,
		minWorkers:    maxWorkers,
		lock:          &sync.Mutex{},
		scaleInterval: defaultScaleInterval,
		queueSize:     defaultQueueSize,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.minSet && (cfg.minWorkers < 1 || cfg.minWorkers > cfg.maxWorkers) {
		return nil, ErrInvalidMinWorkers
	}
	if cfg.retryCount < 0 {
		return nil, ErrInvalidRetryCount
	}
	if cfg.taskTimeout < 0 {
		return nil, ErrInvalidTimeout
	}
	if cfg.scaleInterval <= 0 {
		return nil, ErrInvalidScaleInterval
	}
	if cfg.queueSize <= 0 {
		return nil, ErrInvalidQueueSize
	}

	return cfg, nil
}
