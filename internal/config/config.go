// Package config loads pool settings from a YAML file and converts them
// into gopool options. It exists for programs that wrap the pool and want
// file-driven tuning instead of hard-coded options.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devchat-ai/gopool/gopool"
)

// PoolConfig mirrors the pool's functional options in file form. Durations
// are Go duration strings ("500ms", "2s"). Zero values leave the
// corresponding option at its default.
type PoolConfig struct {
	MaxWorkers    int     `yaml:"max_workers"`
	MinWorkers    int     `yaml:"min_workers"`
	QueueSize     int     `yaml:"queue_size"`
	TaskTimeout   string  `yaml:"task_timeout"`
	RetryCount    int     `yaml:"retry_count"`
	RetryBackoff  string  `yaml:"retry_backoff"`
	ScaleInterval string  `yaml:"scale_interval"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`

	taskTimeout   time.Duration
	retryBackoff  time.Duration
	scaleInterval time.Duration
}

// Load reads and validates a YAML pool configuration.
func Load(path string) (*PoolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg PoolConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxWorkers <= 0 {
		return nil, fmt.Errorf("config: max_workers must be > 0, got %d", cfg.MaxWorkers)
	}

	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"task_timeout", cfg.TaskTimeout, &cfg.taskTimeout},
		{"retry_backoff", cfg.RetryBackoff, &cfg.retryBackoff},
		{"scale_interval", cfg.ScaleInterval, &cfg.scaleInterval},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = parsed
	}

	return &cfg, nil
}

// Options converts a loaded configuration into gopool options. It is a free
// function because methods cannot introduce the result type parameter.
func Options[R any](cfg *PoolConfig) []gopool.Option[R] {
	var opts []gopool.Option[R]

	if cfg.MinWorkers > 0 {
		opts = append(opts, gopool.WithMinWorkers[R](cfg.MinWorkers))
	}
	if cfg.QueueSize > 0 {
		opts = append(opts, gopool.WithQueueSize[R](cfg.QueueSize))
	}
	if cfg.taskTimeout > 0 {
		opts = append(opts, gopool.WithTimeout[R](cfg.taskTimeout))
	}
	if cfg.RetryCount > 0 {
		opts = append(opts, gopool.WithRetryCount[R](cfg.RetryCount))
	}
	if cfg.retryBackoff > 0 {
		opts = append(opts, gopool.WithRetryBackoff[R](gopool.BackoffExponential, cfg.retryBackoff, 30*time.Second))
	}
	if cfg.scaleInterval > 0 {
		opts = append(opts, gopool.WithScaleInterval[R](cfg.scaleInterval))
	}
	if cfg.RatePerSecond > 0 && cfg.RateBurst > 0 {
		opts = append(opts, gopool.WithRateLimit[R](cfg.RatePerSecond, cfg.RateBurst))
	}

	return opts
}
