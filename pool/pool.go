// Package pool provides a bounded worker pool for dispatching blocking tool
// calls off the connection goroutine. Adapted from the teacher's HTTP
// connection pool: the same Config/singleton idiom (DefaultConfig, SetPool,
// GetPool) now governs a fixed-size worker pool instead of an *http.Client.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs submitted work on a bounded set of long-lived goroutines.
type Pool interface {
	// Submit runs fn on a pool worker and blocks until it completes or ctx
	// is done. If ctx is done before a worker becomes free, Submit returns
	// ctx.Err() without running fn.
	Submit(ctx context.Context, fn func()) error
}

// Config configures a worker Pool.
type Config struct {
	// Workers is the number of goroutines processing submitted work. Zero
	// means DefaultConfig's value.
	Workers int

	// QueueSize bounds how many submissions may be waiting for a free
	// worker at once. Zero means DefaultConfig's value.
	QueueSize int
}

// DefaultConfig returns sensible defaults sized off the host's CPU count,
// since blocking tools are expected to be dominated by I/O wait rather than
// CPU work.
func DefaultConfig() *Config {
	workers := runtime.GOMAXPROCS(0) * 4
	if workers < 8 {
		workers = 8
	}
	return &Config{
		Workers:   workers,
		QueueSize: workers * 4,
	}
}

var (
	defaultPool     Pool
	poolOnce        sync.Once
	poolConfig      *Config
	poolConfigMutex sync.RWMutex
)

// SetPool injects an external Pool as the package-level default, useful for
// tests that want a synchronous or single-worker pool.
func SetPool(p Pool) {
	defaultPool = p
}

// GetPool returns the package-level default pool, creating it on first use
// from whatever Config was set via SetConfig (or DefaultConfig otherwise).
func GetPool() Pool {
	if defaultPool == nil {
		poolOnce.Do(func() {
			defaultPool = NewPool(GetConfig())
		})
	}
	return defaultPool
}

// SetConfig sets the configuration used to build the default pool. Must be
// called before the first GetPool call to take effect.
func SetConfig(cfg *Config) {
	poolConfigMutex.Lock()
	defer poolConfigMutex.Unlock()
	poolConfig = cfg
}

// GetConfig returns the currently configured settings, or DefaultConfig if
// none was set.
func GetConfig() *Config {
	poolConfigMutex.RLock()
	defer poolConfigMutex.RUnlock()
	if poolConfig == nil {
		return DefaultConfig()
	}
	return poolConfig
}

// workerPool is a fixed-size goroutine pool backed by a buffered channel of
// job slots.
type workerPool struct {
	jobs chan func()
}

// NewPool builds a worker pool with the given configuration, merging zero
// fields with DefaultConfig.
func NewPool(cfg *Config) Pool {
	defaults := DefaultConfig()
	workers := cfg.Workers
	if workers == 0 {
		workers = defaults.Workers
	}
	queueSize := cfg.QueueSize
	if queueSize == 0 {
		queueSize = defaults.QueueSize
	}

	wp := &workerPool{jobs: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *workerPool) worker() {
	for job := range wp.jobs {
		job()
	}
}

// Submit enqueues fn and blocks until it has run, or until ctx is canceled
// while still waiting for a worker.
func (wp *workerPool) Submit(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	job := func() {
		defer close(done)
		if ctx.Err() != nil {
			return
		}
		fn()
	}

	select {
	case wp.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Pool = (*workerPool)(nil)
