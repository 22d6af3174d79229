/*
Package worker provides a bounded worker pool with optional rate limiting.
git2md uses it to classify and read files concurrently while keeping the
results in submission order.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 0, // unlimited
	})

	pool.Start(ctx)

	pool.Submit(worker.Task{
		ID: 1,
		Execute: func(ctx context.Context) (worker.Result, error) {
			return worker.Result{ID: 1, Data: "processed"}, nil
		},
	})

	results, err := pool.Wait() // ordered by submission
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotStarted is returned when tasks are submitted to a pool that is not running.
var ErrNotStarted = errors.New("pool not started")

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	// ID identifies the task in errors and results
	ID int

	// Execute performs the work; ctx is cancelled when the pool stops
	Execute func(context.Context) (Result, error)
}

// Result represents the output of a processed task
type Result struct {
	// ID matches the task ID that produced this result
	ID int

	// Data holds the task output
	Data interface{}

	order int
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of tasks started per second (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start launches the workers
	Start(context.Context) error

	// Submit queues a task, blocking while the queue is full
	Submit(Task) error

	// Wait closes the queue, blocks until every queued task is done and
	// returns the successful results in submission order. The first task
	// error, if any, is returned alongside them.
	Wait() ([]Result, error)

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status

	// Stop cancels running tasks and shuts the workers down
	Stop() error
}

type pool struct {
	config  Config
	tasks   chan orderedTask
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.RWMutex
	started bool
	closed  bool
	stopped bool

	resultsMu sync.Mutex
	results   []Result
	firstErr  error

	startTime     time.Time
	activeWorkers atomic.Int32
	completed     atomic.Int64
	failed        atomic.Int64
	nextOrder     atomic.Int64
}

type orderedTask struct {
	Task
	order int
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		tasks:   make(chan orderedTask, config.Workers*2),
		limiter: limiter,
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Start initializes and starts the worker pool
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

// Submit adds a task to the pool for processing
func (p *pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return ErrNotStarted
	}
	if p.closed {
		return fmt.Errorf("pool is no longer accepting tasks")
	}

	order := int(p.nextOrder.Add(1) - 1)

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- orderedTask{Task: task, order: order}:
		return nil
	}
}

// Wait blocks until all submitted tasks are processed
func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, ErrNotStarted
	}
	p.closeTasks()
	p.mu.Unlock()

	p.wg.Wait()

	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()

	results := make([]Result, len(p.results))
	copy(results, p.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	return results, p.firstErr
}

// Stop gracefully shuts down the pool
func (p *pool) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.cancel()
	p.closeTasks()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

// closeTasks must be called with mu held.
func (p *pool) closeTasks() {
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
}

func (p *pool) GetStats() Stats {
	var uptime time.Duration
	p.mu.RLock()
	if p.started {
		uptime = time.Since(p.startTime)
	}
	status := p.getStatus()
	p.mu.RUnlock()

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: int(p.completed.Load()),
		FailedTasks:    int(p.failed.Load()),
		Status:         status,
		Uptime:         uptime,
	}
}

func (p *pool) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.getStatus()
}

// getStatus must be called with mu held.
func (p *pool) getStatus() Status {
	switch {
	case !p.started || p.stopped:
		return StatusStopped
	case p.activeWorkers.Load() > 0 || len(p.tasks) > 0:
		return StatusProcessing
	case p.closed:
		return StatusShuttingDown
	default:
		return StatusIdle
	}
}

func (p *pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		p.activeWorkers.Add(1)
		p.run(task)
		p.activeWorkers.Add(-1)
	}
}

func (p *pool) run(task orderedTask) {
	if p.limiter != nil {
		if err := p.limiter.Wait(p.ctx); err != nil {
			p.fail(fmt.Errorf("task %d: rate limiter: %w", task.ID, err))
			return
		}
	}

	if err := p.ctx.Err(); err != nil {
		p.fail(fmt.Errorf("task %d: %w", task.ID, err))
		return
	}

	result, err := task.Execute(p.ctx)
	if err != nil {
		p.fail(fmt.Errorf("task %d failed: %w", task.ID, err))
		return
	}

	result.order = task.order
	p.completed.Add(1)

	p.resultsMu.Lock()
	p.results = append(p.results, result)
	p.resultsMu.Unlock()
}

func (p *pool) fail(err error) {
	p.failed.Add(1)

	p.resultsMu.Lock()
	if p.firstErr == nil {
		p.firstErr = err
	}
	p.resultsMu.Unlock()
}
