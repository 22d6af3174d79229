package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		rateLimit int
		setup     func(*testing.T) []Task
		validate  func(*testing.T, []Result)
		wantErr   bool
	}{
		{
			name:    "basic task processing",
			workers: 4,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 8)
				for i := 0; i < 8; i++ {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) (Result, error) {
							return Result{ID: i, Data: i * 2}, nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, results []Result) {
				require.Len(t, results, 8)
				for i, r := range results {
					assert.Equal(t, i*2, r.Data)
				}
			},
		},
		{
			name:    "more tasks than queue capacity",
			workers: 2,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 100)
				for i := range tasks {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) (Result, error) {
							return Result{ID: i, Data: i}, nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, results []Result) {
				require.Len(t, results, 100)
				for i, r := range results {
					assert.Equal(t, i, r.ID)
				}
			},
		},
		{
			name:    "results keep submission order",
			workers: 4,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 6)
				for i := range tasks {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) (Result, error) {
							// later tasks finish first
							time.Sleep(time.Duration(6-i) * 10 * time.Millisecond)
							return Result{ID: i, Data: i}, nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, results []Result) {
				require.Len(t, results, 6)
				for i, r := range results {
					assert.Equal(t, i, r.Data)
				}
			},
		},
		{
			name:      "rate limited processing",
			workers:   4,
			rateLimit: 20,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 5)
				for i := 0; i < 5; i++ {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) (Result, error) {
							return Result{ID: i, Data: i}, nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, results []Result) {
				assert.Len(t, results, 5)
			},
		},
		{
			name:    "error handling",
			workers: 2,
			setup: func(t *testing.T) []Task {
				return []Task{
					{
						ID: 1,
						Execute: func(ctx context.Context) (Result, error) {
							return Result{}, errors.New("planned error")
						},
					},
					{
						ID: 2,
						Execute: func(ctx context.Context) (Result, error) {
							return Result{ID: 2}, nil
						},
					},
				}
			},
			validate: func(t *testing.T, results []Result) {
				require.Len(t, results, 1)
				assert.Equal(t, 2, results[0].ID)
			},
			wantErr: true,
		},
		{
			name:    "concurrent execution",
			workers: 4,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 8)
				for i := 0; i < 8; i++ {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) (Result, error) {
							time.Sleep(20 * time.Millisecond)
							return Result{ID: i, Data: i}, nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, results []Result) {
				assert.Len(t, results, 8)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(Config{
				Workers:   tt.workers,
				RateLimit: tt.rateLimit,
			})
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			require.NoError(t, pool.Start(ctx))

			for _, task := range tt.setup(t) {
				require.NoError(t, pool.Submit(task))
			}

			results, err := pool.Wait()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			tt.validate(t, results)
		})
	}
}

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: Config{Workers: 4, RateLimit: 10},
		},
		{
			name:    "zero workers",
			config:  Config{Workers: 0},
			wantErr: true,
		},
		{
			name:    "negative workers",
			config:  Config{Workers: -1},
			wantErr: true,
		},
		{
			name:    "negative rate limit",
			config:  Config{Workers: 1, RateLimit: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, pool)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, pool)
			}
		})
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	pool, err := NewPool(Config{Workers: 1})
	require.NoError(t, err)

	err = pool.Submit(Task{ID: 1})
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = pool.Wait()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSubmitAfterWait(t *testing.T) {
	pool, err := NewPool(Config{Workers: 1})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	_, err = pool.Wait()
	require.NoError(t, err)

	assert.Error(t, pool.Submit(Task{ID: 1}))
}

func TestContextCancellation(t *testing.T) {
	pool, err := NewPool(Config{Workers: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, pool.Start(ctx))

	var started atomic.Int32
	for i := 0; i < 4; i++ {
		i := i
		require.NoError(t, pool.Submit(Task{
			ID: i,
			Execute: func(ctx context.Context) (Result, error) {
				started.Add(1)
				select {
				case <-ctx.Done():
					return Result{}, ctx.Err()
				case <-time.After(2 * time.Second):
					return Result{ID: i}, nil
				}
			},
		}))
	}

	cancel()
	results, err := pool.Wait()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestPoolStats(t *testing.T) {
	pool, err := NewPool(Config{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, pool.Status())

	require.NoError(t, pool.Start(context.Background()))
	assert.Equal(t, StatusIdle, pool.Status())

	release := make(chan struct{})
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.Submit(Task{
			ID: i,
			Execute: func(ctx context.Context) (Result, error) {
				<-release
				return Result{}, nil
			},
		}))
	}
	require.NoError(t, pool.Submit(Task{
		ID: 3,
		Execute: func(ctx context.Context) (Result, error) {
			return Result{}, errors.New("planned error")
		},
	}))

	assert.Eventually(t, func() bool {
		return pool.GetStats().ActiveWorkers == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusProcessing, pool.Status())

	close(release)
	_, err = pool.Wait()
	assert.Error(t, err)

	stats := pool.GetStats()
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 1, stats.FailedTasks)
	assert.Equal(t, 0, stats.QueuedTasks)
	assert.Equal(t, StatusShuttingDown, stats.Status)

	require.NoError(t, pool.Stop())
	assert.Equal(t, StatusStopped, pool.Status())
}

func TestStatsUptime(t *testing.T) {
	pool, err := NewPool(Config{Workers: 1})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	time.Sleep(50 * time.Millisecond)

	stats := pool.GetStats()
	assert.GreaterOrEqual(t, stats.Uptime, 50*time.Millisecond)
}

func TestStatsConcurrency(t *testing.T) {
	pool, err := NewPool(Config{Workers: 4})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			_ = pool.GetStats()
			_ = pool.Status()
		}()

		go func(id int) {
			defer wg.Done()
			_ = pool.Submit(Task{
				ID: id,
				Execute: func(ctx context.Context) (Result, error) {
					time.Sleep(time.Millisecond)
					return Result{ID: id}, nil
				},
			})
		}(i)
	}

	wg.Wait()
	results, err := pool.Wait()
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestStopIdempotent(t *testing.T) {
	pool, err := NewPool(Config{Workers: 1})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	assert.NoError(t, pool.Stop())
	assert.NoError(t, pool.Stop())
	assert.Equal(t, StatusStopped, pool.Status())
}
