package worker

import "time"

// Status represents the current state of the worker pool
type Status string

const (
	// StatusIdle indicates the pool is running with nothing to do
	StatusIdle Status = "idle"

	// StatusProcessing indicates tasks are queued or running
	StatusProcessing Status = "processing"

	// StatusShuttingDown indicates the queue is closed and drained
	StatusShuttingDown Status = "shutting_down"

	// StatusStopped indicates the pool is not running
	StatusStopped Status = "stopped"
)

// Stats provides runtime statistics about the worker pool
type Stats struct {
	ActiveWorkers  int
	QueuedTasks    int
	CompletedTasks int
	FailedTasks    int
	Status         Status
	Uptime         time.Duration
}
