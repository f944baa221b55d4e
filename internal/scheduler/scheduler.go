// Package scheduler drives repeated comparison runs on a fixed
// interval.
package scheduler

import (
	"context"
	"time"
)

// Scheduler defines the interface for comparison schedulers
type Scheduler interface {
	// Start begins the scheduling loop
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler
	Stop() error

	// Status returns the current scheduler status
	Status() *Status
}

// Status represents the current state of a scheduler
type Status struct {
	Running        bool
	LastRunTime    time.Time
	NextRunTime    time.Time
	TotalRuns      int
	SuccessfulRuns int
	FailedRuns     int
	LastError      string
}

// Config contains scheduler configuration
type Config struct {
	// Interval specifies the duration between comparison runs
	Interval time.Duration
}

// CompareRunner is the interface schedulers use to execute a
// comparison between the two configured endpoints
type CompareRunner interface {
	RunCompare(ctx context.Context) error
}
