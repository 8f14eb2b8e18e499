package jobscheduler

import "time"

type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// JobInfo is the bookkeeping kept for one scheduled job.
type JobInfo struct {
	Name         string
	Schedule     string
	Status       RunStatus
	Runs         int64
	Failures     int64
	LastRunAt    time.Time
	LastDuration time.Duration
	LastError    string
	NextRunAt    time.Time
}
