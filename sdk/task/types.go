package task

import (
	"time"

	"github.com/capforge/capsolve/capsolve/solver"
)

type TaskType string

const (
	TaskTypeSolve TaskType = "SOLVE"
)

// TaskStatus is the lifecycle state of a tracked task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusRunning   TaskStatus = "RUNNING"
	StatusCompleted TaskStatus = "COMPLETED"
	StatusFailed    TaskStatus = "FAILED"
	StatusCancelled TaskStatus = "CANCELLED"
)

// Terminal reports whether the status can still change.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// TaskEntry is the externally visible record of one task. GetTask
// returns a copy; mutating it does not affect the manager's state.
type TaskEntry struct {
	TaskID    string
	TaskType  TaskType
	Status    TaskStatus
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Live progress, updated while the task runs.
	Attempts uint64
	Solved   int
	Total    int

	// Terminal state. Error is set on FAILED and CANCELLED; Result only
	// on COMPLETED.
	Error  string
	Result *solver.BatchResult
}
