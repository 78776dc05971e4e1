package models

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskDone      TaskStatus = "DONE"
	TaskCarried   TaskStatus = "CARRIED"
	TaskCancelled TaskStatus = "CANCELLED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Weight orders priorities descending: HIGH first.
func (p TaskPriority) Weight() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Task belongs to exactly one day-bucket (a user-local calendar date) at a
// time. Tasks are never physically deleted; cancellation and carry-over are
// status transitions so that weekly stats keep a full record.
type Task struct {
	ID       string
	UserID   int64
	Text     string
	Priority TaskPriority
	Tags     []string
	// DueTime is an optional local wall-clock time ("18:00"), empty if unset.
	DueTime string
	Status  TaskStatus
	// Bucket is the owning day-bucket in ISO form (2006-01-02).
	Bucket string
	// OriginID points at the root of the carry-over chain. Empty for
	// tasks that were created directly.
	OriginID  string
	CreatedAt time.Time
}

// RootID returns the stable identity of the task across carry-overs:
// the origin for carried copies, the task's own id otherwise.
func (t *Task) RootID() string {
	if t.OriginID != "" {
		return t.OriginID
	}
	return t.ID
}
