package domain

import (
	"errors"
	"time"
)

// Task registry access errors, surfaced to the polling API as 404/403.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("task belongs to another user")
)

// TaskStatus is the lifecycle state of a background task.
// Transitions: pending -> processing -> {completed | failed | timeout}.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskTimeout    TaskStatus = "timeout"
)

// Terminal reports whether no further transition can occur.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskTimeout:
		return true
	case TaskPending, TaskProcessing:
		return false
	}
	return false
}

// Task is one background pipeline run. ID, Owner and Question are immutable;
// everything else is written exclusively by the executor run bound to the ID.
type Task struct {
	ID                  string        `json:"task_id"`
	Owner               string        `json:"-"`
	Question            string        `json:"question"`
	Status              TaskStatus    `json:"status"`
	Progress            string        `json:"progress,omitempty"`
	Result              *ChatAnswer   `json:"result,omitempty"`
	Error               string        `json:"error,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	Timeout             time.Duration `json:"-"`
	EstimatedCompletion time.Time     `json:"estimated_completion"`
}

// TaskUpdate is a partial mutation applied by the executor. Nil fields are
// left untouched; any applied update bumps UpdatedAt.
type TaskUpdate struct {
	Status   *TaskStatus
	Progress *string
	Result   *ChatAnswer
	Error    *string
}

// StatusPtr is a convenience for building TaskUpdate literals.
func StatusPtr(s TaskStatus) *TaskStatus { return &s }

// StringPtr is a convenience for building TaskUpdate literals.
func StringPtr(s string) *string { return &s }
