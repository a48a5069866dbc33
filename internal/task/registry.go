// Package task provides the in-memory task registry: a concurrency-safe
// table of background task records with lazy timeout detection on read.
package task

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

const estimatedRunDuration = 30 * time.Second

// Registry implements the domain.TaskRegistry interface. A single mutex
// around the id->record map is sufficient for the intended scale (hundreds
// of in-flight tasks, one writer per task id).
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

// NewRegistry creates a new task registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:    sync.RWMutex{},
		tasks: make(map[string]*domain.Task),
	}
}

// Create allocates a fresh pending task record and returns a copy of it.
// It never blocks on pipeline work.
func (r *Registry) Create(
	ctx context.Context,
	owner, question string,
	timeout time.Duration,
) (*domain.Task, error) {
	if owner == "" {
		return nil, errors.New("owner cannot be empty")
	}
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}
	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}

	now := time.Now()
	task := &domain.Task{
		ID:                  uuid.New().String(),
		Owner:               owner,
		Question:            question,
		Status:              domain.TaskPending,
		Progress:            "Queued",
		Result:              nil,
		Error:               "",
		CreatedAt:           now,
		UpdatedAt:           now,
		Timeout:             timeout,
		EstimatedCompletion: now.Add(estimatedRunDuration),
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	observability.FromContext(ctx).Info("task created",
		observability.String("created_task_id", task.ID))

	return copyTask(task), nil
}

// Update applies a partial mutation and bumps UpdatedAt. Unknown ids are a
// silent no-op (the record may have been deleted while the executor ran).
// A status change out of a terminal state is refused: terminal states are
// final, so a late executor update cannot overwrite a lazily detected
// timeout.
func (r *Registry) Update(ctx context.Context, taskID string, update domain.TaskUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, exists := r.tasks[taskID]
	if !exists {
		observability.FromContext(ctx).Debug("update for unknown task ignored",
			observability.String("unknown_task_id", taskID))
		return
	}

	if task.Status.Terminal() {
		return
	}

	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Progress != nil {
		task.Progress = *update.Progress
	}
	if update.Result != nil {
		task.Result = update.Result
	}
	if update.Error != nil {
		task.Error = *update.Error
	}
	task.UpdatedAt = time.Now()
}

// Get returns a copy of the task after an ownership check. A non-terminal
// task whose elapsed time exceeds its timeout is transitioned to timeout
// here, at read time; there is no background timer.
func (r *Registry) Get(_ context.Context, taskID, owner string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, exists := r.tasks[taskID]
	if !exists {
		return nil, domain.ErrTaskNotFound
	}
	if task.Owner != owner {
		return nil, domain.ErrForbidden
	}

	r.expireLocked(task)

	return copyTask(task), nil
}

// List returns copies of the owner's tasks, newest first, bounded by limit.
func (r *Registry) List(_ context.Context, owner string, limit int) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tasks []*domain.Task
	for _, task := range r.tasks {
		if task.Owner != owner {
			continue
		}
		r.expireLocked(task)
		tasks = append(tasks, copyTask(task))
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	return tasks, nil
}

// Delete removes the record unconditionally after an ownership check. A
// still-running executor keeps going; its final update becomes a no-op
// against the missing record.
func (r *Registry) Delete(ctx context.Context, taskID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, exists := r.tasks[taskID]
	if !exists {
		return domain.ErrTaskNotFound
	}
	if task.Owner != owner {
		return domain.ErrForbidden
	}

	delete(r.tasks, taskID)

	observability.FromContext(ctx).Info("task deleted",
		observability.String("deleted_task_id", taskID))
	return nil
}

// Sweep removes all records older than maxAge regardless of status and
// reports how many were dropped. Called opportunistically before creating
// new tasks.
func (r *Registry) Sweep(ctx context.Context, maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	removed := 0
	for id, task := range r.tasks {
		if task.CreatedAt.Before(cutoff) {
			delete(r.tasks, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		observability.FromContext(ctx).Info("swept stale tasks",
			observability.Int("removed", removed))
	}
	return removed
}

// expireLocked flips an overdue non-terminal task to timeout. Caller holds
// the write lock.
func (r *Registry) expireLocked(task *domain.Task) {
	if task.Status.Terminal() {
		return
	}
	if time.Since(task.CreatedAt) <= task.Timeout {
		return
	}

	task.Status = domain.TaskTimeout
	task.Error = "task timed out"
	task.UpdatedAt = time.Now()
}

// copyTask returns a shallow copy safe to hand to callers. Result payloads
// are read-only after the terminal update, so sharing them is fine.
func copyTask(task *domain.Task) *domain.Task {
	clone := *task
	return &clone
}
