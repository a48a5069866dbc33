package task_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/task"
)

const (
	testOwner   = "user-123"
	otherOwner  = "user-456"
	testTimeout = 5 * time.Minute
)

func TestRegistry_Create(t *testing.T) {
	registry := task.NewRegistry()

	created, err := registry.Create(context.Background(), testOwner, "show all customers", testTimeout)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, testOwner, created.Owner)
	require.Equal(t, "show all customers", created.Question)
	require.Equal(t, domain.TaskPending, created.Status)
	require.Equal(t, "Queued", created.Progress)
	require.Nil(t, created.Result)
	require.False(t, created.EstimatedCompletion.IsZero())
}

func TestRegistry_Create_Validation(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	_, err := registry.Create(ctx, "", "question", testTimeout)
	require.Error(t, err)

	_, err = registry.Create(ctx, testOwner, "", testTimeout)
	require.Error(t, err)

	_, err = registry.Create(ctx, testOwner, "question", 0)
	require.Error(t, err)
}

func TestRegistry_Create_UniqueIDs(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := registry.Create(ctx, testOwner, fmt.Sprintf("question %d", i), testTimeout)
			require.NoError(t, err)
			ids <- created.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	require.Len(t, seen, n)
}

func TestRegistry_Update(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", testTimeout)
	require.NoError(t, err)

	registry.Update(ctx, created.ID, domain.TaskUpdate{
		Status:   domain.StatusPtr(domain.TaskProcessing),
		Progress: domain.StringPtr("Generating SQL"),
	})

	got, err := registry.Get(ctx, created.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.TaskProcessing, got.Status)
	require.Equal(t, "Generating SQL", got.Progress)
}

func TestRegistry_Update_UnknownIDIsNoOp(t *testing.T) {
	registry := task.NewRegistry()

	// Must not panic or create a record.
	registry.Update(context.Background(), "missing-id", domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskCompleted),
	})

	_, err := registry.Get(context.Background(), "missing-id", testOwner)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestRegistry_Update_TerminalStateIsFinal(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", testTimeout)
	require.NoError(t, err)

	registry.Update(ctx, created.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskTimeout),
		Error:  domain.StringPtr("task timed out"),
	})

	// A late executor result must not resurrect the task.
	registry.Update(ctx, created.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskCompleted),
		Result: &domain.ChatAnswer{Answer: "There are 1 results."},
	})

	got, err := registry.Get(ctx, created.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.TaskTimeout, got.Status)
	require.Equal(t, "task timed out", got.Error)
	require.Nil(t, got.Result)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	registry := task.NewRegistry()

	_, err := registry.Get(context.Background(), "missing-id", testOwner)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestRegistry_Get_WrongOwner(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", testTimeout)
	require.NoError(t, err)

	_, err = registry.Get(ctx, created.ID, otherOwner)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegistry_Get_LazyTimeout(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	got, err := registry.Get(ctx, created.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.TaskTimeout, got.Status)
	require.Equal(t, "task timed out", got.Error)
}

func TestRegistry_Get_CompletedTaskDoesNotExpire(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", 10*time.Millisecond)
	require.NoError(t, err)

	registry.Update(ctx, created.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskCompleted),
		Result: &domain.ChatAnswer{Answer: "No results found."},
	})

	time.Sleep(30 * time.Millisecond)

	got, err := registry.Get(ctx, created.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, domain.TaskCompleted, got.Status)
	require.NotNil(t, got.Result)
}

func TestRegistry_List(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	first, err := registry.Create(ctx, testOwner, "first question", testTimeout)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := registry.Create(ctx, testOwner, "second question", testTimeout)
	require.NoError(t, err)
	_, err = registry.Create(ctx, otherOwner, "someone else's question", testTimeout)
	require.NoError(t, err)

	tasks, err := registry.List(ctx, testOwner, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, second.ID, tasks[0].ID)
	require.Equal(t, first.ID, tasks[1].ID)
}

func TestRegistry_List_Limit(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := registry.Create(ctx, testOwner, fmt.Sprintf("question %d", i), testTimeout)
		require.NoError(t, err)
	}

	tasks, err := registry.List(ctx, testOwner, 3)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
}

func TestRegistry_List_EmptyForUnknownOwner(t *testing.T) {
	registry := task.NewRegistry()

	tasks, err := registry.List(context.Background(), "nobody", 0)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestRegistry_Delete(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", testTimeout)
	require.NoError(t, err)

	require.NoError(t, registry.Delete(ctx, created.ID, testOwner))

	_, err = registry.Get(ctx, created.ID, testOwner)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestRegistry_Delete_NotFound(t *testing.T) {
	registry := task.NewRegistry()

	err := registry.Delete(context.Background(), "missing-id", testOwner)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestRegistry_Delete_WrongOwner(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", testTimeout)
	require.NoError(t, err)

	err = registry.Delete(ctx, created.ID, otherOwner)
	require.ErrorIs(t, err, domain.ErrForbidden)

	// The record survives the rejected delete.
	got, err := registry.Get(ctx, created.ID, testOwner)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestRegistry_Delete_RunningTask(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	created, err := registry.Create(ctx, testOwner, "show all customers", testTimeout)
	require.NoError(t, err)

	registry.Update(ctx, created.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskProcessing),
	})

	require.NoError(t, registry.Delete(ctx, created.ID, testOwner))

	// The executor's terminal update lands on a missing record: a no-op.
	registry.Update(ctx, created.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskCompleted),
	})

	_, err = registry.Get(ctx, created.ID, testOwner)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestRegistry_Sweep(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	old, err := registry.Create(ctx, testOwner, "old question", testTimeout)
	require.NoError(t, err)
	registry.Update(ctx, old.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskCompleted),
	})

	time.Sleep(20 * time.Millisecond)

	fresh, err := registry.Create(ctx, testOwner, "fresh question", testTimeout)
	require.NoError(t, err)

	removed := registry.Sweep(ctx, 10*time.Millisecond)
	require.Equal(t, 1, removed)

	_, err = registry.Get(ctx, old.ID, testOwner)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = registry.Get(ctx, fresh.ID, testOwner)
	require.NoError(t, err)
}

func TestRegistry_Sweep_RemovesRegardlessOfStatus(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	running, err := registry.Create(ctx, testOwner, "still running", testTimeout)
	require.NoError(t, err)
	registry.Update(ctx, running.ID, domain.TaskUpdate{
		Status: domain.StatusPtr(domain.TaskProcessing),
	})

	time.Sleep(20 * time.Millisecond)

	removed := registry.Sweep(ctx, 10*time.Millisecond)
	require.Equal(t, 1, removed)
}

func TestRegistry_Sweep_ZeroMaxAgeIsNoOp(t *testing.T) {
	registry := task.NewRegistry()
	ctx := context.Background()

	_, err := registry.Create(ctx, testOwner, "question", testTimeout)
	require.NoError(t, err)

	require.Equal(t, 0, registry.Sweep(ctx, 0))

	tasks, err := registry.List(ctx, testOwner, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestTaskStatus_Terminal(t *testing.T) {
	require.False(t, domain.TaskPending.Terminal())
	require.False(t, domain.TaskProcessing.Terminal())
	require.True(t, domain.TaskCompleted.Terminal())
	require.True(t, domain.TaskFailed.Terminal())
	require.True(t, domain.TaskTimeout.Terminal())
}
