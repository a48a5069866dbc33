package domain_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/mocks"
	"github.com/davidbz/datachat/internal/observability"
	"github.com/davidbz/datachat/internal/task"
)

func testPipelineConfig() domain.PipelineConfig {
	return domain.PipelineConfig{
		GenerateTimeout: 2 * time.Second,
		ExecuteTimeout:  2 * time.Second,
		TaskTimeout:     5 * time.Second,
		SweepMaxAge:     time.Hour,
		CacheTTL:        10 * time.Minute,
		RowLimit:        100,
	}
}

func testSchema() *domain.SchemaContext {
	return &domain.SchemaContext{
		Databases: []string{"crm"},
		Formatted: "DATABASE SCHEMAS AVAILABLE TO USER:\n\nDATABASE: crm\n",
	}
}

// waitForTerminal polls the registry until the task leaves its running states.
func waitForTerminal(t *testing.T, registry domain.TaskRegistry, taskID, owner string) *domain.Task {
	t.Helper()

	var final *domain.Task
	require.Eventually(t, func() bool {
		got, err := registry.Get(context.Background(), taskID, owner)
		if err != nil {
			return false
		}
		if !got.Status.Terminal() {
			return false
		}
		final = got
		return true
	}, 3*time.Second, 5*time.Millisecond)

	return final
}

func TestPipelineService_Submit_FullRun(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, "show all customers").
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, "show all customers", mock.Anything).
		Return(&domain.GeneratedSQL{SQL: "SELECT * FROM customers;", Database: "crm"}, nil)

	mockExecutor.EXPECT().
		Execute(mock.Anything, "SELECT * FROM customers;", "crm", 100).
		Return(&domain.QueryResult{
			Select:   true,
			Rows:     []map[string]any{{"id": int64(1), "name": "Alice"}},
			Columns:  []string{"id", "name"},
			RowCount: 1,
		}, nil)

	stored := make(chan struct{})
	mockCache.EXPECT().
		Store(mock.Anything, testOwner, "show all customers", mock.Anything, 10*time.Minute).
		Run(func(context.Context, string, string, *domain.ChatAnswer, time.Duration) {
			close(stored)
		}).
		Return(nil)

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, submitted.Status)
	require.NotEmpty(t, submitted.ID)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskCompleted, final.Status)
	require.Equal(t, "Done", final.Progress)
	require.NotNil(t, final.Result)
	require.Equal(t, "There are 1 results.", final.Result.Answer)
	require.Equal(t, "SELECT * FROM customers;", final.Result.SQL)
	require.Equal(t, 1, final.Result.RowCount)
	require.False(t, final.Result.Cached)
	require.Equal(t, "Try asking about specific names or filtering by dates.", final.Result.Suggestion)

	// The cache store is fire-and-forget; wait for it so the mock's
	// expectations are satisfied before cleanup runs.
	select {
	case <-stored:
	case <-time.After(3 * time.Second):
		t.Fatal("cache store was never called")
	}
}

func TestPipelineService_Submit_CacheHitSkipsGeneration(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, "show all customers").
		Return(&domain.CachedAnswer{
			Answer: &domain.ChatAnswer{
				Question: "show all customers",
				Answer:   "There are 3 results.",
				SQL:      "SELECT * FROM customers;",
				RowCount: 3,
			},
			MatchedQuery:    "show all customers",
			SimilarityScore: 0.97,
		}, nil)

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskCompleted, final.Status)
	require.NotNil(t, final.Result)
	require.True(t, final.Result.Cached)
	require.Equal(t, "There are 3 results.", final.Result.Answer)
	mockGenerator.AssertNotCalled(t, "Generate")
	mockExecutor.AssertNotCalled(t, "Execute")
}

func TestPipelineService_Submit_CacheFailureDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, errors.New("redis connection refused"))

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		Return(&domain.GeneratedSQL{SQL: "SELECT COUNT(*) AS count FROM customers;", Database: "crm"}, nil)

	mockExecutor.EXPECT().
		Execute(mock.Anything, mock.Anything, "crm", 100).
		Return(&domain.QueryResult{
			Select:   true,
			Rows:     []map[string]any{{"count": int64(12)}},
			Columns:  []string{"count"},
			RowCount: 1,
		}, nil)

	var storeOnce sync.Once
	stored := make(chan struct{})
	mockCache.EXPECT().
		Store(mock.Anything, testOwner, mock.Anything, mock.Anything, mock.Anything).
		Run(func(context.Context, string, string, *domain.ChatAnswer, time.Duration) {
			storeOnce.Do(func() { close(stored) })
		}).
		Return(errors.New("redis connection refused"))

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "how many customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskCompleted, final.Status)
	require.Equal(t, "There are 1 results.", final.Result.Answer)

	select {
	case <-stored:
	case <-time.After(3 * time.Second):
		t.Fatal("cache store was never called")
	}
}

func TestPipelineService_Submit_GenerationTimeout(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		RunAndReturn(func(genCtx context.Context, _, _ string, _ *domain.SchemaContext) (*domain.GeneratedSQL, error) {
			<-genCtx.Done()
			return nil, genCtx.Err()
		})

	config := testPipelineConfig()
	config.GenerateTimeout = 20 * time.Millisecond

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, config)

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskTimeout, final.Status)
	require.Equal(t, "SQL generation timed out", final.Error)
	require.Nil(t, final.Result)
	mockExecutor.AssertNotCalled(t, "Execute")
}

func TestPipelineService_Submit_ExecutionTimeout(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		Return(&domain.GeneratedSQL{SQL: "SELECT * FROM customers;", Database: "crm"}, nil)

	mockExecutor.EXPECT().
		Execute(mock.Anything, mock.Anything, "crm", 100).
		RunAndReturn(func(execCtx context.Context, _, _ string, _ int) (*domain.QueryResult, error) {
			<-execCtx.Done()
			return nil, execCtx.Err()
		})

	config := testPipelineConfig()
	config.ExecuteTimeout = 20 * time.Millisecond

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, config)

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskTimeout, final.Status)
	require.Equal(t, "query execution timed out", final.Error)
	require.Nil(t, final.Result)
}

func TestPipelineService_Submit_GenerationFailure(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		Return(nil, errors.New("model returned no choices"))

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskFailed, final.Status)
	require.Equal(t, "model returned no choices", final.Error)
	require.Nil(t, final.Result)
}

func TestPipelineService_Submit_ExecutionFailure(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		Return(&domain.GeneratedSQL{SQL: "SELECT * FROM nope;", Database: "crm"}, nil)

	mockExecutor.EXPECT().
		Execute(mock.Anything, "SELECT * FROM nope;", "crm", 100).
		Return(nil, errors.New(`relation "nope" does not exist`))

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskFailed, final.Status)
	require.Contains(t, final.Error, "does not exist")
}

func TestPipelineService_Submit_StoreFailureDoesNotAffectOutcome(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		Return(&domain.GeneratedSQL{SQL: "SELECT * FROM customers;", Database: "crm"}, nil)

	mockExecutor.EXPECT().
		Execute(mock.Anything, mock.Anything, "crm", 100).
		Return(&domain.QueryResult{Select: true, RowCount: 0}, nil)

	var storeOnce sync.Once
	stored := make(chan struct{})
	mockCache.EXPECT().
		Store(mock.Anything, testOwner, mock.Anything, mock.Anything, mock.Anything).
		Run(func(context.Context, string, string, *domain.ChatAnswer, time.Duration) {
			storeOnce.Do(func() { close(stored) })
		}).
		Return(errors.New("redis connection refused"))

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskCompleted, final.Status)
	require.Equal(t, "No results found.", final.Result.Answer)

	select {
	case <-stored:
	case <-time.After(3 * time.Second):
		t.Fatal("cache store was never called")
	}
}

func TestPipelineService_Submit_ConcurrentTasksKeepResultsSeparate(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockCache := mocks.NewMockSemanticCache(t)
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	const taskCount = 6

	mockCache.EXPECT().
		Find(mock.Anything, testOwner, mock.Anything).
		Return(nil, domain.ErrCacheMiss)

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	// Hold every run at the generation stage until all of them have arrived,
	// so the pipelines are provably in flight at the same time. The SQL and
	// the row count are derived from each task's own question, which makes
	// any cross-task mixup visible in the final record.
	var inFlight sync.WaitGroup
	inFlight.Add(taskCount)
	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _, question string, _ *domain.SchemaContext) (*domain.GeneratedSQL, error) {
			inFlight.Done()
			inFlight.Wait()

			var region int
			if _, err := fmt.Sscanf(question, "show customers in region %d", &region); err != nil {
				return nil, err
			}
			return &domain.GeneratedSQL{
				SQL:      fmt.Sprintf("SELECT * FROM customers WHERE region = %d;", region),
				Database: "crm",
			}, nil
		})

	mockExecutor.EXPECT().
		Execute(mock.Anything, mock.Anything, "crm", 100).
		RunAndReturn(func(_ context.Context, sql, _ string, _ int) (*domain.QueryResult, error) {
			var region int
			if _, err := fmt.Sscanf(sql, "SELECT * FROM customers WHERE region = %d;", &region); err != nil {
				return nil, err
			}
			return &domain.QueryResult{Select: true, RowCount: region + 1}, nil
		})

	stored := make(chan struct{}, taskCount)
	mockCache.EXPECT().
		Store(mock.Anything, testOwner, mock.Anything, mock.Anything, mock.Anything).
		Run(func(context.Context, string, string, *domain.ChatAnswer, time.Duration) {
			stored <- struct{}{}
		}).
		Return(nil)

	service := domain.NewPipelineService(
		registry, mockCache, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	ids := make([]string, taskCount)
	for i := 0; i < taskCount; i++ {
		submitted, err := service.Submit(ctx, testOwner, fmt.Sprintf("show customers in region %d", i), 0)
		require.NoError(t, err)
		ids[i] = submitted.ID
	}

	for i, id := range ids {
		final := waitForTerminal(t, registry, id, testOwner)
		require.Equal(t, domain.TaskCompleted, final.Status)
		require.NotNil(t, final.Result)
		require.Equal(t, fmt.Sprintf("show customers in region %d", i), final.Result.Question)
		require.Equal(t, fmt.Sprintf("SELECT * FROM customers WHERE region = %d;", i), final.Result.SQL)
		require.Equal(t, i+1, final.Result.RowCount)
		require.Equal(t, fmt.Sprintf("There are %d results.", i+1), final.Result.Answer)
		require.Empty(t, final.Error)
	}

	for i := 0; i < taskCount; i++ {
		select {
		case <-stored:
		case <-time.After(3 * time.Second):
			t.Fatal("cache store was not called for every task")
		}
	}
}

func TestPipelineService_Submit_Validation(t *testing.T) {
	registry := task.NewRegistry()
	events := observability.NewEventBus(zap.NewNop())

	service := domain.NewPipelineService(
		registry, nil, nil, nil, nil, events, testPipelineConfig())

	_, err := service.Submit(context.Background(), testOwner, "", 0)
	require.Error(t, err)

	_, err = service.Submit(context.Background(), "", "show all customers", 0)
	require.Error(t, err)
}

func TestPipelineService_Submit_NilCacheDisablesCaching(t *testing.T) {
	ctx := context.Background()
	registry := task.NewRegistry()
	mockSchemas := mocks.NewMockSchemaSource(t)
	mockGenerator := mocks.NewMockSQLGenerator(t)
	mockExecutor := mocks.NewMockQueryExecutor(t)
	events := observability.NewEventBus(zap.NewNop())

	mockSchemas.EXPECT().
		Context(mock.Anything, testOwner).
		Return(testSchema(), nil)

	mockGenerator.EXPECT().
		Generate(mock.Anything, testOwner, mock.Anything, mock.Anything).
		Return(&domain.GeneratedSQL{SQL: "SELECT * FROM customers;", Database: "crm"}, nil)

	mockExecutor.EXPECT().
		Execute(mock.Anything, mock.Anything, "crm", 100).
		Return(&domain.QueryResult{Select: true, RowCount: 2}, nil)

	service := domain.NewPipelineService(
		registry, nil, mockSchemas, mockGenerator, mockExecutor, events, testPipelineConfig())

	submitted, err := service.Submit(ctx, testOwner, "show all customers", 0)
	require.NoError(t, err)

	final := waitForTerminal(t, registry, submitted.ID, testOwner)
	require.Equal(t, domain.TaskCompleted, final.Status)
	require.Equal(t, "There are 2 results.", final.Result.Answer)
}
