package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/datachat/internal/observability"
)

const cacheStoreTimeout = 30 * time.Second

// PipelineConfig carries the per-stage budgets for one executor run.
type PipelineConfig struct {
	GenerateTimeout time.Duration
	ExecuteTimeout  time.Duration
	TaskTimeout     time.Duration
	SweepMaxAge     time.Duration
	CacheTTL        time.Duration
	RowLimit        int
}

// PipelineService drives submitted questions through the
// cache -> generate -> execute -> format -> store pipeline, one detached
// goroutine per task. Errors inside a run are captured into the task record
// and never cross the async boundary.
type PipelineService struct {
	registry  TaskRegistry
	cache     SemanticCache
	schemas   SchemaSource
	generator SQLGenerator
	executor  QueryExecutor
	events    EventPublisher
	config    PipelineConfig
}

// NewPipelineService creates a new pipeline service (DI constructor).
// A nil cache disables semantic caching without changing pipeline behavior.
func NewPipelineService(
	registry TaskRegistry,
	cache SemanticCache,
	schemas SchemaSource,
	generator SQLGenerator,
	executor QueryExecutor,
	events EventPublisher,
	config PipelineConfig,
) *PipelineService {
	return &PipelineService{
		registry:  registry,
		cache:     cache,
		schemas:   schemas,
		generator: generator,
		executor:  executor,
		events:    events,
		config:    config,
	}
}

// Submit registers a new task and starts its executor run in the background.
// It never blocks on pipeline work.
func (p *PipelineService) Submit(
	ctx context.Context,
	owner, question string,
	timeout time.Duration,
) (*Task, error) {
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}
	if owner == "" {
		return nil, errors.New("owner cannot be empty")
	}
	if timeout <= 0 {
		timeout = p.config.TaskTimeout
	}

	// Opportunistic cleanup of stale records before admitting new work.
	p.registry.Sweep(ctx, p.config.SweepMaxAge)

	task, err := p.registry.Create(ctx, owner, question, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	p.events.Publish(ctx, "task.created", map[string]interface{}{
		"task_id": task.ID,
		"user_id": owner,
	})

	go p.run(p.detachContext(ctx, owner, task.ID), task.ID, owner, question)

	return task, nil
}

// detachContext builds the background context for an executor run: free of
// the request's cancellation but carrying its trace fields.
func (p *PipelineService) detachContext(ctx context.Context, owner, taskID string) context.Context {
	runCtx := context.Background()
	if traceID := observability.GetTraceID(ctx); traceID != "" {
		runCtx = observability.WithTraceID(runCtx, traceID)
	}
	if requestID := observability.GetRequestID(ctx); requestID != "" {
		runCtx = observability.WithRequestID(runCtx, requestID)
	}
	runCtx = observability.WithUserID(runCtx, owner)
	return observability.WithTaskID(runCtx, taskID)
}

// run executes the pipeline for one task. Exactly one run exists per task
// id; the registry does not support replay of a terminal task.
func (p *PipelineService) run(ctx context.Context, taskID, owner, question string) {
	logger := observability.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline run panicked",
				observability.String("panic", fmt.Sprint(r)))
			p.finish(ctx, taskID, TaskFailed, fmt.Sprintf("internal error: %v", r))
		}
	}()

	p.registry.Update(ctx, taskID, TaskUpdate{
		Status:   StatusPtr(TaskProcessing),
		Progress: StringPtr("Checking semantic cache"),
	})

	// Stage 1: cache lookup. Failures degrade to a miss.
	if p.cache != nil {
		cached, findErr := p.cache.Find(ctx, owner, question)
		if findErr != nil && !errors.Is(findErr, ErrCacheMiss) {
			logger.Warn("cache find failed, continuing without cache",
				observability.Error(findErr))
		}
		if cached != nil {
			answer := *cached.Answer
			answer.Cached = true
			p.complete(ctx, taskID, &answer)
			p.events.Publish(ctx, "task.completed", map[string]interface{}{
				"task_id":    taskID,
				"cached":     true,
				"similarity": cached.SimilarityScore,
			})
			return
		}
	}

	// Stage 2: SQL generation under its own budget.
	p.registry.Update(ctx, taskID, TaskUpdate{Progress: StringPtr("Generating SQL")})

	genCtx, cancelGen := context.WithTimeout(ctx, p.config.GenerateTimeout)
	generated, genErr := p.generateSQL(genCtx, owner, question)
	genTimedOut := stageTimedOut(genCtx, genErr)
	cancelGen()

	if genErr != nil {
		if genTimedOut {
			p.finish(ctx, taskID, TaskTimeout, "SQL generation timed out")
		} else {
			p.finish(ctx, taskID, TaskFailed, genErr.Error())
		}
		return
	}

	logger.Info("SQL generated",
		observability.String("database", generated.Database))

	// Stage 3: query execution under its own budget.
	p.registry.Update(ctx, taskID, TaskUpdate{Progress: StringPtr("Executing query")})

	execCtx, cancelExec := context.WithTimeout(ctx, p.config.ExecuteTimeout)
	result, execErr := p.executor.Execute(execCtx, generated.SQL, generated.Database, p.config.RowLimit)
	execTimedOut := stageTimedOut(execCtx, execErr)
	cancelExec()

	if execErr != nil {
		if execTimedOut {
			p.finish(ctx, taskID, TaskTimeout, "query execution timed out")
		} else {
			p.finish(ctx, taskID, TaskFailed, execErr.Error())
		}
		return
	}

	// Stage 4: answer formatting; pure, no failure mode.
	p.registry.Update(ctx, taskID, TaskUpdate{Progress: StringPtr("Formatting answer")})

	answer := &ChatAnswer{
		Question:   question,
		Answer:     FormatAnswer(result),
		SQL:        generated.SQL,
		Database:   generated.Database,
		Data:       result.Rows,
		Columns:    result.Columns,
		RowCount:   result.RowCount,
		Suggestion: Suggestion(result),
	}

	// Stage 5: fire-and-forget cache store, decoupled from the task outcome.
	if p.cache != nil {
		p.storeDetached(ctx, owner, question, answer)
	}

	// Stage 6: terminal update.
	p.complete(ctx, taskID, answer)
	p.events.Publish(ctx, "task.completed", map[string]interface{}{
		"task_id":   taskID,
		"cached":    false,
		"row_count": result.RowCount,
	})
}

// generateSQL gathers schema context and calls the generation collaborator,
// both inside the generation stage budget.
func (p *PipelineService) generateSQL(ctx context.Context, owner, question string) (*GeneratedSQL, error) {
	schema, err := p.schemas.Context(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema context: %w", err)
	}

	generated, err := p.generator.Generate(ctx, owner, question, schema)
	if err != nil {
		return nil, err
	}
	if generated.SQL == "" {
		return nil, errors.New("generator returned empty SQL")
	}
	return generated, nil
}

// storeDetached stores the answer in the cache without awaiting the result.
// Failures are caught and logged inside this boundary; the task outcome is
// already decided.
func (p *PipelineService) storeDetached(ctx context.Context, owner, question string, answer *ChatAnswer) {
	storeCtx := p.detachContext(ctx, owner, observability.GetTaskID(ctx))

	go func() {
		logger := observability.FromContext(storeCtx)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("cache store panicked",
					observability.String("panic", fmt.Sprint(r)))
			}
		}()

		putCtx, cancel := context.WithTimeout(storeCtx, cacheStoreTimeout)
		defer cancel()

		if err := p.cache.Store(putCtx, owner, question, answer, p.config.CacheTTL); err != nil {
			logger.Warn("failed to store answer in cache",
				observability.Error(err))
		}
	}()
}

func (p *PipelineService) complete(ctx context.Context, taskID string, answer *ChatAnswer) {
	p.registry.Update(ctx, taskID, TaskUpdate{
		Status:   StatusPtr(TaskCompleted),
		Progress: StringPtr("Done"),
		Result:   answer,
	})

	observability.FromContext(ctx).Info("task completed",
		observability.Bool("cached", answer.Cached),
		observability.Int("row_count", answer.RowCount))
}

func (p *PipelineService) finish(ctx context.Context, taskID string, status TaskStatus, message string) {
	p.registry.Update(ctx, taskID, TaskUpdate{
		Status: StatusPtr(status),
		Error:  StringPtr(message),
	})

	observability.FromContext(ctx).Warn("task did not complete",
		observability.String("status", string(status)),
		observability.String("error", message))

	p.events.Publish(ctx, "task."+string(status), map[string]interface{}{
		"task_id": taskID,
		"error":   message,
	})
}

// stageTimedOut reports whether a stage error was caused by its own budget
// expiring rather than a functional failure.
func stageTimedOut(stageCtx context.Context, err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(stageCtx.Err(), context.DeadlineExceeded)
}
