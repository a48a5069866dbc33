package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

const defaultListLimit = 20

// Handler handles HTTP requests.
type Handler struct {
	pipeline *domain.PipelineService
	registry domain.TaskRegistry
	cache    domain.SemanticCache
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	pipeline *domain.PipelineService,
	registry domain.TaskRegistry,
	cache domain.SemanticCache,
) *Handler {
	return &Handler{
		pipeline: pipeline,
		registry: registry,
		cache:    cache,
	}
}

// submitResponse is the accepted-for-processing reply to an ask request.
type submitResponse struct {
	TaskID        string            `json:"task_id"`
	Status        domain.TaskStatus `json:"status"`
	EstimatedTime int               `json:"estimated_time"`
}

// HandleAsk accepts a question for background processing and returns the
// task handle immediately.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	owner := observability.GetUserID(ctx)

	var req domain.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	logger.Info("question submitted",
		observability.Int("question_length", len(req.Question)))

	task, err := h.pipeline.Submit(ctx, owner, req.Question,
		time.Duration(req.TimeoutSeconds)*time.Second)
	if err != nil {
		logger.Error("submit failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusAccepted, submitResponse{
		TaskID:        task.ID,
		Status:        task.Status,
		EstimatedTime: int(task.EstimatedCompletion.Sub(task.CreatedAt).Seconds()),
	})
}

// HandleTaskStatus returns the current state of one task.
func (h *Handler) HandleTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := h.registry.Get(ctx, r.PathValue("id"), observability.GetUserID(ctx))
	if err != nil {
		writeRegistryError(w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, task)
}

// HandleTaskList returns the caller's tasks, newest first.
func (h *Handler) HandleTaskList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	tasks, err := h.registry.List(ctx, observability.GetUserID(ctx), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		// An owner with no tasks serializes as an empty array, not null.
		tasks = []*domain.Task{}
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// HandleTaskDelete cancels a task by removing its record. In-flight work is
// not interrupted; its final update becomes a no-op.
func (h *Handler) HandleTaskDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.registry.Delete(ctx, r.PathValue("id"), observability.GetUserID(ctx)); err != nil {
		writeRegistryError(w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// HandleCacheStats summarizes the caller's semantic cache contents.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.cache.Stats(ctx, observability.GetUserID(ctx))
	if err != nil {
		observability.FromContext(ctx).Error("cache stats failed", observability.Error(err))
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(ctx, w, http.StatusOK, stats)
}

// HandleCacheClear drops all of the caller's cached answers.
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	removed, err := h.cache.Clear(ctx, observability.GetUserID(ctx))
	if err != nil {
		observability.FromContext(ctx).Error("cache clear failed", observability.Error(err))
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]int{
		"removed": removed,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// writeRegistryError maps registry access errors onto request-level codes:
// unknown id is 404, wrong owner is 403.
func writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}
