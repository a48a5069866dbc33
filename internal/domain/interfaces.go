package domain

import (
	"context"
	"time"
)

// EmbeddingGenerator creates embeddings from text. Exactly one implementation
// is selected at startup: a real embedding model, or the hash fingerprint
// fallback when no model is configured. Callers cannot tell which is active.
type EmbeddingGenerator interface {
	// Generate creates an embedding from text. Identical normalized input
	// must produce identical embeddings.
	Generate(ctx context.Context, text string) (Embedding, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension (0 in fingerprint mode).
	Dimension() int
}

// CacheStore is the TTL-capable backend behind the semantic cache,
// partitioned by owner.
type CacheStore interface {
	// Put writes an entry under an owner- and content-derived key with the
	// given TTL. Repeated puts for the same owner/query overwrite.
	Put(ctx context.Context, entry *CacheEntry, ttl time.Duration) error

	// Candidates returns entries for the owner to score against the query:
	// the k nearest when an index is available, otherwise every entry from
	// a full per-owner scan.
	Candidates(ctx context.Context, owner string, query Embedding, k int) ([]*CacheEntry, error)

	// List enumerates the owner's entries, newest first, bounded by limit.
	List(ctx context.Context, owner string, limit int) ([]*CacheEntry, error)

	// Clear removes all of the owner's entries and reports how many.
	Clear(ctx context.Context, owner string) (int, error)
}

// SemanticCache provides similarity-based lookup and storage of answers.
type SemanticCache interface {
	// Find returns the best stored answer for a semantically similar query,
	// or ErrCacheMiss.
	Find(ctx context.Context, owner, query string) (*CachedAnswer, error)

	// Store saves an answer under the owner's namespace with a TTL.
	Store(ctx context.Context, owner, query string, answer *ChatAnswer, ttl time.Duration) error

	// Clear drops all of the owner's entries.
	Clear(ctx context.Context, owner string) (int, error)

	// Stats summarizes the owner's cache contents.
	Stats(ctx context.Context, owner string) (*CacheStats, error)
}

// SQLGenerator turns a natural-language question into SQL for one of the
// owner's target databases.
type SQLGenerator interface {
	Generate(ctx context.Context, owner, question string, schema *SchemaContext) (*GeneratedSQL, error)
}

// QueryExecutor runs SQL against a named target database.
type QueryExecutor interface {
	Execute(ctx context.Context, sql, database string, rowLimit int) (*QueryResult, error)
}

// SchemaSource introspects the owner's target databases for prompt context.
type SchemaSource interface {
	Context(ctx context.Context, owner string) (*SchemaContext, error)
}

// TaskRegistry is the shared table of task records. Implementations must be
// safe for concurrent use by many executor goroutines and the polling API.
type TaskRegistry interface {
	// Create allocates a fresh pending task and returns it immediately.
	Create(ctx context.Context, owner, question string, timeout time.Duration) (*Task, error)

	// Update applies a partial mutation; unknown ids and transitions out of
	// a terminal status are silent no-ops.
	Update(ctx context.Context, taskID string, update TaskUpdate)

	// Get returns a copy of the task, lazily flipping overdue non-terminal
	// tasks to timeout. Fails with ErrTaskNotFound or ErrForbidden.
	Get(ctx context.Context, taskID, owner string) (*Task, error)

	// List returns copies of the owner's tasks, newest first.
	List(ctx context.Context, owner string, limit int) ([]*Task, error)

	// Delete removes the record after an ownership check.
	Delete(ctx context.Context, taskID, owner string) error

	// Sweep drops records older than maxAge regardless of status.
	Sweep(ctx context.Context, maxAge time.Duration) int
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
