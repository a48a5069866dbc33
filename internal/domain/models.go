package domain

import "time"

// AskRequest represents a natural-language question submitted for processing.
type AskRequest struct {
	Question       string `json:"question"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// ChatAnswer is the final response produced by the pipeline for one question.
// It is the payload stored in and served from the semantic cache, so every
// field must survive a JSON round-trip.
type ChatAnswer struct {
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	SQL        string           `json:"sql_used,omitempty"`
	Database   string           `json:"database,omitempty"`
	Data       []map[string]any `json:"data,omitempty"`
	Columns    []string         `json:"columns,omitempty"`
	RowCount   int              `json:"row_count"`
	Suggestion string           `json:"suggestion,omitempty"`
	Cached     bool             `json:"cached,omitempty"`
}

// GeneratedSQL is the output of the SQL generation stage.
type GeneratedSQL struct {
	SQL      string `json:"sql"`
	Database string `json:"database"`
}

// QueryResult is the output of the query execution stage. Exactly one of
// (Rows, Columns) or AffectedRows is meaningful, discriminated by Select.
type QueryResult struct {
	Select       bool             `json:"select"`
	Rows         []map[string]any `json:"rows,omitempty"`
	Columns      []string         `json:"columns,omitempty"`
	RowCount     int              `json:"row_count"`
	AffectedRows int64            `json:"affected_rows,omitempty"`
}

// SchemaContext carries the introspected schemas of the owner's target
// databases, pre-formatted for the generation prompt.
type SchemaContext struct {
	Databases []string
	Formatted string
}

// CacheEntry is one stored semantic cache record. Entries are immutable
// after creation; expiry is enforced by the store via TTL.
type CacheEntry struct {
	Owner     string
	Query     string
	Embedding Embedding
	Payload   []byte
	CreatedAt time.Time
}

// CachedAnswer is a cache hit with its match metadata.
type CachedAnswer struct {
	Answer          *ChatAnswer
	MatchedQuery    string
	SimilarityScore float64
	CachedAt        time.Time
}

// CacheStats summarizes the cache contents for one owner.
type CacheStats struct {
	Owner        string           `json:"user_id"`
	TotalEntries int              `json:"total_cached_queries"`
	Entries      []CacheStatEntry `json:"entries"`
}

// CacheStatEntry is one row in CacheStats, newest first.
type CacheStatEntry struct {
	Query    string    `json:"query"`
	CachedAt time.Time `json:"cached_at"`
}
