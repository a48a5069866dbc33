package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/datachat/internal/observability"
)

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// SemanticCacheService implements semantic caching using embeddings and a
// TTL-capable store. Any failure degrades to a miss or a no-op: caching is a
// performance optimization, never a correctness dependency.
type SemanticCacheService struct {
	embeddingGen EmbeddingGenerator
	store        CacheStore
	threshold    float64
	searchK      int
}

// NewSemanticCacheService creates a new semantic cache service.
func NewSemanticCacheService(
	embeddingGen EmbeddingGenerator,
	store CacheStore,
	threshold float64,
	searchK int,
) *SemanticCacheService {
	return &SemanticCacheService{
		embeddingGen: embeddingGen,
		store:        store,
		threshold:    threshold,
		searchK:      searchK,
	}
}

// Find retrieves the cached answer for a semantically similar query.
// Returns ErrCacheMiss when nothing scores at or above the threshold.
func (s *SemanticCacheService) Find(ctx context.Context, owner, query string) (*CachedAnswer, error) {
	logger := observability.FromContext(ctx)

	embedding, err := s.embeddingGen.Generate(ctx, query)
	if err != nil {
		logger.Error("failed to generate embedding",
			observability.Error(err))
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	candidates, err := s.store.Candidates(ctx, owner, embedding, s.searchK)
	if err != nil {
		logger.Error("cache candidate lookup failed",
			observability.Error(err),
			observability.Int("k", s.searchK))
		return nil, fmt.Errorf("failed to search cached entries: %w", err)
	}

	if len(candidates) == 0 {
		logger.Info("no cached entries for user")
		return nil, ErrCacheMiss
	}

	// First entry reaching the max score by enumeration order wins.
	var best *CacheEntry
	bestScore := 0.0
	for _, candidate := range candidates {
		score := Similarity(embedding, candidate.Embedding)
		logger.Debug("scored cached query",
			observability.String("cached_query", candidate.Query),
			observability.Float64("similarity", score))
		if best == nil || score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if bestScore < s.threshold {
		logger.Info("best similarity below threshold",
			observability.Float64("similarity", bestScore),
			observability.Float64("threshold", s.threshold))
		return nil, ErrCacheMiss
	}

	var answer ChatAnswer
	if unmarshalErr := json.Unmarshal(best.Payload, &answer); unmarshalErr != nil {
		logger.Error("failed to unmarshal cached answer",
			observability.Error(unmarshalErr),
			observability.String("cached_query", best.Query))
		return nil, fmt.Errorf("failed to unmarshal cached answer: %w", unmarshalErr)
	}

	logger.Info("semantic cache hit",
		observability.String("cached_query", best.Query),
		observability.Float64("similarity", bestScore))

	return &CachedAnswer{
		Answer:          &answer,
		MatchedQuery:    best.Query,
		SimilarityScore: bestScore,
		CachedAt:        best.CreatedAt,
	}, nil
}

// Store saves an answer with its embedding under the owner's namespace.
// The store derives a content-based key, so repeated stores for the same
// query overwrite rather than accumulate.
func (s *SemanticCacheService) Store(
	ctx context.Context,
	owner, query string,
	answer *ChatAnswer,
	ttl time.Duration,
) error {
	logger := observability.FromContext(ctx)

	if answer == nil {
		return errors.New("answer cannot be nil")
	}

	embedding, err := s.embeddingGen.Generate(ctx, query)
	if err != nil {
		logger.Error("failed to generate embedding for cache storage",
			observability.Error(err))
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	payload, err := json.Marshal(answer)
	if err != nil {
		logger.Error("failed to marshal answer",
			observability.Error(err))
		return fmt.Errorf("failed to marshal answer: %w", err)
	}

	entry := &CacheEntry{
		Owner:     owner,
		Query:     query,
		Embedding: embedding,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if putErr := s.store.Put(ctx, entry, ttl); putErr != nil {
		logger.Error("failed to store cache entry",
			observability.Error(putErr))
		return fmt.Errorf("failed to store cache entry: %w", putErr)
	}

	logger.Info("stored answer in semantic cache",
		observability.Int("payload_size", len(payload)),
		observability.Duration("ttl", ttl))
	return nil
}

// Clear removes all of the owner's cached entries.
func (s *SemanticCacheService) Clear(ctx context.Context, owner string) (int, error) {
	removed, err := s.store.Clear(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	observability.FromContext(ctx).Info("cleared user cache",
		observability.Int("removed", removed))
	return removed, nil
}

// Stats summarizes the owner's cache contents, newest first.
func (s *SemanticCacheService) Stats(ctx context.Context, owner string) (*CacheStats, error) {
	const statsLimit = 10

	entries, err := s.store.List(ctx, owner, statsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}

	stats := &CacheStats{
		Owner:        owner,
		TotalEntries: len(entries),
		Entries:      make([]CacheStatEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		stats.Entries = append(stats.Entries, CacheStatEntry{
			Query:    entry.Query,
			CachedAt: entry.CreatedAt,
		})
	}

	return stats, nil
}
