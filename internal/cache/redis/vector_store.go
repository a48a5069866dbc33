// Package redis implements the semantic cache store on Redis hashes, with
// RediSearch KNN lookups when a vector index is available and a per-owner
// key scan in fingerprint (degraded) mode.
package redis

import (
	"context"
	"crypto/md5" //nolint:gosec // content addressing, not cryptography
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

const (
	redisDialectVersion = 2
	contentIDLen        = 12
	scanBatchSize       = 100
)

const (
	fieldOwner       = "user_id"
	fieldQuery       = "query"
	fieldPayload     = "payload"
	fieldCreatedAt   = "created_at"
	fieldEmbedding   = "embedding"
	fieldFingerprint = "fingerprint"
)

// Store implements the domain.CacheStore interface on Redis.
type Store struct {
	client             *redis.Client
	indexName          string
	keyPrefix          string
	embeddingDimension int
	indexed            bool
}

// NewStore creates a new Redis cache store. With a positive embedding
// dimension it ensures a vector search index exists; dimension 0 selects
// fingerprint mode, where candidate lookup is a per-owner scan. Index
// creation failure degrades to scan mode instead of failing startup.
func NewStore(client *redis.Client, indexName, keyPrefix string, embeddingDimension int) *Store {
	s := &Store{
		client:             client,
		indexName:          indexName,
		keyPrefix:          keyPrefix,
		embeddingDimension: embeddingDimension,
		indexed:            false,
	}

	if embeddingDimension > 0 {
		if err := s.createIndex(); err != nil {
			observability.FromContext(context.Background()).Warn(
				"vector index unavailable, falling back to per-user scan",
				observability.Error(err))
		} else {
			s.indexed = true
		}
	}

	return s
}

// Put writes the entry under an owner- and content-derived key with the TTL
// attached, so repeated stores for the same query overwrite and expiry is
// enforced by Redis, not by application logic.
func (s *Store) Put(ctx context.Context, entry *domain.CacheEntry, ttl time.Duration) error {
	key := s.entryKey(entry.Owner, entry.Query)

	fields := []any{
		fieldOwner, entry.Owner,
		fieldQuery, entry.Query,
		fieldPayload, string(entry.Payload),
		fieldCreatedAt, entry.CreatedAt.Unix(),
	}
	switch entry.Embedding.Kind {
	case domain.EmbeddingVector:
		fields = append(fields, fieldEmbedding, floatsToBytes(entry.Embedding.Vector))
	case domain.EmbeddingFingerprint:
		fields = append(fields, fieldFingerprint, entry.Embedding.Fingerprint)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, fields...)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}

	observability.FromContext(ctx).Debug("cache entry stored",
		observability.String("key", key),
		observability.Duration("ttl", ttl))
	return nil
}

// Candidates returns the owner's entries for similarity scoring:
// nearest-first and bounded by k via the vector index when available. In
// scan mode the bound does not apply: scan order is arbitrary, so cutting
// it at k could drop the closest entry and turn a stored query into a miss.
func (s *Store) Candidates(
	ctx context.Context,
	owner string,
	query domain.Embedding,
	k int,
) ([]*domain.CacheEntry, error) {
	if s.indexed && query.Kind == domain.EmbeddingVector {
		return s.knnCandidates(ctx, owner, query, k)
	}
	return s.scanEntries(ctx, owner, 0)
}

// List enumerates the owner's entries, newest first, bounded by limit.
func (s *Store) List(ctx context.Context, owner string, limit int) ([]*domain.CacheEntry, error) {
	entries, err := s.scanEntries(ctx, owner, 0)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Clear removes all of the owner's entries.
func (s *Store) Clear(ctx context.Context, owner string) (int, error) {
	keys, err := s.ownerKeys(ctx, owner, 0)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if delErr := s.client.Del(ctx, keys...).Err(); delErr != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", delErr)
	}
	return len(keys), nil
}

// knnCandidates queries the vector index, filtered to the owner's tag. The
// owner value is escaped for the RediSearch tag syntax: UUID hyphens would
// otherwise be parsed as operators and the lookup would silently fail.
func (s *Store) knnCandidates(
	ctx context.Context,
	owner string,
	query domain.Embedding,
	k int,
) ([]*domain.CacheEntry, error) {
	logger := observability.FromContext(ctx)

	searchQuery := fmt.Sprintf("(@%s:{%s})=>[KNN %d @%s $vec AS score]",
		fieldOwner, escapeTag(owner), k, fieldEmbedding)

	results, err := s.client.FTSearchWithArgs(ctx, s.indexName, searchQuery,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: fieldQuery},
				{FieldName: fieldPayload},
				{FieldName: fieldCreatedAt},
				{FieldName: fieldEmbedding},
			},
			SortBy: []redis.FTSearchSortBy{
				{FieldName: "score", Asc: true},
			},
			DialectVersion: redisDialectVersion,
			Params: map[string]any{
				"vec": floatsToBytes(query.Vector),
			},
		},
	).Result()
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	logger.Debug("vector search completed",
		observability.Int("total_docs", results.Total),
		observability.Int("docs_returned", len(results.Docs)))

	entries := make([]*domain.CacheEntry, 0, len(results.Docs))
	for _, doc := range results.Docs {
		entry := s.entryFromFields(owner, doc.Fields)
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// scanEntries walks the owner's key prefix and loads each hash. Used for
// candidate lookup in fingerprint mode and for List/Clear.
func (s *Store) scanEntries(ctx context.Context, owner string, limit int) ([]*domain.CacheEntry, error) {
	keys, err := s.ownerKeys(ctx, owner, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.CacheEntry, 0, len(keys))
	for _, key := range keys {
		fields, getErr := s.client.HGetAll(ctx, key).Result()
		if getErr != nil {
			return nil, fmt.Errorf("failed to load entry %s: %w", key, getErr)
		}
		if len(fields) == 0 {
			// Expired between SCAN and HGETALL.
			continue
		}
		entry := s.entryFromFields(owner, fields)
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *Store) ownerKeys(ctx context.Context, owner string, limit int) ([]string, error) {
	pattern := fmt.Sprintf("%s:%s:*", s.keyPrefix, escapeGlob(owner))

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if limit > 0 && len(keys) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("key scan failed: %w", err)
	}
	return keys, nil
}

// entryFromFields rebuilds a CacheEntry from stored hash fields. Malformed
// entries are dropped rather than surfaced: a bad record must read as a
// miss, not an error.
func (s *Store) entryFromFields(owner string, fields map[string]string) *domain.CacheEntry {
	query, ok := fields[fieldQuery]
	if !ok {
		return nil
	}
	payload, ok := fields[fieldPayload]
	if !ok {
		return nil
	}

	var embedding domain.Embedding
	switch {
	case fields[fieldEmbedding] != "":
		embedding = domain.NewVectorEmbedding(bytesToFloats([]byte(fields[fieldEmbedding])))
	case fields[fieldFingerprint] != "":
		embedding = domain.NewFingerprintEmbedding(fields[fieldFingerprint])
	default:
		return nil
	}

	var createdAt time.Time
	if ts, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64); err == nil {
		createdAt = time.Unix(ts, 0)
	}

	return &domain.CacheEntry{
		Owner:     owner,
		Query:     query,
		Embedding: embedding,
		Payload:   []byte(payload),
		CreatedAt: createdAt,
	}
}

// entryKey namespaces entries as <prefix>:<owner>:<contentID> where the
// content id is derived from the normalized query text.
func (s *Store) entryKey(owner, query string) string {
	sum := md5.Sum([]byte(domain.NormalizeQuery(query))) //nolint:gosec // content addressing
	return fmt.Sprintf("%s:%s:%s", s.keyPrefix, owner, hex.EncodeToString(sum[:])[:contentIDLen])
}

// createIndex creates the RediSearch index if it doesn't exist.
func (s *Store) createIndex() error {
	ctx := context.Background()
	logger := observability.FromContext(ctx)

	// Check if index already exists
	if _, err := s.client.FTInfo(ctx, s.indexName).Result(); err == nil {
		logger.Info("redis search index already exists, skipping creation",
			observability.String("index_name", s.indexName))
		return nil
	}

	logger.Info("creating redis search index",
		observability.String("index_name", s.indexName),
		observability.Int("embedding_dimension", s.embeddingDimension))

	_, err := s.client.FTCreate(ctx, s.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{s.keyPrefix + ":"},
		},
		&redis.FieldSchema{
			FieldName: fieldOwner,
			FieldType: redis.SearchFieldTypeTag,
		},
		&redis.FieldSchema{
			FieldName: fieldEmbedding,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            s.embeddingDimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{
			FieldName: fieldQuery,
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: fieldCreatedAt,
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	logger.Info("successfully created redis search index",
		observability.String("index_name", s.indexName))
	return nil
}

// escapeTag escapes characters special to the RediSearch tag query syntax
// so owner identifiers (UUIDs, emails) survive inside a filter expression.
func escapeTag(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if !isTagSafe(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isTagSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_'
}

// escapeGlob escapes SCAN MATCH metacharacters in the owner segment.
func escapeGlob(value string) string {
	replacer := strings.NewReplacer(
		"*", "\\*",
		"?", "\\?",
		"[", "\\[",
		"]", "\\]",
	)
	return replacer.Replace(value)
}

// floatsToBytes converts float64 slice to binary byte representation.
func floatsToBytes(fs []float64) []byte {
	const bytesPerFloat32 = 4
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		// Convert float64 to float32 for Redis compatibility
		f32 := float32(f)
		u := math.Float32bits(f32)
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

// bytesToFloats is the inverse of floatsToBytes.
func bytesToFloats(buf []byte) []float64 {
	const bytesPerFloat32 = 4
	fs := make([]float64, len(buf)/bytesPerFloat32)

	for i := range fs {
		u := binary.LittleEndian.Uint32(buf[i*bytesPerFloat32:])
		fs[i] = float64(math.Float32frombits(u))
	}

	return fs
}
