// Package hash provides the degraded-mode embedding generator used when no
// embedding model is configured. It derives a content-hash fingerprint from
// the normalized query text. Fingerprint similarity is deliberately coarse
// (exact or prefix equality) and makes no claim of semantic closeness.
package hash

import (
	"context"
	"crypto/md5" //nolint:gosec // fingerprinting, not cryptography
	"encoding/hex"
	"errors"

	"github.com/davidbz/datachat/internal/domain"
)

// Generator implements domain.EmbeddingGenerator with content-hash
// fingerprints.
type Generator struct{}

// NewGenerator creates a new fingerprint generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate derives a fingerprint from the normalized text. Deterministic:
// identical normalized input yields the identical fingerprint.
func (g *Generator) Generate(_ context.Context, text string) (domain.Embedding, error) {
	normalized := domain.NormalizeQuery(text)
	if normalized == "" {
		return domain.Embedding{}, errors.New("text cannot be empty")
	}

	sum := md5.Sum([]byte(normalized)) //nolint:gosec // fingerprinting, not cryptography
	return domain.NewFingerprintEmbedding(hex.EncodeToString(sum[:])), nil
}

// Name returns the generator identifier.
func (g *Generator) Name() string {
	return "hash-fingerprint"
}

// Dimension returns 0: fingerprints have no vector dimension.
func (g *Generator) Dimension() int {
	return 0
}
