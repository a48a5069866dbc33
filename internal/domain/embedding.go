package domain

import (
	"math"
	"strings"
)

// EmbeddingKind discriminates the embedding union.
type EmbeddingKind string

const (
	// EmbeddingVector is a true semantic embedding from a model.
	EmbeddingVector EmbeddingKind = "vector"

	// EmbeddingFingerprint is the degraded fallback: a content-hash
	// fingerprint used when no embedding model is available.
	EmbeddingFingerprint EmbeddingKind = "fingerprint"
)

const fingerprintPrefixLen = 8

// Embedding is a tagged union: either a fixed-length vector or a hash
// fingerprint. The variant is chosen once at startup by the configured
// EmbeddingGenerator and never mixed within one deployment.
type Embedding struct {
	Kind        EmbeddingKind
	Vector      []float64
	Fingerprint string
}

// NewVectorEmbedding wraps a model vector.
func NewVectorEmbedding(vector []float64) Embedding {
	return Embedding{Kind: EmbeddingVector, Vector: vector, Fingerprint: ""}
}

// NewFingerprintEmbedding wraps a content-hash fingerprint.
func NewFingerprintEmbedding(fingerprint string) Embedding {
	return Embedding{Kind: EmbeddingFingerprint, Vector: nil, Fingerprint: fingerprint}
}

// NormalizeQuery canonicalizes query text before embedding so repeated
// identical questions land on the same cache key family.
func NormalizeQuery(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Similarity scores two embeddings in [0,1], 1 meaning identical.
//
// Two vectors score by cosine similarity. Two fingerprints use a coarse
// substitute, not a numeric approximation: 1.0 on equality, 0.7 on a
// matching 8-character prefix, 0.0 otherwise. Mismatched kinds score 0.
func Similarity(a, b Embedding) float64 {
	if a.Kind != b.Kind {
		return 0
	}

	if a.Kind == EmbeddingFingerprint {
		return fingerprintSimilarity(a.Fingerprint, b.Fingerprint)
	}

	return cosineSimilarity(a.Vector, b.Vector)
}

func fingerprintSimilarity(a, b string) float64 {
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return 1.0
	case len(a) >= fingerprintPrefixLen && len(b) >= fingerprintPrefixLen &&
		a[:fingerprintPrefixLen] == b[:fingerprintPrefixLen]:
		return 0.7
	default:
		return 0
	}
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp float drift so scores stay comparable against the threshold.
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}
