// Package search provides vector similarity index implementations.
package search

import (
	"math"
	"sort"

	"github.com/curatehq/curate/domain/search"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical), or 0 if the
// vectors differ in length or either has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// StoredVector holds an embedding vector with its entry identifier.
type StoredVector struct {
	id     string
	vector []float64
}

// NewStoredVector creates a StoredVector. The vector is defensively copied.
func NewStoredVector(id string, vector []float64) StoredVector {
	cp := make([]float64, len(vector))
	copy(cp, vector)
	return StoredVector{id: id, vector: cp}
}

// ID returns the entry identifier.
func (v StoredVector) ID() string { return v.id }

// Vector returns a copy of the embedding vector.
func (v StoredVector) Vector() []float64 {
	cp := make([]float64, len(v.vector))
	copy(cp, v.vector)
	return cp
}

// TopKSimilar finds the top-k vectors most similar to the query, ordered by
// similarity descending.
func TopKSimilar(query []float64, vectors []StoredVector, k int) []search.Match {
	if len(vectors) == 0 || k <= 0 {
		return []search.Match{}
	}

	matches := make([]search.Match, 0, len(vectors))
	for _, v := range vectors {
		matches = append(matches, search.NewMatch(v.id, CosineSimilarity(query, v.vector)))
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score() > matches[j].Score()
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
