// Package search provides the similarity-index contracts shared by the
// ingestion, deletion, and retrieval coordinators.
package search

import "context"

// Embedder converts text into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
