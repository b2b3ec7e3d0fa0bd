// Package provider implements embedding backends for the similarity index.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/curatehq/curate/domain/search"
)

// ErrUnsupportedOperation indicates the provider does not support the
// requested operation.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// Embedder generates embedding vectors for batches of text.
type Embedder interface {
	Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error)
	Close() error
}

// EmbeddingRequest carries the texts to embed.
type EmbeddingRequest struct {
	texts []string
}

// NewEmbeddingRequest creates an EmbeddingRequest.
func NewEmbeddingRequest(texts []string) EmbeddingRequest {
	cp := make([]string, len(texts))
	copy(cp, texts)
	return EmbeddingRequest{texts: cp}
}

// Texts returns the texts to embed.
func (r EmbeddingRequest) Texts() []string {
	cp := make([]string, len(r.texts))
	copy(cp, r.texts)
	return cp
}

// EmbeddingResponse carries the generated vectors, one per input text in
// input order.
type EmbeddingResponse struct {
	embeddings [][]float64
	usage      Usage
}

// NewEmbeddingResponse creates an EmbeddingResponse.
func NewEmbeddingResponse(embeddings [][]float64, usage Usage) EmbeddingResponse {
	return EmbeddingResponse{embeddings: embeddings, usage: usage}
}

// Embeddings returns the generated vectors.
func (r EmbeddingResponse) Embeddings() [][]float64 {
	return r.embeddings
}

// Usage returns token accounting for the call. Local backends report zeros.
func (r EmbeddingResponse) Usage() Usage {
	return r.usage
}

// Usage holds token accounting reported by an API backend.
type Usage struct {
	promptTokens int
	totalTokens  int
}

// NewUsage creates a Usage.
func NewUsage(promptTokens, totalTokens int) Usage {
	return Usage{promptTokens: promptTokens, totalTokens: totalTokens}
}

// PromptTokens returns the prompt token count.
func (u Usage) PromptTokens() int { return u.promptTokens }

// TotalTokens returns the total token count.
func (u Usage) TotalTokens() int { return u.totalTokens }

// ProviderError wraps a backend failure with operation context.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a ProviderError.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.statusCode != 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status of the failure, or 0.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// TextEmbedder adapts a provider Embedder to the domain embedding contract
// used by the coordinators.
type TextEmbedder struct {
	provider Embedder
}

// NewTextEmbedder creates a TextEmbedder.
func NewTextEmbedder(p Embedder) TextEmbedder {
	return TextEmbedder{provider: p}
}

var _ search.Embedder = TextEmbedder{}

// Embed generates one vector per input text.
func (t TextEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := t.provider.Embed(ctx, NewEmbeddingRequest(texts))
	if err != nil {
		return nil, err
	}
	return resp.Embeddings(), nil
}
