package service

import "errors"

// Coordinator error taxonomy. The API and MCP surfaces map these to their
// protocol-level equivalents; internal store errors are never exposed
// verbatim to a boundary.
var (
	// ErrNotFound indicates the item, tag, or owner does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the caller does not own the resource.
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidInput indicates a malformed link, empty query, or otherwise
	// unusable request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceNotFound indicates the external metadata lookup found no match
	// for a well-formed source identifier.
	ErrSourceNotFound = errors.New("source video not found")

	// ErrEmbeddingUnavailable indicates the embedding backend could not be
	// loaded or inference failed.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

	// ErrStoreUnavailable indicates the document store or vector index is
	// unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("curate: client is closed")
)
