package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmptyContent indicates extraction produced no usable text.
	ErrEmptyContent = errors.New("no text content extracted")

	// ErrDimensionMismatch indicates a vector whose size differs from the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Pipeline Errors.

	// ErrProcessing indicates extraction or embedding failed mid-pipeline.
	// Nothing was written; the request is safe to retry.
	ErrProcessing = errors.New("processing failed")

	// ErrPartialReplace indicates a backend applied the delete half of a
	// replace but could not apply the insert half.
	ErrPartialReplace = errors.New("replace applied partially")

	// ErrStorageInconsistency indicates a filename was left unindexed after
	// its previous entries were removed. Re-run ingestion for the filename.
	ErrStorageInconsistency = errors.New("storage inconsistency")
)

// IsClientError reports whether err was caused by the request itself
// rather than by a collaborator or storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrNotFound)
}
