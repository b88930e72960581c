// Package domain defines the core business entities for ragindex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Document: An ingested file identified by filename and content hash
//   - Chunk: A bounded slice of a document's normalised text
//   - Entry: The persisted (id, text, vector, metadata) record
//   - Filter: Exact-match selection over entry metadata
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, go-playground/validator
//   - Cannot Import: Any internal/ package
package domain
