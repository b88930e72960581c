// Package sqlite provides a SQLite-backed implementation of driven.VectorIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The schema comes from the versioned scripts in migrations/, embedded in the
// binary. Opening a store applies every .up.sql newer than the version
// recorded in schema_migrations.
//
// Embeddings are stored as little-endian float32 BLOBs. Queries load the rows
// matching the metadata filter and rank them by cosine distance in Go.
//
// # Data Location
//
// By default, the database is stored at ~/.ragindex/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. Writes run in transactions over a single
// connection, so Replace is atomic.
package sqlite
