// Package badger provides a Badger-backed implementation of driven.VectorIndex.
//
// Records are stored through badgerhold with the metadata fields indexed.
// Every write runs inside one Badger transaction, so Replace is atomic.
// Queries load the records matching the filter and rank them in Go.
//
// By default the database lives in ~/.ragindex/data/badger.
package badger
