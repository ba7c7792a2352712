// Package core provides the persistent storage and similarity search engine
// for vecstore.
//
// Entries are kept in a single SQLite table (vector_entries) opened in WAL
// journal mode, which gives concurrent readers snapshot-isolated views while
// writes serialize on a single writer. Search is an exact brute-force scan:
// every stored entry is scored against the query and the best K are retained
// with a bounded min-heap, so a query costs O(N log K) and never returns an
// approximate neighbor.
//
// # Key Components
//
//   - SQLiteStore: the durable entry store plus the search engine.
//   - configRegistry: per-store tunables (default limit, similarity
//     threshold) behind a reader-writer lock.
//   - Embedding / VectorEntry / SearchResult: the value types carried
//     through the system.
//
// # Observability
//
// The engine logs through the pluggable Logger interface; pass one via
// Config.Logger, or leave it nil for silence.
package core
