// Package vecstore provides a persistent, exact vector-similarity store
// backed by SQLite.
//
// Callers compute embeddings with an external provider (see Embedder), add
// them together with opaque metadata, and retrieve the K most similar
// entries to a query vector. Every stored vector must match the dimension
// fixed when the store was opened.
package vecstore

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/liliang-cn/vecstore/pkg/core"
)

// Store is the public facade over the storage engine. A single *Store may
// be shared by any number of goroutines.
type Store struct {
	store    *core.SQLiteStore
	embedder Embedder // Optional embedder for text operations
}

// Config configures a store.
type Config struct {
	Path         string  // Directory holding the database files
	Dimensions   int     // Fixed embedding dimensionality (required, > 0)
	DefaultLimit int     // Default search result count (0 selects 10)
	Threshold    float64 // Similarity threshold in [0, 1] (<0 selects 0.7)
}

// DefaultConfig returns the default configuration for a path and dimension:
// DefaultLimit 10 and Threshold 0.7.
func DefaultConfig(path string, dimensions int) Config {
	return Config{
		Path:         path,
		Dimensions:   dimensions,
		DefaultLimit: core.DefaultLimit,
		Threshold:    core.DefaultSimilarityThreshold,
	}
}

// Option is a functional option for configuring the Store.
type Option func(*options)

type options struct {
	embedder Embedder
	logger   core.Logger
}

// WithEmbedder configures the store with an embedder for text operations.
// When set, AddText and SearchText become available.
func WithEmbedder(e Embedder) Option {
	return func(o *options) {
		o.embedder = e
	}
}

// WithLogger routes engine diagnostics to the given logger.
func WithLogger(l core.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Open opens or creates a vector store at cfg.Path.
func Open(cfg Config, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	coreCfg := core.DefaultConfig(cfg.Path, cfg.Dimensions)
	if cfg.DefaultLimit > 0 {
		coreCfg.DefaultLimit = cfg.DefaultLimit
	}
	if cfg.Threshold >= 0 {
		coreCfg.SimilarityThreshold = cfg.Threshold
	}
	coreCfg.Logger = o.logger

	store, err := core.NewWithConfig(coreCfg)
	if err != nil {
		return nil, err
	}

	if err := store.Init(context.Background()); err != nil {
		return nil, err
	}

	return &Store{store: store, embedder: o.embedder}, nil
}

// Close closes the store. Further operations return core.ErrStoreClosed.
func (s *Store) Close() error {
	return s.store.Close()
}

// Dimensions returns the fixed embedding dimensionality.
func (s *Store) Dimensions() int {
	return s.store.Dimensions()
}

// Add persists a new entry under a freshly generated UUID and returns the
// id. Fails with a dimension error if the vector does not match the store.
func (s *Store) Add(ctx context.Context, vector core.Embedding, metadata core.Metadata) (string, error) {
	id := uuid.New().String()
	if err := s.AddWithID(ctx, id, vector, metadata); err != nil {
		return "", err
	}
	return id, nil
}

// AddWithID persists an entry at a caller-supplied id, silently overwriting
// any existing entry at that id.
func (s *Store) AddWithID(ctx context.Context, id string, vector core.Embedding, metadata core.Metadata) error {
	entry := core.VectorEntry{
		ID:       id,
		Vector:   vector.Clone(),
		Metadata: metadata.Clone(),
	}
	return s.store.Put(ctx, &entry)
}

// Get returns the entry stored at id.
func (s *Store) Get(ctx context.Context, id string) (*core.VectorEntry, error) {
	return s.store.Get(ctx, id)
}

// UpdateMetadata replaces an entry's metadata wholesale; the embedding is
// never mutated in place. Changing a vector requires delete and re-add.
func (s *Store) UpdateMetadata(ctx context.Context, id string, metadata core.Metadata) error {
	return s.store.UpdateMetadata(ctx, id, metadata.Clone())
}

// Delete removes the entry at id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// GetAll returns every entry in unspecified order.
func (s *Store) GetAll(ctx context.Context) ([]core.VectorEntry, error) {
	return s.store.GetAll(ctx)
}

// Count returns the number of persisted entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Search returns up to DefaultLimit entries most similar to query, in
// descending similarity order, excluding scores below the threshold.
func (s *Store) Search(ctx context.Context, query core.Embedding) ([]core.SearchResult, error) {
	return s.store.Search(ctx, query, -1)
}

// SearchN is Search with an explicit result limit. A limit of zero returns
// an empty result; a negative limit falls back to the default limit.
func (s *Store) SearchN(ctx context.Context, query core.Embedding, limit int) ([]core.SearchResult, error) {
	return s.store.Search(ctx, query, limit)
}

// SetDefaultLimit overwrites the default search limit for this store
// instance.
func (s *Store) SetDefaultLimit(n int) error {
	return s.store.SetDefaultLimit(n)
}

// DefaultLimit returns the current default search limit.
func (s *Store) DefaultLimit() int {
	return s.store.DefaultLimit()
}

// SetSimilarityThreshold overwrites the similarity threshold for this store
// instance. Values outside [0, 1] are rejected and leave it unchanged.
func (s *Store) SetSimilarityThreshold(t float64) error {
	return s.store.SetSimilarityThreshold(t)
}

// SimilarityThreshold returns the current similarity threshold.
func (s *Store) SimilarityThreshold() float64 {
	return s.store.SimilarityThreshold()
}

// Stats returns entry count, dimensionality, and on-disk size.
func (s *Store) Stats(ctx context.Context) (core.StoreStats, error) {
	return s.store.Stats(ctx)
}

// Dump writes a gzip-compressed snapshot of all entries to w.
func (s *Store) Dump(ctx context.Context, w io.Writer) (*core.DumpStats, error) {
	return s.store.Dump(ctx, w)
}

// Restore replays a dump stream into the store.
func (s *Store) Restore(ctx context.Context, r io.Reader) (*core.RestoreStats, error) {
	return s.store.Restore(ctx, r)
}

// AddText embeds text through the configured embedder and persists the
// resulting vector with the given metadata. Requires WithEmbedder.
func (s *Store) AddText(ctx context.Context, text string, metadata core.Metadata) (string, error) {
	if s.embedder == nil {
		return "", ErrEmbedderNotConfigured
	}
	if text == "" {
		return "", ErrEmptyText
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", embeddingFailed(err)
	}

	return s.Add(ctx, vec, metadata)
}

// SearchText embeds a text query through the configured embedder and
// performs a similarity search. Requires WithEmbedder.
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if s.embedder == nil {
		return nil, ErrEmbedderNotConfigured
	}
	if query == "" {
		return nil, ErrEmptyText
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, embeddingFailed(err)
	}

	return s.SearchN(ctx, vec, limit)
}
