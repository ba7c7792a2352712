package core

// Embedding is an ordered, fixed-length vector of float32 components.
// Embeddings are treated as immutable once stored; the store only ever
// hands out copies.
type Embedding []float32

// Dimension returns the number of components.
func (e Embedding) Dimension() int {
	return len(e)
}

// Clone returns an independent copy of the embedding.
func (e Embedding) Clone() Embedding {
	if e == nil {
		return nil
	}
	out := make(Embedding, len(e))
	copy(out, e)
	return out
}

// Similarity computes the cosine similarity between two embeddings.
// Embeddings of differing dimensions cannot be compared and produce a
// DimensionError.
func (e Embedding) Similarity(other Embedding) (float64, error) {
	if len(e) != len(other) {
		return 0, &DimensionError{Expected: len(e), Got: len(other)}
	}
	return CosineSimilarity(e, other), nil
}

// Metadata is an arbitrary JSON-compatible mapping attached to an entry.
// The store never interprets it; it is stored and returned verbatim.
type Metadata map[string]any

// Clone returns a shallow copy of the metadata map. Values are shared, but
// callers mutating the top-level map cannot disturb stored state.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// VectorEntry is one persisted record: a unique id, its embedding, and the
// caller-supplied metadata.
type VectorEntry struct {
	ID       string    `json:"id"`
	Vector   Embedding `json:"vector"`
	Metadata Metadata  `json:"metadata,omitempty"`
}

// Clone returns a copy whose vector and metadata are independent of the
// receiver.
func (v VectorEntry) Clone() VectorEntry {
	return VectorEntry{
		ID:       v.ID,
		Vector:   v.Vector.Clone(),
		Metadata: v.Metadata.Clone(),
	}
}

// SearchResult pairs an entry with its similarity score against one query.
// Results are computed per query and never persisted.
type SearchResult struct {
	VectorEntry
	Score float64 `json:"score"`
}

// StoreStats describes the current state of a store.
type StoreStats struct {
	Count      int64 `json:"count"`
	Dimensions int   `json:"dimensions"`
	SizeBytes  int64 `json:"sizeBytes"`
}

// Config configures a store at open time.
type Config struct {
	// Path is the directory holding the database file. It is created if
	// absent.
	Path string `json:"path"`

	// Dimensions fixes the embedding dimensionality for the lifetime of
	// the store. Every stored and queried vector must match it exactly.
	Dimensions int `json:"dimensions"`

	// DefaultLimit is the result count used by searches that do not name
	// an explicit limit.
	DefaultLimit int `json:"defaultLimit"`

	// SimilarityThreshold is the minimum score a candidate must reach to
	// be returned. Must lie in [0, 1].
	SimilarityThreshold float64 `json:"similarityThreshold"`

	// MaxSizeBytes caps the database file size, mirroring a memory-mapped
	// engine's fixed map size. Zero selects DefaultMaxSizeBytes.
	MaxSizeBytes int64 `json:"maxSizeBytes,omitempty"`

	// Logger receives engine diagnostics. Nil selects NopLogger.
	Logger Logger `json:"-"`
}

const (
	// DefaultLimit is the default result count for searches without an
	// explicit limit.
	DefaultLimit = 10

	// DefaultSimilarityThreshold is the default minimum similarity score.
	DefaultSimilarityThreshold = 0.7

	// DefaultMaxSizeBytes is the default database size ceiling (8 GiB).
	DefaultMaxSizeBytes = int64(8) << 30
)

// DefaultConfig returns the store defaults for the given path and
// dimensionality: DefaultLimit 10, SimilarityThreshold 0.7.
func DefaultConfig(path string, dimensions int) Config {
	return Config{
		Path:                path,
		Dimensions:          dimensions,
		DefaultLimit:        DefaultLimit,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxSizeBytes:        DefaultMaxSizeBytes,
	}
}
