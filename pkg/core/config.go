package core

import (
	"fmt"
	"sync"
)

// configRegistry holds the per-store tunables read by every search and
// written only by explicit setters. It is scoped to one store instance;
// two stores never share a registry.
type configRegistry struct {
	mu                  sync.RWMutex
	defaultLimit        int
	similarityThreshold float64
}

func newConfigRegistry(defaultLimit int, threshold float64) *configRegistry {
	return &configRegistry{
		defaultLimit:        defaultLimit,
		similarityThreshold: threshold,
	}
}

// DefaultLimit returns the result count used when a search names no limit.
func (s *SQLiteStore) DefaultLimit() int {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()
	return s.registry.defaultLimit
}

// SimilarityThreshold returns the minimum score a search result must reach.
func (s *SQLiteStore) SimilarityThreshold() float64 {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()
	return s.registry.similarityThreshold
}

// SetDefaultLimit overwrites the default search limit. Negative limits are
// rejected with ErrInvalidInput.
func (s *SQLiteStore) SetDefaultLimit(n int) error {
	if n < 0 {
		return wrapError("set_default_limit", fmt.Errorf("%w: limit must be non-negative, got %d", ErrInvalidInput, n))
	}

	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	s.registry.defaultLimit = n
	return nil
}

// SetSimilarityThreshold overwrites the similarity threshold. Values outside
// [0, 1] are rejected with ErrInvalidInput and leave the config unchanged.
func (s *SQLiteStore) SetSimilarityThreshold(t float64) error {
	if t < 0.0 || t > 1.0 {
		return wrapError("set_similarity_threshold", fmt.Errorf("%w: threshold must be in [0, 1], got %g", ErrInvalidInput, t))
	}

	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	s.registry.similarityThreshold = t
	return nil
}
