package core

import (
	"container/heap"
	"context"
	"database/sql"

	"github.com/liliang-cn/vecstore/internal/encoding"
)

// Search scans every persisted entry, scores it against query with cosine
// similarity, drops candidates below the similarity threshold, and returns
// the best limit results in descending score order. Ties are broken by id
// ascending so repeated searches are deterministic.
//
// A negative limit selects the store's default limit; a limit of zero
// returns an empty result without scanning. The scan runs in one read
// transaction: a search that begins before a concurrent write commits will
// not observe it.
func (s *SQLiteStore) Search(ctx context.Context, query Embedding, limit int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("search", ErrStoreClosed)
	}

	if err := s.checkDimension(query); err != nil {
		return nil, wrapError("search", err)
	}

	k := limit
	if k < 0 {
		k = s.DefaultLimit()
	}
	if k == 0 {
		return []SearchResult{}, nil
	}
	threshold := s.SimilarityThreshold()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, dbError("search", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, "SELECT id, vector, metadata FROM vector_entries")
	if err != nil {
		return nil, dbError("search", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows during search scan", "error", closeErr)
		}
	}()

	// Bounded min-heap over the retained set: the root is always the worst
	// candidate kept so far, so a full heap admits a newcomer only by
	// evicting its own minimum.
	h := &resultMinHeap{}
	heap.Init(h)

	scanned := 0
	for rows.Next() {
		var id string
		var vectorBytes []byte
		var metadataJSON sql.NullString

		if err := rows.Scan(&id, &vectorBytes, &metadataJSON); err != nil {
			return nil, dbError("search", err)
		}
		scanned++

		vector, err := encoding.DecodeVector(vectorBytes)
		if err != nil {
			s.logger.Warn("skipping undecodable vector during search", "id", id, "error", err)
			continue
		}

		score := CosineSimilarity(query, vector)
		if score < threshold {
			continue
		}

		candidate := searchCandidate{id: id, score: score, vectorBytes: vectorBytes, metadataJSON: metadataJSON.String}
		if h.Len() < k {
			heap.Push(h, candidate)
		} else if candidate.better((*h)[0]) {
			heap.Pop(h)
			heap.Push(h, candidate)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("search", err)
	}

	// Drain ascending, fill back-to-front for descending order.
	results := make([]SearchResult, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		c := heap.Pop(h).(searchCandidate)
		entry, err := decodeEntry(c.id, c.vectorBytes, c.metadataJSON)
		if err != nil {
			return nil, dbError("search", err)
		}
		results[i] = SearchResult{VectorEntry: *entry, Score: c.score}
	}

	s.logger.Debug("search completed", "scanned", scanned, "returned", len(results), "k", k, "threshold", threshold)

	return results, nil
}

// searchCandidate defers entry decoding until a candidate survives the
// whole scan; only the raw columns ride in the heap.
type searchCandidate struct {
	id           string
	score        float64
	vectorBytes  []byte
	metadataJSON string
}

// better reports whether c outranks other: higher score wins, equal scores
// fall back to id ascending.
func (c searchCandidate) better(other searchCandidate) bool {
	if c.score != other.score {
		return c.score > other.score
	}
	return c.id < other.id
}

// resultMinHeap keeps the worst retained candidate at the root.
type resultMinHeap []searchCandidate

func (h resultMinHeap) Len() int           { return len(h) }
func (h resultMinHeap) Less(i, j int) bool { return h[j].better(h[i]) }
func (h resultMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultMinHeap) Push(x any) {
	*h = append(*h, x.(searchCandidate))
}

func (h *resultMinHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
