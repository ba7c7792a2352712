package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/liliang-cn/vecstore/internal/encoding"
)

// Put inserts or overwrites the entry at entry.ID in one write transaction.
// Re-inserting an existing id replaces the prior entry (upsert semantics).
func (s *SQLiteStore) Put(ctx context.Context, entry *VectorEntry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return wrapError("put", ErrStoreClosed)
	}

	if entry.ID == "" {
		return wrapError("put", fmt.Errorf("%w: id cannot be empty", ErrInvalidInput))
	}
	if err := s.checkDimension(entry.Vector); err != nil {
		return wrapError("put", err)
	}
	if err := encoding.ValidateVector(entry.Vector); err != nil {
		return wrapError("put", fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	vectorBytes, err := encoding.EncodeVector(entry.Vector)
	if err != nil {
		return wrapError("put", fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	metadataJSON, err := encoding.EncodeMetadata(entry.Metadata)
	if err != nil {
		return wrapError("put", fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vector_entries (id, vector, metadata) VALUES (?, ?, ?)",
		entry.ID, vectorBytes, metadataJSON)
	if err != nil {
		return dbError("put", err)
	}

	return nil
}

// Get returns a copy of the entry stored at id, or a NotFoundError.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("get", ErrStoreClosed)
	}

	var vectorBytes []byte
	var metadataJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT vector, metadata FROM vector_entries WHERE id = ?", id).
		Scan(&vectorBytes, &metadataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrapError("get", &NotFoundError{ID: id})
	}
	if err != nil {
		return nil, dbError("get", err)
	}

	entry, err := decodeEntry(id, vectorBytes, metadataJSON.String)
	if err != nil {
		return nil, dbError("get", err)
	}

	return entry, nil
}

// UpdateMetadata replaces the metadata of an existing entry wholesale. The
// embedding is preserved unchanged; a missing id is a NotFoundError. The
// read-modify-write runs inside one write transaction.
func (s *SQLiteStore) UpdateMetadata(ctx context.Context, id string, metadata Metadata) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return wrapError("update_metadata", ErrStoreClosed)
	}

	metadataJSON, err := encoding.EncodeMetadata(metadata)
	if err != nil {
		return wrapError("update_metadata", fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("update_metadata", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM vector_entries WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return wrapError("update_metadata", &NotFoundError{ID: id})
	}
	if err != nil {
		return dbError("update_metadata", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE vector_entries SET metadata = ? WHERE id = ?", metadataJSON, id); err != nil {
		return dbError("update_metadata", err)
	}

	if err := tx.Commit(); err != nil {
		return dbError("update_metadata", err)
	}

	return nil
}

// Delete removes the entry at id immediately and irreversibly. A missing id
// is a NotFoundError and commits nothing.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return wrapError("delete", ErrStoreClosed)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM vector_entries WHERE id = ?", id)
	if err != nil {
		return dbError("delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dbError("delete", err)
	}

	if rowsAffected == 0 {
		return wrapError("delete", &NotFoundError{ID: id})
	}

	return nil
}

// GetAll returns every persisted entry in engine key order. The order
// carries no semantic meaning and must not be relied upon.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("get_all", ErrStoreClosed)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, vector, metadata FROM vector_entries")
	if err != nil {
		return nil, dbError("get_all", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows during full scan", "error", closeErr)
		}
	}()

	var entries []VectorEntry
	for rows.Next() {
		var id string
		var vectorBytes []byte
		var metadataJSON sql.NullString

		if err := rows.Scan(&id, &vectorBytes, &metadataJSON); err != nil {
			return nil, dbError("get_all", err)
		}

		entry, err := decodeEntry(id, vectorBytes, metadataJSON.String)
		if err != nil {
			s.logger.Warn("skipping undecodable entry", "id", id, "error", err)
			continue
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("get_all", err)
	}

	return entries, nil
}

// decodeEntry reassembles a VectorEntry from its stored columns.
func decodeEntry(id string, vectorBytes []byte, metadataJSON string) (*VectorEntry, error) {
	vector, err := encoding.DecodeVector(vectorBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vector for %s: %w", id, err)
	}

	metadata, err := encoding.DecodeMetadata(metadataJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", id, err)
	}

	return &VectorEntry{ID: id, Vector: vector, Metadata: metadata}, nil
}
