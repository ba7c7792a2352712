package core

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the backing file inside the store directory.
const dbFileName = "vectors.db"

// sqlitePageSize is the page size assumed when translating MaxSizeBytes
// into a max_page_count ceiling.
const sqlitePageSize = 4096

// SQLiteStore is the persistent entry store and similarity search engine.
// It is safe for concurrent use: reads run against WAL snapshots and never
// block the single writer.
type SQLiteStore struct {
	db       *sql.DB
	config   Config
	registry *configRegistry
	logger   Logger

	mu     sync.RWMutex
	closed bool
}

// New creates a store for the given directory and embedding dimensionality
// using the defaults from DefaultConfig. Call Init before use.
func New(path string, dimensions int) (*SQLiteStore, error) {
	return NewWithConfig(DefaultConfig(path, dimensions))
}

// NewWithConfig creates a store with custom configuration. Call Init before
// use.
func NewWithConfig(config Config) (*SQLiteStore, error) {
	if config.Path == "" {
		return nil, wrapError("init", fmt.Errorf("%w: store path cannot be empty", ErrInvalidInput))
	}
	if config.Dimensions <= 0 {
		return nil, wrapError("init", fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidInput, config.Dimensions))
	}
	if config.SimilarityThreshold < 0.0 || config.SimilarityThreshold > 1.0 {
		return nil, wrapError("init", fmt.Errorf("%w: similarity threshold must be in [0, 1], got %g", ErrInvalidInput, config.SimilarityThreshold))
	}
	if config.DefaultLimit < 0 {
		return nil, wrapError("init", fmt.Errorf("%w: default limit must be non-negative, got %d", ErrInvalidInput, config.DefaultLimit))
	}
	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = DefaultMaxSizeBytes
	}
	if config.Logger == nil {
		config.Logger = NopLogger()
	}

	return &SQLiteStore{
		config:   config,
		registry: newConfigRegistry(config.DefaultLimit, config.SimilarityThreshold),
		logger:   config.Logger.With("component", "core"),
	}, nil
}

// Init creates the store directory if absent, opens the database, and
// creates the vector_entries table.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("init", ErrStoreClosed)
	}

	if err := os.MkdirAll(s.config.Path, 0o755); err != nil {
		return dbError("init", fmt.Errorf("failed to create store directory: %v", err))
	}

	// Pragmas ride on the DSN so every pooled connection applies them.
	// journal_mode=WAL: snapshot-isolated readers, single serialized writer
	// synchronous=NORMAL: good balance of safety and speed
	// busy_timeout=5000: wait up to 5s for the write lock instead of failing
	// max_page_count: fixed size ceiling; exceeding it surfaces as a
	// database error on write, like filling a memory-mapped engine's map
	maxPages := s.config.MaxSizeBytes / sqlitePageSize
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)&_pragma=max_page_count(%d)",
		filepath.Join(s.config.Path, dbFileName), maxPages)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return dbError("init", fmt.Errorf("failed to open database: %v", err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(2 * time.Hour)

	s.db = db

	if err := s.createTables(ctx); err != nil {
		return err
	}

	s.logger.Info("store initialized",
		"path", s.config.Path,
		"dimensions", s.config.Dimensions,
		"max_size_bytes", s.config.MaxSizeBytes)

	return nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS vector_entries (
		id TEXT PRIMARY KEY,
		vector BLOB NOT NULL,
		metadata TEXT
	);
	`

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return dbError("init", fmt.Errorf("failed to create tables: %v", err))
	}

	return nil
}

// Dimensions returns the fixed embedding dimensionality of the store.
func (s *SQLiteStore) Dimensions() int {
	return s.config.Dimensions
}

// Count returns the number of persisted entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, wrapError("count", ErrStoreClosed)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vector_entries").Scan(&count); err != nil {
		return 0, dbError("count", err)
	}

	return count, nil
}

// Stats returns the entry count, dimensionality, and on-disk size.
func (s *SQLiteStore) Stats(ctx context.Context) (StoreStats, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return StoreStats{}, err
	}

	stats := StoreStats{
		Count:      count,
		Dimensions: s.config.Dimensions,
	}

	if info, err := os.Stat(filepath.Join(s.config.Path, dbFileName)); err == nil {
		stats.SizeBytes = info.Size()
	}

	return stats, nil
}

// Close closes the database connection and releases resources. It is
// idempotent; operations after Close return ErrStoreClosed.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return dbError("close", err)
		}
	}

	s.logger.Info("store closed", "path", s.config.Path)

	return nil
}

// checkDimension validates a vector against the store's fixed dimension.
func (s *SQLiteStore) checkDimension(vector Embedding) error {
	if vector.Dimension() != s.config.Dimensions {
		return &DimensionError{Expected: s.config.Dimensions, Got: vector.Dimension()}
	}
	return nil
}
