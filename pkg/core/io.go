package core

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
)

// dumpVersion identifies the dump stream layout.
const dumpVersion = "1"

// DumpHeader is the first line of a dump stream.
type DumpHeader struct {
	Version    string `json:"version"`
	Dimensions int    `json:"dimensions"`
	Count      int64  `json:"count"`
	ExportedAt string `json:"exportedAt"`
}

// DumpStats summarizes a completed Dump.
type DumpStats struct {
	Entries      int   `json:"entries"`
	BytesWritten int64 `json:"bytesWritten"`
}

// RestoreStats summarizes a completed Restore.
type RestoreStats struct {
	Entries int `json:"entries"`
	Failed  int `json:"failed"`
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Dump writes every entry to w as a gzip-compressed JSON Lines stream: one
// header line, then one VectorEntry per line. The snapshot is taken in a
// single read transaction via GetAll, so concurrent writes do not tear it.
func (s *SQLiteStore) Dump(ctx context.Context, w io.Writer) (*DumpStats, error) {
	entries, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	cw := &countingWriter{w: w}
	zw := gzip.NewWriter(cw)
	enc := json.NewEncoder(zw)

	header := DumpHeader{
		Version:    dumpVersion,
		Dimensions: s.config.Dimensions,
		Count:      int64(len(entries)),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := enc.Encode(header); err != nil {
		return nil, wrapError("dump", fmt.Errorf("failed to encode header: %w", err))
	}

	stats := &DumpStats{}
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return nil, wrapError("dump", fmt.Errorf("failed to encode entry: %w", err))
		}
		stats.Entries++
	}

	if err := zw.Close(); err != nil {
		return nil, wrapError("dump", fmt.Errorf("failed to flush stream: %w", err))
	}
	stats.BytesWritten = cw.n

	s.logger.Info("dump completed", "entries", stats.Entries, "bytes", stats.BytesWritten)

	return stats, nil
}

// Restore replays a dump stream through Put. Entries whose dimensionality
// does not match the store fail individually and are counted in
// RestoreStats.Failed; Restore is not a migration mechanism between
// differing dimensionalities.
func (s *SQLiteStore) Restore(ctx context.Context, r io.Reader) (*RestoreStats, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, wrapError("restore", fmt.Errorf("%w: not a dump stream: %v", ErrInvalidInput, err))
	}
	defer func() {
		_ = zr.Close()
	}()

	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, wrapError("restore", fmt.Errorf("%w: %v", ErrInvalidInput, err))
		}
		return nil, wrapError("restore", fmt.Errorf("%w: empty dump stream", ErrInvalidInput))
	}

	var header DumpHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, wrapError("restore", fmt.Errorf("%w: malformed header: %v", ErrInvalidInput, err))
	}
	if header.Version != dumpVersion {
		return nil, wrapError("restore", fmt.Errorf("%w: unsupported dump version %q", ErrInvalidInput, header.Version))
	}

	stats := &RestoreStats{}
	for scanner.Scan() {
		var entry VectorEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			stats.Failed++
			s.logger.Warn("skipping malformed dump line", "error", err)
			continue
		}

		if err := s.Put(ctx, &entry); err != nil {
			if errors.Is(err, ErrDimensionMismatch) || errors.Is(err, ErrInvalidInput) {
				stats.Failed++
				s.logger.Warn("skipping entry during restore", "id", entry.ID, "error", err)
				continue
			}
			return stats, err
		}
		stats.Entries++
	}
	if err := scanner.Err(); err != nil {
		return stats, wrapError("restore", fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	s.logger.Info("restore completed", "entries", stats.Entries, "failed", stats.Failed)

	return stats, nil
}
