package vecstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/liliang-cn/vecstore/pkg/core"
)

func newTestStore(t *testing.T, dimensions int, opts ...Option) *Store {
	t.Helper()

	store, err := Open(DefaultConfig(t.TempDir(), dimensions), opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	return store
}

func TestOpenDefaults(t *testing.T) {
	store := newTestStore(t, 3)

	if got := store.Dimensions(); got != 3 {
		t.Errorf("Dimensions() = %d, want 3", got)
	}
	if got := store.DefaultLimit(); got != core.DefaultLimit {
		t.Errorf("DefaultLimit() = %d, want %d", got, core.DefaultLimit)
	}
	if got := store.SimilarityThreshold(); got != core.DefaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold() = %v, want %v", got, core.DefaultSimilarityThreshold)
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(Config{Path: t.TempDir(), Dimensions: 0}); err == nil {
		t.Error("Open() with zero dimensions should fail")
	}
	if _, err := Open(Config{Path: "", Dimensions: 3}); err == nil {
		t.Error("Open() with empty path should fail")
	}
}

func TestAddGeneratesUniqueIDs(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id, err := store.Add(ctx, core.Embedding{1, float32(i)}, nil)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if id == "" {
			t.Fatal("Add() returned empty id")
		}
		if seen[id] {
			t.Fatalf("Add() returned duplicate id %q", id)
		}
		seen[id] = true
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 5 {
		t.Errorf("Count() = %d, want 5", count)
	}
}

func TestAddWithIDOverwrites(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	if err := store.AddWithID(ctx, "a", core.Embedding{1, 0}, core.Metadata{"v": "1"}); err != nil {
		t.Fatalf("AddWithID() error = %v", err)
	}
	if err := store.AddWithID(ctx, "a", core.Embedding{0, 1}, core.Metadata{"v": "2"}); err != nil {
		t.Fatalf("AddWithID() overwrite error = %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.Vector, core.Embedding{0, 1}) {
		t.Errorf("Get().Vector = %v, want overwritten value", got.Vector)
	}
	if got.Metadata["v"] != "2" {
		t.Errorf("Get().Metadata = %v, want v=2", got.Metadata)
	}
}

func TestAddClonesInputs(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	vector := core.Embedding{1, 0}
	metadata := core.Metadata{"k": "v"}
	if err := store.AddWithID(ctx, "a", vector, metadata); err != nil {
		t.Fatalf("AddWithID() error = %v", err)
	}

	// Mutating the caller's copies must not affect the stored entry.
	vector[0] = 99
	metadata["k"] = "mutated"

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Vector[0] != 1 {
		t.Errorf("stored vector mutated through caller slice: %v", got.Vector)
	}
	if got.Metadata["k"] != "v" {
		t.Errorf("stored metadata mutated through caller map: %v", got.Metadata)
	}
}

func TestSearchUsesDefaultLimit(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	if err := store.SetSimilarityThreshold(0); err != nil {
		t.Fatalf("SetSimilarityThreshold() error = %v", err)
	}
	if err := store.SetDefaultLimit(4); err != nil {
		t.Fatalf("SetDefaultLimit() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		if err := store.AddWithID(ctx, fmt.Sprintf("e%02d", i), core.Embedding{1, float32(i)}, nil); err != nil {
			t.Fatalf("AddWithID() error = %v", err)
		}
	}

	results, err := store.Search(ctx, core.Embedding{1, 0})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 4 {
		t.Errorf("Search() returned %d results, want default limit 4", len(results))
	}

	explicit, err := store.SearchN(ctx, core.Embedding{1, 0}, 7)
	if err != nil {
		t.Fatalf("SearchN() error = %v", err)
	}
	if len(explicit) != 7 {
		t.Errorf("SearchN(7) returned %d results, want 7", len(explicit))
	}

	empty, err := store.SearchN(ctx, core.Embedding{1, 0}, 0)
	if err != nil {
		t.Fatalf("SearchN(0) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("SearchN(0) returned %d results, want 0", len(empty))
	}
}

func TestDeleteAndUpdateMetadata(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	if err := store.AddWithID(ctx, "a", core.Embedding{1, 0}, core.Metadata{"rev": "1"}); err != nil {
		t.Fatalf("AddWithID() error = %v", err)
	}

	if err := store.UpdateMetadata(ctx, "a", core.Metadata{"rev": "2"}); err != nil {
		t.Fatalf("UpdateMetadata() error = %v", err)
	}
	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Metadata["rev"] != "2" {
		t.Errorf("Get().Metadata = %v, want rev=2", got.Metadata)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
