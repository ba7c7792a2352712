package core

import (
	"errors"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	store := newTestStore(t, 3)

	if got := store.DefaultLimit(); got != DefaultLimit {
		t.Errorf("DefaultLimit() = %d, want %d", got, DefaultLimit)
	}
	if got := store.SimilarityThreshold(); got != DefaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold() = %v, want %v", got, DefaultSimilarityThreshold)
	}
}

func TestSetDefaultLimit(t *testing.T) {
	store := newTestStore(t, 3)

	if err := store.SetDefaultLimit(25); err != nil {
		t.Fatalf("SetDefaultLimit(25) error = %v", err)
	}
	if got := store.DefaultLimit(); got != 25 {
		t.Errorf("DefaultLimit() = %d, want 25", got)
	}

	if err := store.SetDefaultLimit(-1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetDefaultLimit(-1) error = %v, want ErrInvalidInput", err)
	}
	if got := store.DefaultLimit(); got != 25 {
		t.Errorf("DefaultLimit() = %d after rejected set, want 25", got)
	}
}

func TestSetSimilarityThreshold(t *testing.T) {
	store := newTestStore(t, 3)

	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{name: "zero", value: 0},
		{name: "mid", value: 0.5},
		{name: "one", value: 1},
		{name: "above one", value: 2.0, wantErr: true},
		{name: "negative", value: -0.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := store.SimilarityThreshold()
			err := store.SetSimilarityThreshold(tt.value)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("SetSimilarityThreshold(%v) error = %v, want ErrInvalidInput", tt.value, err)
				}
				if got := store.SimilarityThreshold(); got != before {
					t.Errorf("threshold changed to %v after rejected set, want %v", got, before)
				}
				return
			}

			if err != nil {
				t.Fatalf("SetSimilarityThreshold(%v) error = %v", tt.value, err)
			}
			if got := store.SimilarityThreshold(); got != tt.value {
				t.Errorf("SimilarityThreshold() = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestConfigIsPerStore(t *testing.T) {
	a := newTestStore(t, 2)
	b := newTestStore(t, 2)

	if err := a.SetDefaultLimit(3); err != nil {
		t.Fatalf("SetDefaultLimit() error = %v", err)
	}
	if err := a.SetSimilarityThreshold(0.2); err != nil {
		t.Fatalf("SetSimilarityThreshold() error = %v", err)
	}

	if got := b.DefaultLimit(); got != DefaultLimit {
		t.Errorf("second store DefaultLimit() = %d, want untouched %d", got, DefaultLimit)
	}
	if got := b.SimilarityThreshold(); got != DefaultSimilarityThreshold {
		t.Errorf("second store SimilarityThreshold() = %v, want untouched %v", got, DefaultSimilarityThreshold)
	}
}
