package core

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b Embedding
		want float64
	}{
		{name: "identical", a: Embedding{1, 2, 3}, b: Embedding{1, 2, 3}, want: 1.0},
		{name: "parallel scaled", a: Embedding{1, 0, 0}, b: Embedding{5, 0, 0}, want: 1.0},
		{name: "orthogonal", a: Embedding{1, 0}, b: Embedding{0, 1}, want: 0.0},
		{name: "opposite", a: Embedding{1, 0}, b: Embedding{-1, 0}, want: -1.0},
		{name: "length mismatch", a: Embedding{1, 0}, b: Embedding{1, 0, 0}, want: 0.0},
		{name: "zero vector", a: Embedding{0, 0}, b: Embedding{1, 1}, want: 0.0},
		{name: "both zero", a: Embedding{0, 0}, b: Embedding{0, 0}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := Embedding{0.3, -0.7, 0.2, 0.9}
	b := Embedding{0.1, 0.5, -0.4, 0.8}

	if got, rev := CosineSimilarity(a, b), CosineSimilarity(b, a); math.Abs(got-rev) > 1e-9 {
		t.Errorf("CosineSimilarity not symmetric: %v vs %v", got, rev)
	}
}

func TestDotProduct(t *testing.T) {
	tests := []struct {
		name string
		a, b Embedding
		want float64
	}{
		{name: "basic", a: Embedding{1, 2, 3}, b: Embedding{4, 5, 6}, want: 32},
		{name: "orthogonal", a: Embedding{1, 0}, b: Embedding{0, 1}, want: 0},
		{name: "length mismatch", a: Embedding{1, 2}, b: Embedding{1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DotProduct(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("DotProduct(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEmbeddingSimilarity(t *testing.T) {
	a := Embedding{1, 0, 0}
	b := Embedding{0.9, 0.1, 0}

	got, err := a.Similarity(b)
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if math.Abs(got-0.99388) > 1e-4 {
		t.Errorf("Similarity() = %v, want ≈0.994", got)
	}

	if _, err := a.Similarity(Embedding{1, 0}); err == nil {
		t.Error("Similarity() with mismatched dimension should fail")
	}
}
