package index

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCosineSimilarityScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	scaled := []float32{10, 20, 30}

	if got := CosineSimilarity(a, scaled); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("Expected scale invariance, got %v", got)
	}
}
