package embedding

import (
	"context"
	"math"
)

// MockClient generates deterministic vectors from a text hash. Used in tests
// and in the chat harness when no embedding API is configured.
type MockClient struct {
	dimension int
}

// NewMockClient creates a mock embedding client.
func NewMockClient(dimension int) *MockClient {
	return &MockClient{dimension: dimension}
}

// Embed generates a deterministic vector for the text.
func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, c.dimension)
	hash := 0
	for _, ch := range text {
		hash = hash*31 + int(ch)
	}
	for i := 0; i < c.dimension; i++ {
		vec[i] = float32(hash%1000) / 1000.0
		hash = hash*31 + i
	}
	return normalize(vec), nil
}

// EmbedBatch generates deterministic vectors for several texts.
func (c *MockClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimension returns the vector dimension.
func (c *MockClient) Dimension() int {
	return c.dimension
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
