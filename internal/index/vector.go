package index

import "math"

// CosineSimilarity computes the cosine similarity of two vectors, zero when
// either has zero norm or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	normA := vectorNorm(a)
	normB := vectorNorm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct(a, b) / (normA * normB)
}

// vectorNorm computes the L2 norm.
func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// dotProduct computes the dot product, zero when the lengths differ.
func dotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
