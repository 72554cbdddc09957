package memory

import "math"

// CosineSimilarity computes the cosine similarity of two vectors: their dot
// product over the product of their norms, in [-1, 1].
//
// Cosine similarity is mathematically undefined when either vector has zero
// norm; this implementation defines it as 0 there, so never-embedded
// placeholder vectors rank below any real match. Length-mismatched or empty
// inputs also score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
