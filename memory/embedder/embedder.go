// Package embedder converts text to the semantic vectors stored in memories.
//
// The core store never embeds anything itself; callers embed text with one
// of these implementations and pass the vector into memory.NewMemory.
//
// Implementations:
//   - mock.Embedder: deterministic hash-seeded vectors for tests
//   - onnx.Embedder: local transformer model via ONNX Runtime (build tag "onnx")
//   - Cached: ristretto-backed wrapper around any of the above
package embedder

import "context"

// Embedder converts text to vector embeddings.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
