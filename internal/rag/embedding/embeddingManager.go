package embedding

import "context"

// Embedder is a deterministic text -> vector function with a fixed dimensionality.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
