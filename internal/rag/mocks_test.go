package rag_test

import (
	"context"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
)

// MockIndex implements vectorDB.Index
type MockIndex struct {
	OnUpsert func(ctx context.Context, points []vectorDB.Point) error
	OnQuery  func(ctx context.Context, vector []float32, k int, eq map[string]string) ([]docModel.Match, error)
	OnDelete func(ctx context.Context, ids ...string) error
}

func (m *MockIndex) EnsureCollection(ctx context.Context) error {
	return nil
}

func (m *MockIndex) Upsert(ctx context.Context, points []vectorDB.Point) error {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, points)
	}
	return nil
}

func (m *MockIndex) Query(ctx context.Context, vector []float32, k int, eq map[string]string) ([]docModel.Match, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, k, eq)
	}
	return []docModel.Match{}, nil
}

func (m *MockIndex) Delete(ctx context.Context, ids ...string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, ids...)
	}
	return nil
}

func (m *MockIndex) Count(ctx context.Context) (uint64, error) {
	return 0, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (m *MockEmbedder) Dimension() int {
	return 2
}
