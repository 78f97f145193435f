package memoryDB

import (
	"context"
	"testing"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *Index {
	t.Helper()
	idx := NewMemoryIndex(2)
	err := idx.Upsert(context.Background(), []vectorDB.Point{
		{Id: "a", Vector: []float32{1, 0}, Document: "A", Metadata: docModel.Metadata{"doc_type": "edls", "source_type": "internal"}},
		{Id: "b", Vector: []float32{0.9, 0.1}, Document: "B", Metadata: docModel.Metadata{"doc_type": "forces", "source_type": "internal"}},
		{Id: "c", Vector: []float32{0, 1}, Document: "C", Metadata: docModel.Metadata{"doc_type": "forces", "source_type": "external"}},
	})
	require.NoError(t, err)
	return idx
}

func TestQuery_OrderedByDistance(t *testing.T) {
	idx := seed(t)

	got, err := idx.Query(context.Background(), []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Id, got[1].Id, got[2].Id})
	assert.InDelta(t, 0, got[0].Distance, 1e-6)
	assert.LessOrEqual(t, got[1].Distance, got[2].Distance)
}

func TestQuery_EqualityFilterIsANDed(t *testing.T) {
	idx := seed(t)

	got, err := idx.Query(context.Background(), []float32{1, 0}, 5, map[string]string{"doc_type": "forces", "source_type": "external"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Id)
}

func TestQuery_LimitAndEmpty(t *testing.T) {
	idx := seed(t)

	got, err := idx.Query(context.Background(), []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	empty := NewMemoryIndex(2)
	got, err = empty.Query(context.Background(), []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpsert_ReplacesSameId(t *testing.T) {
	idx := seed(t)
	require.NoError(t, idx.Upsert(context.Background(), []vectorDB.Point{
		{Id: "a", Vector: []float32{0, 1}, Document: "A2", Metadata: docModel.Metadata{"doc_type": "edls"}},
	}))

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	got, err := idx.Query(context.Background(), []float32{0, 1}, 1, map[string]string{"doc_type": "edls"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A2", got[0].Document)
}

func TestDelete(t *testing.T) {
	idx := seed(t)
	require.NoError(t, idx.Delete(context.Background(), "a", "missing"))

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestCosineDistance_ZeroVector(t *testing.T) {
	assert.Equal(t, float32(1), cosineDistance([]float32{0, 0}, []float32{1, 0}))
}
