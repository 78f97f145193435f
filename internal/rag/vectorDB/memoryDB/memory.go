// Package memoryDB is a brute-force cosine index held in process memory.
package memoryDB

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
)

type Index struct {
	mu        sync.RWMutex
	points    map[string]vectorDB.Point
	dimension int
}

func NewMemoryIndex(dimension int) *Index {
	return &Index{
		points:    make(map[string]vectorDB.Point),
		dimension: dimension,
	}
}

func (m *Index) EnsureCollection(ctx context.Context) error {
	return ctx.Err()
}

func (m *Index) Upsert(ctx context.Context, points []vectorDB.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		meta := make(docModel.Metadata, len(p.Metadata))
		for k, v := range p.Metadata {
			meta[k] = v
		}
		vec := make([]float32, len(p.Vector))
		copy(vec, p.Vector)
		m.points[p.Id] = vectorDB.Point{Id: p.Id, Vector: vec, Document: p.Document, Metadata: meta}
	}
	return nil
}

func (m *Index) Query(ctx context.Context, vector []float32, k int, eq map[string]string) ([]docModel.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []docModel.Match{}, nil
	}

	m.mu.RLock()
	matches := make([]docModel.Match, 0, len(m.points))
	for _, p := range m.points {
		if !matchesAll(p.Metadata, eq) {
			continue
		}
		meta := make(docModel.Metadata, len(p.Metadata))
		for key, v := range p.Metadata {
			meta[key] = v
		}
		matches = append(matches, docModel.Match{
			Id:       p.Id,
			Document: p.Document,
			Distance: cosineDistance(vector, p.Vector),
			Metadata: meta,
		})
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Id < matches[j].Id
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *Index) Delete(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.points, id)
	}
	return nil
}

func (m *Index) Count(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.points)), nil
}

func matchesAll(meta docModel.Metadata, eq map[string]string) bool {
	for k, v := range eq {
		if meta[k] != v {
			return false
		}
	}
	return true
}

// cosineDistance is 1 - cosine similarity; a zero vector is treated as orthogonal.
func cosineDistance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, x := range a {
		na += float64(x) * float64(x)
	}
	for _, x := range b {
		nb += float64(x) * float64(x)
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(na)*math.Sqrt(nb)))
}
