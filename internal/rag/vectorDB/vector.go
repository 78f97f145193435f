package vectorDB

import (
	"context"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
)

// Point is what gets written to the collection for one record.
type Point struct {
	Id       string
	Vector   []float32
	Document string
	Metadata docModel.Metadata
}

// Index is a single cosine-distance collection keyed by record id.
// Upsert replaces an existing point with the same id.
type Index interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, points []Point) error
	// Query returns at most k matches in ascending distance. Keys in eq are ANDed.
	Query(ctx context.Context, vector []float32, k int, eq map[string]string) ([]docModel.Match, error)
	Delete(ctx context.Context, ids ...string) error
	Count(ctx context.Context) (uint64, error)
}
