package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/ragsearch/internal/data/store"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerStores(t *testing.T) {
	_, rs := newRedis(t)
	dir := t.TempDir()

	stores := map[string]indexModel.TrackerStore{
		"redis": store.NewRedisTrackerStore(rs, "indexing_tracker"),
		"file":  store.NewFileTrackerStore(filepath.Join(dir, "tracker.json")),
	}

	want := indexModel.TrackerState{
		LastRun:      "2024-05-01T10:00:00Z",
		EDLSCount:    4,
		ForcesCount:  2,
		EDLSLastId:   "17",
		ForcesLastId: "abc",
	}

	for name, ts := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			fresh, err := ts.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, indexModel.TrackerState{}, fresh)

			require.NoError(t, ts.Save(ctx, want))
			got, err := ts.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, ts.Reset(ctx))
			got, err = ts.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, indexModel.TrackerState{}, got)
		})
	}
}

func TestFileTrackerStore_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got, err := store.NewFileTrackerStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, indexModel.TrackerState{}, got)
}
