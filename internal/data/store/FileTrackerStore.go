package store

import (
	"context"
	"sync"

	"github.com/akolanti/ragsearch/internal/data/fileStore"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

// FileTrackerStore is the fallback when Redis is unavailable.
type FileTrackerStore struct {
	mu     sync.Mutex
	path   string
	logger *logger_i.Logger
}

func NewFileTrackerStore(path string) *FileTrackerStore {
	return &FileTrackerStore{path: path, logger: logger_i.NewLogger("file_tracker")}
}

// Load treats a missing or corrupt file as a fresh tracker.
func (f *FileTrackerStore) Load(ctx context.Context) (indexModel.TrackerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var state indexModel.TrackerState
	err := fileStore.ReadJSON(f.path, &state)
	if err == nil {
		return state, nil
	}
	if !fileStore.IsMissing(err) {
		f.logger.WithTrace(ctx).Warn("tracker file unreadable, starting fresh", "path", f.path, "error", err)
	}
	return indexModel.TrackerState{}, nil
}

func (f *FileTrackerStore) Save(ctx context.Context, state indexModel.TrackerState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fileStore.WriteJSON(f.path, state)
}

func (f *FileTrackerStore) Reset(ctx context.Context) error {
	return f.Save(ctx, indexModel.TrackerState{})
}
