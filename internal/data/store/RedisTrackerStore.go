package store

import (
	"context"
	"strconv"

	"github.com/akolanti/ragsearch/internal/data/redisStore"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
)

const (
	fieldLastRun      = "last_run"
	fieldEDLSCount    = "edls_count"
	fieldForcesCount  = "forces_count"
	fieldEDLSLastId   = "edls_last_id"
	fieldForcesLastId = "forces_last_id"
)

// RedisTrackerStore keeps the watermark in a single hash.
type RedisTrackerStore struct {
	store *redisStore.Store
	key   string
}

func NewRedisTrackerStore(s *redisStore.Store, key string) *RedisTrackerStore {
	return &RedisTrackerStore{store: s, key: key}
}

func (r *RedisTrackerStore) Load(ctx context.Context) (indexModel.TrackerState, error) {
	fields, err := r.store.HGetAll(ctx, r.key)
	if err != nil {
		return indexModel.TrackerState{}, err
	}
	return indexModel.TrackerState{
		LastRun:      fields[fieldLastRun],
		EDLSCount:    atoi(fields[fieldEDLSCount]),
		ForcesCount:  atoi(fields[fieldForcesCount]),
		EDLSLastId:   fields[fieldEDLSLastId],
		ForcesLastId: fields[fieldForcesLastId],
	}, nil
}

func (r *RedisTrackerStore) Save(ctx context.Context, state indexModel.TrackerState) error {
	return r.store.HSetAll(ctx, r.key, map[string]any{
		fieldLastRun:      state.LastRun,
		fieldEDLSCount:    state.EDLSCount,
		fieldForcesCount:  state.ForcesCount,
		fieldEDLSLastId:   state.EDLSLastId,
		fieldForcesLastId: state.ForcesLastId,
	})
}

func (r *RedisTrackerStore) Reset(ctx context.Context) error {
	return r.store.Del(ctx, r.key)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
