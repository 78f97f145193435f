package store

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
)

func TestInMemoryJobStore_Expiry(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	js := InitInMemoryJobStore()
	js.now = func() time.Time { return clock }
	ctx := context.Background()

	if err := js.SaveJob(ctx, jobModel.Job{Id: "old"}); err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(config.RedisJobStoreTTL - time.Second)
	if _, found := js.GetJob(ctx, "old"); !found {
		t.Fatal("job expired before its TTL")
	}

	clock = clock.Add(time.Second)
	if _, found := js.GetJob(ctx, "old"); found {
		t.Fatal("job still readable after its TTL")
	}
	if len(js.jobs) != 0 {
		t.Errorf("expired job was not evicted, %d entries left", len(js.jobs))
	}
}
