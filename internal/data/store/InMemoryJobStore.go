package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("inmem_jobstore")

type storedJob struct {
	job       jobModel.Job
	expiresAt time.Time
}

// InMemoryJobStore is the fallback when Redis is offline. Entries expire after
// the same TTL the Redis store applies, checked lazily on read.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]storedJob
	ttl  time.Duration
	now  func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]storedJob),
		ttl:  config.RedisJobStoreTTL,
		now:  time.Now,
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Id] = storedJob{job: job, expiresAt: s.now().Add(s.ttl)}
	inMemLogger.WithTrace(ctx).Debug("saved job", "jobId", job.Id, "status", job.Status)
	return nil
}

func (s *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	s.mu.RLock()
	entry, found := s.jobs[jobId]
	s.mu.RUnlock()
	if !found {
		return jobModel.Job{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		s.DeleteJob(ctx, jobId)
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (s *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}
