package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockIndexer struct {
	Calls int32
	OnRun func(ctx context.Context, sources ...indexModel.Source) (indexModel.IndexReport, error)
}

func (m *MockIndexer) Run(ctx context.Context, sources ...indexModel.Source) (indexModel.IndexReport, error) {
	atomic.AddInt32(&m.Calls, 1)
	if m.OnRun != nil {
		return m.OnRun(ctx, sources...)
	}
	return indexModel.IndexReport{}, nil
}

type MockWriter struct {
	mu      sync.Mutex
	Records []docModel.Record
}

func (m *MockWriter) AddBatch(ctx context.Context, records []docModel.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, records...)
	return nil
}

// MockJobStore keeps the last saved state of every job.
type MockJobStore struct {
	mu   sync.Mutex
	jobs map[string]jobModel.Job
}

func newMockJobStore() *MockJobStore {
	return &MockJobStore{jobs: map[string]jobModel.Job{}}
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobId]
	return j, ok
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.Id] = j
	return nil
}

func newTestPool(ix Indexer, w *MockWriter) (*Pool, *job.Service, *MockJobStore) {
	st := newMockJobStore()
	svc := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          st,
	})
	return NewPool(svc, ix, w), svc, st
}

func waitStatus(t *testing.T, st *MockJobStore, id string, want jobModel.JobStatus) jobModel.Job {
	t.Helper()
	var got jobModel.Job
	require.Eventually(t, func() bool {
		j, ok := st.GetJob(context.Background(), id)
		got = j
		return ok && j.Status == want
	}, 2*time.Second, 10*time.Millisecond)
	return got
}

func TestWorkerPool_Flow(t *testing.T) {
	ix := &MockIndexer{OnRun: func(ctx context.Context, sources ...indexModel.Source) (indexModel.IndexReport, error) {
		return indexModel.IndexReport{EDLSIndexed: 2, ForcesIndexed: len(sources) - 1, Total: 1 + len(sources)}, nil
	}}
	pool, svc, st := newTestPool(ix, &MockWriter{})
	stop := make(chan bool)
	wg := &sync.WaitGroup{}
	pool.Start(stop, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		svc.DispatcherChannel <- true
		require.Eventually(t, func() bool { return pool.ActiveWorkers() == 2 }, time.Second, 5*time.Millisecond)
	})

	t.Run("Worker runs an indexing job", func(t *testing.T) {
		j := svc.Submit(context.Background(), jobModel.JobTypeIndexAll, jobModel.JobPayload{})
		done := waitStatus(t, st, j.Id, jobModel.JobStatusComplete)

		require.NotNil(t, done.JobPayload.Report)
		assert.Equal(t, 2, done.JobPayload.Report.EDLSIndexed)
		assert.Equal(t, 1, done.JobPayload.Report.ForcesIndexed)
		assert.Equal(t, jobModel.Complete, done.CurrentStep)
		assert.False(t, done.EndTime.IsZero())
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stop)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
		assert.Equal(t, int64(0), pool.ActiveWorkers())
	})
}

func TestWorker_IndexingFailureMarksJob(t *testing.T) {
	ix := &MockIndexer{OnRun: func(ctx context.Context, sources ...indexModel.Source) (indexModel.IndexReport, error) {
		return indexModel.IndexReport{Failed: 1}, errors.New("tracker offline")
	}}
	pool, svc, st := newTestPool(ix, &MockWriter{})
	stop := make(chan bool)
	wg := &sync.WaitGroup{}
	pool.Start(stop, wg)
	defer func() { close(stop); wg.Wait() }()

	j := svc.Submit(context.Background(), jobModel.JobTypeIndexEDLS, jobModel.JobPayload{})
	failed := waitStatus(t, st, j.Id, jobModel.JobStatusError)

	assert.Equal(t, jobModel.Error, failed.CurrentStep)
	assert.Contains(t, failed.Error.Message, "tracker offline")
	assert.True(t, failed.Error.Retry)
	require.NotNil(t, failed.JobPayload.Report)
	assert.Equal(t, 1, failed.JobPayload.Report.Failed)
}

func TestWorker_IngestJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("first paragraph\n\nsecond paragraph"), 0o600))

	w := &MockWriter{}
	pool, svc, st := newTestPool(&MockIndexer{}, w)
	stop := make(chan bool)
	wg := &sync.WaitGroup{}
	pool.Start(stop, wg)
	defer func() { close(stop); wg.Wait() }()

	j := svc.Submit(context.Background(), jobModel.JobTypeIngest, jobModel.JobPayload{IngestFileName: "notes.txt", IngestPath: path})
	done := waitStatus(t, st, j.Id, jobModel.JobStatusComplete)

	assert.Equal(t, 1, done.JobPayload.ChunksIngested)
	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.Records, 1)
	assert.Equal(t, "file_"+j.Id+"_0", w.Records[0].Id)
	assert.NoFileExists(t, path)
}

func TestWorker_UnknownJobType(t *testing.T) {
	pool, svc, st := newTestPool(&MockIndexer{}, &MockWriter{})
	stop := make(chan bool)
	wg := &sync.WaitGroup{}
	pool.Start(stop, wg)
	defer func() { close(stop); wg.Wait() }()

	j := svc.Submit(context.Background(), jobModel.JobType("Reindex"), jobModel.JobPayload{})
	failed := waitStatus(t, st, j.Id, jobModel.JobStatusError)
	assert.False(t, failed.Error.Retry)
}

func TestWorker_IdleTimeout(t *testing.T) {
	pool, _, _ := newTestPool(&MockIndexer{}, &MockWriter{})
	pool.idleTimeout = 20 * time.Millisecond
	pool.minWorkers = 1
	pool.stop = make(chan bool)
	pool.wg = &sync.WaitGroup{}

	pool.createWorker()
	pool.createWorker()
	pool.createWorker()

	require.Eventually(t, func() bool { return pool.ActiveWorkers() == 1 }, time.Second, 5*time.Millisecond)

	// the last worker stays up
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), pool.ActiveWorkers())

	close(pool.stop)
	pool.wg.Wait()
	assert.Equal(t, int64(0), pool.ActiveWorkers())
}
