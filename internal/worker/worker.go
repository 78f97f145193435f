package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/internal/job"
	"github.com/akolanti/ragsearch/internal/metrics"
	"github.com/akolanti/ragsearch/internal/rag/ingest"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

// Indexer runs the watermark-driven indexing of one or more sources.
type Indexer interface {
	Run(ctx context.Context, sources ...indexModel.Source) (indexModel.IndexReport, error)
}

// Pool is an elastic set of workers draining the job channel. It starts with one
// worker, grows on dispatcher signals up to MaxWorkerCount and shrinks back to
// minWorkers when workers sit idle.
type Pool struct {
	jobService *job.Service
	indexer    Indexer
	writer     ingest.Writer

	stop        chan bool
	wg          *sync.WaitGroup
	count       int64
	minWorkers  int64
	maxWorkers  int64
	idleTimeout time.Duration
	jobTimeout  time.Duration
	logger      *logger_i.Logger
}

func NewPool(jobService *job.Service, indexer Indexer, writer ingest.Writer) *Pool {
	return &Pool{
		jobService:  jobService,
		indexer:     indexer,
		writer:      writer,
		minWorkers:  config.MinWorkerCount,
		maxWorkers:  config.MaxWorkerCount,
		idleTimeout: config.IdleWorkerTimeout,
		jobTimeout:  config.JobTimeout,
		logger:      logger_i.NewLogger("WorkerPool"),
	}
}

// Start launches the dispatcher. Closing stop retires every worker; wg is released
// once they have all exited.
func (p *Pool) Start(stop chan bool, wg *sync.WaitGroup) {
	p.stop = stop
	p.wg = wg
	p.logger.Info("Initializing worker pool")
	p.createWorker()
	go p.dispatcher()
}

func (p *Pool) ActiveWorkers() int64 {
	return atomic.LoadInt64(&p.count)
}

func (p *Pool) dispatcher() {
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.jobService.DispatcherChannel:
			if atomic.LoadInt64(&p.count) < p.maxWorkers {
				p.logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&p.count))
				p.createWorker()
			}
		case <-p.stop:
			p.logger.Info("Dispatcher stopped")
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.wg.Add(1)
	atomic.AddInt64(&p.count, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
	p.logger.Debug("Created new worker")
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case currentJob := <-p.jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			p.executeJob(currentJob)
			idle.Reset(p.idleTimeout)

		case <-p.stop:
			atomic.AddInt64(&p.count, -1)
			p.exitWorker("Stop worker signal received")
			return

		case <-idle.C:
			if p.tryRetire() {
				p.exitWorker("Idle worker timeout")
				return
			}
			idle.Reset(p.idleTimeout)
		}
	}
}

// tryRetire decrements the worker count unless that would drop below minWorkers.
func (p *Pool) tryRetire() bool {
	for {
		current := atomic.LoadInt64(&p.count)
		if current <= p.minWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.count, current, current-1) {
			return true
		}
	}
}
