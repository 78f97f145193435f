package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/metrics"
	"github.com/akolanti/ragsearch/internal/rag/ingest"
)

var errUnknownJobType = errors.New("unknown job type")

func (p *Pool) executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.JobType), time.Since(start))
	}()

	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, p.jobTimeout)
	defer cancel()
	log := p.logger.WithTrace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job = p.saveJobState(ctx, job, jobModel.JobStatusRunning)

	var err error
	switch job.JobType {
	case jobModel.JobTypeIndexEDLS:
		job, err = p.runIndexing(ctx, job, indexModel.SourceEDLS)
	case jobModel.JobTypeIndexForces:
		job, err = p.runIndexing(ctx, job, indexModel.SourceForces)
	case jobModel.JobTypeIndexAll:
		job, err = p.runIndexing(ctx, job, indexModel.SourceEDLS, indexModel.SourceForces)
	case jobModel.JobTypeIngest:
		job, err = p.runIngest(ctx, job)
	default:
		err = fmt.Errorf("%w: %q", errUnknownJobType, job.JobType)
	}

	//the job ctx may have expired, final state is saved without the deadline
	job.EndTime = time.Now()
	if err != nil {
		log.Error("Job failed", "error", err)
		job.CurrentStep = jobModel.Error
		job.Error = jobModel.JobError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Retry:   !errors.Is(err, errUnknownJobType) && !errors.Is(err, ingest.ErrUnsupportedType),
		}
		p.saveJobState(ctxTrace, job, jobModel.JobStatusError)
		return
	}
	job.CurrentStep = jobModel.Complete
	p.saveJobState(ctxTrace, job, jobModel.JobStatusComplete)
	log.Info("Job complete", "elapsed", time.Since(start))
}

func (p *Pool) runIndexing(ctx context.Context, job jobModel.Job, sources ...indexModel.Source) (jobModel.Job, error) {
	job.CurrentStep = jobModel.Indexing
	report, err := p.indexer.Run(ctx, sources...)
	job.JobPayload.Report = &report
	return job, err
}

func (p *Pool) runIngest(ctx context.Context, job jobModel.Job) (jobModel.Job, error) {
	job.CurrentStep = jobModel.IngestProcessing
	doc := docModel.UploadedDocument{
		Id:         job.Id,
		Name:       job.JobPayload.IngestFileName,
		Path:       job.JobPayload.IngestPath,
		IngestedAt: time.Now(),
	}
	n, err := ingest.ProcessFile(ctx, doc, p.writer)
	job.JobPayload.ChunksIngested = n
	return job, err
}

func (p *Pool) exitWorker(reason string) {
	p.wg.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", p.ActiveWorkers())
}

func (p *Pool) saveJobState(ctx context.Context, job jobModel.Job, jobStatus jobModel.JobStatus) jobModel.Job {
	job.Status = jobStatus
	if err := p.jobService.JobStore.SaveJob(ctx, job); err != nil {
		p.logger.WithTrace(ctx).Error("Failed to update job state", "error", err, "jobId", job.Id)
	}
	return job
}
