package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/metrics"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/google/uuid"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// Submit stamps a new job, persists it as QUEUED and hands it to the worker pool.
// The channel send blocks when the buffer is full.
func (s *Service) Submit(ctx context.Context, jobType jobModel.JobType, payload jobModel.JobPayload) jobModel.Job {
	traceId, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	j := jobModel.Job{
		Id:          uuid.New().String(),
		TraceId:     traceId,
		JobType:     jobType,
		JobPayload:  payload,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.Init,
	}
	log := s.logger.WithTrace(ctx).With("jobId", j.Id, "jobType", jobType)

	if err := s.JobStore.SaveJob(ctx, j); err != nil {
		log.Error("Failed to save queued job", "error", err)
	}

	metrics.IncrementJobsInQueue()
	s.JobChannel <- j
	log.Info("Created new job")

	//a new worker every RequestsPerNewWorkerCount jobs, or for every upload since
	//ingestion is the slow path; idle workers retire on their own
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || jobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
			log.Debug("dispatcher already signalled")
		}
	}
	return j
}

func (s *Service) Get(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
