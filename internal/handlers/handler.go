package handlers

import (
	"context"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/data/forcesStore"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/rag"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

// JobService queues background work and reports on it.
type JobService interface {
	Submit(ctx context.Context, jobType jobModel.JobType, payload jobModel.JobPayload) jobModel.Job
	Get(ctx context.Context, id string) (jobModel.Job, bool)
}

// IndexState exposes the indexing watermark.
type IndexState interface {
	State(ctx context.Context) (indexModel.TrackerState, error)
	Reset(ctx context.Context) error
}

type Dependencies struct {
	Engine    rag.Service
	Jobs      JobService
	Forces    *forcesStore.Store
	Indexer   IndexState
	UploadDir string
}

// Handler serves every HTTP endpoint. All fields are safe for concurrent use.
type Handler struct {
	engine    rag.Service
	jobs      JobService
	forces    *forcesStore.Store
	indexer   IndexState
	uploadDir string
}

func New(deps Dependencies) *Handler {
	if deps.UploadDir == "" {
		deps.UploadDir = config.TemporaryDataDir
	}
	return &Handler{
		engine:    deps.Engine,
		jobs:      deps.Jobs,
		forces:    deps.Forces,
		indexer:   deps.Indexer,
		uploadDir: deps.UploadDir,
	}
}
