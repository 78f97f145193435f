package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/indexModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	Init             InternalStatus = "Init"
	Indexing         InternalStatus = "Indexing"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"
	Complete         InternalStatus = "Complete"

	JobTypeIndexEDLS   JobType = "IndexEDLS"
	JobTypeIndexForces JobType = "IndexForces"
	JobTypeIndexAll    JobType = "IndexAll"
	JobTypeIngest      JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Report *indexModel.IndexReport `json:"report,omitempty"`

	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestPath     string `json:"ingest_path,omitempty"`
	ChunksIngested int    `json:"chunks_ingested,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
