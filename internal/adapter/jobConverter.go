package adapter

import (
	"fmt"

	"github.com/akolanti/ragsearch/internal/api"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Report: ToIndexingReport(job.JobPayload.Report),
	}
	if job.JobType == jobModel.JobTypeIngest {
		result.Ingest = &api.IngestReport{
			FileName:       job.JobPayload.IngestFileName,
			ChunksIngested: job.JobPayload.ChunksIngested,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToIndexingReport(report *indexModel.IndexReport) *api.IndexingReport {
	if report == nil {
		return nil
	}
	return &api.IndexingReport{
		EDLSIndexed:   report.EDLSIndexed,
		ForcesIndexed: report.ForcesIndexed,
		Total:         report.Total,
		Failed:        report.Failed,
	}
}

func ToErrorResponse(detail string, traceId string) api.ErrorResponse {
	return api.ErrorResponse{Detail: detail, TraceId: traceId}
}
