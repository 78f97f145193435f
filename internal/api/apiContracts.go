package api

import (
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"0b6f7a52-5c1e-4a55-9a43-2f1c2e9b8f10"`
	JobType   string            `json:"job_type" example:"IndexEDLS"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type IndexingReport struct {
	EDLSIndexed   int `json:"edls_indexed"`
	ForcesIndexed int `json:"forces_indexed"`
	Total         int `json:"total"`
	Failed        int `json:"failed"`
}

type IngestReport struct {
	FileName       string `json:"file_name"`
	ChunksIngested int    `json:"chunks_ingested"`
}

type Result struct {
	Status string          `json:"status"`
	Report *IndexingReport `json:"report,omitempty"`
	Ingest *IngestReport   `json:"ingest,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type ErrorResponse struct {
	Detail  string `json:"detail" example:"query is required"`
	TraceId string `json:"trace_id,omitempty"`
}

type StatusResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type DocumentTypesResponse struct {
	DocumentTypes []Option `json:"document_types"`
}

type SourceTypesResponse struct {
	SourceTypes []Option `json:"source_types"`
}

type HealthResponse struct {
	Status     string `json:"status" example:"ok"`
	Collection string `json:"collection"`
	Points     uint64 `json:"points"`
	Error      string `json:"error,omitempty"`
}

type TrackerResponse struct {
	State indexModel.TrackerState `json:"state"`
}

type DashboardSummary struct {
	TotalParties int                            `json:"total_parties"`
	RecentSW     []forcesModel.StrengthWeakness `json:"recent_sw"`
}

// requests---------------------

type SearchFilter struct {
	DocumentType string `json:"document_type,omitempty" example:"edls"`
	SourceType   string `json:"source_type,omitempty" example:"internal"`
	DateFrom     string `json:"date_from,omitempty" example:"2024-01-01"`
	DateTo       string `json:"date_to,omitempty" example:"2024-12-31"`
}

// ToFilter returns nil for an absent filter.
func (f *SearchFilter) ToFilter() *docModel.Filter {
	if f == nil {
		return nil
	}
	return &docModel.Filter{
		DocumentType: f.DocumentType,
		SourceType:   f.SourceType,
		DateFrom:     f.DateFrom,
		DateTo:       f.DateTo,
	}
}

type AddDocumentRequest struct {
	DocId    string         `json:"doc_id" validate:"required"`
	Text     string         `json:"text" validate:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type AddEDLSRequest struct {
	EDLSData docModel.EDLSItem `json:"edls_data"`
}

type AddForcesRequest struct {
	ForceData forcesModel.StrengthWeakness `json:"force_data"`
	PartyName string                       `json:"party_name" validate:"required"`
}

type SearchRequest struct {
	Query    string        `json:"query" validate:"required"`
	NResults *int          `json:"n_results,omitempty" validate:"omitempty,min=1,max=100"`
	Filters  *SearchFilter `json:"filters,omitempty"`
}

type AnswerRequest struct {
	Question           string        `json:"question" validate:"required"`
	NResultsForContext *int          `json:"n_results_for_context,omitempty" validate:"omitempty,min=1,max=100"`
	Filters            *SearchFilter `json:"filters,omitempty"`
}

type PartyCreateRequest struct {
	Nom         string  `json:"nom" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

type PartyUpdateRequest struct {
	Nom         *string `json:"nom,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

type StrengthWeaknessCreateRequest struct {
	PartyId   string  `json:"party_id" validate:"required"`
	Type      string  `json:"type" validate:"required"`
	Categorie *string `json:"categorie,omitempty"`
	Contenu   string  `json:"contenu" validate:"required"`
	Resume    *string `json:"resume,omitempty"`
	Date      string  `json:"date_" validate:"required,datetime=2006-01-02" example:"2024-05-01"`
	Source    *string `json:"source,omitempty"`
	Auteur    *string `json:"auteur,omitempty"`
}
