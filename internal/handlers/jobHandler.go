package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/ragsearch/internal/adapter"
	"github.com/akolanti/ragsearch/internal/adapter/utils"
	"github.com/akolanti/ragsearch/internal/api"
	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/jobModel"
	"github.com/akolanti/ragsearch/internal/rag/ingest"
)

// IndexAllEDLSHandler godoc
// @Summary      Index the EDLS file
// @Description  Queues a background job indexing every EDLS report past the watermark.
// @Tags         Indexing
// @Produce      json
// @Success      202  {object}  api.InitJobResponse
// @Security     BearerAuth
// @Router       /index-all-edls [post]
func (h *Handler) IndexAllEDLSHandler(w http.ResponseWriter, r *http.Request) {
	h.submitJob(w, r, jobModel.JobTypeIndexEDLS, jobModel.JobPayload{})
}

// IndexAllForcesHandler godoc
// @Summary      Index the forces store
// @Description  Queues a background job indexing every strength/weakness element past the watermark.
// @Tags         Indexing
// @Produce      json
// @Success      202  {object}  api.InitJobResponse
// @Security     BearerAuth
// @Router       /index-all-forces [post]
func (h *Handler) IndexAllForcesHandler(w http.ResponseWriter, r *http.Request) {
	h.submitJob(w, r, jobModel.JobTypeIndexForces, jobModel.JobPayload{})
}

// IndexAllHandler godoc
// @Summary      Index every source
// @Tags         Indexing
// @Produce      json
// @Success      202  {object}  api.InitJobResponse
// @Security     BearerAuth
// @Router       /index-all [post]
func (h *Handler) IndexAllHandler(w http.ResponseWriter, r *http.Request) {
	h.submitJob(w, r, jobModel.JobTypeIndexAll, jobModel.JobPayload{})
}

// IndexStateHandler godoc
// @Summary      Indexing watermark
// @Tags         Indexing
// @Produce      json
// @Success      200  {object}  api.TrackerResponse
// @Failure      500  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /index-state [get]
func (h *Handler) IndexStateHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.indexer.State(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, api.TrackerResponse{State: state})
}

// IndexResetHandler godoc
// @Summary      Reset the indexing watermark
// @Description  The next indexing run starts from the first record of every source.
// @Tags         Indexing
// @Produce      json
// @Success      200  {object}  api.StatusResponse
// @Failure      500  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /index-reset [post]
func (h *Handler) IndexResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.indexer.Reset(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "reset"})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a background job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse    "The current status of the job"
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Security     BearerAuth
// @Router       /status/{id} [get]
func (h *Handler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := h.jobs.Get(r.Context(), idString)
	if !isFound {
		writeError(w, r, http.StatusNotFound, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler handles the uploading of PDF, DOCX or text documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job. Chunks are indexed as file_<jobId>_<n>.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF, DOCX, ODT, RTF or TXT file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted"
// @Failure      400  {object}  api.ErrorResponse    "Missing fields, unsupported type or file too large"
// @Failure      500  {object}  api.ErrorResponse    "Storage or write error"
// @Security     BearerAuth
// @Router       /ingest [post]
func (h *Handler) PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	log := logRH.WithTrace(r.Context())

	if err := ensureDirectory(h.uploadDir); err != nil {
		log.Error("Couldn't create upload directory", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Storage error")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		writeError(w, r, http.StatusBadRequest, "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if !ingest.SupportedExtension(fileMetadata.Filename) {
		writeError(w, r, http.StatusBadRequest, "unsupported file type: "+filepath.Ext(fileMetadata.Filename))
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileMetadata.Filename))
	tempFilePath := filepath.Join(h.uploadDir, filename)
	if err := saveUpload(tempFilePath, fileReader); err != nil {
		log.Error("Couldn't store upload", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Write error")
		return
	}

	h.submitJob(w, r, jobModel.JobTypeIngest, jobModel.JobPayload{
		IngestFileName: docName,
		IngestPath:     tempFilePath,
	})
}

func (h *Handler) submitJob(w http.ResponseWriter, r *http.Request, jobType jobModel.JobType, payload jobModel.JobPayload) {
	if !validateContext(r.Context()) {
		return
	}
	j := h.jobs.Submit(r.Context(), jobType, payload)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(j.Id))
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}
