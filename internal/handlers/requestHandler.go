package handlers

import (
	"net/http"

	"github.com/akolanti/ragsearch/internal/api"
	"github.com/akolanti/ragsearch/internal/config"
)

// AddDocumentHandler godoc
// @Summary      Index a generic document
// @Description  Embeds the text and upserts it under doc_id. Caller metadata overrides the defaults doc_type=standard and source_type=internal.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.AddDocumentRequest  true  "Document id, text and optional metadata"
// @Success      200      {object}  api.StatusResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /add-document [post]
func (h *Handler) AddDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AddDocumentRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.engine.AddDocument(r.Context(), req.DocId, req.Text, req.Metadata); err != nil {
		logRH.WithTrace(r.Context()).Error("add document failed", "docId", req.DocId, "error", err)
		writeError(w, r, http.StatusInternalServerError, "indexing failed: "+err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}

// AddEDLSHandler godoc
// @Summary      Index an EDLS report
// @Description  Normalizes the report to edls_<id> and indexes it. Engine failures are reported in the body with status=error.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.AddEDLSRequest  true  "EDLS report"
// @Success      200      {object}  docModel.IngestResult
// @Failure      400      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /add-edls [post]
func (h *Handler) AddEDLSHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AddEDLSRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, h.engine.AddEDLS(r.Context(), req.EDLSData))
}

// AddForcesHandler godoc
// @Summary      Index a strength/weakness element
// @Description  Normalizes the element to forces_<id> with the given party name and indexes it.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.AddForcesRequest  true  "Element and party name"
// @Success      200      {object}  docModel.IngestResult
// @Failure      400      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /add-forces [post]
func (h *Handler) AddForcesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AddForcesRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, h.engine.AddForces(r.Context(), req.ForceData, req.PartyName))
}

// SearchHandler godoc
// @Summary      Semantic search
// @Description  Returns the n_results nearest documents, narrowed by the optional filters. The date filter is applied after retrieval and can return fewer than n_results.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest  true  "Query, result count and filters"
// @Success      200      {object}  docModel.SearchResult
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /search [post]
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.SearchRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	k := config.DefaultSearchResults
	if req.NResults != nil {
		k = *req.NResults
	}

	result := h.engine.Search(r.Context(), req.Query, k, req.Filters.ToFilter())
	if result.Error != "" {
		writeError(w, r, http.StatusInternalServerError, result.Error)
		return
	}
	writeJsonResponse(w, http.StatusOK, result)
}

// AnswerQuestionHandler godoc
// @Summary      Assemble answer context
// @Description  Retrieves context documents for the question and returns them with a placeholder answer.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        request  body      api.AnswerRequest  true  "Question, context size and filters"
// @Success      200      {object}  docModel.ContextBundle
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /answer-question [post]
func (h *Handler) AnswerQuestionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AnswerRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	k := config.DefaultContextResults
	if req.NResultsForContext != nil {
		k = *req.NResultsForContext
	}

	bundle := h.engine.AnswerQuestion(r.Context(), req.Question, k, req.Filters.ToFilter())
	if bundle.Error != "" {
		writeError(w, r, http.StatusInternalServerError, bundle.Error)
		return
	}
	writeJsonResponse(w, http.StatusOK, bundle)
}
