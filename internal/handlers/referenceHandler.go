package handlers

import (
	"net/http"

	"github.com/akolanti/ragsearch/internal/api"
	"github.com/akolanti/ragsearch/internal/config"
)

var documentTypes = api.DocumentTypesResponse{DocumentTypes: []api.Option{
	{Value: "", Label: "Tous les types"},
	{Value: "edls", Label: "EDLS"},
	{Value: "forces", Label: "Forces & Faiblesses"},
	{Value: "standard", Label: "Documents standard"},
}}

var sourceTypes = api.SourceTypesResponse{SourceTypes: []api.Option{
	{Value: "", Label: "Toutes les sources"},
	{Value: "internal", Label: "Documents internes"},
	{Value: "external", Label: "Documents externes"},
}}

// DocumentTypesHandler godoc
// @Summary      Document type filter options
// @Tags         Reference
// @Produce      json
// @Success      200  {object}  api.DocumentTypesResponse
// @Security     BearerAuth
// @Router       /document-types [get]
func (h *Handler) DocumentTypesHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, documentTypes)
}

// SourceTypesHandler godoc
// @Summary      Source type filter options
// @Tags         Reference
// @Produce      json
// @Success      200  {object}  api.SourceTypesResponse
// @Security     BearerAuth
// @Router       /source-types [get]
func (h *Handler) SourceTypesHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, sourceTypes)
}

// HealthHandler godoc
// @Summary      Liveness and collection size
// @Tags         Reference
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Failure      503  {object}  api.HealthResponse
// @Router       /healthz [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.engine.Count(r.Context())
	if err != nil {
		writeJsonResponse(w, http.StatusServiceUnavailable, api.HealthResponse{
			Status:     "degraded",
			Collection: config.CollectionName,
			Error:      err.Error(),
		})
		return
	}
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:     "ok",
		Collection: config.CollectionName,
		Points:     count,
	})
}
