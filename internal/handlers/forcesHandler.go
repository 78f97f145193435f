package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/akolanti/ragsearch/internal/adapter/utils"
	"github.com/akolanti/ragsearch/internal/api"
	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/data/forcesStore"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
)

const recentElementsOnDashboard = 3

func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, forcesStore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, forcesStore.ErrDuplicateParty), errors.Is(err, forcesStore.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// removeVectors drops the indexed copies of deleted elements. The store is the source
// of truth, so a failure here is logged and does not fail the request.
func (h *Handler) removeVectors(r *http.Request, elementIds []string) {
	if len(elementIds) == 0 {
		return
	}
	ids := make([]string, len(elementIds))
	for i, id := range elementIds {
		ids[i] = docModel.ForcesIdPrefix + id
	}
	if err := h.engine.Remove(r.Context(), ids...); err != nil {
		logRH.WithTrace(r.Context()).Error("could not remove vectors of deleted elements", "ids", ids, "error", err)
	}
}

// CreatePartyHandler godoc
// @Summary      Create a political party
// @Tags         Forces
// @Accept       json
// @Produce      json
// @Param        request  body      api.PartyCreateRequest  true  "Party"
// @Success      200      {object}  forcesModel.PoliticalParty
// @Failure      400      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /parties [post]
func (h *Handler) CreatePartyHandler(w http.ResponseWriter, r *http.Request) {
	var req api.PartyCreateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	party, err := h.forces.CreateParty(req.Nom, req.Description, req.LogoURL)
	if err != nil {
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, party)
}

// ListPartiesHandler godoc
// @Summary      List political parties
// @Tags         Forces
// @Produce      json
// @Success      200  {array}  forcesModel.PoliticalParty
// @Security     BearerAuth
// @Router       /parties [get]
func (h *Handler) ListPartiesHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, h.forces.ListParties())
}

// GetPartyHandler godoc
// @Summary      Get a political party
// @Tags         Forces
// @Produce      json
// @Param        id   path      string  true  "Party ID"
// @Success      200  {object}  forcesModel.PoliticalParty
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /parties/{id} [get]
func (h *Handler) GetPartyHandler(w http.ResponseWriter, r *http.Request) {
	party, ok := h.forces.GetParty(utils.GetChiURLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "Party not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, party)
}

// UpdatePartyHandler godoc
// @Summary      Update a political party
// @Description  Only the fields present in the body are changed.
// @Tags         Forces
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Party ID"
// @Param        request  body      api.PartyUpdateRequest  true  "Fields to change"
// @Success      200      {object}  forcesModel.PoliticalParty
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /parties/{id} [put]
func (h *Handler) UpdatePartyHandler(w http.ResponseWriter, r *http.Request) {
	var req api.PartyUpdateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	party, err := h.forces.UpdateParty(utils.GetChiURLParam(r, "id"), forcesStore.PartyUpdate{
		Nom:         req.Nom,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, party)
}

// DeletePartyHandler godoc
// @Summary      Delete a political party
// @Description  Also deletes the party's elements, their media and their indexed vectors.
// @Tags         Forces
// @Produce      json
// @Param        id   path      string  true  "Party ID"
// @Success      200  {object}  api.StatusResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /parties/{id} [delete]
func (h *Handler) DeletePartyHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := h.forces.DeleteParty(utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	h.removeVectors(r, removed)
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "deleted"})
}

// CreateElementHandler godoc
// @Summary      Add a strength/weakness element
// @Description  Unknown types are stored as "autre". The element is indexed by the next forces indexing run.
// @Tags         Forces
// @Accept       json
// @Produce      json
// @Param        request  body      api.StrengthWeaknessCreateRequest  true  "Element"
// @Success      200      {object}  forcesModel.StrengthWeakness
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /forces-faiblesses [post]
func (h *Handler) CreateElementHandler(w http.ResponseWriter, r *http.Request) {
	var req api.StrengthWeaknessCreateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	el, err := h.forces.AddElement(forcesStore.NewElement{
		PartyId:   req.PartyId,
		Type:      req.Type,
		Contenu:   req.Contenu,
		Date:      req.Date,
		Categorie: req.Categorie,
		Resume:    req.Resume,
		Source:    req.Source,
		Auteur:    req.Auteur,
	})
	if err != nil {
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, el)
}

// ListElementsHandler godoc
// @Summary      List a party's elements
// @Description  An unknown type filter is ignored.
// @Tags         Forces
// @Produce      json
// @Param        id    path      string  true   "Party ID"
// @Param        type  query     string  false  "Element type"
// @Success      200   {array}   forcesModel.StrengthWeakness
// @Security     BearerAuth
// @Router       /forces-faiblesses/{id} [get]
func (h *Handler) ListElementsHandler(w http.ResponseWriter, r *http.Request) {
	elements := h.forces.ListElements(utils.GetChiURLParam(r, "id"))
	if t := forcesModel.TypeElement(r.URL.Query().Get("type")); slices.Contains(forcesModel.TypeElements, t) {
		elements = slices.DeleteFunc(elements, func(e forcesModel.StrengthWeakness) bool { return e.Type != t })
	}
	writeJsonResponse(w, http.StatusOK, elements)
}

// DeleteElementHandler godoc
// @Summary      Delete a strength/weakness element
// @Description  Also deletes its media and its indexed vector.
// @Tags         Forces
// @Produce      json
// @Param        id   path      string  true  "Element ID"
// @Success      200  {object}  api.StatusResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /forces-faiblesses/{id} [delete]
func (h *Handler) DeleteElementHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.GetChiURLParam(r, "id")
	if err := h.forces.DeleteElement(id); err != nil {
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	h.removeVectors(r, []string{id})
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "deleted"})
}

// ElementTypesHandler godoc
// @Summary      Element types
// @Tags         Forces
// @Produce      json
// @Success      200  {array}  string
// @Security     BearerAuth
// @Router       /elements-types [get]
func (h *Handler) ElementTypesHandler(w http.ResponseWriter, r *http.Request) {
	types := make([]string, len(forcesModel.TypeElements))
	for i, t := range forcesModel.TypeElements {
		types[i] = string(t)
	}
	writeJsonResponse(w, http.StatusOK, types)
}

// AddMediaHandler godoc
// @Summary      Attach a media file to an element
// @Tags         Forces
// @Accept       multipart/form-data
// @Produce      json
// @Param        element_id  formData  string  true   "Element ID"
// @Param        media_type  formData  string  true   "texte, image, video, audio or autre"
// @Param        importance  formData  int     false  "1 to 5"
// @Param        file        formData  file    true   "Media file"
// @Success      200  {object}  forcesModel.MediaFile
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /media-files [post]
func (h *Handler) AddMediaHandler(w http.ResponseWriter, r *http.Request) {
	log := logRH.WithTrace(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "File too large or bad request")
		return
	}
	elementId := r.FormValue("element_id")
	if _, ok := h.forces.GetElement(elementId); !ok {
		writeError(w, r, http.StatusNotFound, "Element not found")
		return
	}
	importance := 1
	if raw := r.FormValue("importance"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "importance must be an integer")
			return
		}
		importance = v
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if err := ensureDirectory(h.forces.UploadsDir()); err != nil {
		log.Error("Couldn't create uploads directory", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Storage error")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileMetadata.Filename))
	path := filepath.Join(h.forces.UploadsDir(), utils.GetNewUUID()+ext)
	if err := saveUpload(path, fileReader); err != nil {
		log.Error("Couldn't store media", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Write error")
		return
	}

	m, err := h.forces.AddMedia(elementId, path, r.FormValue("media_type"), importance)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Warn("Couldn't remove orphaned media", "path", path, "error", rmErr)
		}
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, m)
}

// ListMediaHandler godoc
// @Summary      Media files of an element
// @Tags         Forces
// @Produce      json
// @Param        id   path     string  true  "Element ID"
// @Success      200  {array}  forcesModel.MediaFile
// @Security     BearerAuth
// @Router       /media-files/{id} [get]
func (h *Handler) ListMediaHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, h.forces.MediaForElement(utils.GetChiURLParam(r, "id")))
}

// DeleteMediaHandler godoc
// @Summary      Delete a media file
// @Tags         Forces
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  api.StatusResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /media-files/{id} [delete]
func (h *Handler) DeleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.forces.DeleteMedia(utils.GetChiURLParam(r, "id")); err != nil {
		writeError(w, r, storeErrorStatus(err), err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "deleted"})
}

// DashboardSummaryHandler godoc
// @Summary      Dashboard summary
// @Description  Party count and the most recent elements by date.
// @Tags         Forces
// @Produce      json
// @Success      200  {object}  api.DashboardSummary
// @Security     BearerAuth
// @Router       /dashboard-summary [get]
func (h *Handler) DashboardSummaryHandler(w http.ResponseWriter, r *http.Request) {
	elements := h.forces.ListAllElements()
	slices.SortStableFunc(elements, func(a, b forcesModel.StrengthWeakness) int {
		return strings.Compare(b.Date, a.Date)
	})
	if len(elements) > recentElementsOnDashboard {
		elements = elements[:recentElementsOnDashboard]
	}
	writeJsonResponse(w, http.StatusOK, api.DashboardSummary{
		TotalParties: len(h.forces.ListParties()),
		RecentSW:     elements,
	})
}
