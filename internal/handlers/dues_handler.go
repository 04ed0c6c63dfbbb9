package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dernek-backend/internal/models"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// DuesHandler handles the dues catalog and obligation list endpoints
type DuesHandler struct {
	Dues *services.DuesService
}

func NewDuesHandler(dues *services.DuesService) *DuesHandler {
	return &DuesHandler{Dues: dues}
}

// CreateDues creates a catalog entry (admin)
// POST /api/dues
func (h *DuesHandler) CreateDues(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dues, err := h.Dues.CreateDues(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, dues)
}

// ListDues returns the catalog
// GET /api/dues
func (h *DuesHandler) ListDues(w http.ResponseWriter, r *http.Request) {
	dues, err := h.Dues.ListDues(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dues)
}

// GetDues returns one catalog entry
// GET /api/dues/{id}
func (h *DuesHandler) GetDues(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid dues ID")
		return
	}

	dues, err := h.Dues.GetDues(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Dues entry not found")
		return
	}
	utils.JSON(w, http.StatusOK, dues)
}

// UpdateDues edits a catalog entry (admin). Editing the amount does not
// recompute existing obligation statuses.
// PUT /api/dues/{id}
func (h *DuesHandler) UpdateDues(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid dues ID")
		return
	}

	var req models.UpdateDuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dues, err := h.Dues.UpdateDues(r.Context(), id, &req)
	if err != nil {
		if err == services.ErrDuesNotFound {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dues)
}

// DeleteDues removes a catalog entry (root only)
// DELETE /api/dues/{id}
func (h *DuesHandler) DeleteDues(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid dues ID")
		return
	}

	if err := h.Dues.DeleteDues(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Dues entry deleted"})
}

// ListObligations returns obligations filtered by ?member_id= or ?dues_id=
// GET /api/obligations
func (h *DuesHandler) ListObligations(w http.ResponseWriter, r *http.Request) {
	memberID, _ := strconv.Atoi(r.URL.Query().Get("member_id"))
	duesID, _ := strconv.Atoi(r.URL.Query().Get("dues_id"))

	obligations, err := h.Dues.ListObligations(r.Context(), memberID, duesID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, obligations)
}
