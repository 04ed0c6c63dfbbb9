package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dernek-backend/internal/middleware"
	"dernek-backend/internal/models"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// MemberHandler handles the member registry endpoints
type MemberHandler struct {
	Members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{Members: members}
}

// CreateMember creates a registry entry (admin)
// POST /api/members
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.Members.CreateMember(r.Context(), &req)
	if err != nil {
		status := http.StatusBadRequest
		if err == services.ErrEmailTaken {
			status = http.StatusConflict
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, member)
}

// ListMembers returns the registry, optionally filtered by ?search=
// GET /api/members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.ListMembers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, members)
}

// GetMember returns one member
// GET /api/members/{id}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid member ID")
		return
	}

	member, err := h.Members.GetMember(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Member not found")
		return
	}
	utils.JSON(w, http.StatusOK, member)
}

// Me returns the authenticated member's own record
// GET /api/members/me
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	member, err := h.Members.GetMember(r.Context(), memberID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Member not found")
		return
	}
	utils.JSON(w, http.StatusOK, member)
}

// UpdateMember updates a registry entry (admin)
// PUT /api/members/{id}
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid member ID")
		return
	}

	var req models.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.Members.UpdateMember(r.Context(), id, &req)
	if err != nil {
		if err == services.ErrMemberNotFound {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, member)
}

// DeleteMember removes a registry entry (root only)
// DELETE /api/members/{id}
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid member ID")
		return
	}

	if err := h.Members.DeleteMember(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Member deleted"})
}
