package handlers

import (
	"encoding/json"
	"net/http"

	"dernek-backend/internal/middleware"
	"dernek-backend/internal/models"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"
)

// TOTPHandler manages 2FA enrollment for the authenticated member
type TOTPHandler struct {
	TOTP    *services.TOTPService
	Members *services.MemberService
}

func NewTOTPHandler(totpService *services.TOTPService, members *services.MemberService) *TOTPHandler {
	return &TOTPHandler{TOTP: totpService, Members: members}
}

// Setup starts enrollment and returns the secret plus QR code
// POST /api/2fa/setup
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.TOTP.GenerateSetup(r.Context(), member)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Enable verifies the first code and turns 2FA on
// POST /api/2fa/enable
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.TOTP.VerifyAndEnable(r.Context(), memberID, req.Code); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "2FA enabled"})
}

// Disable removes the enrollment
// POST /api/2fa/disable
func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.TOTP.Disable(r.Context(), memberID); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "2FA disabled"})
}
