package handlers

import (
	"encoding/json"
	"net/http"

	"dernek-backend/internal/auth"
	"dernek-backend/internal/models"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"
)

// AuthHandler handles signup, login and the 2FA challenge step
type AuthHandler struct {
	Members    *services.MemberService
	TOTP       *services.TOTPService
	JWTManager *auth.JWTManager
}

func NewAuthHandler(members *services.MemberService, totpService *services.TOTPService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		Members:    members,
		TOTP:       totpService,
		JWTManager: jwtManager,
	}
}

// Signup registers a self-service member account
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Members.Signup(r.Context(), &req)
	if err != nil {
		status := http.StatusBadRequest
		if err == services.ErrEmailTaken {
			status = http.StatusConflict
		}
		utils.Error(w, status, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

// Login authenticates a member. Accounts with 2FA enabled get a short-lived
// challenge token instead of a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Members.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	enabled, err := h.TOTP.IsEnabled(r.Context(), resp.Member.ID)
	if err == nil && enabled {
		tempToken, terr := h.JWTManager.GenerateTempToken(resp.Member)
		if terr != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to start 2FA challenge")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"requires_2fa": true,
			"temp_token":   tempToken,
		})
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Verify2FA exchanges a valid challenge token plus TOTP code for a session
// token
// POST /api/auth/2fa/verify
func (h *AuthHandler) Verify2FA(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempToken string `json:"temp_token"`
		Code      string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, err := h.JWTManager.ValidateTempToken(req.TempToken)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid or expired challenge token")
		return
	}

	if err := h.TOTP.Verify(r.Context(), claims.MemberID, req.Code); err != nil {
		utils.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	member, err := h.Members.GetMember(r.Context(), claims.MemberID)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Member not found")
		return
	}

	token, err := h.JWTManager.GenerateToken(member)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	utils.JSON(w, http.StatusOK, &models.AuthResponse{Token: token, Member: member})
}
