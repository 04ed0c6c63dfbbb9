package handlers

import (
	"net/http"
	"strconv"

	"dernek-backend/internal/middleware"
	"dernek-backend/internal/models"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"
)

// DebtHandler serves the dashboard aggregates and the debtor list
type DebtHandler struct {
	Debts *services.DebtService
}

func NewDebtHandler(debts *services.DebtService) *DebtHandler {
	return &DebtHandler{Debts: debts}
}

// Summary returns org-wide aggregates for admins, or the caller's own when
// ?member_id= is set or the caller is a regular member
// GET /api/debts/summary
func (h *DebtHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	memberID, _ := strconv.Atoi(r.URL.Query().Get("member_id"))

	// Regular members only ever see their own numbers
	role, _ := middleware.GetRoleFromContext(ctx)
	if role == models.RoleMember {
		callerID, ok := middleware.GetMemberIDFromContext(ctx)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		memberID = callerID
	}

	summary, err := h.Debts.Summary(ctx, memberID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// Debtors returns the per-member outstanding list (admin)
// GET /api/debts/debtors
func (h *DebtHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.Debts.Debtors(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, debtors)
}
