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

// PaymentHandler handles payment posting, editing and deletion
type PaymentHandler struct {
	Payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

// PostPayment records a payment against a (member, dues) pair
// POST /api/payments
func (h *PaymentHandler) PostPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PostPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MemberID == 0 || req.DuesID == 0 {
		utils.Error(w, http.StatusBadRequest, "member_id and dues_id are required")
		return
	}
	if actorID, ok := middleware.GetMemberIDFromContext(r.Context()); ok {
		req.PostedBy = actorID
	}

	obligation, err := h.Payments.PostPayment(r.Context(), &req)
	if err != nil {
		switch err {
		case services.ErrInvalidAmount, services.ErrDuesNotFound:
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusCreated, obligation)
}

// EditPayment replaces the stored paid amount of an obligation (admin)
// PUT /api/payments/{id}
func (h *PaymentHandler) EditPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var req models.EditPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	obligation, err := h.Payments.EditPayment(r.Context(), id, &req)
	if err != nil {
		switch err {
		case services.ErrObligationNotFound:
			utils.Error(w, http.StatusNotFound, err.Error())
		case services.ErrInvalidAmount:
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusOK, obligation)
}

// DeletePayment removes an obligation row (root only, enforced by the route)
// DELETE /api/payments/{id}
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	if err := h.Payments.DeletePayment(r.Context(), id); err != nil {
		if err == services.ErrObligationNotFound {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Payment deleted"})
}
