package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dernek-backend/internal/middleware"
	"dernek-backend/internal/models"
	"dernek-backend/internal/services"
	"dernek-backend/internal/timeutil"
	"dernek-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// TransactionHandler handles the treasury book
type TransactionHandler struct {
	Transactions *services.TransactionService
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions}
}

func parseDateParam(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := timeutil.ParseInTRT(timeutil.DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Create records a manual income or expense entry (admin)
// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.Transactions.Create(r.Context(), &req, memberID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, txn)
}

// List returns transactions, optionally windowed by ?from= and ?to=
// GET /api/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	from := parseDateParam(r.URL.Query().Get("from"))
	to := parseDateParam(r.URL.Query().Get("to"))

	txns, err := h.Transactions.List(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, txns)
}

// Summary returns income/expense totals for the window
// GET /api/transactions/summary
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	if p := parseDateParam(r.URL.Query().Get("from")); p != nil {
		from = *p
	}
	if p := parseDateParam(r.URL.Query().Get("to")); p != nil {
		to = *p
	}

	summary, err := h.Transactions.Summary(r.Context(), from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// Delete removes a transaction (root only)
// DELETE /api/transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	if err := h.Transactions.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}
