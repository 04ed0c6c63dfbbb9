package handlers

import (
	"net/http"
	"strconv"

	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// ExportHandler serves CSV and PDF downloads
type ExportHandler struct {
	Exports *services.ExportService
}

func NewExportHandler(exports *services.ExportService) *ExportHandler {
	return &ExportHandler{Exports: exports}
}

// MembersCSV downloads the registry
// GET /api/exports/members.csv
func (h *ExportHandler) MembersCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Exports.MembersCSV(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Attachment(w, "text/csv; charset=utf-8", "uyeler.csv", data)
}

// DebtorsCSV downloads the outstanding-balance list
// GET /api/exports/debtors.csv
func (h *ExportHandler) DebtorsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Exports.DebtorsCSV(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Attachment(w, "text/csv; charset=utf-8", "borclular.csv", data)
}

// DuesReportCSV downloads every obligation against one dues entry
// GET /api/exports/dues/{id}.csv
func (h *ExportHandler) DuesReportCSV(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid dues ID")
		return
	}

	data, err := h.Exports.DuesReportCSV(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Attachment(w, "text/csv; charset=utf-8", "aidat-raporu.csv", data)
}

// EventParticipantsCSV downloads the RSVP list for an event
// GET /api/exports/events/{id}.csv
func (h *ExportHandler) EventParticipantsCSV(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	data, err := h.Exports.EventParticipantsCSV(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Attachment(w, "text/csv; charset=utf-8", "katilimcilar.csv", data)
}

// ReceiptPDF downloads a printable receipt for an obligation
// GET /api/exports/receipts/{id}.pdf
func (h *ExportHandler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	data, err := h.Exports.ReceiptPDF(r.Context(), id)
	if err != nil {
		if err == services.ErrObligationNotFound {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Attachment(w, "application/pdf", "makbuz.pdf", data)
}

// DebtorsPDF downloads the printable debtor table
// GET /api/exports/debtors.pdf
func (h *ExportHandler) DebtorsPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.Exports.DebtorsPDF(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Attachment(w, "application/pdf", "borclular.pdf", data)
}
