package handlers

import (
	"net/http"

	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// Upload size cap for CSV imports
const maxImportSize = 10 << 20 // 10 MB

// ImportHandler handles bulk CSV uploads
type ImportHandler struct {
	Imports *services.ImportService
}

func NewImportHandler(imports *services.ImportService) *ImportHandler {
	return &ImportHandler{Imports: imports}
}

// Run accepts a multipart CSV upload and executes the batch. The kind path
// segment selects debts, payments or members.
// POST /api/imports/{kind}
func (h *ImportHandler) Run(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	result, err := h.Imports.Run(r.Context(), kind, file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
