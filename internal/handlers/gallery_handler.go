package handlers

import (
	"net/http"
	"strconv"

	"dernek-backend/internal/middleware"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// Upload size cap for gallery media
const maxMediaSize = 50 << 20 // 50 MB

// GalleryHandler handles media uploads and listing
type GalleryHandler struct {
	Gallery *services.GalleryService
}

func NewGalleryHandler(gallery *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{Gallery: gallery}
}

// Upload accepts a multipart media upload (admin)
// POST /api/gallery
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMediaSize)
	if err := r.ParseMultipartForm(maxMediaSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	item, err := h.Gallery.Upload(r.Context(),
		r.FormValue("title"), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file, memberID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, item)
}

// List returns all gallery items
// GET /api/gallery
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Gallery.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

// Delete removes a gallery item and its stored object (admin)
// DELETE /api/gallery/{id}
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid gallery item ID")
		return
	}

	if err := h.Gallery.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Gallery item deleted"})
}
