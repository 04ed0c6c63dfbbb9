package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
	"dernek-backend/internal/services"
	"dernek-backend/pkg/utils"
)

// NotificationHandler handles bulk dispatch and the delivery log
type NotificationHandler struct {
	Notifications *services.NotificationService
	Logs          *repositories.NotificationLogRepository
}

func NewNotificationHandler(notifications *services.NotificationService, logs *repositories.NotificationLogRepository) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications, Logs: logs}
}

// SendBulkEmail dispatches an email blast (admin)
// POST /api/notifications/email
func (h *NotificationHandler) SendBulkEmail(w http.ResponseWriter, r *http.Request) {
	var req models.BulkEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Notifications.SendBulkEmail(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// SendBulkSMS dispatches an SMS blast (admin)
// POST /api/notifications/sms
func (h *NotificationHandler) SendBulkSMS(w http.ResponseWriter, r *http.Request) {
	var req models.BulkSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Notifications.SendBulkSMS(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// ListLogs returns recent delivery attempts, filterable by ?channel= and
// ?limit=
// GET /api/notifications/logs
func (h *NotificationHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	logs, err := h.Logs.List(r.Context(), r.URL.Query().Get("channel"), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}
