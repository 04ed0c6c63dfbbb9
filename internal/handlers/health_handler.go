package handlers

import (
	"net/http"

	"dernek-backend/internal/health"
	"dernek-backend/pkg/utils"
)

// HealthHandler serves liveness and the admin system panel
type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

// Check reports service and database health
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// SystemStats reports host CPU, memory and disk usage (root only)
// GET /api/system/stats
func (h *HealthHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, health.CollectSystemStats())
}
