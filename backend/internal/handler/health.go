package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/logger"
	"github.com/feedbackhub/feedbackhub/shared/utils"
)

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports whether the issue store answers. Returns 503 when it does not.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	// Use a short timeout for health checks
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		logger.Log.Warn("health check failed", "error", err)
		utils.WriteJSONStatus(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	utils.WriteJSON(w, healthResponse{Status: "ok"})
}
