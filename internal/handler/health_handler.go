package handler

import (
	"net/http"
)

type HealthHandler struct {
	service HealthServiceInterface
}

func NewHealthHandler(service HealthServiceInterface) *HealthHandler {
	return &HealthHandler{service: service}
}

// Calculate godoc
// @Summary Financial health score
// @Description Composite 0-100 score with component breakdown and trend
// @Tags financial-health
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.FinancialHealth
// @Failure 401 {object} ErrorResponse
// @Router /financial-health [get]
func (h *HealthHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	health, err := h.service.Calculate(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to calculate financial health")
		return
	}
	respondJSON(w, http.StatusOK, health)
}
