package handler

import (
	"net/http"
)

type RatesHandler struct {
	rates RateListerInterface
}

func NewRatesHandler(rates RateListerInterface) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// List godoc
// @Summary List fixed deposit rates
// @Description Latest scraped FD rates by bank and term, public endpoint
// @Tags interest-rates
// @Produce json
// @Success 200 {array} model.InterestRate
// @Failure 500 {object} ErrorResponse
// @Router /interest-rates [get]
func (h *RatesHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rates.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list interest rates")
		return
	}
	respondJSON(w, http.StatusOK, rates)
}
