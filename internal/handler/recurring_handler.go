package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/service"
)

type RecurringHandler struct {
	service RecurringServiceInterface
}

func NewRecurringHandler(service RecurringServiceInterface) *RecurringHandler {
	return &RecurringHandler{service: service}
}

// Create godoc
// @Summary Create a recurring transaction
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateRecurringInput true "Recurring transaction data"
// @Success 201 {object} model.RecurringTransaction
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /recurring [post]
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateRecurringInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rt, err := h.service.Create(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to create recurring transaction")
		return
	}

	respondJSON(w, http.StatusCreated, rt)
}

// Get godoc
// @Summary Get a recurring transaction
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recurring Transaction ID"
// @Success 200 {object} model.RecurringTransaction
// @Failure 404 {object} ErrorResponse
// @Router /recurring/{id} [get]
func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	rt, err := h.service.Get(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to get recurring transaction")
		return
	}

	respondJSON(w, http.StatusOK, rt)
}

// List godoc
// @Summary List recurring transactions
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.RecurringTransaction
// @Failure 401 {object} ErrorResponse
// @Router /recurring [get]
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	rts, err := h.service.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list recurring transactions")
		return
	}
	respondJSON(w, http.StatusOK, rts)
}

// Update godoc
// @Summary Update a recurring transaction
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recurring Transaction ID"
// @Param input body service.UpdateRecurringInput true "Updated data"
// @Success 200 {object} model.RecurringTransaction
// @Failure 404 {object} ErrorResponse
// @Router /recurring/{id} [put]
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.UpdateRecurringInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rt, err := h.service.Update(r.Context(), id, GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to update recurring transaction")
		return
	}

	respondJSON(w, http.StatusOK, rt)
}

type setActiveInput struct {
	IsActive bool `json:"isActive"`
}

// SetActive godoc
// @Summary Pause or resume a recurring transaction
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recurring Transaction ID"
// @Param input body setActiveInput true "Active flag"
// @Success 200 {object} model.RecurringTransaction
// @Failure 404 {object} ErrorResponse
// @Router /recurring/{id}/active [put]
func (h *RecurringHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input setActiveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rt, err := h.service.SetActive(r.Context(), id, GetUserID(r.Context()), input.IsActive)
	if err != nil {
		respondServiceError(w, err, "failed to update recurring transaction")
		return
	}

	respondJSON(w, http.StatusOK, rt)
}

// Delete godoc
// @Summary Delete a recurring transaction
// @Tags recurring
// @Security BearerAuth
// @Param id path string true "Recurring Transaction ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /recurring/{id} [delete]
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id, GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "failed to delete recurring transaction")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type monthlyNetResponse struct {
	MonthlyNet decimal.Decimal `json:"monthlyNet"`
}

// MonthlyNet godoc
// @Summary Monthly net of recurring entries
// @Description Monthly-equivalent income minus expenses across active entries
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Success 200 {object} monthlyNetResponse
// @Failure 401 {object} ErrorResponse
// @Router /recurring/monthly-net [get]
func (h *RecurringHandler) MonthlyNet(w http.ResponseWriter, r *http.Request) {
	net, err := h.service.MonthlyNet(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to compute monthly net")
		return
	}
	respondJSON(w, http.StatusOK, monthlyNetResponse{MonthlyNet: net})
}
