package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paisatrack/backend/internal/service"
)

type DebtHandler struct {
	service DebtServiceInterface
}

func NewDebtHandler(service DebtServiceInterface) *DebtHandler {
	return &DebtHandler{service: service}
}

// Create godoc
// @Summary Create a debt
// @Description Track a new loan, credit card or EMI
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateDebtInput true "Debt data"
// @Success 201 {object} model.Debt
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /debts [post]
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateDebtInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debt, err := h.service.Create(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to create debt")
		return
	}

	respondJSON(w, http.StatusCreated, debt)
}

// Get godoc
// @Summary Get a debt
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} model.Debt
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id} [get]
func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	debt, err := h.service.Get(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to get debt")
		return
	}

	respondJSON(w, http.StatusOK, debt)
}

// List godoc
// @Summary List debts
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Debt
// @Failure 401 {object} ErrorResponse
// @Router /debts [get]
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	debts, err := h.service.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list debts")
		return
	}
	respondJSON(w, http.StatusOK, debts)
}

// Update godoc
// @Summary Update a debt
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param input body service.UpdateDebtInput true "Updated debt data"
// @Success 200 {object} model.Debt
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id} [put]
func (h *DebtHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.UpdateDebtInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debt, err := h.service.Update(r.Context(), id, GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to update debt")
		return
	}

	respondJSON(w, http.StatusOK, debt)
}

// Delete godoc
// @Summary Delete a debt
// @Tags debts
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id} [delete]
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id, GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "failed to delete debt")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Summary godoc
// @Summary Debt summary
// @Description Total debt, unweighted average interest rate and count
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DebtSummary
// @Failure 401 {object} ErrorResponse
// @Router /debts/summary [get]
func (h *DebtHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to summarize debts")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type payoffDateResponse struct {
	PayoffDate *time.Time `json:"payoffDate"`
}

// PayoffDate godoc
// @Summary Projected payoff date
// @Description Due date plus one month per remaining EMI; null without EMI terms
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} payoffDateResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id}/payoff-date [get]
func (h *DebtHandler) PayoffDate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	payoff, err := h.service.PayoffDate(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to project payoff date")
		return
	}

	respondJSON(w, http.StatusOK, payoffDateResponse{PayoffDate: payoff})
}
