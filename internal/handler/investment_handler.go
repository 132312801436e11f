package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/service"
)

type InvestmentHandler struct {
	service InvestmentServiceInterface
}

func NewInvestmentHandler(service InvestmentServiceInterface) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

// Create godoc
// @Summary Create an investment
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateInvestmentInput true "Investment data"
// @Success 201 {object} model.Investment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /investments [post]
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateInvestmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.service.Create(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to create investment")
		return
	}

	respondJSON(w, http.StatusCreated, inv)
}

// Get godoc
// @Summary Get an investment
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Investment ID"
// @Success 200 {object} model.Investment
// @Failure 404 {object} ErrorResponse
// @Router /investments/{id} [get]
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	inv, err := h.service.Get(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to get investment")
		return
	}

	respondJSON(w, http.StatusOK, inv)
}

// List godoc
// @Summary List investments
// @Description Investments with ROI and annualized return attached
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.InvestmentWithReturns
// @Failure 401 {object} ErrorResponse
// @Router /investments [get]
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	investments, err := h.service.ListWithReturns(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list investments")
		return
	}
	respondJSON(w, http.StatusOK, investments)
}

// Update godoc
// @Summary Update an investment
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Investment ID"
// @Param input body service.UpdateInvestmentInput true "Updated investment data"
// @Success 200 {object} model.Investment
// @Failure 404 {object} ErrorResponse
// @Router /investments/{id} [put]
func (h *InvestmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.UpdateInvestmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.service.Update(r.Context(), id, GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to update investment")
		return
	}

	respondJSON(w, http.StatusOK, inv)
}

// Delete godoc
// @Summary Delete an investment
// @Tags investments
// @Security BearerAuth
// @Param id path string true "Investment ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /investments/{id} [delete]
func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id, GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "failed to delete investment")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// PortfolioSummary godoc
// @Summary Portfolio summary
// @Description Totals, gain/loss and allocation by type and risk
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PortfolioSummary
// @Failure 401 {object} ErrorResponse
// @Router /investments/portfolio/summary [get]
func (h *InvestmentHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PortfolioSummary(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to summarize portfolio")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type riskScoreResponse struct {
	RiskScore int `json:"riskScore"` // 0-100
}

// RiskScore godoc
// @Summary Portfolio risk score
// @Description Value-weighted risk on a 0-100 scale
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} riskScoreResponse
// @Failure 401 {object} ErrorResponse
// @Router /investments/portfolio/risk-score [get]
func (h *InvestmentHandler) RiskScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.RiskScore(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to compute risk score")
		return
	}
	respondJSON(w, http.StatusOK, riskScoreResponse{RiskScore: score})
}

// Rebalance godoc
// @Summary Rebalance suggestions
// @Description Allocation drifts beyond 5 points against the target mix
// @Tags investments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.RebalanceSuggestion
// @Failure 401 {object} ErrorResponse
// @Router /investments/portfolio/rebalance [get]
func (h *InvestmentHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.SuggestRebalance(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to compute rebalance suggestions")
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}

type riskProfileResponse struct {
	RiskProfile model.RiskProfile `json:"riskProfile"`
}

// AssessRiskProfile godoc
// @Summary Assess risk profile
// @Description Score a short questionnaire into a risk profile
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.RiskAssessmentInput true "Questionnaire answers"
// @Success 200 {object} riskProfileResponse
// @Failure 400 {object} ErrorResponse
// @Router /investments/risk-profile [post]
func (h *InvestmentHandler) AssessRiskProfile(w http.ResponseWriter, r *http.Request) {
	var input service.RiskAssessmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Age <= 0 || input.Age > 120 {
		respondError(w, http.StatusBadRequest, "age must be between 1 and 120")
		return
	}

	respondJSON(w, http.StatusOK, riskProfileResponse{RiskProfile: service.AssessRiskProfile(input)})
}
