package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paisatrack/backend/internal/service"
)

type SavingsHandler struct {
	service SavingsServiceInterface
}

func NewSavingsHandler(service SavingsServiceInterface) *SavingsHandler {
	return &SavingsHandler{service: service}
}

// Create godoc
// @Summary Create a savings goal
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateSavingsGoalInput true "Savings goal data"
// @Success 201 {object} model.SavingsGoal
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /savings-goals [post]
func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSavingsGoalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.service.Create(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to create savings goal")
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

// Get godoc
// @Summary Get a savings goal
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Success 200 {object} model.SavingsGoal
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id} [get]
func (h *SavingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	goal, err := h.service.Get(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to get savings goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// List godoc
// @Summary List savings goals
// @Description Goals with progress percentage and days to deadline
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.SavingsGoalWithProgress
// @Failure 401 {object} ErrorResponse
// @Router /savings-goals [get]
func (h *SavingsHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.service.ListWithProgress(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list savings goals")
		return
	}
	respondJSON(w, http.StatusOK, goals)
}

// Update godoc
// @Summary Update a savings goal
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Param input body service.UpdateSavingsGoalInput true "Updated goal data"
// @Success 200 {object} model.SavingsGoal
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id} [put]
func (h *SavingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.UpdateSavingsGoalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.service.Update(r.Context(), id, GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to update savings goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// Delete godoc
// @Summary Delete a savings goal
// @Tags savings-goals
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id} [delete]
func (h *SavingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id, GetUserID(r.Context())); err != nil {
		respondServiceError(w, err, "failed to delete savings goal")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Contribute godoc
// @Summary Contribute to a goal
// @Description Record a contribution; updates the goal balance and streak atomically
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Param input body service.ContributeInput true "Contribution"
// @Success 200 {object} service.ContributionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id}/contribute [post]
func (h *SavingsHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.ContributeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Contribute(r.Context(), id, GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to record contribution")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Streak godoc
// @Summary Contribution streak
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Success 200 {object} model.SavingsStreak
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id}/streak [get]
func (h *SavingsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	streak, err := h.service.GetStreak(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to get streak")
		return
	}

	respondJSON(w, http.StatusOK, streak)
}

// Contributions godoc
// @Summary Contribution history
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Success 200 {array} model.SavingsContribution
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id}/contributions [get]
func (h *SavingsHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	contributions, err := h.service.ListContributions(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list contributions")
		return
	}

	respondJSON(w, http.StatusOK, contributions)
}

// AddMilestone godoc
// @Summary Add a milestone to a goal
// @Tags savings-goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Param input body service.AddMilestoneInput true "Milestone"
// @Success 201 {object} model.SavingsMilestone
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id}/milestones [post]
func (h *SavingsHandler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.AddMilestoneInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	milestone, err := h.service.AddMilestone(r.Context(), id, GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to add milestone")
		return
	}

	respondJSON(w, http.StatusCreated, milestone)
}

// Milestones godoc
// @Summary List a goal's milestones
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Success 200 {array} model.SavingsMilestone
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id}/milestones [get]
func (h *SavingsHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	milestones, err := h.service.ListMilestones(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list milestones")
		return
	}

	respondJSON(w, http.StatusOK, milestones)
}

// AchieveMilestone godoc
// @Summary Mark a milestone achieved
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Savings Goal ID"
// @Param milestoneId path string true "Milestone ID"
// @Success 200 {object} model.SavingsMilestone
// @Failure 404 {object} ErrorResponse
// @Router /savings-goals/{id}/milestones/{milestoneId}/achieve [post]
func (h *SavingsHandler) AchieveMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	milestoneID, err := uuid.Parse(chi.URLParam(r, "milestoneId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid milestone id")
		return
	}

	milestone, err := h.service.AchieveMilestone(r.Context(), id, milestoneID, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to achieve milestone")
		return
	}

	respondJSON(w, http.StatusOK, milestone)
}

// Summary godoc
// @Summary Savings totals
// @Description Total saved and total targeted across all goals
// @Tags savings-goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SavingsSummary
// @Failure 401 {object} ErrorResponse
// @Router /savings-goals/summary [get]
func (h *SavingsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Totals(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to summarize savings")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
