package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/repository"
	"github.com/paisatrack/backend/internal/service"
)

// MockSavingsService implements SavingsServiceInterface for testing
type MockSavingsService struct {
	mock.Mock
}

func (m *MockSavingsService) Create(ctx context.Context, userID uuid.UUID, input service.CreateSavingsGoalInput) (*model.SavingsGoal, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsGoal), args.Error(1)
}

func (m *MockSavingsService) Get(ctx context.Context, id, userID uuid.UUID) (*model.SavingsGoal, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsGoal), args.Error(1)
}

func (m *MockSavingsService) ListWithProgress(ctx context.Context, userID uuid.UUID) ([]service.SavingsGoalWithProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SavingsGoalWithProgress), args.Error(1)
}

func (m *MockSavingsService) Update(ctx context.Context, id, userID uuid.UUID, input service.UpdateSavingsGoalInput) (*model.SavingsGoal, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsGoal), args.Error(1)
}

func (m *MockSavingsService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockSavingsService) Contribute(ctx context.Context, goalID, userID uuid.UUID, input service.ContributeInput) (*service.ContributionResult, error) {
	args := m.Called(ctx, goalID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContributionResult), args.Error(1)
}

func (m *MockSavingsService) GetStreak(ctx context.Context, goalID, userID uuid.UUID) (*model.SavingsStreak, error) {
	args := m.Called(ctx, goalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsStreak), args.Error(1)
}

func (m *MockSavingsService) ListContributions(ctx context.Context, goalID, userID uuid.UUID) ([]model.SavingsContribution, error) {
	args := m.Called(ctx, goalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavingsContribution), args.Error(1)
}

func (m *MockSavingsService) Totals(ctx context.Context, userID uuid.UUID) (*model.SavingsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsSummary), args.Error(1)
}

func (m *MockSavingsService) AddMilestone(ctx context.Context, goalID, userID uuid.UUID, input service.AddMilestoneInput) (*model.SavingsMilestone, error) {
	args := m.Called(ctx, goalID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsMilestone), args.Error(1)
}

func (m *MockSavingsService) ListMilestones(ctx context.Context, goalID, userID uuid.UUID) ([]model.SavingsMilestone, error) {
	args := m.Called(ctx, goalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavingsMilestone), args.Error(1)
}

func (m *MockSavingsService) AchieveMilestone(ctx context.Context, goalID, milestoneID, userID uuid.UUID) (*model.SavingsMilestone, error) {
	args := m.Called(ctx, goalID, milestoneID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsMilestone), args.Error(1)
}

func TestNewSavingsHandler(t *testing.T) {
	mockService := new(MockSavingsService)
	handler := NewSavingsHandler(mockService)
	assert.NotNil(t, handler)
}

func TestSavingsHandler_Contribute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		goalID     string
		body       interface{}
		setupMock  func(*MockSavingsService, uuid.UUID, uuid.UUID)
		wantStatus int
	}{
		{
			name:   "success",
			goalID: uuid.New().String(),
			body:   map[string]interface{}{"amount": 500},
			setupMock: func(m *MockSavingsService, goalID, userID uuid.UUID) {
				m.On("Contribute", mock.Anything, goalID, userID, mock.AnythingOfType("service.ContributeInput")).Return(&service.ContributionResult{
					Goal:   &model.SavingsGoal{ID: goalID, CurrentAmount: decimal.NewFromInt(500)},
					Streak: &model.SavingsStreak{GoalID: goalID, CurrentStreak: 1, LongestStreak: 1},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid uuid",
			goalID:     "invalid",
			body:       map[string]interface{}{"amount": 500},
			setupMock:  func(m *MockSavingsService, goalID, userID uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid body",
			goalID:     uuid.New().String(),
			body:       "invalid",
			setupMock:  func(m *MockSavingsService, goalID, userID uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "goal not found",
			goalID: uuid.New().String(),
			body:   map[string]interface{}{"amount": 500},
			setupMock: func(m *MockSavingsService, goalID, userID uuid.UUID) {
				m.On("Contribute", mock.Anything, goalID, userID, mock.AnythingOfType("service.ContributeInput")).Return(nil, fmt.Errorf("contributing to goal %s: %w", goalID, repository.ErrSavingsGoalNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockSavingsService)
			handler := NewSavingsHandler(mockService)
			userID := uuid.New()
			goalID, _ := uuid.Parse(tt.goalID)

			tt.setupMock(mockService, goalID, userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/savings-goals/"+tt.goalID+"/contribute", bytes.NewReader(body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.goalID)
			req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.Contribute(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSavingsHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMock  func(*MockSavingsService, uuid.UUID)
		wantStatus int
	}{
		{
			name: "success",
			setupMock: func(m *MockSavingsService, userID uuid.UUID) {
				m.On("ListWithProgress", mock.Anything, userID).Return([]service.SavingsGoalWithProgress{
					{
						SavingsGoal: model.SavingsGoal{ID: uuid.New(), Name: "Emergency Fund"},
						Progress:    decimal.NewFromInt(25),
					},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "service error",
			setupMock: func(m *MockSavingsService, userID uuid.UUID) {
				m.On("ListWithProgress", mock.Anything, userID).Return(nil, errors.New("error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockSavingsService)
			handler := NewSavingsHandler(mockService)
			userID := uuid.New()

			tt.setupMock(mockService, userID)

			req := httptest.NewRequest(http.MethodGet, "/api/savings-goals", nil)
			req = req.WithContext(ctxWithUserID(userID))
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSavingsHandler_Streak(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	userID := uuid.New()

	mockService := new(MockSavingsService)
	handler := NewSavingsHandler(mockService)

	mockService.On("GetStreak", mock.Anything, goalID, userID).Return(&model.SavingsStreak{
		GoalID:        goalID,
		CurrentStreak: 4,
		LongestStreak: 9,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/savings-goals/"+goalID.String()+"/streak", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", goalID.String())
	req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Streak(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var streak model.SavingsStreak
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &streak))
	assert.Equal(t, 4, streak.CurrentStreak)
	assert.Equal(t, 9, streak.LongestStreak)
	mockService.AssertExpectations(t)
}

func TestSavingsHandler_Delete(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	userID := uuid.New()

	mockService := new(MockSavingsService)
	handler := NewSavingsHandler(mockService)

	mockService.On("Delete", mock.Anything, goalID, userID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/savings-goals/"+goalID.String(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", goalID.String())
	req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestSavingsHandler_AddMilestone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		goalID     string
		body       interface{}
		setupMock  func(*MockSavingsService, uuid.UUID, uuid.UUID)
		wantStatus int
	}{
		{
			name:   "success",
			goalID: uuid.New().String(),
			body:   map[string]interface{}{"amount": 5000, "description": "halfway"},
			setupMock: func(m *MockSavingsService, goalID, userID uuid.UUID) {
				m.On("AddMilestone", mock.Anything, goalID, userID, mock.AnythingOfType("service.AddMilestoneInput")).Return(&model.SavingsMilestone{
					ID:          uuid.New(),
					GoalID:      goalID,
					Amount:      decimal.NewFromInt(5000),
					Description: "halfway",
				}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid uuid",
			goalID:     "invalid",
			body:       map[string]interface{}{"amount": 5000},
			setupMock:  func(m *MockSavingsService, goalID, userID uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "goal not found",
			goalID: uuid.New().String(),
			body:   map[string]interface{}{"amount": 5000},
			setupMock: func(m *MockSavingsService, goalID, userID uuid.UUID) {
				m.On("AddMilestone", mock.Anything, goalID, userID, mock.AnythingOfType("service.AddMilestoneInput")).Return(nil, repository.ErrSavingsGoalNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockSavingsService)
			handler := NewSavingsHandler(mockService)
			userID := uuid.New()
			goalID, _ := uuid.Parse(tt.goalID)

			tt.setupMock(mockService, goalID, userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/savings-goals/"+tt.goalID+"/milestones", bytes.NewReader(body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.goalID)
			req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.AddMilestone(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSavingsHandler_AchieveMilestone(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(mockService)
		userID := uuid.New()
		goalID := uuid.New()
		milestoneID := uuid.New()
		achieved := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

		mockService.On("AchieveMilestone", mock.Anything, goalID, milestoneID, userID).Return(&model.SavingsMilestone{
			ID:         milestoneID,
			GoalID:     goalID,
			Amount:     decimal.NewFromInt(5000),
			AchievedAt: &achieved,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/savings-goals/"+goalID.String()+"/milestones/"+milestoneID.String()+"/achieve", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", goalID.String())
		rctx.URLParams.Add("milestoneId", milestoneID.String())
		req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		handler.AchieveMilestone(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got model.SavingsMilestone
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.NotNil(t, got.AchievedAt)
	})

	t.Run("unknown milestone", func(t *testing.T) {
		t.Parallel()

		mockService := new(MockSavingsService)
		handler := NewSavingsHandler(mockService)
		userID := uuid.New()
		goalID := uuid.New()
		milestoneID := uuid.New()

		mockService.On("AchieveMilestone", mock.Anything, goalID, milestoneID, userID).Return(nil, repository.ErrMilestoneNotFound)

		req := httptest.NewRequest(http.MethodPost, "/api/savings-goals/"+goalID.String()+"/milestones/"+milestoneID.String()+"/achieve", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", goalID.String())
		rctx.URLParams.Add("milestoneId", milestoneID.String())
		req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		handler.AchieveMilestone(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
