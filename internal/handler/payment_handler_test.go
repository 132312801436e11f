package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paisatrack/backend/internal/apperror"
	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/service"
)

// MockPaymentService implements PaymentServiceInterface for testing
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Initiate(ctx context.Context, userID uuid.UUID, input service.InitiatePaymentInput) (*model.Payment, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Verify(ctx context.Context, userID uuid.UUID, input service.VerifyPaymentInput) (*model.Payment, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Refund(ctx context.Context, id, userID uuid.UUID) (*model.Payment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Payment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func TestPaymentHandler_Initiate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		setupMock  func(*MockPaymentService, uuid.UUID)
		wantStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{
				"amount":        1500,
				"recipientUPI":  "landlord@upi",
				"recipientName": "Landlord",
				"description":   "August rent",
			},
			setupMock: func(m *MockPaymentService, userID uuid.UUID) {
				m.On("Initiate", mock.Anything, userID, mock.AnythingOfType("service.InitiatePaymentInput")).Return(&model.Payment{
					ID:      uuid.New(),
					UserID:  userID,
					OrderID: "order_mock_abc",
					Status:  model.PaymentInitiated,
				}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid body",
			body:       "invalid",
			setupMock:  func(m *MockPaymentService, userID uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "amount over limit",
			body: map[string]interface{}{"amount": 200000, "recipientUPI": "x@upi"},
			setupMock: func(m *MockPaymentService, userID uuid.UUID) {
				m.On("Initiate", mock.Anything, userID, mock.AnythingOfType("service.InitiatePaymentInput")).Return(nil, apperror.ValidationError("amount", "amount exceeds the per-transaction limit"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "gateway down",
			body: map[string]interface{}{"amount": 1500, "recipientUPI": "x@upi"},
			setupMock: func(m *MockPaymentService, userID uuid.UUID) {
				m.On("Initiate", mock.Anything, userID, mock.AnythingOfType("service.InitiatePaymentInput")).Return(nil, apperror.BadGateway(errors.New("timeout"), "payment gateway unavailable"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockPaymentService)
			handler := NewPaymentHandler(mockService)
			userID := uuid.New()

			tt.setupMock(mockService, userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/payments/initiate", bytes.NewReader(body))
			req = req.WithContext(ctxWithUserID(userID))
			w := httptest.NewRecorder()

			handler.Initiate(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_Verify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		setupMock  func(*MockPaymentService, uuid.UUID)
		wantStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{
				"orderId":   "order_123",
				"paymentId": "pay_456",
				"signature": "deadbeef",
			},
			setupMock: func(m *MockPaymentService, userID uuid.UUID) {
				m.On("Verify", mock.Anything, userID, mock.AnythingOfType("service.VerifyPaymentInput")).Return(&model.Payment{
					ID:     uuid.New(),
					Status: model.PaymentSuccess,
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "forged signature",
			body: map[string]interface{}{"orderId": "order_123", "paymentId": "pay_456", "signature": "bogus"},
			setupMock: func(m *MockPaymentService, userID uuid.UUID) {
				m.On("Verify", mock.Anything, userID, mock.AnythingOfType("service.VerifyPaymentInput")).Return(nil, apperror.BadRequest("signature verification failed"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockPaymentService)
			handler := NewPaymentHandler(mockService)
			userID := uuid.New()

			tt.setupMock(mockService, userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", bytes.NewReader(body))
			req = req.WithContext(ctxWithUserID(userID))
			w := httptest.NewRecorder()

			handler.Verify(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_Refund(t *testing.T) {
	t.Parallel()

	paymentID := uuid.New()
	userID := uuid.New()

	mockService := new(MockPaymentService)
	handler := NewPaymentHandler(mockService)

	mockService.On("Refund", mock.Anything, paymentID, userID).Return(&model.Payment{
		ID:     paymentID,
		Status: model.PaymentRefunded,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/"+paymentID.String()+"/refund", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", paymentID.String())
	req = req.WithContext(context.WithValue(ctxWithUserID(userID), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Refund(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var payment model.Payment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payment))
	assert.Equal(t, model.PaymentRefunded, payment.Status)
	mockService.AssertExpectations(t)
}
