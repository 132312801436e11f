package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/apperror"
	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/repository"
)

// maxPaymentAmount caps a single UPI payment in rupees.
var maxPaymentAmount = decimal.NewFromInt(100000)

// PaymentRepositoryInterface defines the contract for payment data access.
type PaymentRepositoryInterface interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, paymentID *string) error
}

// PaymentGateway is the slice of the payment provider the service depends
// on. The production implementation talks to Razorpay; tests stub it.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal) error
}

// PaymentService fronts the payment gateway and keeps a local record of
// every order's lifecycle.
type PaymentService struct {
	repo    PaymentRepositoryInterface
	gateway PaymentGateway
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo PaymentRepositoryInterface, gateway PaymentGateway) *PaymentService {
	return &PaymentService{repo: repo, gateway: gateway}
}

type InitiatePaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	RecipientUPI  string          `json:"recipientUPI"`
	RecipientName string          `json:"recipientName"`
	Description   string          `json:"description"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// Initiate validates the request, creates a gateway order and persists the
// payment in initiated state. Amounts are bounded here, not left to the
// client.
func (s *PaymentService) Initiate(ctx context.Context, userID uuid.UUID, input InitiatePaymentInput) (*model.Payment, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ValidationError("amount", "amount must be greater than zero")
	}
	if input.Amount.GreaterThan(maxPaymentAmount) {
		return nil, apperror.ValidationError("amount", "amount exceeds the 100000 limit")
	}
	if !strings.Contains(input.RecipientUPI, "@") {
		return nil, apperror.ValidationError("recipientUPI", "invalid UPI ID")
	}

	receipt := fmt.Sprintf("pt_%s", uuid.New().String()[:18])
	orderID, err := s.gateway.CreateOrder(ctx, input.Amount, receipt)
	if err != nil {
		return nil, apperror.BadGateway(err, "could not create payment order")
	}

	payment := &model.Payment{
		UserID:        userID,
		OrderID:       orderID,
		Amount:        input.Amount,
		RecipientUPI:  input.RecipientUPI,
		RecipientName: input.RecipientName,
		Description:   input.Description,
		Status:        model.PaymentInitiated,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("persisting payment for order %s: %w", orderID, err)
	}
	return payment, nil
}

// Verify checks the gateway's HMAC signature over "orderID|paymentID". On a
// match the payment transitions to success with the gateway payment ID
// recorded; on a mismatch the stored status is left untouched.
func (s *PaymentService) Verify(ctx context.Context, userID uuid.UUID, input VerifyPaymentInput) (*model.Payment, error) {
	payment, err := s.repo.GetByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("loading payment for order %s: %w", input.OrderID, err)
	}
	if payment.UserID != userID {
		return nil, repository.ErrPaymentNotFound
	}

	if !s.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return nil, apperror.BadRequest("payment signature verification failed")
	}

	if err := s.repo.UpdateStatus(ctx, payment.ID, model.PaymentSuccess, &input.PaymentID); err != nil {
		return nil, fmt.Errorf("marking payment %s successful: %w", payment.ID, err)
	}
	payment.Status = model.PaymentSuccess
	payment.PaymentID = &input.PaymentID
	return payment, nil
}

// Refund forwards a refund to the gateway and marks the payment refunded.
// Only successful payments can be refunded.
func (s *PaymentService) Refund(ctx context.Context, id, userID uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading payment %s for refund: %w", id, err)
	}
	if payment.UserID != userID {
		return nil, repository.ErrPaymentNotFound
	}
	if payment.Status != model.PaymentSuccess {
		return nil, apperror.BadRequest("only successful payments can be refunded")
	}
	if payment.PaymentID == nil {
		return nil, apperror.BadRequest("payment has no gateway reference to refund")
	}

	if err := s.gateway.Refund(ctx, *payment.PaymentID, payment.Amount); err != nil {
		return nil, apperror.BadGateway(err, "could not process refund")
	}

	if err := s.repo.UpdateStatus(ctx, payment.ID, model.PaymentRefunded, nil); err != nil {
		return nil, fmt.Errorf("marking payment %s refunded: %w", payment.ID, err)
	}
	payment.Status = model.PaymentRefunded
	return payment, nil
}

// Get retrieves a payment scoped to the owning user.
func (s *PaymentService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting payment %s: %w", id, err)
	}
	if payment.UserID != userID {
		return nil, repository.ErrPaymentNotFound
	}
	return payment, nil
}

// List returns a user's payment history, newest first.
func (s *PaymentService) List(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	payments, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing payments for user %s: %w", userID, err)
	}
	return payments, nil
}
