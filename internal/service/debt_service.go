package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/apperror"
	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/repository"
	"github.com/paisatrack/backend/pkg/datetime"
)

// DebtRepositoryInterface defines the contract for debt data access.
// Implementations must be safe for concurrent use.
type DebtRepositoryInterface interface {
	Create(ctx context.Context, debt *model.Debt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Debt, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Debt, error)
	Update(ctx context.Context, debt *model.Debt) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// DebtService handles business logic for debt tracking and payoff projection.
type DebtService struct {
	repo DebtRepositoryInterface
}

// NewDebtService creates a new DebtService with the given repository.
func NewDebtService(repo DebtRepositoryInterface) *DebtService {
	return &DebtService{repo: repo}
}

type CreateDebtInput struct {
	Name           string           `json:"name"`
	Principal      decimal.Decimal  `json:"principal"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	InterestRate   decimal.Decimal  `json:"interestRate"` // annual %
	EMIAmount      *decimal.Decimal `json:"emiAmount,omitempty"`
	TotalEMIs      *int             `json:"totalEmis,omitempty"`
	CompletedEMIs  int              `json:"completedEmis"`
	DueDate        time.Time        `json:"dueDate"`
	Type           model.DebtType   `json:"type"`
	Creditor       *string          `json:"creditor,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

type UpdateDebtInput struct {
	Name           string           `json:"name"`
	Principal      decimal.Decimal  `json:"principal"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	InterestRate   decimal.Decimal  `json:"interestRate"`
	EMIAmount      *decimal.Decimal `json:"emiAmount,omitempty"`
	TotalEMIs      *int             `json:"totalEmis,omitempty"`
	CompletedEMIs  int              `json:"completedEmis"`
	DueDate        time.Time        `json:"dueDate"`
	Type           model.DebtType   `json:"type"`
	Creditor       *string          `json:"creditor,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

func validateDebtType(t model.DebtType) error {
	switch t {
	case model.DebtTypeLoan, model.DebtTypeCreditCard, model.DebtTypeEMI:
		return nil
	default:
		return apperror.ValidationError("type", "type must be loan, creditcard or emi")
	}
}

// Create creates a new debt record for the given user. Current balance
// defaults to the principal when omitted.
func (s *DebtService) Create(ctx context.Context, userID uuid.UUID, input CreateDebtInput) (*model.Debt, error) {
	if input.Name == "" {
		return nil, apperror.ValidationError("name", "name is required")
	}
	if input.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ValidationError("principal", "principal must be greater than zero")
	}
	if err := validateDebtType(input.Type); err != nil {
		return nil, err
	}

	debt := &model.Debt{
		UserID:         userID,
		Name:           input.Name,
		Principal:      input.Principal,
		CurrentBalance: input.CurrentBalance,
		InterestRate:   input.InterestRate,
		EMIAmount:      input.EMIAmount,
		TotalEMIs:      input.TotalEMIs,
		CompletedEMIs:  input.CompletedEMIs,
		DueDate:        input.DueDate,
		Type:           input.Type,
		Creditor:       input.Creditor,
		Notes:          input.Notes,
	}

	if debt.CurrentBalance.IsZero() {
		debt.CurrentBalance = debt.Principal
	}

	if err := s.repo.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("creating debt: %w", err)
	}
	return debt, nil
}

// Get retrieves a debt by its ID, scoped to the owning user.
func (s *DebtService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Debt, error) {
	debt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting debt %s: %w", id, err)
	}
	if debt.UserID != userID {
		return nil, repository.ErrDebtNotFound
	}
	return debt, nil
}

// List retrieves all debts for a user.
func (s *DebtService) List(ctx context.Context, userID uuid.UUID) ([]model.Debt, error) {
	debts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing debts for user %s: %w", userID, err)
	}
	return debts, nil
}

// Update modifies an existing debt.
// Returns ErrDebtNotFound if the debt does not exist or belongs to another user.
func (s *DebtService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateDebtInput) (*model.Debt, error) {
	debt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching debt %s for update: %w", id, err)
	}
	if debt.UserID != userID {
		return nil, repository.ErrDebtNotFound
	}
	if err := validateDebtType(input.Type); err != nil {
		return nil, err
	}

	debt.Name = input.Name
	debt.Principal = input.Principal
	debt.CurrentBalance = input.CurrentBalance
	debt.InterestRate = input.InterestRate
	debt.EMIAmount = input.EMIAmount
	debt.TotalEMIs = input.TotalEMIs
	debt.CompletedEMIs = input.CompletedEMIs
	debt.DueDate = input.DueDate
	debt.Type = input.Type
	debt.Creditor = input.Creditor
	debt.Notes = input.Notes

	if err := s.repo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("updating debt %s: %w", id, err)
	}
	return debt, nil
}

// Delete removes a debt owned by the user.
func (s *DebtService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting debt %s: %w", id, err)
	}
	return nil
}

// Summary aggregates all debts for a user. The average interest rate is an
// unweighted mean across debts, not weighted by balance.
func (s *DebtService) Summary(ctx context.Context, userID uuid.UUID) (*model.DebtSummary, error) {
	debts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing debts for summary: %w", err)
	}

	summary := &model.DebtSummary{Count: len(debts)}
	if len(debts) == 0 {
		return summary, nil
	}

	var rateSum decimal.Decimal
	for _, d := range debts {
		summary.TotalDebt = summary.TotalDebt.Add(d.CurrentBalance)
		rateSum = rateSum.Add(d.InterestRate)
	}
	summary.AverageInterestRate = rateSum.Div(decimal.NewFromInt(int64(len(debts)))).Round(2)
	return summary, nil
}

// PayoffDate projects when an EMI-style debt will be fully paid: the due
// date plus one month per remaining installment. Returns nil when the debt
// has no EMI amount or no installment count, since the projection is
// undefined without both.
func (s *DebtService) PayoffDate(ctx context.Context, id, userID uuid.UUID) (*time.Time, error) {
	debt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return ProjectPayoffDate(debt), nil
}

// ProjectPayoffDate is the pure projection used by PayoffDate.
func ProjectPayoffDate(debt *model.Debt) *time.Time {
	if debt.EMIAmount == nil || debt.TotalEMIs == nil {
		return nil
	}
	remaining := *debt.TotalEMIs - debt.CompletedEMIs
	payoff := datetime.AddMonths(debt.DueDate, remaining)
	return &payoff
}
