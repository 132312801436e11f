package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/service"
)

// Service interfaces consumed by the handlers. Defined here so handler
// tests can substitute mocks without touching the service package.

type UserServiceInterface interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error)
	Login(ctx context.Context, input service.LoginInput) (*service.AuthResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, input service.UpdateSettingsInput) (*model.User, error)
}

type DebtServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateDebtInput) (*model.Debt, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Debt, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Debt, error)
	Update(ctx context.Context, id, userID uuid.UUID, input service.UpdateDebtInput) (*model.Debt, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID) (*model.DebtSummary, error)
	PayoffDate(ctx context.Context, id, userID uuid.UUID) (*time.Time, error)
}

type SavingsServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateSavingsGoalInput) (*model.SavingsGoal, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.SavingsGoal, error)
	ListWithProgress(ctx context.Context, userID uuid.UUID) ([]service.SavingsGoalWithProgress, error)
	Update(ctx context.Context, id, userID uuid.UUID, input service.UpdateSavingsGoalInput) (*model.SavingsGoal, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Contribute(ctx context.Context, goalID, userID uuid.UUID, input service.ContributeInput) (*service.ContributionResult, error)
	GetStreak(ctx context.Context, goalID, userID uuid.UUID) (*model.SavingsStreak, error)
	ListContributions(ctx context.Context, goalID, userID uuid.UUID) ([]model.SavingsContribution, error)
	AddMilestone(ctx context.Context, goalID, userID uuid.UUID, input service.AddMilestoneInput) (*model.SavingsMilestone, error)
	ListMilestones(ctx context.Context, goalID, userID uuid.UUID) ([]model.SavingsMilestone, error)
	AchieveMilestone(ctx context.Context, goalID, milestoneID, userID uuid.UUID) (*model.SavingsMilestone, error)
	Totals(ctx context.Context, userID uuid.UUID) (*model.SavingsSummary, error)
}

type InvestmentServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateInvestmentInput) (*model.Investment, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Investment, error)
	ListWithReturns(ctx context.Context, userID uuid.UUID) ([]service.InvestmentWithReturns, error)
	Update(ctx context.Context, id, userID uuid.UUID, input service.UpdateInvestmentInput) (*model.Investment, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	PortfolioSummary(ctx context.Context, userID uuid.UUID) (*model.PortfolioSummary, error)
	RiskScore(ctx context.Context, userID uuid.UUID) (int, error)
	SuggestRebalance(ctx context.Context, userID uuid.UUID) ([]model.RebalanceSuggestion, error)
}

type RecurringServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateRecurringInput) (*model.RecurringTransaction, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.RecurringTransaction, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.RecurringTransaction, error)
	Update(ctx context.Context, id, userID uuid.UUID, input service.UpdateRecurringInput) (*model.RecurringTransaction, error)
	SetActive(ctx context.Context, id, userID uuid.UUID, active bool) (*model.RecurringTransaction, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	MonthlyNet(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

type HealthServiceInterface interface {
	Calculate(ctx context.Context, userID uuid.UUID) (*model.FinancialHealth, error)
}

type PaymentServiceInterface interface {
	Initiate(ctx context.Context, userID uuid.UUID, input service.InitiatePaymentInput) (*model.Payment, error)
	Verify(ctx context.Context, userID uuid.UUID, input service.VerifyPaymentInput) (*model.Payment, error)
	Refund(ctx context.Context, id, userID uuid.UUID) (*model.Payment, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
}

// RateListerInterface is satisfied by the rate repository directly; the
// rates surface is read-only.
type RateListerInterface interface {
	List(ctx context.Context) ([]model.InterestRate, error)
}
