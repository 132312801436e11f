package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/model"
)

// Component weights for the overall financial health score.
const (
	weightSavingsRate   = 0.3
	weightDebtRatio     = 0.3
	weightEmergencyFund = 0.2
	weightAdherence     = 0.2
)

// HealthService computes a 0-100 financial health score from a user's
// profile, recurring spending and outstanding debts.
type HealthService struct {
	users     UserLookup
	debts     DebtRepositoryInterface
	recurring RecurringRepositoryInterface
}

// NewHealthService creates a new HealthService.
func NewHealthService(users UserLookup, debts DebtRepositoryInterface, recurring RecurringRepositoryInterface) *HealthService {
	return &HealthService{users: users, debts: debts, recurring: recurring}
}

// HealthInputs are the raw figures the scorer runs on.
type HealthInputs struct {
	MonthlyIncome   decimal.Decimal
	MonthlySpending decimal.Decimal
	SavingGoal      decimal.Decimal
	TotalDebt       decimal.Decimal
}

// Calculate gathers a user's figures and scores them. Monthly spending is
// the monthly-equivalent sum of active recurring expenses.
func (s *HealthService) Calculate(ctx context.Context, userID uuid.UUID) (*model.FinancialHealth, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user %s for health score: %w", userID, err)
	}

	debts, err := s.debts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing debts for health score: %w", err)
	}
	totalDebt := decimal.Zero
	for _, d := range debts {
		totalDebt = totalDebt.Add(d.CurrentBalance)
	}

	rts, err := s.recurring.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions for health score: %w", err)
	}
	spending := decimal.Zero
	for _, rt := range rts {
		if !rt.IsActive || rt.Type != model.TransactionTypeExpense {
			continue
		}
		spending = spending.Add(rt.Amount.Mul(monthlyMultipliers[rt.Frequency]))
	}

	return Score(HealthInputs{
		MonthlyIncome:   user.MonthlyIncome,
		MonthlySpending: spending,
		SavingGoal:      user.SavingGoal,
		TotalDebt:       totalDebt,
	}), nil
}

// Score is the pure health calculation. Every zero-denominator ratio
// resolves to 0 rather than NaN.
//
// Components, each scaled to 0-100 before weighting:
//   - savings rate: (income − spending)/income; 30% or better scores 100
//   - debt-to-income: total debt over annual income; score 100 − ratio×100
//   - emergency fund months: placeholder of 6 while account balances live
//     outside this service; ×16.66 so 6 months scores ~100
//   - budget adherence: (saving goal − spending)/saving goal ×100
func Score(in HealthInputs) *model.FinancialHealth {
	income := in.MonthlyIncome.InexactFloat64()
	spending := in.MonthlySpending.InexactFloat64()
	savingGoal := in.SavingGoal.InexactFloat64()
	totalDebt := in.TotalDebt.InexactFloat64()

	var savingsRate float64
	if income > 0 {
		savingsRate = (income - spending) / income * 100
	}

	var debtRatio float64
	if income > 0 {
		debtRatio = totalDebt / (income * 12)
	}

	var emergencyMonths float64
	if income > spending {
		emergencyMonths = 6
	}

	var adherence float64
	if savingGoal > 0 {
		adherence = (savingGoal - spending) / savingGoal * 100
	}

	savingsScore := clamp(savingsRate/30*100, 0, 100)
	debtScore := clamp(100-debtRatio*100, 0, 100)
	emergencyScore := clamp(emergencyMonths*16.66, 0, 100)
	adherenceScore := clamp(adherence, 0, 100)

	overall := clamp(
		savingsScore*weightSavingsRate+
			debtScore*weightDebtRatio+
			emergencyScore*weightEmergencyFund+
			adherenceScore*weightAdherence,
		0, 100)

	return &model.FinancialHealth{
		OverallScore:        round2(overall),
		SavingsRate:         round2(savingsRate),
		DebtToIncomeRatio:   round2(debtRatio),
		EmergencyFundMonths: emergencyMonths,
		BudgetAdherence:     round2(adherence),
		Trends: []model.HealthTrend{
			{Label: "Savings rate", Value: round2(savingsRate), Status: trendFor(savingsScore)},
			{Label: "Debt load", Value: round2(debtRatio * 100), Status: trendFor(debtScore)},
			{Label: "Budget adherence", Value: round2(adherence), Status: trendFor(adherenceScore)},
		},
	}
}

func trendFor(score float64) model.TrendStatus {
	switch {
	case score >= 70:
		return model.TrendImproving
	case score >= 40:
		return model.TrendStable
	default:
		return model.TrendDeclining
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
