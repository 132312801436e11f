package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/apperror"
	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/repository"
	"github.com/paisatrack/backend/pkg/datetime"
)

// ErrZeroInvestment is returned when a return calculation would divide by a
// zero invested amount.
var ErrZeroInvestment = errors.New("investment has zero invested amount")

// InvestmentRepositoryInterface defines the contract for investment data access.
type InvestmentRepositoryInterface interface {
	Create(ctx context.Context, inv *model.Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Investment, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Investment, error)
	Update(ctx context.Context, inv *model.Investment) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// InvestmentService handles portfolio tracking, return calculations and
// allocation analysis.
type InvestmentService struct {
	repo InvestmentRepositoryInterface
	now  func() time.Time
}

// NewInvestmentService creates a new InvestmentService.
func NewInvestmentService(repo InvestmentRepositoryInterface) *InvestmentService {
	return &InvestmentService{repo: repo, now: time.Now}
}

// riskWeights drive the 0-100 portfolio risk score.
var riskWeights = map[model.RiskProfile]decimal.Decimal{
	model.RiskConservative: decimal.Zero,
	model.RiskModerate:     decimal.NewFromInt(50),
	model.RiskAggressive:   decimal.NewFromInt(100),
}

// rebalanceTargets holds the recommended allocation (percent of current
// value) per dominant risk profile.
var rebalanceTargets = map[model.RiskProfile]map[model.InvestmentType]float64{
	model.RiskConservative: {
		model.InvestmentMutualFund:   20,
		model.InvestmentFixedDeposit: 50,
		model.InvestmentSIP:          10,
		model.InvestmentStock:        5,
		model.InvestmentGold:         10,
		model.InvestmentBond:         5,
		model.InvestmentOther:        0,
	},
	model.RiskModerate: {
		model.InvestmentMutualFund:   35,
		model.InvestmentFixedDeposit: 30,
		model.InvestmentSIP:          15,
		model.InvestmentStock:        10,
		model.InvestmentGold:         5,
		model.InvestmentBond:         5,
		model.InvestmentOther:        0,
	},
	model.RiskAggressive: {
		model.InvestmentMutualFund:   40,
		model.InvestmentFixedDeposit: 15,
		model.InvestmentSIP:          20,
		model.InvestmentStock:        15,
		model.InvestmentGold:         5,
		model.InvestmentBond:         5,
		model.InvestmentOther:        0,
	},
}

// rebalanceThreshold is the allocation drift (in percentage points) beyond
// which a suggestion is emitted.
const rebalanceThreshold = 5.0

type CreateInvestmentInput struct {
	Name         string           `json:"name"`
	Type         model.InvestmentType `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrentValue decimal.Decimal  `json:"currentValue"`
	Provider     string           `json:"provider"`
	RiskLevel    model.RiskProfile `json:"riskLevel"`
	PurchaseDate time.Time        `json:"purchaseDate"`
	MaturityDate *time.Time       `json:"maturityDate,omitempty"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
	LinkedGoalID *uuid.UUID       `json:"linkedGoalId,omitempty"`
}

type UpdateInvestmentInput struct {
	Name         string           `json:"name"`
	Type         model.InvestmentType `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrentValue decimal.Decimal  `json:"currentValue"`
	Provider     string           `json:"provider"`
	RiskLevel    model.RiskProfile `json:"riskLevel"`
	PurchaseDate time.Time        `json:"purchaseDate"`
	MaturityDate *time.Time       `json:"maturityDate,omitempty"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
	LinkedGoalID *uuid.UUID       `json:"linkedGoalId,omitempty"`
}

// RiskAssessmentInput captures the questionnaire for AssessRiskProfile.
type RiskAssessmentInput struct {
	Age            int             `json:"age"`
	HorizonYears   int             `json:"horizonYears"`
	MonthlySavings decimal.Decimal `json:"monthlySavings"`
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
}

func validateInvestment(invType model.InvestmentType, risk model.RiskProfile, amount decimal.Decimal) error {
	valid := false
	for _, t := range model.InvestmentTypes {
		if t == invType {
			valid = true
			break
		}
	}
	if !valid {
		return apperror.ValidationError("type", "unsupported investment type")
	}
	if _, ok := riskWeights[risk]; !ok {
		return apperror.ValidationError("riskLevel", "risk level must be conservative, moderate or aggressive")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ValidationError("amount", "invested amount must be greater than zero")
	}
	return nil
}

// Create records a new investment. Current value defaults to the invested
// amount.
func (s *InvestmentService) Create(ctx context.Context, userID uuid.UUID, input CreateInvestmentInput) (*model.Investment, error) {
	if input.Name == "" {
		return nil, apperror.ValidationError("name", "name is required")
	}
	if err := validateInvestment(input.Type, input.RiskLevel, input.Amount); err != nil {
		return nil, err
	}

	inv := &model.Investment{
		UserID:       userID,
		Name:         input.Name,
		Type:         input.Type,
		Amount:       input.Amount,
		CurrentValue: input.CurrentValue,
		Provider:     input.Provider,
		RiskLevel:    input.RiskLevel,
		PurchaseDate: input.PurchaseDate,
		MaturityDate: input.MaturityDate,
		InterestRate: input.InterestRate,
		LinkedGoalID: input.LinkedGoalID,
	}
	if inv.CurrentValue.IsZero() {
		inv.CurrentValue = inv.Amount
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating investment: %w", err)
	}
	return inv, nil
}

// Get retrieves an investment scoped to the owning user.
func (s *InvestmentService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Investment, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting investment %s: %w", id, err)
	}
	if inv.UserID != userID {
		return nil, repository.ErrInvestmentNotFound
	}
	return inv, nil
}

// List retrieves all investments for a user.
func (s *InvestmentService) List(ctx context.Context, userID uuid.UUID) ([]model.Investment, error) {
	investments, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments for user %s: %w", userID, err)
	}
	return investments, nil
}

// Update modifies an investment.
func (s *InvestmentService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateInvestmentInput) (*model.Investment, error) {
	inv, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateInvestment(input.Type, input.RiskLevel, input.Amount); err != nil {
		return nil, err
	}

	inv.Name = input.Name
	inv.Type = input.Type
	inv.Amount = input.Amount
	inv.CurrentValue = input.CurrentValue
	inv.Provider = input.Provider
	inv.RiskLevel = input.RiskLevel
	inv.PurchaseDate = input.PurchaseDate
	inv.MaturityDate = input.MaturityDate
	inv.InterestRate = input.InterestRate
	inv.LinkedGoalID = input.LinkedGoalID

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("updating investment %s: %w", id, err)
	}
	return inv, nil
}

// Delete removes an investment owned by the user.
func (s *InvestmentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting investment %s: %w", id, err)
	}
	return nil
}

// ROI returns the simple return (current − invested)/invested as a
// percentage, rounded to 2 decimal places. A zero invested amount yields
// ErrZeroInvestment rather than a NaN-style result.
func ROI(inv *model.Investment) (decimal.Decimal, error) {
	if inv.Amount.IsZero() {
		return decimal.Zero, ErrZeroInvestment
	}
	return inv.CurrentValue.Sub(inv.Amount).
		Div(inv.Amount).
		Mul(decimal.NewFromInt(100)).
		Round(2), nil
}

// AnnualizedReturn converts the simple ROI to a compound annual rate over
// the holding period (365.25-day years). Holdings of zero or negative age
// return 0: there is no meaningful annualization for a same-day purchase.
func (s *InvestmentService) AnnualizedReturn(inv *model.Investment) (decimal.Decimal, error) {
	return AnnualizedReturnAt(inv, s.now())
}

// AnnualizedReturnAt is the pure form, evaluated at an explicit instant.
func AnnualizedReturnAt(inv *model.Investment, now time.Time) (decimal.Decimal, error) {
	roi, err := ROI(inv)
	if err != nil {
		return decimal.Zero, err
	}

	years := datetime.YearsBetween(inv.PurchaseDate, now)
	if years <= 0 {
		return decimal.Zero, nil
	}

	// Fractional exponent: decimal can't express this, so compute in
	// float64 and come back at the end.
	growth := 1 + roi.InexactFloat64()/100
	if growth <= 0 {
		// Total loss (or worse); a compound rate is meaningless.
		return decimal.NewFromInt(-100), nil
	}
	cagr := (math.Pow(growth, 1/years) - 1) * 100
	return decimal.NewFromFloat(cagr).Round(2), nil
}

// InvestmentWithReturns decorates an investment with derived return
// figures. Both are nil for zero-amount rows rather than failing the whole
// listing.
type InvestmentWithReturns struct {
	model.Investment
	ROI              *decimal.Decimal `json:"roi,omitempty"`              // percent
	AnnualizedReturn *decimal.Decimal `json:"annualizedReturn,omitempty"` // percent
}

// ListWithReturns returns a user's investments with ROI and annualized
// return attached.
func (s *InvestmentService) ListWithReturns(ctx context.Context, userID uuid.UUID) ([]InvestmentWithReturns, error) {
	investments, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]InvestmentWithReturns, len(investments))
	for i, inv := range investments {
		result[i] = InvestmentWithReturns{Investment: inv}
		if roi, err := ROI(&inv); err == nil {
			result[i].ROI = &roi
		}
		if cagr, err := AnnualizedReturnAt(&inv, now); err == nil {
			result[i].AnnualizedReturn = &cagr
		}
	}
	return result, nil
}

// PortfolioSummary aggregates a user's investments: totals, gain/loss,
// allocation percentages and the value-weighted dominant risk profile.
func (s *InvestmentService) PortfolioSummary(ctx context.Context, userID uuid.UUID) (*model.PortfolioSummary, error) {
	investments, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments for summary: %w", err)
	}
	return SummarizePortfolio(investments), nil
}

// SummarizePortfolio is the pure aggregation. Allocation maps stay empty
// when the total current value is zero.
func SummarizePortfolio(investments []model.Investment) *model.PortfolioSummary {
	summary := &model.PortfolioSummary{
		AverageRiskLevel: model.RiskModerate,
		AllocationByType: map[model.InvestmentType]float64{},
		AllocationByRisk: map[model.RiskProfile]float64{},
	}

	valueByType := map[model.InvestmentType]decimal.Decimal{}
	valueByRisk := map[model.RiskProfile]decimal.Decimal{}
	for _, inv := range investments {
		summary.TotalInvested = summary.TotalInvested.Add(inv.Amount)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(inv.CurrentValue)
		valueByType[inv.Type] = valueByType[inv.Type].Add(inv.CurrentValue)
		valueByRisk[inv.RiskLevel] = valueByRisk[inv.RiskLevel].Add(inv.CurrentValue)
	}

	summary.TotalGainLoss = summary.TotalCurrentValue.Sub(summary.TotalInvested)
	if !summary.TotalInvested.IsZero() {
		summary.GainLossPercentage = summary.TotalGainLoss.
			Div(summary.TotalInvested).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	if summary.TotalCurrentValue.IsZero() {
		return summary
	}

	hundred := decimal.NewFromInt(100)
	for t, v := range valueByType {
		summary.AllocationByType[t], _ = v.Div(summary.TotalCurrentValue).Mul(hundred).Round(2).Float64()
	}
	for r, v := range valueByRisk {
		summary.AllocationByRisk[r], _ = v.Div(summary.TotalCurrentValue).Mul(hundred).Round(2).Float64()
	}

	summary.AverageRiskLevel = dominantRisk(valueByRisk)
	return summary
}

// dominantRisk picks the portfolio's overall risk stance by current value:
// aggressive wins over conservative, conservative wins over moderate, and
// moderate is the fallback.
func dominantRisk(valueByRisk map[model.RiskProfile]decimal.Decimal) model.RiskProfile {
	aggressive := valueByRisk[model.RiskAggressive]
	conservative := valueByRisk[model.RiskConservative]
	moderate := valueByRisk[model.RiskModerate]

	if aggressive.GreaterThan(conservative) && aggressive.GreaterThan(moderate) {
		return model.RiskAggressive
	}
	if conservative.GreaterThan(moderate) {
		return model.RiskConservative
	}
	return model.RiskModerate
}

// RiskScore returns the value-weighted portfolio risk on a 0-100 scale
// (conservative 0, moderate 50, aggressive 100), rounded to the nearest
// integer. An empty portfolio scores 0.
func (s *InvestmentService) RiskScore(ctx context.Context, userID uuid.UUID) (int, error) {
	investments, err := s.repo.List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing investments for risk score: %w", err)
	}
	return ComputeRiskScore(investments), nil
}

// ComputeRiskScore is the pure scoring function.
func ComputeRiskScore(investments []model.Investment) int {
	total := decimal.Zero
	weighted := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.CurrentValue)
		weighted = weighted.Add(inv.CurrentValue.Mul(riskWeights[inv.RiskLevel]))
	}
	if total.IsZero() {
		return 0
	}
	return int(weighted.Div(total).Round(0).IntPart())
}

// SuggestRebalance compares the current allocation against the target table
// for the portfolio's dominant risk profile and reports every type drifting
// more than 5 percentage points.
func (s *InvestmentService) SuggestRebalance(ctx context.Context, userID uuid.UUID) ([]model.RebalanceSuggestion, error) {
	investments, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments for rebalance: %w", err)
	}

	summary := SummarizePortfolio(investments)
	targets := rebalanceTargets[summary.AverageRiskLevel]

	suggestions := []model.RebalanceSuggestion{}
	for _, t := range model.InvestmentTypes {
		current := summary.AllocationByType[t]
		target := targets[t]
		if math.Abs(current-target) > rebalanceThreshold {
			suggestions = append(suggestions, model.RebalanceSuggestion{
				Type:                  t,
				CurrentAllocation:     current,
				RecommendedAllocation: target,
			})
		}
	}
	return suggestions, nil
}

// AssessRiskProfile scores a short questionnaire additively: youth, a long
// horizon and a high savings rate all push toward aggressive.
func AssessRiskProfile(input RiskAssessmentInput) model.RiskProfile {
	score := 0

	switch {
	case input.Age < 30:
		score += 40
	case input.Age < 45:
		score += 25
	case input.Age < 60:
		score += 10
	}

	switch {
	case input.HorizonYears >= 10:
		score += 30
	case input.HorizonYears >= 5:
		score += 20
	case input.HorizonYears >= 2:
		score += 10
	}

	if input.MonthlyIncome.GreaterThan(decimal.Zero) {
		savingsRate := input.MonthlySavings.Div(input.MonthlyIncome)
		switch {
		case savingsRate.GreaterThanOrEqual(decimal.NewFromFloat(0.3)):
			score += 30
		case savingsRate.GreaterThanOrEqual(decimal.NewFromFloat(0.15)):
			score += 20
		case savingsRate.GreaterThan(decimal.Zero):
			score += 10
		}
	}

	switch {
	case score >= 70:
		return model.RiskAggressive
	case score >= 40:
		return model.RiskModerate
	default:
		return model.RiskConservative
	}
}
