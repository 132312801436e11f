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

// RecurringRepositoryInterface defines the contract for recurring
// transaction data access.
type RecurringRepositoryInterface interface {
	Create(ctx context.Context, rt *model.RecurringTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringTransaction, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.RecurringTransaction, error)
	Update(ctx context.Context, rt *model.RecurringTransaction) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	GetDue(ctx context.Context, now time.Time) ([]model.RecurringTransaction, error)
	AdvanceDueDate(ctx context.Context, id uuid.UUID, nextDueDate time.Time) error
}

// RecurringService handles recurring income and expense obligations.
type RecurringService struct {
	repo RecurringRepositoryInterface
	now  func() time.Time
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(repo RecurringRepositoryInterface) *RecurringService {
	return &RecurringService{repo: repo, now: time.Now}
}

// monthlyMultipliers converts each frequency to its monthly equivalent.
// 30.44 is the mean Gregorian month length in days; 4.33 weeks/month.
var monthlyMultipliers = map[model.RecurringFrequency]decimal.Decimal{
	model.FrequencyDaily:     decimal.NewFromFloat(30.44),
	model.FrequencyWeekly:    decimal.NewFromFloat(4.33),
	model.FrequencyBiweekly:  decimal.NewFromFloat(2.17),
	model.FrequencyMonthly:   decimal.NewFromInt(1),
	model.FrequencyQuarterly: decimal.NewFromInt(1).Div(decimal.NewFromInt(3)),
	model.FrequencyYearly:    decimal.NewFromInt(1).Div(decimal.NewFromInt(12)),
}

type CreateRecurringInput struct {
	Title        string                   `json:"title"`
	Amount       decimal.Decimal          `json:"amount"`
	Category     model.RecurringCategory  `json:"category"`
	Frequency    model.RecurringFrequency `json:"frequency"`
	Type         model.TransactionType    `json:"type"`
	StartDate    time.Time                `json:"startDate"`
	EndDate      *time.Time               `json:"endDate,omitempty"`
	NotifyBefore *int                     `json:"notifyBefore,omitempty"`
}

type UpdateRecurringInput struct {
	Title        string                   `json:"title"`
	Amount       decimal.Decimal          `json:"amount"`
	Category     model.RecurringCategory  `json:"category"`
	Frequency    model.RecurringFrequency `json:"frequency"`
	Type         model.TransactionType    `json:"type"`
	StartDate    time.Time                `json:"startDate"`
	EndDate      *time.Time               `json:"endDate,omitempty"`
	NotifyBefore *int                     `json:"notifyBefore,omitempty"`
}

func validateRecurring(amount decimal.Decimal, frequency model.RecurringFrequency, txType model.TransactionType) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ValidationError("amount", "amount must be greater than zero")
	}
	if _, ok := monthlyMultipliers[frequency]; !ok {
		return apperror.ValidationError("frequency", "unsupported frequency")
	}
	if txType != model.TransactionTypeIncome && txType != model.TransactionTypeExpense {
		return apperror.ValidationError("type", "type must be income or expense")
	}
	return nil
}

// Create registers a recurring transaction. The first due date is the start
// date itself.
func (s *RecurringService) Create(ctx context.Context, userID uuid.UUID, input CreateRecurringInput) (*model.RecurringTransaction, error) {
	if input.Title == "" {
		return nil, apperror.ValidationError("title", "title is required")
	}
	if err := validateRecurring(input.Amount, input.Frequency, input.Type); err != nil {
		return nil, err
	}

	rt := &model.RecurringTransaction{
		UserID:       userID,
		Title:        input.Title,
		Amount:       input.Amount,
		Category:     input.Category,
		Frequency:    input.Frequency,
		Type:         input.Type,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsActive:     true,
		NextDueDate:  input.StartDate,
		NotifyBefore: input.NotifyBefore,
	}
	if rt.Category == "" {
		rt.Category = model.CategoryOther
	}

	if err := s.repo.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("creating recurring transaction: %w", err)
	}
	return rt, nil
}

// Get retrieves a recurring transaction scoped to the owning user.
func (s *RecurringService) Get(ctx context.Context, id, userID uuid.UUID) (*model.RecurringTransaction, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting recurring transaction %s: %w", id, err)
	}
	if rt.UserID != userID {
		return nil, repository.ErrRecurringNotFound
	}
	return rt, nil
}

// List retrieves all recurring transactions for a user.
func (s *RecurringService) List(ctx context.Context, userID uuid.UUID) ([]model.RecurringTransaction, error) {
	rts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions for user %s: %w", userID, err)
	}
	return rts, nil
}

// Update modifies a recurring transaction.
func (s *RecurringService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateRecurringInput) (*model.RecurringTransaction, error) {
	rt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateRecurring(input.Amount, input.Frequency, input.Type); err != nil {
		return nil, err
	}

	rt.Title = input.Title
	rt.Amount = input.Amount
	rt.Category = input.Category
	rt.Frequency = input.Frequency
	rt.Type = input.Type
	rt.StartDate = input.StartDate
	rt.EndDate = input.EndDate
	rt.NotifyBefore = input.NotifyBefore

	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, fmt.Errorf("updating recurring transaction %s: %w", id, err)
	}
	return rt, nil
}

// SetActive pauses or resumes a recurring transaction.
func (s *RecurringService) SetActive(ctx context.Context, id, userID uuid.UUID, active bool) (*model.RecurringTransaction, error) {
	rt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	rt.IsActive = active
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, fmt.Errorf("setting recurring transaction %s active=%t: %w", id, active, err)
	}
	return rt, nil
}

// Delete removes a recurring transaction owned by the user.
func (s *RecurringService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting recurring transaction %s: %w", id, err)
	}
	return nil
}

// MonthlyNet returns the monthly-equivalent net of all active recurring
// entries: income adds, expenses subtract. Each frequency is converted with
// its own multiplier, so a yearly premium weighs in at one twelfth.
func (s *RecurringService) MonthlyNet(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	rts, err := s.repo.List(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing recurring transactions for monthly net: %w", err)
	}
	return MonthlyNet(rts), nil
}

// MonthlyNet is the pure aggregation over an entry slice.
func MonthlyNet(rts []model.RecurringTransaction) decimal.Decimal {
	net := decimal.Zero
	for _, rt := range rts {
		if !rt.IsActive {
			continue
		}
		monthly := rt.Amount.Mul(monthlyMultipliers[rt.Frequency])
		if rt.Type == model.TransactionTypeExpense {
			net = net.Sub(monthly)
		} else {
			net = net.Add(monthly)
		}
	}
	return net.Round(2)
}

// MonthlyExpenses returns the monthly-equivalent sum of active expense
// entries only, as a positive number. The health scorer uses this as the
// user's recurring spending.
func (s *RecurringService) MonthlyExpenses(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	rts, err := s.repo.List(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing recurring transactions for monthly expenses: %w", err)
	}

	total := decimal.Zero
	for _, rt := range rts {
		if !rt.IsActive || rt.Type != model.TransactionTypeExpense {
			continue
		}
		total = total.Add(rt.Amount.Mul(monthlyMultipliers[rt.Frequency]))
	}
	return total.Round(2), nil
}

// ProcessDue advances the next due date of every active entry whose due
// date has passed, stepping one period at a time until it lands in the
// future. Returns how many entries were advanced.
func (s *RecurringService) ProcessDue(ctx context.Context) (int, error) {
	now := s.now().UTC()
	due, err := s.repo.GetDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("fetching due recurring transactions: %w", err)
	}

	processed := 0
	var firstErr error
	for _, rt := range due {
		next := rt.NextDueDate
		for !next.After(now) {
			next = NextOccurrence(next, rt.Frequency)
		}
		if err := s.repo.AdvanceDueDate(ctx, rt.ID, next); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("advancing due date for %s: %w", rt.ID, err)
			}
			continue
		}
		processed++
	}
	return processed, firstErr
}

// NextOccurrence steps a due date forward by one period.
func NextOccurrence(t time.Time, frequency model.RecurringFrequency) time.Time {
	switch frequency {
	case model.FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case model.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case model.FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case model.FrequencyMonthly:
		return datetime.AddMonths(t, 1)
	case model.FrequencyQuarterly:
		return datetime.AddMonths(t, 3)
	case model.FrequencyYearly:
		return t.AddDate(1, 0, 0)
	default:
		return datetime.AddMonths(t, 1)
	}
}
