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

// SavingsRepositoryInterface defines the contract for savings goal data access.
type SavingsRepositoryInterface interface {
	Create(ctx context.Context, goal *model.SavingsGoal) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SavingsGoal, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.SavingsGoal, error)
	ListAutoSave(ctx context.Context) ([]model.SavingsGoal, error)
	Update(ctx context.Context, goal *model.SavingsGoal) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListContributions(ctx context.Context, goalID uuid.UUID) ([]model.SavingsContribution, error)
	CreateMilestone(ctx context.Context, m *model.SavingsMilestone) error
	ListMilestones(ctx context.Context, goalID uuid.UUID) ([]model.SavingsMilestone, error)
	AchieveMilestone(ctx context.Context, id, goalID uuid.UUID) (*model.SavingsMilestone, error)
	GetStreak(ctx context.Context, goalID uuid.UUID) (*model.SavingsStreak, error)
	Contribute(ctx context.Context, c *model.SavingsContribution, advance func(prev *model.SavingsStreak) model.SavingsStreak) (*model.SavingsGoal, *model.SavingsStreak, error)
}

// UserLookup is the slice of user data access the savings service needs for
// percentage-based auto-save rules.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// SavingsService handles savings goals, contributions and streak tracking.
type SavingsService struct {
	repo  SavingsRepositoryInterface
	users UserLookup
	now   func() time.Time
}

// NewSavingsService creates a new SavingsService.
func NewSavingsService(repo SavingsRepositoryInterface, users UserLookup) *SavingsService {
	return &SavingsService{repo: repo, users: users, now: time.Now}
}

type CreateSavingsGoalInput struct {
	Name          string             `json:"name"`
	TargetAmount  decimal.Decimal    `json:"targetAmount"`
	Deadline      time.Time          `json:"deadline"`
	Category      model.GoalCategory `json:"category"`
	Color         string             `json:"color"`
	AutoSaveType  *model.AutoSaveType `json:"autoSaveType,omitempty"`
	AutoSaveValue *decimal.Decimal    `json:"autoSaveValue,omitempty"`
}

type UpdateSavingsGoalInput struct {
	Name          string             `json:"name"`
	TargetAmount  decimal.Decimal    `json:"targetAmount"`
	Deadline      time.Time          `json:"deadline"`
	Category      model.GoalCategory `json:"category"`
	Color         string             `json:"color"`
	AutoSaveType  *model.AutoSaveType `json:"autoSaveType,omitempty"`
	AutoSaveValue *decimal.Decimal    `json:"autoSaveValue,omitempty"`
}

type ContributeInput struct {
	Amount decimal.Decimal          `json:"amount"`
	Date   *time.Time               `json:"date,omitempty"` // defaults to now
	Source model.ContributionSource `json:"source"`
}

// ContributionResult is returned by Contribute so callers see the updated
// goal balance and streak in one round trip.
type ContributionResult struct {
	Goal         *model.SavingsGoal         `json:"goal"`
	Contribution *model.SavingsContribution `json:"contribution"`
	Streak       *model.SavingsStreak       `json:"streak"`
}

func validateAutoSave(t *model.AutoSaveType, v *decimal.Decimal) error {
	if t == nil && v == nil {
		return nil
	}
	if t == nil || v == nil {
		return apperror.ValidationError("autoSave", "auto-save type and value must be set together")
	}
	if *t != model.AutoSaveFixed && *t != model.AutoSavePercentage {
		return apperror.ValidationError("autoSaveType", "auto-save type must be fixed or percentage")
	}
	if v.LessThanOrEqual(decimal.Zero) {
		return apperror.ValidationError("autoSaveValue", "auto-save value must be greater than zero")
	}
	return nil
}

// Create creates a new savings goal for the given user.
func (s *SavingsService) Create(ctx context.Context, userID uuid.UUID, input CreateSavingsGoalInput) (*model.SavingsGoal, error) {
	if input.Name == "" {
		return nil, apperror.ValidationError("name", "name is required")
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ValidationError("targetAmount", "target amount must be greater than zero")
	}
	if err := validateAutoSave(input.AutoSaveType, input.AutoSaveValue); err != nil {
		return nil, err
	}

	goal := &model.SavingsGoal{
		UserID:        userID,
		Name:          input.Name,
		TargetAmount:  input.TargetAmount,
		Deadline:      input.Deadline,
		Category:      input.Category,
		Color:         input.Color,
		AutoSaveType:  input.AutoSaveType,
		AutoSaveValue: input.AutoSaveValue,
	}
	if goal.Category == "" {
		goal.Category = model.GoalCategoryOther
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("creating savings goal: %w", err)
	}
	return goal, nil
}

// Get retrieves a savings goal scoped to the owning user.
func (s *SavingsService) Get(ctx context.Context, id, userID uuid.UUID) (*model.SavingsGoal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting savings goal %s: %w", id, err)
	}
	if goal.UserID != userID {
		return nil, repository.ErrSavingsGoalNotFound
	}
	return goal, nil
}

// List retrieves all savings goals for a user.
func (s *SavingsService) List(ctx context.Context, userID uuid.UUID) ([]model.SavingsGoal, error) {
	goals, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing savings goals for user %s: %w", userID, err)
	}
	return goals, nil
}

// Update modifies a goal's metadata. The current amount is only ever moved
// by contributions.
func (s *SavingsService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateSavingsGoalInput) (*model.SavingsGoal, error) {
	goal, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateAutoSave(input.AutoSaveType, input.AutoSaveValue); err != nil {
		return nil, err
	}

	goal.Name = input.Name
	goal.TargetAmount = input.TargetAmount
	goal.Deadline = input.Deadline
	goal.Category = input.Category
	goal.Color = input.Color
	goal.AutoSaveType = input.AutoSaveType
	goal.AutoSaveValue = input.AutoSaveValue

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("updating savings goal %s: %w", id, err)
	}
	return goal, nil
}

// Delete removes a goal owned by the user.
func (s *SavingsService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting savings goal %s: %w", id, err)
	}
	return nil
}

// Contribute records a contribution against a goal. The contribution insert,
// goal balance increment and streak update happen in one transaction.
func (s *SavingsService) Contribute(ctx context.Context, goalID, userID uuid.UUID, input ContributeInput) (*ContributionResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ValidationError("amount", "contribution amount must be greater than zero")
	}

	// Ownership check up front; the transactional path only sees goal IDs.
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}
	source := input.Source
	if source == "" {
		source = model.SourceManual
	}

	contribution := &model.SavingsContribution{
		GoalID: goalID,
		Amount: input.Amount,
		Date:   date,
		Source: source,
	}

	goal, streak, err := s.repo.Contribute(ctx, contribution, func(prev *model.SavingsStreak) model.SavingsStreak {
		return AdvanceStreak(prev, date)
	})
	if err != nil {
		return nil, fmt.Errorf("contributing to goal %s: %w", goalID, err)
	}

	return &ContributionResult{Goal: goal, Contribution: contribution, Streak: streak}, nil
}

// AdvanceStreak computes the next streak state after a contribution on the
// given day:
//   - no prior contribution: streak starts at 1
//   - another contribution the same day: counters unchanged
//   - contribution exactly one day after the last: streak extends
//   - any longer gap: streak resets to 1
//
// The longest streak is the running maximum, and the last contribution date
// always moves to the contribution day.
func AdvanceStreak(prev *model.SavingsStreak, day time.Time) model.SavingsStreak {
	today := datetime.StartOfDay(day)

	if prev == nil || prev.LastContributionDate == nil {
		return model.SavingsStreak{
			CurrentStreak:        1,
			LongestStreak:        maxInt(1, longestOf(prev)),
			LastContributionDate: &today,
		}
	}

	next := *prev
	next.LastContributionDate = &today

	switch datetime.DayDiff(*prev.LastContributionDate, today) {
	case 0:
		// Same-day duplicate: counters stay put.
	case 1:
		next.CurrentStreak = prev.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
	}

	next.LongestStreak = maxInt(next.LongestStreak, next.CurrentStreak)
	return next
}

func longestOf(s *model.SavingsStreak) int {
	if s == nil {
		return 0
	}
	return s.LongestStreak
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GetStreak returns the streak for a goal; a goal with no contributions yet
// reports zero counters.
func (s *SavingsService) GetStreak(ctx context.Context, goalID, userID uuid.UUID) (*model.SavingsStreak, error) {
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return nil, err
	}
	streak, err := s.repo.GetStreak(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("getting streak for goal %s: %w", goalID, err)
	}
	if streak == nil {
		return &model.SavingsStreak{GoalID: goalID}, nil
	}
	return streak, nil
}

// ListContributions returns a goal's contribution history, newest first.
func (s *SavingsService) ListContributions(ctx context.Context, goalID, userID uuid.UUID) ([]model.SavingsContribution, error) {
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return nil, err
	}
	contributions, err := s.repo.ListContributions(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing contributions for goal %s: %w", goalID, err)
	}
	return contributions, nil
}

type AddMilestoneInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// AddMilestone attaches a checkpoint amount to a goal.
func (s *SavingsService) AddMilestone(ctx context.Context, goalID, userID uuid.UUID, input AddMilestoneInput) (*model.SavingsMilestone, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ValidationError("amount", "milestone amount must be greater than zero")
	}
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return nil, err
	}

	milestone := &model.SavingsMilestone{
		GoalID:      goalID,
		Amount:      input.Amount,
		Description: input.Description,
	}
	if err := s.repo.CreateMilestone(ctx, milestone); err != nil {
		return nil, fmt.Errorf("adding milestone to goal %s: %w", goalID, err)
	}
	return milestone, nil
}

// ListMilestones returns a goal's milestones ordered by amount.
func (s *SavingsService) ListMilestones(ctx context.Context, goalID, userID uuid.UUID) ([]model.SavingsMilestone, error) {
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return nil, err
	}
	milestones, err := s.repo.ListMilestones(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones for goal %s: %w", goalID, err)
	}
	return milestones, nil
}

// AchieveMilestone marks a milestone achieved. Achieving it a second time
// keeps the first timestamp.
func (s *SavingsService) AchieveMilestone(ctx context.Context, goalID, milestoneID, userID uuid.UUID) (*model.SavingsMilestone, error) {
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return nil, err
	}
	milestone, err := s.repo.AchieveMilestone(ctx, milestoneID, goalID)
	if err != nil {
		return nil, fmt.Errorf("achieving milestone %s: %w", milestoneID, err)
	}
	return milestone, nil
}

// Progress returns completion as a percentage of the target. Values above
// 100 are legal (over-saving); callers clamp for display.
func Progress(goal *model.SavingsGoal) decimal.Decimal {
	if goal.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// DaysRemaining returns calendar days until the deadline, rounded up.
// Negative means the deadline has passed.
func (s *SavingsService) DaysRemaining(goal *model.SavingsGoal) int {
	return datetime.DaysUntil(goal.Deadline, s.now().UTC())
}

// SavingsGoalWithProgress decorates a goal with derived display figures.
type SavingsGoalWithProgress struct {
	model.SavingsGoal
	Progress      decimal.Decimal `json:"progress"` // percent, unclamped
	DaysRemaining int             `json:"daysRemaining"`
}

// ListWithProgress returns a user's goals with progress percentage and
// days-to-deadline attached.
func (s *SavingsService) ListWithProgress(ctx context.Context, userID uuid.UUID) ([]SavingsGoalWithProgress, error) {
	goals, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]SavingsGoalWithProgress, len(goals))
	for i, g := range goals {
		result[i] = SavingsGoalWithProgress{
			SavingsGoal:   g,
			Progress:      Progress(&g),
			DaysRemaining: s.DaysRemaining(&g),
		}
	}
	return result, nil
}

// Totals sums current and target amounts across all of a user's goals.
func (s *SavingsService) Totals(ctx context.Context, userID uuid.UUID) (*model.SavingsSummary, error) {
	goals, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing savings goals for totals: %w", err)
	}

	summary := &model.SavingsSummary{GoalCount: len(goals)}
	for _, g := range goals {
		summary.TotalSaved = summary.TotalSaved.Add(g.CurrentAmount)
		summary.TotalTargeted = summary.TotalTargeted.Add(g.TargetAmount)
	}
	return summary, nil
}

// ProcessAutoSaves applies every configured auto-save rule once, creating
// auto-save contributions through the same transactional path as manual
// ones. Percentage rules are a share of the owner's monthly income. Errors
// on individual goals are returned in aggregate after all goals are tried.
func (s *SavingsService) ProcessAutoSaves(ctx context.Context) (int, error) {
	goals, err := s.repo.ListAutoSave(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing auto-save goals: %w", err)
	}

	processed := 0
	var firstErr error
	for _, g := range goals {
		amount, err := s.autoSaveAmount(ctx, &g)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		_, err = s.Contribute(ctx, g.ID, g.UserID, ContributeInput{
			Amount: amount,
			Source: model.SourceAutoSave,
		})
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("auto-save for goal %s: %w", g.ID, err)
			}
			continue
		}
		processed++
	}
	return processed, firstErr
}

func (s *SavingsService) autoSaveAmount(ctx context.Context, goal *model.SavingsGoal) (decimal.Decimal, error) {
	if goal.AutoSaveType == nil || goal.AutoSaveValue == nil {
		return decimal.Zero, nil
	}
	switch *goal.AutoSaveType {
	case model.AutoSaveFixed:
		return *goal.AutoSaveValue, nil
	case model.AutoSavePercentage:
		user, err := s.users.GetByID(ctx, goal.UserID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("loading user %s for auto-save: %w", goal.UserID, err)
		}
		return user.MonthlyIncome.Mul(*goal.AutoSaveValue).Div(decimal.NewFromInt(100)).Round(2), nil
	default:
		return decimal.Zero, nil
	}
}
