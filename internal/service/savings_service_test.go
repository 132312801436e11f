package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paisatrack/backend/internal/model"
	"github.com/paisatrack/backend/internal/repository"
)

// MockSavingsRepo implements SavingsRepositoryInterface for testing
type MockSavingsRepo struct {
	mock.Mock
}

func (m *MockSavingsRepo) Create(ctx context.Context, goal *model.SavingsGoal) error {
	args := m.Called(ctx, goal)
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockSavingsRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.SavingsGoal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsGoal), args.Error(1)
}

func (m *MockSavingsRepo) List(ctx context.Context, userID uuid.UUID) ([]model.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavingsGoal), args.Error(1)
}

func (m *MockSavingsRepo) ListAutoSave(ctx context.Context) ([]model.SavingsGoal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavingsGoal), args.Error(1)
}

func (m *MockSavingsRepo) Update(ctx context.Context, goal *model.SavingsGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockSavingsRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockSavingsRepo) ListContributions(ctx context.Context, goalID uuid.UUID) ([]model.SavingsContribution, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavingsContribution), args.Error(1)
}

func (m *MockSavingsRepo) GetStreak(ctx context.Context, goalID uuid.UUID) (*model.SavingsStreak, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsStreak), args.Error(1)
}

func (m *MockSavingsRepo) Contribute(ctx context.Context, c *model.SavingsContribution, advance func(prev *model.SavingsStreak) model.SavingsStreak) (*model.SavingsGoal, *model.SavingsStreak, error) {
	args := m.Called(ctx, c, advance)
	var goal *model.SavingsGoal
	var streak *model.SavingsStreak
	if args.Get(0) != nil {
		goal = args.Get(0).(*model.SavingsGoal)
	}
	if args.Get(1) != nil {
		streak = args.Get(1).(*model.SavingsStreak)
	}
	return goal, streak, args.Error(2)
}

func (m *MockSavingsRepo) CreateMilestone(ctx context.Context, milestone *model.SavingsMilestone) error {
	args := m.Called(ctx, milestone)
	if milestone.ID == uuid.Nil {
		milestone.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockSavingsRepo) ListMilestones(ctx context.Context, goalID uuid.UUID) ([]model.SavingsMilestone, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavingsMilestone), args.Error(1)
}

func (m *MockSavingsRepo) AchieveMilestone(ctx context.Context, id, goalID uuid.UUID) (*model.SavingsMilestone, error) {
	args := m.Called(ctx, id, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavingsMilestone), args.Error(1)
}

// MockUserLookup implements UserLookup for testing
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	t.Parallel()

	d10 := day(2026, 2, 10)
	d11 := day(2026, 2, 11)
	d15 := day(2026, 2, 15)

	tests := []struct {
		name        string
		prev        *model.SavingsStreak
		today       time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "first contribution starts at one",
			prev:        nil,
			today:       d10,
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name: "same day duplicate keeps counters",
			prev: &model.SavingsStreak{
				CurrentStreak:        3,
				LongestStreak:        5,
				LastContributionDate: &d10,
			},
			today:       d10,
			wantCurrent: 3,
			wantLongest: 5,
		},
		{
			name: "next day extends streak",
			prev: &model.SavingsStreak{
				CurrentStreak:        3,
				LongestStreak:        5,
				LastContributionDate: &d10,
			},
			today:       d11,
			wantCurrent: 4,
			wantLongest: 5,
		},
		{
			name: "extension can set a new longest",
			prev: &model.SavingsStreak{
				CurrentStreak:        5,
				LongestStreak:        5,
				LastContributionDate: &d10,
			},
			today:       d11,
			wantCurrent: 6,
			wantLongest: 6,
		},
		{
			name: "gap resets to one but keeps longest",
			prev: &model.SavingsStreak{
				CurrentStreak:        7,
				LongestStreak:        7,
				LastContributionDate: &d10,
			},
			today:       d15,
			wantCurrent: 1,
			wantLongest: 7,
		},
		{
			name: "row without last date starts fresh",
			prev: &model.SavingsStreak{
				CurrentStreak: 0,
				LongestStreak: 4,
			},
			today:       d10,
			wantCurrent: 1,
			wantLongest: 4,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := AdvanceStreak(tt.prev, tt.today)

			assert.Equal(t, tt.wantCurrent, next.CurrentStreak)
			assert.Equal(t, tt.wantLongest, next.LongestStreak)
			if assert.NotNil(t, next.LastContributionDate) {
				assert.True(t, next.LastContributionDate.Equal(tt.today))
			}
		})
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current int64
		target  int64
		want    string
	}{
		{name: "halfway", current: 5000, target: 10000, want: "50"},
		{name: "over target stays unclamped", current: 12000, target: 10000, want: "120"},
		{name: "zero target yields zero", current: 5000, target: 0, want: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			goal := &model.SavingsGoal{
				CurrentAmount: decimal.NewFromInt(tt.current),
				TargetAmount:  decimal.NewFromInt(tt.target),
			}
			assert.True(t, decimal.RequireFromString(tt.want).Equal(Progress(goal)))
		})
	}
}

func TestSavingsService_Contribute(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()

		svc := NewSavingsService(new(MockSavingsRepo), new(MockUserLookup))
		_, err := svc.Contribute(context.Background(), goalID, userID, ContributeInput{
			Amount: decimal.Zero,
		})
		assert.Error(t, err)
	})

	t.Run("rejects another user's goal", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(&model.SavingsGoal{
			ID:     goalID,
			UserID: uuid.New(),
		}, nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		_, err := svc.Contribute(context.Background(), goalID, userID, ContributeInput{
			Amount: decimal.NewFromInt(100),
		})
		assert.ErrorIs(t, err, repository.ErrSavingsGoalNotFound)
	})

	t.Run("defaults source to manual and runs the transaction", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(&model.SavingsGoal{
			ID:     goalID,
			UserID: userID,
		}, nil)
		repo.On("Contribute", mock.Anything, mock.MatchedBy(func(c *model.SavingsContribution) bool {
			return c.GoalID == goalID && c.Source == model.SourceManual
		}), mock.Anything).Return(
			&model.SavingsGoal{ID: goalID, UserID: userID, CurrentAmount: decimal.NewFromInt(600)},
			&model.SavingsStreak{GoalID: goalID, CurrentStreak: 1, LongestStreak: 1},
			nil,
		)

		svc := NewSavingsService(repo, new(MockUserLookup))
		result, err := svc.Contribute(context.Background(), goalID, userID, ContributeInput{
			Amount: decimal.NewFromInt(500),
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Streak.CurrentStreak)
		assert.True(t, decimal.NewFromInt(600).Equal(result.Goal.CurrentAmount))
		repo.AssertExpectations(t)
	})
}

func TestSavingsService_Totals(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("sums goals", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("List", mock.Anything, userID).Return([]model.SavingsGoal{
			{CurrentAmount: decimal.NewFromInt(1000), TargetAmount: decimal.NewFromInt(5000)},
			{CurrentAmount: decimal.NewFromInt(2500), TargetAmount: decimal.NewFromInt(10000)},
		}, nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		summary, err := svc.Totals(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, 2, summary.GoalCount)
		assert.True(t, decimal.NewFromInt(3500).Equal(summary.TotalSaved))
		assert.True(t, decimal.NewFromInt(15000).Equal(summary.TotalTargeted))
	})

	t.Run("empty portfolio is all zeros", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("List", mock.Anything, userID).Return([]model.SavingsGoal{}, nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		summary, err := svc.Totals(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.GoalCount)
		assert.True(t, summary.TotalSaved.IsZero())
	})
}

func TestSavingsService_ProcessAutoSaves(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	fixedType := model.AutoSaveFixed
	pctType := model.AutoSavePercentage
	fixedValue := decimal.NewFromInt(1000)
	pctValue := decimal.NewFromInt(10)

	fixedGoal := model.SavingsGoal{
		ID:            uuid.New(),
		UserID:        userID,
		AutoSaveType:  &fixedType,
		AutoSaveValue: &fixedValue,
	}
	pctGoal := model.SavingsGoal{
		ID:            uuid.New(),
		UserID:        userID,
		AutoSaveType:  &pctType,
		AutoSaveValue: &pctValue,
	}

	repo := new(MockSavingsRepo)
	repo.On("ListAutoSave", mock.Anything).Return([]model.SavingsGoal{fixedGoal, pctGoal}, nil)
	repo.On("GetByID", mock.Anything, fixedGoal.ID).Return(&fixedGoal, nil)
	repo.On("GetByID", mock.Anything, pctGoal.ID).Return(&pctGoal, nil)

	// Fixed rule contributes its value verbatim.
	repo.On("Contribute", mock.Anything, mock.MatchedBy(func(c *model.SavingsContribution) bool {
		return c.GoalID == fixedGoal.ID &&
			c.Source == model.SourceAutoSave &&
			decimal.NewFromInt(1000).Equal(c.Amount)
	}), mock.Anything).Return(&fixedGoal, &model.SavingsStreak{}, nil)

	// Percentage rule contributes 10% of the 50000 monthly income.
	repo.On("Contribute", mock.Anything, mock.MatchedBy(func(c *model.SavingsContribution) bool {
		return c.GoalID == pctGoal.ID &&
			c.Source == model.SourceAutoSave &&
			decimal.NewFromInt(5000).Equal(c.Amount)
	}), mock.Anything).Return(&pctGoal, &model.SavingsStreak{}, nil)

	users := new(MockUserLookup)
	users.On("GetByID", mock.Anything, userID).Return(&model.User{
		ID:            userID,
		MonthlyIncome: decimal.NewFromInt(50000),
	}, nil)

	svc := NewSavingsService(repo, users)
	processed, err := svc.ProcessAutoSaves(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, processed)
	repo.AssertExpectations(t)
}

func TestSavingsService_Milestones(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()
	goal := &model.SavingsGoal{ID: goalID, UserID: userID}

	t.Run("add", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(goal, nil)
		repo.On("CreateMilestone", mock.Anything, mock.MatchedBy(func(m *model.SavingsMilestone) bool {
			return m.GoalID == goalID && decimal.NewFromInt(5000).Equal(m.Amount)
		})).Return(nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		milestone, err := svc.AddMilestone(context.Background(), goalID, userID, AddMilestoneInput{
			Amount:      decimal.NewFromInt(5000),
			Description: "halfway there",
		})

		assert.NoError(t, err)
		assert.Equal(t, goalID, milestone.GoalID)
		assert.Nil(t, milestone.AchievedAt)
		repo.AssertExpectations(t)
	})

	t.Run("add rejects non-positive amount", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		svc := NewSavingsService(repo, new(MockUserLookup))

		_, err := svc.AddMilestone(context.Background(), goalID, userID, AddMilestoneInput{
			Amount: decimal.Zero,
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateMilestone", mock.Anything, mock.Anything)
	})

	t.Run("add to another user's goal is not found", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(goal, nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		_, err := svc.AddMilestone(context.Background(), goalID, uuid.New(), AddMilestoneInput{
			Amount: decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, repository.ErrSavingsGoalNotFound)
		repo.AssertNotCalled(t, "CreateMilestone", mock.Anything, mock.Anything)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(goal, nil)
		repo.On("ListMilestones", mock.Anything, goalID).Return([]model.SavingsMilestone{
			{GoalID: goalID, Amount: decimal.NewFromInt(2500)},
			{GoalID: goalID, Amount: decimal.NewFromInt(5000)},
		}, nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		milestones, err := svc.ListMilestones(context.Background(), goalID, userID)

		assert.NoError(t, err)
		assert.Len(t, milestones, 2)
	})

	t.Run("achieve", func(t *testing.T) {
		t.Parallel()

		milestoneID := uuid.New()
		achieved := day(2026, 2, 10)

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(goal, nil)
		repo.On("AchieveMilestone", mock.Anything, milestoneID, goalID).Return(&model.SavingsMilestone{
			ID:         milestoneID,
			GoalID:     goalID,
			AchievedAt: &achieved,
		}, nil)

		svc := NewSavingsService(repo, new(MockUserLookup))
		milestone, err := svc.AchieveMilestone(context.Background(), goalID, milestoneID, userID)

		assert.NoError(t, err)
		assert.NotNil(t, milestone.AchievedAt)
	})

	t.Run("achieve unknown milestone", func(t *testing.T) {
		t.Parallel()

		milestoneID := uuid.New()

		repo := new(MockSavingsRepo)
		repo.On("GetByID", mock.Anything, goalID).Return(goal, nil)
		repo.On("AchieveMilestone", mock.Anything, milestoneID, goalID).Return(nil, repository.ErrMilestoneNotFound)

		svc := NewSavingsService(repo, new(MockUserLookup))
		_, err := svc.AchieveMilestone(context.Background(), goalID, milestoneID, userID)

		assert.ErrorIs(t, err, repository.ErrMilestoneNotFound)
	})
}
