package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/paisatrack/backend/internal/model"
)

// Helper to create a mock DB
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestNewSavingsRepository(t *testing.T) {
	t.Parallel()

	db, _ := newMockDB(t)
	defer func() { _ = db.Close() }()

	repo := NewSavingsRepository(db)
	assert.NotNil(t, repo)
}

func TestSavingsRepository_Create(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewSavingsRepository(db)

	ctx := context.Background()
	goal := &model.SavingsGoal{
		UserID:       uuid.New(),
		Name:         "Goa trip",
		TargetAmount: decimal.NewFromInt(50000),
		Deadline:     time.Now().AddDate(0, 6, 0),
		Category:     model.GoalCategoryTravel,
		Color:        "#0ea5e9",
	}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)

	mock.ExpectQuery(`INSERT INTO savings_goals`).
		WithArgs(sqlmock.AnyArg(), goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount,
			goal.Deadline, goal.Category, goal.Color, goal.AutoSaveType, goal.AutoSaveValue).
		WillReturnRows(rows)

	err := repo.Create(ctx, goal)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, goal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavingsRepository_GetByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock, uuid.UUID)
		wantErr   bool
		errType   error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock, id uuid.UUID) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "name", "target_amount", "current_amount", "deadline", "category", "color", "auto_save_type", "auto_save_value", "created_at", "updated_at"}).
					AddRow(id, uuid.New(), "Emergency fund", decimal.NewFromInt(100000), decimal.NewFromInt(25000), time.Now().AddDate(1, 0, 0), "emergency", "#22c55e", nil, nil, time.Now(), time.Now())
				mock.ExpectQuery(`SELECT \* FROM savings_goals WHERE id = \$1`).
					WithArgs(id).
					WillReturnRows(rows)
			},
			wantErr: false,
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock, id uuid.UUID) {
				mock.ExpectQuery(`SELECT \* FROM savings_goals WHERE id = \$1`).
					WithArgs(id).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errType: ErrSavingsGoalNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			defer func() { _ = db.Close() }()
			repo := NewSavingsRepository(db)

			ctx := context.Background()
			goalID := uuid.New()
			tt.setupMock(mock, goalID)

			goal, err := repo.GetByID(ctx, goalID)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errType != nil {
					assert.ErrorIs(t, err, tt.errType)
				}
				assert.Nil(t, goal)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, goal)
				assert.Equal(t, goalID, goal.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSavingsRepository_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock, uuid.UUID, uuid.UUID)
		wantErr   bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock, id, userID uuid.UUID) {
				mock.ExpectExec(`DELETE FROM savings_goals WHERE id = \$1 AND user_id = \$2`).
					WithArgs(id, userID).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock, id, userID uuid.UUID) {
				mock.ExpectExec(`DELETE FROM savings_goals WHERE id = \$1 AND user_id = \$2`).
					WithArgs(id, userID).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			defer func() { _ = db.Close() }()
			repo := NewSavingsRepository(db)

			goalID := uuid.New()
			userID := uuid.New()
			tt.setupMock(mock, goalID, userID)

			err := repo.Delete(context.Background(), goalID, userID)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSavingsGoalNotFound)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSavingsRepository_Contribute(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewSavingsRepository(db)

	goalID := uuid.New()
	userID := uuid.New()
	today := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	contribution := &model.SavingsContribution{
		GoalID: goalID,
		Amount: decimal.NewFromInt(500),
		Date:   today,
		Source: model.SourceManual,
	}

	mock.ExpectBegin()

	mock.ExpectQuery(`INSERT INTO savings_contributions`).
		WithArgs(sqlmock.AnyArg(), goalID, contribution.Amount, contribution.Date, contribution.Source).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	goalRows := sqlmock.NewRows([]string{"id", "user_id", "name", "target_amount", "current_amount", "deadline", "category", "color", "auto_save_type", "auto_save_value", "created_at", "updated_at"}).
		AddRow(goalID, userID, "Emergency fund", decimal.NewFromInt(100000), decimal.NewFromInt(10500), time.Now().AddDate(1, 0, 0), "emergency", "#22c55e", nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(`UPDATE savings_goals`).
		WithArgs(goalID, contribution.Amount).
		WillReturnRows(goalRows)

	yesterday := today.AddDate(0, 0, -1)
	streakRows := sqlmock.NewRows([]string{"goal_id", "current_streak", "longest_streak", "last_contribution_date"}).
		AddRow(goalID, 3, 5, yesterday)
	mock.ExpectQuery(`SELECT \* FROM savings_streaks WHERE goal_id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(streakRows)

	mock.ExpectExec(`INSERT INTO savings_streaks`).
		WithArgs(goalID, 4, 5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	goal, streak, err := repo.Contribute(context.Background(), contribution, func(prev *model.SavingsStreak) model.SavingsStreak {
		assert.NotNil(t, prev)
		assert.Equal(t, 3, prev.CurrentStreak)
		return model.SavingsStreak{CurrentStreak: 4, LongestStreak: 5, LastContributionDate: &today}
	})

	assert.NoError(t, err)
	assert.NotNil(t, goal)
	assert.True(t, decimal.NewFromInt(10500).Equal(goal.CurrentAmount))
	assert.Equal(t, 4, streak.CurrentStreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}
