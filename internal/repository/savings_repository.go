package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paisatrack/backend/internal/model"
)

var (
	ErrSavingsGoalNotFound = errors.New("savings goal not found")
	ErrMilestoneNotFound   = errors.New("milestone not found")
)

type SavingsRepository struct {
	db *sqlx.DB
}

func NewSavingsRepository(db *sqlx.DB) *SavingsRepository {
	return &SavingsRepository{db: db}
}

func (r *SavingsRepository) Create(ctx context.Context, goal *model.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, deadline, category, color, auto_save_type, auto_save_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`

	goal.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount,
		goal.Deadline, goal.Category, goal.Color, goal.AutoSaveType, goal.AutoSaveValue,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt)
}

func (r *SavingsRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SavingsGoal, error) {
	var goal model.SavingsGoal
	query := `SELECT * FROM savings_goals WHERE id = $1`
	err := r.db.GetContext(ctx, &goal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSavingsGoalNotFound
	}
	return &goal, err
}

func (r *SavingsRepository) List(ctx context.Context, userID uuid.UUID) ([]model.SavingsGoal, error) {
	var goals []model.SavingsGoal
	query := `SELECT * FROM savings_goals WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &goals, query, userID)
	return goals, err
}

// ListAutoSave returns every goal with an auto-save rule configured,
// across all users. The scheduler drives this.
func (r *SavingsRepository) ListAutoSave(ctx context.Context) ([]model.SavingsGoal, error) {
	var goals []model.SavingsGoal
	query := `SELECT * FROM savings_goals WHERE auto_save_type IS NOT NULL AND auto_save_value IS NOT NULL`
	err := r.db.SelectContext(ctx, &goals, query)
	return goals, err
}

func (r *SavingsRepository) Update(ctx context.Context, goal *model.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = $2, target_amount = $3, deadline = $4, category = $5, color = $6, auto_save_type = $7, auto_save_value = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $9
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query,
		goal.ID, goal.Name, goal.TargetAmount, goal.Deadline, goal.Category,
		goal.Color, goal.AutoSaveType, goal.AutoSaveValue, goal.UserID,
	).Scan(&goal.UpdatedAt)
}

func (r *SavingsRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSavingsGoalNotFound
	}
	return nil
}

func (r *SavingsRepository) CreateMilestone(ctx context.Context, m *model.SavingsMilestone) error {
	query := `
		INSERT INTO savings_milestones (id, goal_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`

	m.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		m.ID, m.GoalID, m.Amount, m.Description,
	).Scan(&m.CreatedAt)
}

func (r *SavingsRepository) ListMilestones(ctx context.Context, goalID uuid.UUID) ([]model.SavingsMilestone, error) {
	var milestones []model.SavingsMilestone
	query := `SELECT * FROM savings_milestones WHERE goal_id = $1 ORDER BY amount ASC`
	err := r.db.SelectContext(ctx, &milestones, query, goalID)
	return milestones, err
}

// AchieveMilestone stamps achieved_at. An already-achieved milestone keeps
// its original timestamp.
func (r *SavingsRepository) AchieveMilestone(ctx context.Context, id, goalID uuid.UUID) (*model.SavingsMilestone, error) {
	var m model.SavingsMilestone
	query := `
		UPDATE savings_milestones
		SET achieved_at = COALESCE(achieved_at, NOW())
		WHERE id = $1 AND goal_id = $2
		RETURNING *`
	err := r.db.GetContext(ctx, &m, query, id, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *SavingsRepository) ListContributions(ctx context.Context, goalID uuid.UUID) ([]model.SavingsContribution, error) {
	var contributions []model.SavingsContribution
	query := `SELECT * FROM savings_contributions WHERE goal_id = $1 ORDER BY date DESC`
	err := r.db.SelectContext(ctx, &contributions, query, goalID)
	return contributions, err
}

// GetStreak returns the streak row for a goal, or nil when the goal has
// never received a contribution.
func (r *SavingsRepository) GetStreak(ctx context.Context, goalID uuid.UUID) (*model.SavingsStreak, error) {
	var streak model.SavingsStreak
	query := `SELECT * FROM savings_streaks WHERE goal_id = $1`
	err := r.db.GetContext(ctx, &streak, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// Contribute records a contribution, increments the goal balance and
// updates the goal's streak in a single transaction. The advance callback
// receives the current streak row (nil when the goal has none yet) and
// returns the next streak state.
func (r *SavingsRepository) Contribute(ctx context.Context, c *model.SavingsContribution, advance func(prev *model.SavingsStreak) model.SavingsStreak) (*model.SavingsGoal, *model.SavingsStreak, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	c.ID = uuid.New()
	insertContribution := `
		INSERT INTO savings_contributions (id, goal_id, amount, date, source, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`
	if err := tx.QueryRowxContext(ctx, insertContribution,
		c.ID, c.GoalID, c.Amount, c.Date, c.Source,
	).Scan(&c.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("inserting contribution: %w", err)
	}

	var goal model.SavingsGoal
	updateGoal := `
		UPDATE savings_goals
		SET current_amount = current_amount + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *`
	if err := tx.GetContext(ctx, &goal, updateGoal, c.GoalID, c.Amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrSavingsGoalNotFound
		}
		return nil, nil, fmt.Errorf("updating goal balance: %w", err)
	}

	var prev *model.SavingsStreak
	var current model.SavingsStreak
	err = tx.GetContext(ctx, &current, `SELECT * FROM savings_streaks WHERE goal_id = $1 FOR UPDATE`, c.GoalID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		prev = nil
	case err != nil:
		return nil, nil, fmt.Errorf("loading streak: %w", err)
	default:
		prev = &current
	}

	next := advance(prev)
	next.GoalID = c.GoalID
	upsertStreak := `
		INSERT INTO savings_streaks (goal_id, current_streak, longest_streak, last_contribution_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (goal_id) DO UPDATE
		SET current_streak = $2, longest_streak = $3, last_contribution_date = $4`
	if _, err := tx.ExecContext(ctx, upsertStreak,
		next.GoalID, next.CurrentStreak, next.LongestStreak, next.LastContributionDate,
	); err != nil {
		return nil, nil, fmt.Errorf("upserting streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &goal, &next, nil
}
