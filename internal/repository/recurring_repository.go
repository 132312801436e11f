package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paisatrack/backend/internal/model"
)

var ErrRecurringNotFound = errors.New("recurring transaction not found")

type RecurringRepository struct {
	db *sqlx.DB
}

func NewRecurringRepository(db *sqlx.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) Create(ctx context.Context, rt *model.RecurringTransaction) error {
	query := `
		INSERT INTO recurring_transactions (id, user_id, title, amount, category, frequency, type, start_date, end_date, is_active, next_due_date, notify_before, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at`

	rt.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		rt.ID, rt.UserID, rt.Title, rt.Amount, rt.Category, rt.Frequency, rt.Type,
		rt.StartDate, rt.EndDate, rt.IsActive, rt.NextDueDate, rt.NotifyBefore,
	).Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

func (r *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringTransaction, error) {
	var rt model.RecurringTransaction
	query := `SELECT * FROM recurring_transactions WHERE id = $1`
	err := r.db.GetContext(ctx, &rt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecurringNotFound
	}
	return &rt, err
}

func (r *RecurringRepository) List(ctx context.Context, userID uuid.UUID) ([]model.RecurringTransaction, error) {
	var rts []model.RecurringTransaction
	query := `SELECT * FROM recurring_transactions WHERE user_id = $1 ORDER BY next_due_date ASC`
	err := r.db.SelectContext(ctx, &rts, query, userID)
	return rts, err
}

func (r *RecurringRepository) Update(ctx context.Context, rt *model.RecurringTransaction) error {
	query := `
		UPDATE recurring_transactions
		SET title = $2, amount = $3, category = $4, frequency = $5, type = $6, start_date = $7, end_date = $8, is_active = $9, next_due_date = $10, notify_before = $11, updated_at = NOW()
		WHERE id = $1 AND user_id = $12
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query,
		rt.ID, rt.Title, rt.Amount, rt.Category, rt.Frequency, rt.Type,
		rt.StartDate, rt.EndDate, rt.IsActive, rt.NextDueDate, rt.NotifyBefore, rt.UserID,
	).Scan(&rt.UpdatedAt)
}

func (r *RecurringRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM recurring_transactions WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecurringNotFound
	}
	return nil
}

// GetDue returns active entries whose next due date has passed.
func (r *RecurringRepository) GetDue(ctx context.Context, now time.Time) ([]model.RecurringTransaction, error) {
	var rts []model.RecurringTransaction
	query := `
		SELECT * FROM recurring_transactions
		WHERE is_active = TRUE AND next_due_date <= $1 AND (end_date IS NULL OR end_date >= $1)
		ORDER BY next_due_date ASC`
	err := r.db.SelectContext(ctx, &rts, query, now)
	return rts, err
}

// AdvanceDueDate moves an entry's next due date forward after processing.
func (r *RecurringRepository) AdvanceDueDate(ctx context.Context, id uuid.UUID, nextDueDate time.Time) error {
	query := `UPDATE recurring_transactions SET next_due_date = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, nextDueDate)
	return err
}
