package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paisatrack/backend/internal/model"
)

var ErrDebtNotFound = errors.New("debt not found")

type DebtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func (r *DebtRepository) Create(ctx context.Context, debt *model.Debt) error {
	query := `
		INSERT INTO debts (id, user_id, name, principal, current_balance, interest_rate, emi_amount, total_emis, completed_emis, due_date, type, creditor, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at`

	debt.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		debt.ID, debt.UserID, debt.Name, debt.Principal, debt.CurrentBalance,
		debt.InterestRate, debt.EMIAmount, debt.TotalEMIs, debt.CompletedEMIs,
		debt.DueDate, debt.Type, debt.Creditor, debt.Notes,
	).Scan(&debt.CreatedAt, &debt.UpdatedAt)
}

func (r *DebtRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Debt, error) {
	var debt model.Debt
	query := `SELECT * FROM debts WHERE id = $1`
	err := r.db.GetContext(ctx, &debt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDebtNotFound
	}
	return &debt, err
}

func (r *DebtRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Debt, error) {
	var debts []model.Debt
	query := `SELECT * FROM debts WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &debts, query, userID)
	return debts, err
}

func (r *DebtRepository) Update(ctx context.Context, debt *model.Debt) error {
	query := `
		UPDATE debts
		SET name = $2, principal = $3, current_balance = $4, interest_rate = $5, emi_amount = $6, total_emis = $7, completed_emis = $8, due_date = $9, type = $10, creditor = $11, notes = $12, updated_at = NOW()
		WHERE id = $1 AND user_id = $13
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query,
		debt.ID, debt.Name, debt.Principal, debt.CurrentBalance, debt.InterestRate,
		debt.EMIAmount, debt.TotalEMIs, debt.CompletedEMIs, debt.DueDate,
		debt.Type, debt.Creditor, debt.Notes, debt.UserID,
	).Scan(&debt.UpdatedAt)
}

func (r *DebtRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM debts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDebtNotFound
	}
	return nil
}
