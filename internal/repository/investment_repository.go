package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paisatrack/backend/internal/model"
)

var ErrInvestmentNotFound = errors.New("investment not found")

type InvestmentRepository struct {
	db *sqlx.DB
}

func NewInvestmentRepository(db *sqlx.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *model.Investment) error {
	query := `
		INSERT INTO investments (id, user_id, name, type, amount, current_value, provider, risk_level, purchase_date, maturity_date, interest_rate, linked_goal_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at`

	inv.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		inv.ID, inv.UserID, inv.Name, inv.Type, inv.Amount, inv.CurrentValue,
		inv.Provider, inv.RiskLevel, inv.PurchaseDate, inv.MaturityDate,
		inv.InterestRate, inv.LinkedGoalID,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Investment, error) {
	var inv model.Investment
	query := `SELECT * FROM investments WHERE id = $1`
	err := r.db.GetContext(ctx, &inv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvestmentNotFound
	}
	return &inv, err
}

func (r *InvestmentRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Investment, error) {
	var investments []model.Investment
	query := `SELECT * FROM investments WHERE user_id = $1 ORDER BY purchase_date DESC`
	err := r.db.SelectContext(ctx, &investments, query, userID)
	return investments, err
}

func (r *InvestmentRepository) Update(ctx context.Context, inv *model.Investment) error {
	query := `
		UPDATE investments
		SET name = $2, type = $3, amount = $4, current_value = $5, provider = $6, risk_level = $7, purchase_date = $8, maturity_date = $9, interest_rate = $10, linked_goal_id = $11, updated_at = NOW()
		WHERE id = $1 AND user_id = $12
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query,
		inv.ID, inv.Name, inv.Type, inv.Amount, inv.CurrentValue,
		inv.Provider, inv.RiskLevel, inv.PurchaseDate, inv.MaturityDate,
		inv.InterestRate, inv.LinkedGoalID, inv.UserID,
	).Scan(&inv.UpdatedAt)
}

func (r *InvestmentRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM investments WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInvestmentNotFound
	}
	return nil
}
