package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paisatrack/backend/internal/model"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, order_id, amount, recipient_upi, recipient_name, description, status, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at`

	p.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		p.ID, p.UserID, p.OrderID, p.Amount, p.RecipientUPI, p.RecipientName,
		p.Description, p.Status, p.PaymentID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	query := `SELECT * FROM payments WHERE id = $1`
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return &p, err
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var p model.Payment
	query := `SELECT * FROM payments WHERE order_id = $1`
	err := r.db.GetContext(ctx, &p, query, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return &p, err
}

func (r *PaymentRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	query := `SELECT * FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &payments, query, userID)
	return payments, err
}

// UpdateStatus transitions a payment's status and records the gateway
// payment reference when one is supplied.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, paymentID *string) error {
	query := `
		UPDATE payments
		SET status = $2, payment_id = COALESCE($3, payment_id), updated_at = NOW()
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, paymentID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
