package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paisatrack/backend/internal/model"
)

type RateRepository struct {
	db *sqlx.DB
}

func NewRateRepository(db *sqlx.DB) *RateRepository {
	return &RateRepository{db: db}
}

// Upsert replaces the stored rate for a bank/term pair with the latest
// scraped value.
func (r *RateRepository) Upsert(ctx context.Context, rate *model.InterestRate) error {
	query := `
		INSERT INTO interest_rates (id, bank_name, term_months, rate, scraped_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (bank_name, term_months) DO UPDATE
		SET rate = $4, scraped_at = $5`

	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, query,
		rate.ID, rate.BankName, rate.TermMonths, rate.Rate, rate.ScrapedAt,
	)
	return err
}

func (r *RateRepository) List(ctx context.Context) ([]model.InterestRate, error) {
	var rates []model.InterestRate
	query := `SELECT * FROM interest_rates ORDER BY bank_name, term_months`
	err := r.db.SelectContext(ctx, &rates, query)
	return rates, err
}
