package external

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Quote is the last known fiat price of one whole native unit.
type Quote struct {
	Currency  string          `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// QuoteRepository defines persistent storage for fiat quotes.
type QuoteRepository interface {
	SaveQuote(ctx context.Context, currency string, price decimal.Decimal) error
	GetQuote(ctx context.Context, currency string) (Quote, error)
}

// PgQuoteRepository implements QuoteRepository with PostgreSQL.
type PgQuoteRepository struct {
	pool *pgxpool.Pool
}

// NewPgQuoteRepository creates a new PostgreSQL quote repository.
func NewPgQuoteRepository(pool *pgxpool.Pool) *PgQuoteRepository {
	return &PgQuoteRepository{pool: pool}
}

func (r *PgQuoteRepository) SaveQuote(ctx context.Context, currency string, price decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fiat_quotes (currency, price, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (currency) DO UPDATE SET price = $2, updated_at = NOW()`,
		currency, price)
	if err != nil {
		return fmt.Errorf("saving quote for %s: %w", currency, err)
	}
	return nil
}

func (r *PgQuoteRepository) GetQuote(ctx context.Context, currency string) (Quote, error) {
	var q Quote
	err := r.pool.QueryRow(ctx,
		`SELECT currency, price, updated_at FROM fiat_quotes WHERE currency = $1`,
		currency).Scan(&q.Currency, &q.Price, &q.UpdatedAt)
	if err != nil {
		return Quote{}, fmt.Errorf("getting quote for %s: %w", currency, err)
	}
	return q, nil
}
