package external

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceFetcher fetches a live fiat quote for the native asset.
type PriceFetcher interface {
	FetchNativePrice(ctx context.Context, currency string) (decimal.Decimal, error)
}

// Service resolves fiat rates, falling back to the last stored quote when the
// live source is unavailable. repo may be nil.
type Service struct {
	fetcher PriceFetcher
	repo    QuoteRepository
}

// NewService creates a new fiat rate Service.
func NewService(fetcher PriceFetcher, repo QuoteRepository) *Service {
	return &Service{fetcher: fetcher, repo: repo}
}

// NativeRate returns the fiat price of one whole native unit.
func (s *Service) NativeRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = strings.ToLower(currency)

	price, err := s.fetcher.FetchNativePrice(ctx, currency)
	if err == nil {
		if s.repo != nil {
			if saveErr := s.repo.SaveQuote(ctx, currency, price); saveErr != nil {
				slog.Warn("failed to store fiat quote", "currency", currency, "error", saveErr)
			}
		}
		return price, nil
	}

	if s.repo == nil {
		return decimal.Zero, fmt.Errorf("fetching %s rate: %w", currency, err)
	}

	q, repoErr := s.repo.GetQuote(ctx, currency)
	if repoErr != nil {
		return decimal.Zero, fmt.Errorf("fetching %s rate: %w (no stored quote: %v)", currency, err, repoErr)
	}
	slog.Warn("using stored fiat quote", "currency", currency, "updated_at", q.UpdatedAt, "error", err)
	return q.Price, nil
}
