package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/report"
)

// Service records reports and compares them with earlier ones.
type Service struct {
	repo Repository
}

// NewService creates a new snapshot Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Change is the difference between a report and the previous snapshot valued
// in the same display asset.
type Change struct {
	Previous Snapshot
	Delta    decimal.Decimal
	// Ratio is Delta / previous total; nil when the previous total is zero.
	Ratio *decimal.Decimal
}

// Record stores r under the portfolio slug and returns the change against the
// previous snapshot, or nil when there is none.
func (s *Service) Record(ctx context.Context, slug string, r report.Report) (*Change, error) {
	portfolioID, err := s.repo.EnsurePortfolio(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting portfolio: %w", err)
	}

	var change *Change
	prev, err := s.repo.GetLatest(ctx, slug, uint64(r.DisplayAssetID))
	switch {
	case err == nil:
		change = compare(*prev, r.Total)
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("getting previous snapshot: %w", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}

	snap := Snapshot{
		ID:             r.ID,
		PortfolioID:    portfolioID,
		DisplayAssetID: uint64(r.DisplayAssetID),
		Total:          r.Total,
		Incomplete:     r.Incomplete,
		Data:           data,
		CreatedAt:      r.GeneratedAt,
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	return change, nil
}

// List retrieves recent snapshots.
func (s *Service) List(ctx context.Context, slug string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, slug, limit)
}

func compare(prev Snapshot, total decimal.Decimal) *Change {
	c := &Change{Previous: prev, Delta: total.Sub(prev.Total)}
	if !prev.Total.IsZero() {
		ratio := c.Delta.Div(prev.Total)
		c.Ratio = &ratio
	}
	return c
}
