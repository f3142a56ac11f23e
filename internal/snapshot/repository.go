// Package snapshot keeps a history of valuation reports in PostgreSQL.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored valuation report.
type Snapshot struct {
	ID             uuid.UUID       `json:"id"`
	PortfolioID    int             `json:"portfolioId"`
	DisplayAssetID uint64          `json:"displayAssetId"`
	Total          decimal.Decimal `json:"total"`
	Incomplete     bool            `json:"incomplete"`
	Data           json.RawMessage `json:"data"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for snapshots.
type Repository interface {
	Save(ctx context.Context, s Snapshot) error
	GetLatest(ctx context.Context, portfolioSlug string, displayAssetID uint64) (*Snapshot, error)
	List(ctx context.Context, portfolioSlug string, limit int) ([]Snapshot, error)
	EnsurePortfolio(ctx context.Context, slug string) (int, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, s Snapshot) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO report_snapshots (id, portfolio_id, display_asset_id, total, incomplete, data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)`,
		s.ID, s.PortfolioID, int64(s.DisplayAssetID), s.Total, s.Incomplete, s.Data, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

const snapshotColumns = `rs.id, rs.portfolio_id, rs.display_asset_id, rs.total, rs.incomplete, rs.data, rs.created_at`

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var s Snapshot
	var displayID int64
	if err := row.Scan(&s.ID, &s.PortfolioID, &displayID, &s.Total, &s.Incomplete, &s.Data, &s.CreatedAt); err != nil {
		return Snapshot{}, err
	}
	s.DisplayAssetID = uint64(displayID)
	return s, nil
}

func (r *PgRepository) GetLatest(ctx context.Context, portfolioSlug string, displayAssetID uint64) (*Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+`
		 FROM report_snapshots rs
		 JOIN portfolios p ON p.id = rs.portfolio_id
		 WHERE p.slug = $1 AND rs.display_asset_id = $2
		 ORDER BY rs.created_at DESC
		 LIMIT 1`, portfolioSlug, int64(displayAssetID))
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) List(ctx context.Context, portfolioSlug string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+`
		 FROM report_snapshots rs
		 JOIN portfolios p ON p.id = rs.portfolio_id
		 WHERE p.slug = $1
		 ORDER BY rs.created_at DESC
		 LIMIT $2`, portfolioSlug, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *PgRepository) EnsurePortfolio(ctx context.Context, slug string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO portfolios (slug)
		 VALUES ($1)
		 ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		 RETURNING id`,
		slug).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring portfolio %s: %w", slug, err)
	}
	return id, nil
}
