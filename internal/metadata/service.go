package metadata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mtlprog/algofolio/internal/algod"
	"github.com/mtlprog/algofolio/internal/domain"
)

// AssetFetcher defines the algod subset needed for live metadata lookups.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, id uint64) (algod.Asset, error)
}

// Service resolves metadata one field at a time: from the cache when the
// field is present there, from the node otherwise, back-filling the cache
// after a live lookup. The native asset never touches either.
type Service struct {
	store   Store
	fetcher AssetFetcher
}

// NewService creates a metadata Service.
func NewService(store Store, fetcher AssetFetcher) *Service {
	return &Service{store: store, fetcher: fetcher}
}

// Name returns the ledger name of id.
func (s *Service) Name(ctx context.Context, id domain.AssetID) (string, error) {
	if id.IsNative() {
		return domain.NativeAssetName, nil
	}
	e, err := s.field(ctx, id, func(e Entry) bool { return e.Name != nil })
	if err != nil {
		return "", err
	}
	return *e.Name, nil
}

// Decimals returns the ledger decimals of id.
func (s *Service) Decimals(ctx context.Context, id domain.AssetID) (uint32, error) {
	if id.IsNative() {
		return domain.NativeDecimals, nil
	}
	e, err := s.field(ctx, id, func(e Entry) bool { return e.Decimals != nil })
	if err != nil {
		return 0, err
	}
	return *e.Decimals, nil
}

// Creator returns the creating account of id. The native asset has none.
func (s *Service) Creator(ctx context.Context, id domain.AssetID) (string, error) {
	if id.IsNative() {
		return "", nil
	}
	e, err := s.field(ctx, id, func(e Entry) bool { return e.Creator != nil })
	if err != nil {
		return "", err
	}
	return *e.Creator, nil
}

// field returns the cached entry when has reports the wanted field present,
// else the live entry. A failed live lookup caches nothing.
func (s *Service) field(ctx context.Context, id domain.AssetID, has func(Entry) bool) (Entry, error) {
	cached, err := s.store.Entry(ctx, id)
	if err != nil {
		slog.Warn("metadata cache read failed, using live lookup", "asset", id, "error", err)
	} else if has(cached) {
		return cached, nil
	}

	asset, err := s.fetcher.FetchAsset(ctx, uint64(id))
	if err != nil {
		return Entry{}, fmt.Errorf("looking up asset %d: %w", id, err)
	}

	live := EntryFrom(domain.AssetMetadata{
		Name:     asset.Params.Name,
		Decimals: asset.Params.Decimals,
		Creator:  asset.Params.Creator,
	})
	if err := s.store.Put(ctx, id, live); err != nil {
		slog.Warn("metadata cache write failed", "asset", id, "error", err)
	}
	return live, nil
}
