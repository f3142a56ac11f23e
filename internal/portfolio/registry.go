// Package portfolio aggregates wallet balances into a registry of lazily
// resolved assets.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
	"github.com/mtlprog/algofolio/internal/price"
)

// MetadataLookup resolves ledger metadata for an asset, one field at a time.
type MetadataLookup interface {
	Name(ctx context.Context, id domain.AssetID) (string, error)
	Decimals(ctx context.Context, id domain.AssetID) (uint32, error)
	Creator(ctx context.Context, id domain.AssetID) (string, error)
}

// PriceResolver computes one asset's price, recursing through env.
type PriceResolver interface {
	Resolve(ctx context.Context, id domain.AssetID, path price.Path, env price.Env) (decimal.Decimal, error)
}

// BalanceFetcher returns the balances of one wallet.
type BalanceFetcher interface {
	FetchBalances(ctx context.Context, address string) (domain.WalletBalances, error)
}

// Registry is the single owner of every Asset in a run: one instance per id.
// It is not safe for concurrent use.
type Registry struct {
	lookup    MetadataLookup
	resolver  PriceResolver
	overrides map[domain.AssetID]domain.AssetOverride

	assets   map[domain.AssetID]*Asset
	order    []domain.AssetID
	wallets  []domain.WalletBalances
	warnings []string
}

// NewRegistry creates a Registry. Overrides that carry an amount seed the
// balance of their asset, in ascending id order.
func NewRegistry(lookup MetadataLookup, resolver PriceResolver, overrides map[domain.AssetID]domain.AssetOverride) *Registry {
	r := &Registry{
		lookup:    lookup,
		resolver:  resolver,
		overrides: overrides,
		assets:    make(map[domain.AssetID]*Asset),
	}
	for _, id := range slices.Sorted(maps.Keys(overrides)) {
		if overrides[id].Amount != nil {
			r.Get(id)
		}
	}
	return r
}

// Get returns the asset for id, creating it on first reference, and lists it
// in AssetIDs.
func (r *Registry) Get(id domain.AssetID) *Asset {
	a := r.Asset(id)
	if !a.listed {
		a.listed = true
		r.order = append(r.order, id)
	}
	return a
}

// Asset returns the asset for id, creating it if needed, without listing it.
// Pricing reaches assets no wallet holds: the display asset and pool
// constituents.
func (r *Registry) Asset(id domain.AssetID) *Asset {
	if a, ok := r.assets[id]; ok {
		return a
	}
	a := newAsset(id, r.overrides[id], r)
	r.assets[id] = a
	return a
}

// AssetIDs returns every asset that holds a balance or a configured amount,
// in first-reference order.
func (r *Registry) AssetIDs() []domain.AssetID {
	return slices.Clone(r.order)
}

// AddWalletBalances adds one wallet's balances to the registry.
func (r *Registry) AddWalletBalances(wb domain.WalletBalances) {
	for _, b := range wb.Balances {
		r.Get(b.AssetID).AddAmount(decimal.NewFromUint64(b.Amount))
	}
	r.wallets = append(r.wallets, wb)
}

// AddWallets fetches and adds each wallet in order. A failed fetch is logged,
// recorded as a warning and skipped.
func (r *Registry) AddWallets(ctx context.Context, fetcher BalanceFetcher, addresses []string) {
	for _, addr := range addresses {
		wb, err := fetcher.FetchBalances(ctx, addr)
		if err != nil {
			slog.Warn("skipping wallet", "address", addr, "error", err)
			r.warnings = append(r.warnings, fmt.Sprintf("wallet %s: %v", addr, err))
			continue
		}
		r.AddWalletBalances(wb)
	}
}

// Wallets returns the balances of every wallet added so far.
func (r *Registry) Wallets() []domain.WalletBalances {
	return slices.Clone(r.wallets)
}

// Warnings returns the non-fatal problems recorded while collecting balances.
func (r *Registry) Warnings() []string {
	return slices.Clone(r.warnings)
}

// Price returns the memoized price of id. path is the chain of assets already
// being resolved; re-entering one of them yields price.ErrCycle, which is not
// memoized.
func (r *Registry) Price(ctx context.Context, id domain.AssetID, path price.Path) (decimal.Decimal, error) {
	next, err := path.Enter(id)
	if err != nil {
		return decimal.Zero, err
	}

	a := r.Asset(id)
	return a.price.get(func() (decimal.Decimal, error) {
		if a.override.Price != nil {
			return *a.override.Price, nil
		}
		return r.resolver.Resolve(ctx, id, next, r)
	})
}

func (r *Registry) Decimals(ctx context.Context, id domain.AssetID) (uint32, error) {
	return r.Asset(id).Decimals(ctx)
}

func (r *Registry) Creator(ctx context.Context, id domain.AssetID) (string, error) {
	return r.Asset(id).Creator(ctx)
}

func (r *Registry) Source(ctx context.Context, id domain.AssetID) (domain.PriceSource, error) {
	return r.Asset(id).PriceSource(ctx)
}

var _ price.Env = (*Registry)(nil)
