package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
	"github.com/mtlprog/algofolio/internal/price"
)

// Asset is one asset held across the portfolio. Metadata, price source and
// price are resolved on first use and memoized, failures included.
type Asset struct {
	id       domain.AssetID
	amount   decimal.Decimal
	override domain.AssetOverride
	reg      *Registry
	listed   bool

	name     resolution[string]
	decimals resolution[uint32]
	creator  resolution[string]
	source   resolution[domain.PriceSource]
	price    resolution[decimal.Decimal]
}

func newAsset(id domain.AssetID, override domain.AssetOverride, reg *Registry) *Asset {
	a := &Asset{id: id, amount: decimal.Zero, override: override, reg: reg}
	if id.IsNative() {
		m := domain.NativeMetadata()
		a.name.set(m.Name)
		a.decimals.set(m.Decimals)
		a.creator.set(m.Creator)
	}
	if override.Amount != nil {
		a.amount = decimal.NewFromInt(*override.Amount)
	}
	return a
}

// ID returns the asset id.
func (a *Asset) ID() domain.AssetID {
	return a.id
}

// Amount returns the aggregated raw balance, exact across wallets.
func (a *Asset) Amount() decimal.Decimal {
	return a.amount
}

// AddAmount accumulates a raw balance delta. Negative deltas are accepted.
func (a *Asset) AddAmount(delta decimal.Decimal) {
	a.amount = a.amount.Add(delta)
}

// Name returns the configured name, else the ledger name.
func (a *Asset) Name(ctx context.Context) (string, error) {
	if a.override.Name != nil {
		return *a.override.Name, nil
	}
	return a.name.get(func() (string, error) {
		return a.reg.lookup.Name(ctx, a.id)
	})
}

// Decimals returns the configured decimals, else the ledger decimals.
func (a *Asset) Decimals(ctx context.Context) (uint32, error) {
	if a.override.Decimals != nil {
		return *a.override.Decimals, nil
	}
	return a.decimals.get(func() (uint32, error) {
		return a.reg.lookup.Decimals(ctx, a.id)
	})
}

// Creator returns the creating account; for pool tokens this is the pool.
// Only pool-token pricing asks for it.
func (a *Asset) Creator(ctx context.Context) (string, error) {
	return a.creator.get(func() (string, error) {
		return a.reg.lookup.Creator(ctx, a.id)
	})
}

// PriceSource returns the configured source, else one inferred from the name.
func (a *Asset) PriceSource(ctx context.Context) (domain.PriceSource, error) {
	return a.source.get(func() (domain.PriceSource, error) {
		if a.override.PriceSource != nil {
			return *a.override.PriceSource, nil
		}
		if a.id.IsNative() {
			return domain.PriceSourceNative, nil
		}
		name, err := a.Name(ctx)
		if err != nil {
			return "", fmt.Errorf("classifying asset %d: %w", a.id, err)
		}
		return price.Classify(name), nil
	})
}

// Price returns whole native units per whole unit of this asset.
func (a *Asset) Price(ctx context.Context) (decimal.Decimal, error) {
	return a.reg.Price(ctx, a.id, nil)
}

// Value returns amount / 10^decimals × price in whole native units.
func (a *Asset) Value(ctx context.Context) (decimal.Decimal, error) {
	p, err := a.Price(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := a.Decimals(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("asset %d decimals: %w", a.id, err)
	}
	return domain.Unscale(a.amount, d).Mul(p), nil
}
