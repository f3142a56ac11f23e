// Package price resolves asset prices in whole native units per whole asset
// unit, decomposing liquidity pool tokens into their constituents.
package price

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

var (
	// ErrNoPrice indicates that no price could be determined.
	ErrNoPrice = errors.New("no price available")
	// ErrCycle indicates that an asset's price depends on itself.
	ErrCycle = errors.New("price resolution cycle")
)

// PoolTokenPrefix marks the names of Tinyman liquidity pool tokens.
const PoolTokenPrefix = "Tinyman Pool "

// DefaultSlippage is applied to direct-market quotes.
var DefaultSlippage = decimal.RequireFromString("0.01")

const minTrialDecimals uint32 = 6

// Classify infers the price source from an asset name.
func Classify(name string) domain.PriceSource {
	if strings.HasPrefix(name, PoolTokenPrefix) {
		return domain.PriceSourcePoolToken
	}
	return domain.PriceSourceDirectMarket
}

// Resolver implements the price strategies. It holds no per-asset state;
// memoization lives in Env.
type Resolver struct {
	market   Market
	slippage decimal.Decimal
}

// NewResolver creates a Resolver quoting against market.
func NewResolver(market Market) *Resolver {
	return &Resolver{market: market, slippage: DefaultSlippage}
}

// Resolve computes the price of id. path must already include id; constituent
// prices are requested from env with the same path.
func (r *Resolver) Resolve(ctx context.Context, id domain.AssetID, path Path, env Env) (decimal.Decimal, error) {
	if id.IsNative() {
		return decimal.NewFromInt(1), nil
	}

	source, err := env.Source(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("asset %d: %w: %w", id, ErrNoPrice, err)
	}

	switch source {
	case domain.PriceSourceNative:
		return decimal.NewFromInt(1), nil
	case domain.PriceSourceDirectMarket:
		return r.directMarket(ctx, id, env)
	case domain.PriceSourcePoolToken:
		return r.poolToken(ctx, id, path, env)
	default:
		return decimal.Zero, fmt.Errorf("asset %d: %w: source %q", id, ErrNoPrice, source)
	}
}

// directMarket quotes 10^max(decimals, 6) raw units of the asset into the
// native asset.
func (r *Resolver) directMarket(ctx context.Context, id domain.AssetID, env Env) (decimal.Decimal, error) {
	decimals, err := env.Decimals(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("asset %d: %w: %w", id, ErrNoPrice, err)
	}

	trialDecimals := max(decimals, minTrialDecimals)
	trial := decimal.New(1, int32(trialDecimals))
	if trial.GreaterThan(decimal.NewFromUint64(math.MaxUint64)) {
		return decimal.Zero, fmt.Errorf("asset %d: %w: decimals %d out of range", id, ErrNoPrice, decimals)
	}

	quote, err := r.market.QuoteToNative(ctx, id, trial.BigInt().Uint64(), r.slippage)
	if err != nil {
		return decimal.Zero, fmt.Errorf("asset %d: %w: %w", id, ErrNoPrice, err)
	}
	if quote.AmountOut == 0 {
		return decimal.Zero, fmt.Errorf("asset %d: %w: quote of %d units rounds to zero", id, ErrNoPrice, quote.AmountIn)
	}

	// AmountOut raw native for 10^trialDecimals raw units, rescaled to whole units of each.
	shift := int32(decimals) - int32(trialDecimals) - int32(domain.NativeDecimals)
	return decimal.NewFromUint64(quote.AmountOut).Shift(shift), nil
}

// poolToken values one whole pool token as its share of both reserves.
func (r *Resolver) poolToken(ctx context.Context, id domain.AssetID, path Path, env Env) (decimal.Decimal, error) {
	creator, err := env.Creator(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pool token %d: %w: %w", id, ErrNoPrice, err)
	}

	pool, err := r.market.PoolInfo(ctx, creator)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pool token %d: %w: %w", id, ErrNoPrice, err)
	}
	if pool.PoolTokenID != 0 && pool.PoolTokenID != id {
		return decimal.Zero, fmt.Errorf("pool token %d: %w: pool %s issues %d", id, ErrNoPrice, pool.Address, pool.PoolTokenID)
	}
	if pool.IssuedLiquidity == 0 {
		return decimal.Zero, fmt.Errorf("pool token %d: %w: no issued liquidity", id, ErrNoPrice)
	}

	v1, err := r.reserveValue(ctx, pool.Asset1ID, pool.Asset1Reserves, path, env)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pool token %d: %w", id, err)
	}
	v2, err := r.reserveValue(ctx, pool.Asset2ID, pool.Asset2Reserves, path, env)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pool token %d: %w", id, err)
	}

	poolDecimals, err := env.Decimals(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pool token %d: %w: %w", id, ErrNoPrice, err)
	}

	issued := domain.UnscaleUint(pool.IssuedLiquidity, poolDecimals)
	return v1.Add(v2).Div(issued), nil
}

// reserveValue is reserves (raw) of asset expressed in whole native units.
func (r *Resolver) reserveValue(ctx context.Context, asset domain.AssetID, reserves uint64, path Path, env Env) (decimal.Decimal, error) {
	p, err := env.Price(ctx, asset, path)
	if err != nil {
		return decimal.Zero, fmt.Errorf("constituent %d: %w", asset, err)
	}
	d, err := env.Decimals(ctx, asset)
	if err != nil {
		return decimal.Zero, fmt.Errorf("constituent %d: %w: %w", asset, ErrNoPrice, err)
	}
	return domain.UnscaleUint(reserves, d).Mul(p), nil
}
