package price

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

// Market defines the exchange subset needed by Resolver.
type Market interface {
	QuoteToNative(ctx context.Context, asset domain.AssetID, amountIn uint64, slippage decimal.Decimal) (domain.SwapQuote, error)
	PoolInfo(ctx context.Context, address string) (domain.PoolInfo, error)
}

// Env exposes per-asset facts owned by the caller. Price must memoize its
// result per asset so that shared pool constituents are resolved once.
type Env interface {
	Decimals(ctx context.Context, id domain.AssetID) (uint32, error)
	Creator(ctx context.Context, id domain.AssetID) (string, error)
	Source(ctx context.Context, id domain.AssetID) (domain.PriceSource, error)
	Price(ctx context.Context, id domain.AssetID, path Path) (decimal.Decimal, error)
}
