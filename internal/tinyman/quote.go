package tinyman

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

// ErrNoLiquidity indicates that one side of the pool is empty.
var ErrNoLiquidity = errors.New("pool has no liquidity")

var (
	feeNumerator   = decimal.NewFromInt(997)
	feeDenominator = decimal.NewFromInt(1000)
)

// FixedInputSwapQuote quotes swapping exactly amountIn of assetIn through the
// constant-product pool, charging the 0.3% v1 swap fee.
func FixedInputSwapQuote(pool domain.PoolInfo, assetIn domain.AssetID, amountIn uint64, slippage decimal.Decimal) (domain.SwapQuote, error) {
	inSupply, ok := pool.Reserves(assetIn)
	if !ok {
		return domain.SwapQuote{}, fmt.Errorf("asset %d is not in pool %s", assetIn, pool.Address)
	}
	assetOut := pool.Asset1ID
	if assetIn == pool.Asset1ID {
		assetOut = pool.Asset2ID
	}
	outSupply, _ := pool.Reserves(assetOut)

	if inSupply == 0 || outSupply == 0 {
		return domain.SwapQuote{}, fmt.Errorf("pool %s: %w", pool.Address, ErrNoLiquidity)
	}

	in := decimal.NewFromUint64(amountIn)
	inSup := decimal.NewFromUint64(inSupply)
	outSup := decimal.NewFromUint64(outSupply)

	k := inSup.Mul(outSup)
	inMinusFee := in.Mul(feeNumerator).Div(feeDenominator)
	out := outSup.Sub(k.Div(inSup.Add(inMinusFee))).Floor()
	if out.IsNegative() {
		out = decimal.Zero
	}

	amountOut := out.BigInt().Uint64()
	withSlippage := out.Sub(out.Mul(slippage).Floor()).BigInt().Uint64()

	return domain.SwapQuote{
		AssetIn:               assetIn,
		AssetOut:              assetOut,
		AmountIn:              amountIn,
		AmountOut:             amountOut,
		AmountOutWithSlippage: withSlippage,
		SwapFees:              in.Sub(inMinusFee),
		Slippage:              slippage,
	}, nil
}
