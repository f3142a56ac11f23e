package tinyman

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

var onePercent = decimal.RequireFromString("0.01")

func TestFixedInputSwapQuote(t *testing.T) {
	pool := domain.PoolInfo{
		Address:        "POOL",
		Asset1ID:       7,
		Asset2ID:       domain.NativeAssetID,
		Asset1Reserves: 1_000_000_000,
		Asset2Reserves: 2_000_000_000,
	}

	q, err := FixedInputSwapQuote(pool, 7, 1_000_000, onePercent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.AssetOut != domain.NativeAssetID {
		t.Errorf("AssetOut = %d, want native", q.AssetOut)
	}
	if q.AmountOut != 1_992_013 {
		t.Errorf("AmountOut = %d, want 1992013", q.AmountOut)
	}
	if q.AmountOutWithSlippage != 1_972_093 {
		t.Errorf("AmountOutWithSlippage = %d, want 1972093", q.AmountOutWithSlippage)
	}
	if !q.SwapFees.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("SwapFees = %s, want 3000", q.SwapFees)
	}
}

func TestFixedInputSwapQuoteReverseDirection(t *testing.T) {
	pool := domain.PoolInfo{Asset1ID: 7, Asset2ID: 0, Asset1Reserves: 1_000_000, Asset2Reserves: 1_000_000}

	q, err := FixedInputSwapQuote(pool, domain.NativeAssetID, 1000, onePercent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.AssetOut != 7 {
		t.Errorf("AssetOut = %d, want 7", q.AssetOut)
	}
	if q.AmountOut == 0 || q.AmountOut >= 1000 {
		t.Errorf("AmountOut = %d, want below input after fees", q.AmountOut)
	}
}

func TestFixedInputSwapQuoteNoLiquidity(t *testing.T) {
	pool := domain.PoolInfo{Asset1ID: 7, Asset2ID: 0, Asset1Reserves: 0, Asset2Reserves: 10}
	_, err := FixedInputSwapQuote(pool, 7, 1000, onePercent)
	if !errors.Is(err, ErrNoLiquidity) {
		t.Fatalf("err = %v, want ErrNoLiquidity", err)
	}
}

func TestFixedInputSwapQuoteForeignAsset(t *testing.T) {
	pool := domain.PoolInfo{Asset1ID: 7, Asset2ID: 0, Asset1Reserves: 10, Asset2Reserves: 10}
	if _, err := FixedInputSwapQuote(pool, 8, 1000, onePercent); err == nil {
		t.Fatal("expected error for asset outside the pool")
	}
}
