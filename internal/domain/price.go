package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceSource describes how an asset's price is derived.
type PriceSource string

const (
	PriceSourceNative       PriceSource = "native"
	PriceSourceDirectMarket PriceSource = "direct-market"
	PriceSourcePoolToken    PriceSource = "pool-token"
	PriceSourceUnknown      PriceSource = "unknown"
)

// ParsePriceSource accepts the canonical names and the legacy labels
// ("N/A", "Tinyman", "Tinyman Pool Token"), case-insensitively.
func ParsePriceSource(s string) (PriceSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "n/a":
		return PriceSourceNative, nil
	case "direct-market", "direct", "tinyman":
		return PriceSourceDirectMarket, nil
	case "pool-token", "pool", "tinyman pool token":
		return PriceSourcePoolToken, nil
	case "unknown":
		return PriceSourceUnknown, nil
	default:
		return "", fmt.Errorf("unknown price source %q", s)
	}
}

// SwapQuote is a fixed-input swap quote in raw smallest units.
type SwapQuote struct {
	AssetIn               AssetID         `json:"assetIn"`
	AssetOut              AssetID         `json:"assetOut"`
	AmountIn              uint64          `json:"amountIn"`
	AmountOut             uint64          `json:"amountOut"`
	AmountOutWithSlippage uint64          `json:"amountOutWithSlippage"`
	SwapFees              decimal.Decimal `json:"swapFees"`
	Slippage              decimal.Decimal `json:"slippage"`
}

// PoolInfo is a liquidity pool's state. Reserves change continuously, so it is never cached.
type PoolInfo struct {
	Address               string  `json:"address"`
	PoolTokenID           AssetID `json:"poolTokenId"`
	Asset1ID              AssetID `json:"asset1Id"`
	Asset2ID              AssetID `json:"asset2Id"`
	Asset1Reserves        uint64  `json:"asset1Reserves"`
	Asset2Reserves        uint64  `json:"asset2Reserves"`
	IssuedLiquidity       uint64  `json:"issuedLiquidity"`
	UnclaimedProtocolFees uint64  `json:"unclaimedProtocolFees"`
}

// Reserves returns the pool's reserves of the given constituent asset.
func (p PoolInfo) Reserves(id AssetID) (uint64, bool) {
	switch id {
	case p.Asset1ID:
		return p.Asset1Reserves, true
	case p.Asset2ID:
		return p.Asset2Reserves, true
	default:
		return 0, false
	}
}
