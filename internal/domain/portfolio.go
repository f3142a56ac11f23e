package domain

import "github.com/shopspring/decimal"

// Balance is a raw smallest-unit holding of one asset, as the ledger reports it.
type Balance struct {
	AssetID AssetID `json:"assetId"`
	Amount  uint64  `json:"amount"`
}

// WalletBalances holds the balances reported for one wallet, native asset included.
type WalletBalances struct {
	Address  string    `json:"address"`
	Balances []Balance `json:"balances"`
}

// AssetOverride carries optional per-asset configuration. A nil field means "not overridden".
type AssetOverride struct {
	Name        *string          `json:"name,omitempty"`
	PriceSource *PriceSource     `json:"priceSource,omitempty"`
	Amount      *int64           `json:"amount,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Decimals    *uint32          `json:"decimals,omitempty"`
}
