// Package report values the registry in a chosen display asset and renders
// the result as markdown, xlsx or a Google Sheet.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
	"github.com/mtlprog/algofolio/internal/portfolio"
)

// ErrDisplayPrice indicates the display asset has no usable price.
var ErrDisplayPrice = errors.New("display asset price unavailable")

// Row is one held asset. UnitPrice and Value are in display-asset units and
// are zero when Err is set.
type Row struct {
	AssetID   domain.AssetID     `json:"assetId"`
	Name      string             `json:"name"`
	Source    domain.PriceSource `json:"source"`
	Amount    decimal.Decimal    `json:"amount"`
	UnitPrice decimal.Decimal    `json:"unitPrice"`
	Value     decimal.Decimal    `json:"value"`
	Err       string             `json:"error,omitempty"`
}

// Failed reports whether the row has no value.
func (r Row) Failed() bool {
	return r.Err != ""
}

// WalletRow summarizes one wallet.
type WalletRow struct {
	Address    string          `json:"address"`
	Native     decimal.Decimal `json:"native"`
	AssetCount int             `json:"assetCount"`
}

// FiatTotal is the report total converted to a fiat currency.
type FiatTotal struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Total    decimal.Decimal `json:"total"`
}

// Report is a point-in-time valuation of the whole registry.
type Report struct {
	ID               uuid.UUID       `json:"id"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	DisplayAssetID   domain.AssetID  `json:"displayAssetId"`
	DisplayAssetName string          `json:"displayAssetName"`
	DisplayPrice     decimal.Decimal `json:"displayPrice"`
	Rows             []Row           `json:"rows"`
	Total            decimal.Decimal `json:"total"`
	Incomplete       bool            `json:"incomplete"`
	Wallets          []WalletRow     `json:"wallets"`
	Warnings         []string        `json:"warnings,omitempty"`
	Fiat             *FiatTotal      `json:"fiat,omitempty"`
}

// Build values every asset with a nonzero amount, in registry order.
// Per-asset failures become error rows excluded from the total; only a
// missing or zero display price fails the whole report.
func Build(ctx context.Context, reg *portfolio.Registry, displayID domain.AssetID) (Report, error) {
	ids := reg.AssetIDs()

	display := reg.Asset(displayID)
	displayPrice, err := display.Price(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("%w: asset %d: %w", ErrDisplayPrice, displayID, err)
	}
	if !displayPrice.IsPositive() {
		return Report{}, fmt.Errorf("%w: asset %d priced at %s", ErrDisplayPrice, displayID, displayPrice)
	}
	displayName, err := display.Name(ctx)
	if err != nil {
		slog.Warn("display asset name unavailable", "asset", displayID, "error", err)
		displayName = displayID.String()
	}

	r := Report{
		ID:               uuid.New(),
		GeneratedAt:      time.Now().UTC(),
		DisplayAssetID:   displayID,
		DisplayAssetName: displayName,
		DisplayPrice:     displayPrice,
		Total:            decimal.Zero,
		Warnings:         reg.Warnings(),
	}

	for _, id := range ids {
		a := reg.Get(id)
		if a.Amount().IsZero() {
			continue
		}
		row := buildRow(ctx, a, displayPrice)
		if row.Failed() {
			r.Incomplete = true
		} else {
			r.Total = r.Total.Add(row.Value)
		}
		r.Rows = append(r.Rows, row)
	}

	r.Wallets = Wallets(reg.Wallets())

	return r, nil
}

func buildRow(ctx context.Context, a *portfolio.Asset, displayPrice decimal.Decimal) Row {
	row := Row{AssetID: a.ID(), Amount: a.Amount()}

	name, err := a.Name(ctx)
	if err != nil {
		slog.Warn("asset name unavailable", "asset", a.ID(), "error", err)
	}
	row.Name = name

	source, err := a.PriceSource(ctx)
	if err != nil {
		source = domain.PriceSourceUnknown
	}
	row.Source = source

	decimals, err := a.Decimals(ctx)
	if err != nil {
		slog.Warn("asset decimals unavailable", "asset", a.ID(), "error", err)
		row.Err = err.Error()
		return row
	}
	row.Amount = domain.Unscale(a.Amount(), decimals)

	p, err := a.Price(ctx)
	if err != nil {
		slog.Warn("asset price unavailable", "asset", a.ID(), "error", err)
		row.Err = err.Error()
		return row
	}

	row.UnitPrice = p.Div(displayPrice)
	row.Value = row.Amount.Mul(p).Div(displayPrice)
	return row
}

// Wallets summarizes wallet balances in the order given.
func Wallets(wbs []domain.WalletBalances) []WalletRow {
	return lo.Map(wbs, func(wb domain.WalletBalances, _ int) WalletRow {
		return walletRow(wb)
	})
}

func walletRow(wb domain.WalletBalances) WalletRow {
	w := WalletRow{Address: wb.Address, Native: decimal.Zero}
	for _, b := range wb.Balances {
		if b.AssetID.IsNative() {
			w.Native = domain.UnscaleUint(b.Amount, domain.NativeDecimals)
			continue
		}
		if b.Amount != 0 {
			w.AssetCount++
		}
	}
	return w
}

// WithFiat attaches a fiat total given the fiat price of one whole native unit.
func (r Report) WithFiat(currency string, nativeRate decimal.Decimal) Report {
	r.Fiat = &FiatTotal{
		Currency: currency,
		Rate:     nativeRate,
		Total:    r.Total.Mul(r.DisplayPrice).Mul(nativeRate),
	}
	return r
}
