package report

import (
	"github.com/shopspring/decimal"
)

const (
	assetsSheet  = "Assets"
	walletsSheet = "Wallets"
)

// assetTable builds the Assets sheet data.
// Columns: Name | ID | Price Source | Amount | Price | Value
func assetTable(r Report) [][]any {
	data := make([][]any, 0, len(r.Rows)+2)
	data = append(data, []any{"Name", "ID", "Price Source", "Amount", "Price", "Value"})

	for _, row := range r.Rows {
		var price, value any = "Error", "Error"
		if !row.Failed() {
			price = toFloat(row.UnitPrice)
			value = toFloat(row.Value)
		}
		data = append(data, []any{
			row.Name,
			uint64(row.AssetID),
			string(row.Source),
			toFloat(row.Amount),
			price,
			value,
		})
	}

	data = append(data, []any{"Total", "", "", "", "", toFloat(r.Total)})
	return data
}

// walletTable builds the Wallets sheet data.
// Columns: Public Key | Native | Assets
func walletTable(r Report) [][]any {
	data := make([][]any, 0, len(r.Wallets)+1)
	data = append(data, []any{"Public Key", "Native", "Assets"})
	for _, w := range r.Wallets {
		data = append(data, []any{w.Address, toFloat(w.Native), w.AssetCount})
	}
	return data
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
