package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

const displayPlaces = 6

func formatDecimal(d decimal.Decimal) string {
	return domain.FormatWithPrecision(d, displayPlaces)
}

// Markdown renders the asset table, total and warnings.
func Markdown(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio valuation\n\n")
	fmt.Fprintf(&b, "Generated %s, values in **%s** (%d).\n\n",
		r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), r.DisplayAssetName, r.DisplayAssetID)

	if len(r.Rows) == 0 {
		fmt.Fprintln(&b, "No assets")
		return b.String()
	}

	fmt.Fprintln(&b, "| Name | ID | Price Source | Amount | Price | Value |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|---:|")
	for _, row := range r.Rows {
		price, value := "Error", "Error"
		if !row.Failed() {
			price = formatDecimal(row.UnitPrice)
			value = formatDecimal(row.Value)
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			escapeCell(row.Name),
			row.AssetID,
			row.Source,
			formatDecimal(row.Amount),
			price,
			value,
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | | | **%s** |\n", "Total", formatDecimal(r.Total))

	if r.Incomplete {
		fmt.Fprintf(&b, "\nTotal is incomplete: some assets could not be valued.\n")
	}
	if r.Fiat != nil {
		fmt.Fprintf(&b, "\nTotal value: %s %s\n", formatDecimal(r.Fiat.Total.Round(2)), strings.ToUpper(r.Fiat.Currency))
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

// WalletsMarkdown renders one line per wallet.
func WalletsMarkdown(wallets []WalletRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wallets\n\n")
	if len(wallets) == 0 {
		fmt.Fprintln(&b, "No wallets")
		return b.String()
	}

	fmt.Fprintln(&b, "| Public Key | Native | Assets |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, w := range wallets {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", w.Address, formatDecimal(w.Native), w.AssetCount)
	}
	return b.String()
}

// Render formats markdown for the terminal. plain returns it unchanged.
func Render(md string, plain bool) (string, error) {
	if plain {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
