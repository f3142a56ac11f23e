package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unscale converts a raw smallest-unit amount into whole units.
func Unscale(raw decimal.Decimal, decimals uint32) decimal.Decimal {
	return raw.Shift(-int32(decimals))
}

// UnscaleUint is Unscale for unsigned ledger quantities (reserves, issuance).
func UnscaleUint(raw uint64, decimals uint32) decimal.Decimal {
	return Unscale(decimal.NewFromUint64(raw), decimals)
}

// FormatWithPrecision rounds to the given number of places and strips trailing zeros.
func FormatWithPrecision(d decimal.Decimal, places int32) string {
	s := d.Round(places).StringFixed(places)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
