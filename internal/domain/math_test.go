package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestUnscale(t *testing.T) {
	tests := []struct {
		name     string
		raw      int64
		decimals uint32
		want     string
	}{
		{"one whole unit at 6 decimals", 1_000_000, 6, "1"},
		{"fraction", 1_500_000, 6, "1.5"},
		{"zero decimals", 42, 0, "42"},
		{"negative", -250, 2, "-2.5"},
		{"smallest unit", 1, 8, "0.00000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unscale(decimal.NewFromInt(tt.raw), tt.decimals)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Unscale(%d, %d) = %s, want %s", tt.raw, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestUnscaleUint(t *testing.T) {
	got := UnscaleUint(18_446_744_073_709_551_615, 6)
	if got.String() != "18446744073709.551615" {
		t.Errorf("UnscaleUint(max) = %s", got)
	}
}

func TestFormatWithPrecision(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		places int32
		want   string
	}{
		{"integer", "50", 6, "50"},
		{"rounds", "1.23456789", 6, "1.234568"},
		{"trailing zeros stripped", "1.100000", 6, "1.1"},
		{"zero", "0", 6, "0"},
		{"negative", "-3.5", 2, "-3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatWithPrecision(decimal.RequireFromString(tt.in), tt.places)
			if got != tt.want {
				t.Errorf("FormatWithPrecision(%s, %d) = %q, want %q", tt.in, tt.places, got, tt.want)
			}
		})
	}
}
