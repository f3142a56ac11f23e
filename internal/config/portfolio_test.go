package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

func TestParsePortfolio(t *testing.T) {
	doc := `
wallets:
  - WALLETA
  - WALLETB
assets:
  31566704:
    name: USDC
    price_source: Tinyman
  "552647097":
    price_source: Tinyman Pool Token
  12345:
    amount: 500
    price: 1.25
    decimals: 2
`
	p, err := ParsePortfolio([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Wallets) != 2 || p.Wallets[0] != "WALLETA" {
		t.Errorf("Wallets = %v", p.Wallets)
	}
	if len(p.Assets) != 3 {
		t.Fatalf("Assets = %d entries, want 3", len(p.Assets))
	}

	usdc := p.Assets[31566704]
	if usdc.Name == nil || *usdc.Name != "USDC" {
		t.Errorf("name override = %v", usdc.Name)
	}
	if usdc.PriceSource == nil || *usdc.PriceSource != domain.PriceSourceDirectMarket {
		t.Errorf("price source = %v, want direct-market", usdc.PriceSource)
	}
	if src := p.Assets[552647097].PriceSource; src == nil || *src != domain.PriceSourcePoolToken {
		t.Errorf("quoted key price source = %v, want pool-token", src)
	}

	manual := p.Assets[12345]
	if manual.Amount == nil || *manual.Amount != 500 {
		t.Errorf("amount = %v, want 500", manual.Amount)
	}
	if manual.Price == nil || !manual.Price.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("price = %v, want 1.25", manual.Price)
	}
	if manual.Decimals == nil || *manual.Decimals != 2 {
		t.Errorf("decimals = %v, want 2", manual.Decimals)
	}
}

func TestParsePortfolioJSON(t *testing.T) {
	p, err := ParsePortfolio([]byte(`{"wallets": ["W"], "assets": {"7": {"name": "X"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Wallets) != 1 || p.Assets[7].Name == nil {
		t.Errorf("unexpected portfolio: %+v", p)
	}
}

func TestParsePortfolioErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "wallets: [unclosed"},
		{"unknown source", "assets:\n  7:\n    price_source: Binance\n"},
		{"negative decimals", "assets:\n  7:\n    decimals: -1\n"},
		{"non-numeric key", "assets:\n  usdc:\n    name: USDC\n"},
		{"wallets not a list", "wallets: 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePortfolio([]byte(tt.doc))
			if !errors.Is(err, ErrConfigParse) {
				t.Errorf("err = %v, want ErrConfigParse", err)
			}
		})
	}
}

func TestLoadPortfolioMissingFile(t *testing.T) {
	p, err := LoadPortfolio(filepath.Join(t.TempDir(), "Config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Wallets) != 0 || len(p.Assets) != 0 {
		t.Errorf("expected empty portfolio, got %+v", p)
	}
}

func TestLoadPortfolioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Config.yaml")
	if err := os.WriteFile(path, []byte("wallets: [A]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPortfolio(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Wallets) != 1 || p.Wallets[0] != "A" {
		t.Errorf("Wallets = %v", p.Wallets)
	}
}
