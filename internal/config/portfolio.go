package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mtlprog/algofolio/internal/domain"
)

// ErrConfigParse is returned for a malformed portfolio file.
var ErrConfigParse = errors.New("config parse error")

// Portfolio is the user's portfolio file: wallets to scan and per-asset overrides.
type Portfolio struct {
	Wallets []string
	Assets  map[domain.AssetID]domain.AssetOverride
}

type portfolioFile struct {
	Wallets []string          `yaml:"wallets"`
	Assets  map[any]assetFile `yaml:"assets"`
}

type assetFile struct {
	Name        *string  `yaml:"name"`
	PriceSource *string  `yaml:"price_source"`
	Amount      *int64   `yaml:"amount"`
	Price       *float64 `yaml:"price"`
	Decimals    *int64   `yaml:"decimals"`
}

// LoadPortfolio reads a YAML (or JSON) portfolio file. A missing file yields
// an empty portfolio; anything malformed wraps ErrConfigParse.
func LoadPortfolio(path string) (Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Portfolio{Assets: map[domain.AssetID]domain.AssetOverride{}}, nil
		}
		return Portfolio{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParsePortfolio(data)
}

// ParsePortfolio decodes and validates a portfolio document.
func ParsePortfolio(data []byte) (Portfolio, error) {
	var raw portfolioFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Portfolio{}, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	p := Portfolio{
		Wallets: raw.Wallets,
		Assets:  make(map[domain.AssetID]domain.AssetOverride, len(raw.Assets)),
	}
	for key, a := range raw.Assets {
		id, err := domain.ParseAssetID(fmt.Sprint(key))
		if err != nil {
			return Portfolio{}, fmt.Errorf("%w: asset key %v: %w", ErrConfigParse, key, err)
		}
		override, err := a.override()
		if err != nil {
			return Portfolio{}, fmt.Errorf("%w: asset %d: %w", ErrConfigParse, id, err)
		}
		p.Assets[id] = override
	}
	return p, nil
}

func (a assetFile) override() (domain.AssetOverride, error) {
	o := domain.AssetOverride{Name: a.Name, Amount: a.Amount}

	if a.PriceSource != nil {
		src, err := domain.ParsePriceSource(*a.PriceSource)
		if err != nil {
			return domain.AssetOverride{}, err
		}
		o.PriceSource = &src
	}
	if a.Price != nil {
		p := decimal.NewFromFloat(*a.Price)
		o.Price = &p
	}
	if a.Decimals != nil {
		if *a.Decimals < 0 || *a.Decimals > 19 {
			return domain.AssetOverride{}, fmt.Errorf("decimals %d out of range", *a.Decimals)
		}
		d := uint32(*a.Decimals)
		o.Decimals = &d
	}
	return o, nil
}
