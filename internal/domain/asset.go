package domain

import (
	"fmt"
	"strconv"
)

// AssetID identifies a fungible asset on the ledger.
type AssetID uint64

// NativeAssetID is the reserved identifier of the ledger's base currency.
const NativeAssetID AssetID = 0

const (
	// NativeAssetName is reported for the native asset without any lookup.
	NativeAssetName = "native"
	// NativeDecimals is the fixed decimals scale of the native asset (microunits).
	NativeDecimals uint32 = 6
)

// IsNative returns true for the reserved native asset identifier.
func (id AssetID) IsNative() bool {
	return id == NativeAssetID
}

// String returns the decimal form used as the cache-file key.
func (id AssetID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseAssetID parses the decimal string form of an asset identifier.
func ParseAssetID(s string) (AssetID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid asset id %q: %w", s, err)
	}
	return AssetID(n), nil
}

// AssetMetadata holds the immutable ledger facts about an asset.
type AssetMetadata struct {
	Name     string `json:"name"`
	Decimals uint32 `json:"decimals"`
	Creator  string `json:"creator"`
}

// NativeMetadata returns the fixed metadata of the native asset.
func NativeMetadata() AssetMetadata {
	return AssetMetadata{Name: NativeAssetName, Decimals: NativeDecimals}
}
