package algod

// Account represents the JSON response from GET /v2/accounts/{address}.
type Account struct {
	Address        string          `json:"address"`
	Amount         uint64          `json:"amount"`
	Assets         []AssetHolding  `json:"assets"`
	AppsLocalState []AppLocalState `json:"apps-local-state"`
	CreatedAssets  []Asset         `json:"created-assets"`
}

// AssetHolding is a single non-native balance held by an account.
type AssetHolding struct {
	AssetID  uint64 `json:"asset-id"`
	Amount   uint64 `json:"amount"`
	IsFrozen bool   `json:"is-frozen"`
}

// AppLocalState is an application's local state stored on an account.
type AppLocalState struct {
	ID       uint64         `json:"id"`
	KeyValue []TealKeyValue `json:"key-value"`
}

// TealKeyValue is one local-state entry. Key is base64-encoded.
type TealKeyValue struct {
	Key   string    `json:"key"`
	Value TealValue `json:"value"`
}

// TealValue holds either a uint (Type 2) or base64 bytes (Type 1).
type TealValue struct {
	Type  uint64 `json:"type"`
	Uint  uint64 `json:"uint"`
	Bytes string `json:"bytes"`
}

// Asset represents the JSON response from GET /v2/assets/{id}.
type Asset struct {
	Index  uint64      `json:"index"`
	Params AssetParams `json:"params"`
}

// AssetParams holds the immutable parameters of an asset.
type AssetParams struct {
	Creator  string `json:"creator"`
	Decimals uint32 `json:"decimals"`
	Name     string `json:"name"`
	UnitName string `json:"unit-name"`
	Total    uint64 `json:"total"`
}
