// Package tinyman reads Tinyman v1 liquidity pools and computes swap quotes from their reserves.
package tinyman

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mtlprog/algofolio/internal/algod"
	"github.com/mtlprog/algofolio/internal/domain"
)

// ErrPoolNotFound indicates that no pool exists for the pair or the account holds no pool state.
var ErrPoolNotFound = errors.New("pool not found")

// Local-state keys written by the v1 validator app.
const (
	keyAsset1ID        = "a1"
	keyAsset2ID        = "a2"
	keyAsset1Reserves  = "s1"
	keyAsset2Reserves  = "s2"
	keyIssuedLiquidity = "ilt"
	keyProtocolFees    = "p"
)

// requiredKeys must all be present in v1 pool state. Other pool versions keep
// differently named state, which would otherwise decode as empty reserves.
var requiredKeys = []string{keyAsset1ID, keyAsset2ID, keyAsset1Reserves, keyAsset2Reserves, keyIssuedLiquidity}

// PoolFromAccount decodes pool state from the first local state of the
// account that carries every v1 pool key.
func PoolFromAccount(account algod.Account) (domain.PoolInfo, error) {
	var state map[string]uint64
	for _, app := range account.AppsLocalState {
		decoded, err := decodeState(app.KeyValue)
		if err != nil {
			return domain.PoolInfo{}, fmt.Errorf("account %s: %w", account.Address, err)
		}
		if hasKeys(decoded, requiredKeys) {
			state = decoded
			break
		}
	}
	if state == nil {
		return domain.PoolInfo{}, fmt.Errorf("account %s: no v1 pool state: %w", account.Address, ErrPoolNotFound)
	}

	pool := domain.PoolInfo{
		Address:               account.Address,
		Asset1ID:              domain.AssetID(state[keyAsset1ID]),
		Asset2ID:              domain.AssetID(state[keyAsset2ID]),
		Asset1Reserves:        state[keyAsset1Reserves],
		Asset2Reserves:        state[keyAsset2Reserves],
		IssuedLiquidity:       state[keyIssuedLiquidity],
		UnclaimedProtocolFees: state[keyProtocolFees],
	}
	if len(account.CreatedAssets) > 0 {
		pool.PoolTokenID = domain.AssetID(account.CreatedAssets[0].Index)
	}
	return pool, nil
}

func hasKeys(state map[string]uint64, keys []string) bool {
	for _, k := range keys {
		if _, ok := state[k]; !ok {
			return false
		}
	}
	return true
}

func decodeState(kvs []algod.TealKeyValue) (map[string]uint64, error) {
	state := make(map[string]uint64, len(kvs))
	for _, kv := range kvs {
		key, err := base64.StdEncoding.DecodeString(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("decoding state key %q: %w", kv.Key, err)
		}
		state[string(key)] = kv.Value.Uint
	}
	return state, nil
}
