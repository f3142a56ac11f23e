package algod

import (
	"context"
	"fmt"
)

// FetchAsset retrieves an asset's parameters (name, decimals, creator).
func (c *Client) FetchAsset(ctx context.Context, id uint64) (Asset, error) {
	var asset Asset
	if err := c.getJSON(ctx, fmt.Sprintf("/v2/assets/%d", id), &asset); err != nil {
		return Asset{}, fmt.Errorf("fetching asset %d: %w", id, err)
	}
	return asset, nil
}
