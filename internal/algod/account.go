package algod

import (
	"context"
	"fmt"
	"net/url"
)

// FetchAccount retrieves an account's balances, local app state and created assets.
func (c *Client) FetchAccount(ctx context.Context, address string) (Account, error) {
	var account Account
	if err := c.getJSON(ctx, "/v2/accounts/"+url.PathEscape(address), &account); err != nil {
		return Account{}, fmt.Errorf("fetching account %s: %w", address, err)
	}
	return account, nil
}
