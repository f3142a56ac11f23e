package tinyman

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/algod"
	"github.com/mtlprog/algofolio/internal/domain"
)

// AccountFetcher defines the algod subset needed to read pool state.
type AccountFetcher interface {
	FetchAccount(ctx context.Context, address string) (algod.Account, error)
}

// Client locates pools through the Tinyman analytics API and reads their
// reserves on-chain through algod.
type Client struct {
	baseURL    string
	httpClient *http.Client
	accounts   AccountFetcher
}

// NewClient creates a new Tinyman client.
func NewClient(baseURL string, accounts AccountFetcher) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		accounts:   accounts,
	}
}

type poolsResponse struct {
	Results []struct {
		Address string `json:"address"`
	} `json:"results"`
}

// FindPool returns the address of the pool for the asset pair.
// v1 pools order their assets so that asset 1 has the larger id.
func (c *Client) FindPool(ctx context.Context, a, b domain.AssetID) (string, error) {
	asset1, asset2 := max(a, b), min(a, b)

	params := url.Values{}
	params.Set("asset_1_id", strconv.FormatUint(uint64(asset1), 10))
	params.Set("asset_2_id", strconv.FormatUint(uint64(asset2), 10))
	params.Set("limit", "1")

	reqURL := c.baseURL + "/api/v1/pools/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, reqURL, string(body))
	}

	var pools poolsResponse
	if err := json.Unmarshal(body, &pools); err != nil {
		return "", fmt.Errorf("parsing pools response: %w", err)
	}
	if len(pools.Results) == 0 || pools.Results[0].Address == "" {
		return "", fmt.Errorf("pair %d/%d: %w", asset1, asset2, ErrPoolNotFound)
	}
	return pools.Results[0].Address, nil
}

// PoolInfo reads the current state of the pool held by the given account.
func (c *Client) PoolInfo(ctx context.Context, address string) (domain.PoolInfo, error) {
	account, err := c.accounts.FetchAccount(ctx, address)
	if err != nil {
		return domain.PoolInfo{}, fmt.Errorf("fetching pool account: %w", err)
	}
	return PoolFromAccount(account)
}

// QuoteToNative quotes swapping amountIn of the asset into the native asset.
func (c *Client) QuoteToNative(ctx context.Context, asset domain.AssetID, amountIn uint64, slippage decimal.Decimal) (domain.SwapQuote, error) {
	address, err := c.FindPool(ctx, asset, domain.NativeAssetID)
	if err != nil {
		return domain.SwapQuote{}, err
	}

	pool, err := c.PoolInfo(ctx, address)
	if err != nil {
		return domain.SwapQuote{}, err
	}

	return FixedInputSwapQuote(pool, asset, amountIn, slippage)
}
