package price

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/algofolio/internal/domain"
)

type mockMarket struct {
	quotes     map[domain.AssetID]uint64
	quoteErr   error
	pools      map[string]domain.PoolInfo
	quoteCalls int
	poolCalls  int
	lastAmount uint64
}

func (m *mockMarket) QuoteToNative(_ context.Context, asset domain.AssetID, amountIn uint64, slippage decimal.Decimal) (domain.SwapQuote, error) {
	m.quoteCalls++
	m.lastAmount = amountIn
	if m.quoteErr != nil {
		return domain.SwapQuote{}, m.quoteErr
	}
	out, ok := m.quotes[asset]
	if !ok {
		return domain.SwapQuote{}, errors.New("no pool")
	}
	return domain.SwapQuote{AssetIn: asset, AmountIn: amountIn, AmountOut: out, Slippage: slippage}, nil
}

func (m *mockMarket) PoolInfo(_ context.Context, address string) (domain.PoolInfo, error) {
	m.poolCalls++
	p, ok := m.pools[address]
	if !ok {
		return domain.PoolInfo{}, errors.New("not a pool")
	}
	return p, nil
}

type mockAsset struct {
	decimals uint32
	creator  string
	source   domain.PriceSource
	price    *decimal.Decimal
}

// mockEnv memoizes prices and enforces the resolution path like the registry does.
type mockEnv struct {
	resolver *Resolver
	assets   map[domain.AssetID]mockAsset
	memo     map[domain.AssetID]decimal.Decimal
	memoErr  map[domain.AssetID]error
}

func newMockEnv(r *Resolver, assets map[domain.AssetID]mockAsset) *mockEnv {
	return &mockEnv{
		resolver: r,
		assets:   assets,
		memo:     make(map[domain.AssetID]decimal.Decimal),
		memoErr:  make(map[domain.AssetID]error),
	}
}

func (e *mockEnv) Decimals(_ context.Context, id domain.AssetID) (uint32, error) {
	if id.IsNative() {
		return domain.NativeDecimals, nil
	}
	a, ok := e.assets[id]
	if !ok {
		return 0, errors.New("unknown asset")
	}
	return a.decimals, nil
}

func (e *mockEnv) Creator(_ context.Context, id domain.AssetID) (string, error) {
	return e.assets[id].creator, nil
}

func (e *mockEnv) Source(_ context.Context, id domain.AssetID) (domain.PriceSource, error) {
	return e.assets[id].source, nil
}

func (e *mockEnv) Price(ctx context.Context, id domain.AssetID, path Path) (decimal.Decimal, error) {
	next, err := path.Enter(id)
	if err != nil {
		return decimal.Zero, err
	}
	if p, ok := e.memo[id]; ok {
		return p, nil
	}
	if err, ok := e.memoErr[id]; ok {
		return decimal.Zero, err
	}
	if a, ok := e.assets[id]; ok && a.price != nil {
		e.memo[id] = *a.price
		return *a.price, nil
	}
	p, err := e.resolver.Resolve(ctx, id, next, e)
	if err != nil {
		e.memoErr[id] = err
		return decimal.Zero, err
	}
	e.memo[id] = p
	return p, nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want domain.PriceSource
	}{
		{"Tinyman Pool USDC-ALGO", domain.PriceSourcePoolToken},
		{"TinymanPool2.0 USDC-ALGO", domain.PriceSourceDirectMarket},
		{"USDC", domain.PriceSourceDirectMarket},
		{"", domain.PriceSourceDirectMarket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveNativeMakesNoCalls(t *testing.T) {
	m := &mockMarket{}
	r := NewResolver(m)
	env := newMockEnv(r, nil)

	p, err := env.Price(context.Background(), domain.NativeAssetID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.NewFromInt(1)) {
		t.Errorf("native price = %s, want 1", p)
	}
	if m.quoteCalls+m.poolCalls != 0 {
		t.Errorf("expected no market calls, got %d", m.quoteCalls+m.poolCalls)
	}
}

func TestResolveDirectMarket(t *testing.T) {
	m := &mockMarket{quotes: map[domain.AssetID]uint64{31566704: 4_000_000}}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		31566704: {decimals: 6, source: domain.PriceSourceDirectMarket},
	})

	p, err := env.Price(context.Background(), 31566704, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.NewFromInt(4)) {
		t.Errorf("price = %s, want 4", p)
	}
	if m.lastAmount != 1_000_000 {
		t.Errorf("quoted amount = %d, want one whole unit (1000000)", m.lastAmount)
	}
}

func TestResolveDirectMarketFewDecimals(t *testing.T) {
	tests := []struct {
		name      string
		decimals  uint32
		out       uint64
		wantIn    uint64
		wantPrice string
		wantErr   bool
	}{
		{"zero decimals quotes 10^6 units", 0, 3, 1_000_000, "0.000000000003", false},
		{"two decimals", 2, 5_000_000, 1_000_000, "0.0005", false},
		{"eight decimals quotes one whole unit", 8, 20_000_000, 100_000_000, "20", false},
		{"quote rounding to zero fails", 0, 0, 1_000_000, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockMarket{quotes: map[domain.AssetID]uint64{5: tt.out}}
			env := newMockEnv(NewResolver(m), map[domain.AssetID]mockAsset{
				5: {decimals: tt.decimals, source: domain.PriceSourceDirectMarket},
			})

			p, err := env.Price(context.Background(), 5, nil)
			if m.lastAmount != tt.wantIn {
				t.Errorf("quoted amount = %d, want %d", m.lastAmount, tt.wantIn)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNoPrice) {
					t.Errorf("err = %v, want ErrNoPrice", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !p.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("price = %s, want %s", p, tt.wantPrice)
			}
		})
	}
}

func TestResolveDirectMarketFailure(t *testing.T) {
	m := &mockMarket{quoteErr: errors.New("no liquidity")}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		5: {decimals: 0, source: domain.PriceSourceDirectMarket},
	})

	_, err := env.Price(context.Background(), 5, nil)
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}

	// Failure is memoized.
	_, _ = env.Price(context.Background(), 5, nil)
	if m.quoteCalls != 1 {
		t.Errorf("expected 1 quote call, got %d", m.quoteCalls)
	}
}

func TestResolveUnknownSource(t *testing.T) {
	r := NewResolver(&mockMarket{})
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		9: {source: domain.PriceSourceUnknown},
	})

	if _, err := env.Price(context.Background(), 9, nil); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}
}

func TestResolvePoolTokenDecomposition(t *testing.T) {
	m := &mockMarket{pools: map[string]domain.PoolInfo{
		"POOL": {
			Address:         "POOL",
			PoolTokenID:     100,
			Asset1ID:        1,
			Asset2ID:        2,
			Asset1Reserves:  1000,
			Asset2Reserves:  4000,
			IssuedLiquidity: 500,
		},
	}}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		1:   {decimals: 6, price: dec("2.0")},
		2:   {decimals: 6, price: dec("0.5")},
		100: {decimals: 6, creator: "POOL", source: domain.PriceSourcePoolToken},
	})

	p, err := env.Price(context.Background(), 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.NewFromInt(8)) {
		t.Errorf("pool token price = %s, want 8", p)
	}
}

func TestResolvePoolTokenMixedDecimals(t *testing.T) {
	// 2 whole units at 2 decimals worth 3 each, 10 whole native units, 4 whole pool tokens.
	m := &mockMarket{pools: map[string]domain.PoolInfo{
		"POOL": {
			PoolTokenID:     100,
			Asset1ID:        1,
			Asset2ID:        domain.NativeAssetID,
			Asset1Reserves:  200,
			Asset2Reserves:  10_000_000,
			IssuedLiquidity: 4_000_000,
		},
	}}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		1:   {decimals: 2, price: dec("3")},
		100: {decimals: 6, creator: "POOL", source: domain.PriceSourcePoolToken},
	})

	p, err := env.Price(context.Background(), 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.NewFromInt(4)) {
		t.Errorf("pool token price = %s, want 4", p)
	}
}

func TestResolvePoolTokenConstituentFailure(t *testing.T) {
	m := &mockMarket{pools: map[string]domain.PoolInfo{
		"POOL": {PoolTokenID: 100, Asset1ID: 1, Asset2ID: 2, Asset1Reserves: 1, Asset2Reserves: 1, IssuedLiquidity: 1},
	}}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		1:   {decimals: 6, price: dec("1")},
		2:   {decimals: 6, source: domain.PriceSourceUnknown},
		100: {decimals: 6, creator: "POOL", source: domain.PriceSourcePoolToken},
	})

	if _, err := env.Price(context.Background(), 100, nil); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}
}

func TestResolvePoolTokenCycle(t *testing.T) {
	m := &mockMarket{pools: map[string]domain.PoolInfo{
		"A": {PoolTokenID: 100, Asset1ID: 200, Asset2ID: 0, Asset1Reserves: 1, Asset2Reserves: 1, IssuedLiquidity: 1},
		"B": {PoolTokenID: 200, Asset1ID: 100, Asset2ID: 0, Asset1Reserves: 1, Asset2Reserves: 1, IssuedLiquidity: 1},
	}}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		100: {decimals: 6, creator: "A", source: domain.PriceSourcePoolToken},
		200: {decimals: 6, creator: "B", source: domain.PriceSourcePoolToken},
	})

	_, err := env.Price(context.Background(), 100, nil)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
}

func TestResolvePoolTokenMismatch(t *testing.T) {
	m := &mockMarket{pools: map[string]domain.PoolInfo{
		"POOL": {PoolTokenID: 999, IssuedLiquidity: 1},
	}}
	r := NewResolver(m)
	env := newMockEnv(r, map[domain.AssetID]mockAsset{
		100: {decimals: 6, creator: "POOL", source: domain.PriceSourcePoolToken},
	})

	if _, err := env.Price(context.Background(), 100, nil); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}
}

func TestPathEnter(t *testing.T) {
	var p Path
	p1, err := p.Enter(1)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := p1.Enter(2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p2.Enter(1); !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
	if len(p1) != 1 {
		t.Errorf("Enter modified receiver: %v", p1)
	}
	if p2.String() != "1 -> 2" {
		t.Errorf("String() = %q", p2.String())
	}
}
