package portfolio

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/mtlprog/algofolio/internal/algod"
	"github.com/mtlprog/algofolio/internal/domain"
)

// AlgodClient defines the subset of the algod API used by BalanceService.
type AlgodClient interface {
	FetchAccount(ctx context.Context, address string) (algod.Account, error)
}

// BalanceService converts raw algod accounts into wallet balances.
type BalanceService struct {
	algod AlgodClient
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(algod AlgodClient) *BalanceService {
	return &BalanceService{algod: algod}
}

// FetchBalances returns the native balance first, then every asset holding
// in the order the node reports them.
func (s *BalanceService) FetchBalances(ctx context.Context, address string) (domain.WalletBalances, error) {
	account, err := s.algod.FetchAccount(ctx, address)
	if err != nil {
		return domain.WalletBalances{}, fmt.Errorf("fetching balances for %s: %w", address, err)
	}

	holdings := lo.Map(account.Assets, func(h algod.AssetHolding, _ int) domain.Balance {
		return domain.Balance{AssetID: domain.AssetID(h.AssetID), Amount: h.Amount}
	})

	balances := make([]domain.Balance, 0, len(holdings)+1)
	balances = append(balances, domain.Balance{AssetID: domain.NativeAssetID, Amount: account.Amount})
	balances = append(balances, holdings...)

	return domain.WalletBalances{Address: address, Balances: balances}, nil
}
