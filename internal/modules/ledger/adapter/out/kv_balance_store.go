package out

import (
	"context"

	"pomocoin/internal/modules/ledger/domain"
	ledgerout "pomocoin/internal/modules/ledger/port/out"
	"pomocoin/internal/platform/kv"
)

type KVBalanceStore struct {
	cache *kv.Cache
}

func NewKVBalanceStore(cache *kv.Cache) ledgerout.BalanceStore {
	return &KVBalanceStore{cache: cache}
}

func (s *KVBalanceStore) Load(ctx context.Context) (domain.Balance, error) {
	var coins int
	if _, err := s.cache.Get(ctx, kv.KeyCoins, &coins); err != nil {
		return 0, err
	}
	return domain.Normalize(coins), nil
}

func (s *KVBalanceStore) Save(ctx context.Context, balance domain.Balance) error {
	return s.cache.Set(ctx, map[string]any{kv.KeyCoins: int(balance)})
}
