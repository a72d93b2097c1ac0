package out

import (
	"context"

	"pomocoin/internal/modules/rewards/domain"
	rewardsout "pomocoin/internal/modules/rewards/port/out"
	"pomocoin/internal/platform/kv"
)

type KVRewardStore struct {
	cache *kv.Cache
}

func NewKVRewardStore(cache *kv.Cache) rewardsout.RewardStore {
	return &KVRewardStore{cache: cache}
}

func (s *KVRewardStore) Load(ctx context.Context) ([]domain.Reward, error) {
	rewards := []domain.Reward{}
	if _, err := s.cache.Get(ctx, kv.KeyRewards, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (s *KVRewardStore) Save(ctx context.Context, rewards []domain.Reward) error {
	if rewards == nil {
		rewards = []domain.Reward{}
	}
	return s.cache.Set(ctx, map[string]any{kv.KeyRewards: rewards})
}
