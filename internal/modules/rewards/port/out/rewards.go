package out

import (
	"context"

	"pomocoin/internal/modules/rewards/domain"
)

type RewardStore interface {
	Load(ctx context.Context) ([]domain.Reward, error)
	Save(ctx context.Context, rewards []domain.Reward) error
}
