package in

import (
	"context"

	"pomocoin/internal/modules/rewards/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddRewardInput) (dto.MutationOutput, error)
	Edit(ctx context.Context, input dto.EditRewardInput) (dto.MutationOutput, error)
	Redeem(ctx context.Context, id string) (dto.RedeemOutput, error)
	Delete(ctx context.Context, id string) (dto.MutationOutput, error)
	List(ctx context.Context) ([]dto.RewardOutput, error)
	Get(ctx context.Context, id string) (dto.RewardOutput, error)
}
