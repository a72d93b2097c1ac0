package in

import (
	"context"

	"pomocoin/internal/modules/rewards/dto"
	rewardsin "pomocoin/internal/modules/rewards/port/in"
)

type CLIHandler struct {
	usecase rewardsin.Usecase
}

func NewCLIHandler(usecase rewardsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, name string, cost int) (dto.MutationOutput, error) {
	return h.usecase.Add(ctx, dto.AddRewardInput{Name: name, Cost: cost})
}

func (h CLIHandler) Edit(ctx context.Context, id string, name *string, cost *int) (dto.MutationOutput, error) {
	return h.usecase.Edit(ctx, dto.EditRewardInput{ID: id, Name: name, Cost: cost})
}

func (h CLIHandler) Redeem(ctx context.Context, id string) (dto.RedeemOutput, error) {
	return h.usecase.Redeem(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) (dto.MutationOutput, error) {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.RewardOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.RewardOutput, error) {
	return h.usecase.Get(ctx, id)
}
