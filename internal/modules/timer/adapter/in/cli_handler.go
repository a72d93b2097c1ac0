package in

import (
	"context"

	"pomocoin/internal/modules/timer/dto"
	timerin "pomocoin/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Pause(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Reset(ctx context.Context, mode string) (dto.StateOutput, error) {
	return h.usecase.Reset(ctx, dto.ResetInput{Mode: mode})
}

func (h CLIHandler) Status(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Poll(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Watch(fn func(dto.StateOutput)) func() {
	return h.usecase.Subscribe(fn)
}

func (h CLIHandler) Stop() {
	h.usecase.Stop()
}
