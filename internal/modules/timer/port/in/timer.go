package in

import (
	"context"

	"pomocoin/internal/modules/timer/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.StateOutput, error)
	Pause(ctx context.Context) (dto.StateOutput, error)
	Reset(ctx context.Context, input dto.ResetInput) (dto.StateOutput, error)
	Poll(ctx context.Context) (dto.StateOutput, error)
	// Resume polls once and re-arms the periodic poll if the session is
	// still running. Call it at startup.
	Resume(ctx context.Context) (dto.StateOutput, error)
	State(ctx context.Context) (dto.StateOutput, error)
	// Subscribe registers fn for every state change. The returned func
	// removes it.
	Subscribe(fn func(dto.StateOutput)) func()
	Stop()
}
