package in

import (
	"context"

	"pomocoin/internal/modules/tasks/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddTaskInput) (dto.MutationOutput, error)
	Edit(ctx context.Context, input dto.EditTaskInput) (dto.MutationOutput, error)
	Complete(ctx context.Context, id string) (dto.CompleteOutput, error)
	Delete(ctx context.Context, id string) (dto.MutationOutput, error)
	List(ctx context.Context) ([]dto.TaskOutput, error)
	Get(ctx context.Context, id string) (dto.TaskOutput, error)
}
