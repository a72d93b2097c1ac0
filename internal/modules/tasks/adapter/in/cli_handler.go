package in

import (
	"context"

	"pomocoin/internal/modules/tasks/dto"
	tasksin "pomocoin/internal/modules/tasks/port/in"
)

type CLIHandler struct {
	usecase tasksin.Usecase
}

func NewCLIHandler(usecase tasksin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, text string, value int) (dto.MutationOutput, error) {
	return h.usecase.Add(ctx, dto.AddTaskInput{Text: text, Value: value})
}

func (h CLIHandler) Edit(ctx context.Context, id string, text *string, value *int) (dto.MutationOutput, error) {
	return h.usecase.Edit(ctx, dto.EditTaskInput{ID: id, Text: text, Value: value})
}

func (h CLIHandler) Complete(ctx context.Context, id string) (dto.CompleteOutput, error) {
	return h.usecase.Complete(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) (dto.MutationOutput, error) {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.TaskOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.TaskOutput, error) {
	return h.usecase.Get(ctx, id)
}
