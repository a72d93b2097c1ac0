package out

import (
	"context"

	"pomocoin/internal/modules/tasks/domain"
)

type TaskStore interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}
