package out

import (
	"context"

	"pomocoin/internal/modules/tasks/domain"
	tasksout "pomocoin/internal/modules/tasks/port/out"
	"pomocoin/internal/platform/kv"
)

type KVTaskStore struct {
	cache *kv.Cache
}

func NewKVTaskStore(cache *kv.Cache) tasksout.TaskStore {
	return &KVTaskStore{cache: cache}
}

func (s *KVTaskStore) Load(ctx context.Context) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if _, err := s.cache.Get(ctx, kv.KeyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *KVTaskStore) Save(ctx context.Context, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return s.cache.Set(ctx, map[string]any{kv.KeyTasks: tasks})
}
