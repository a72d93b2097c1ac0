package service

import (
	"context"
	"fmt"

	"pomocoin/internal/modules/tasks/domain"
	tasksout "pomocoin/internal/modules/tasks/port/out"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/id"
)

type TaskService struct {
	idGen id.Generator
	store tasksout.TaskStore
}

func NewTaskService(idGen id.Generator, store tasksout.TaskStore) *TaskService {
	return &TaskService{idGen: idGen, store: store}
}

// Import assigns ids to stored tasks that have none and persists the result,
// so ids stay stable across restarts.
func (s *TaskService) Import(ctx context.Context) (int, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	assigned := 0
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = s.idGen.New()
			assigned++
		}
	}
	if assigned == 0 {
		return 0, nil
	}
	if err := s.store.Save(ctx, tasks); err != nil {
		return assigned, err
	}
	return assigned, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Pending(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, taskID string) (domain.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	idx := domain.Index(tasks, taskID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
	}
	return tasks[idx], nil
}

func (s *TaskService) Add(ctx context.Context, text string, value int) (domain.Task, error) {
	task, err := domain.New(s.idGen.New(), text, value)
	if err != nil {
		return domain.Task{}, err
	}
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.store.Save(ctx, append(domain.Pending(tasks), task)); err != nil {
		return task, err
	}
	return task, nil
}

func (s *TaskService) Edit(ctx context.Context, taskID string, text *string, value *int) (domain.Task, error) {
	tasks, err := s.pending(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	idx := domain.Index(tasks, taskID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
	}
	edited := tasks[idx]
	if text != nil {
		edited.Text = *text
	}
	if value != nil {
		edited.Value = *value
	}
	// same rules as add
	edited, err = domain.New(edited.ID, edited.Text, edited.Value)
	if err != nil {
		return domain.Task{}, err
	}
	tasks[idx] = edited
	if err := s.store.Save(ctx, tasks); err != nil {
		return edited, err
	}
	return edited, nil
}

// Complete removes a pending task and returns it marked done. Crediting the
// ledger is the caller's job.
func (s *TaskService) Complete(ctx context.Context, taskID string) (domain.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	idx := domain.Index(tasks, taskID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
	}
	task := tasks[idx]
	if task.Done {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, apperrors.ErrAlreadyDone)
	}
	task.Done = true
	remaining := append(tasks[:idx:idx], tasks[idx+1:]...)
	if err := s.store.Save(ctx, domain.Pending(remaining)); err != nil {
		return task, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID string) (domain.Task, error) {
	tasks, err := s.pending(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	idx := domain.Index(tasks, taskID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
	}
	removed := tasks[idx]
	tasks = append(tasks[:idx], tasks[idx+1:]...)
	if err := s.store.Save(ctx, tasks); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *TaskService) pending(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Pending(tasks), nil
}
