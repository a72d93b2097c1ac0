package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	ledgerdto "pomocoin/internal/modules/ledger/dto"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
	"pomocoin/internal/modules/tasks/domain"
	"pomocoin/internal/modules/tasks/dto"
	tasksin "pomocoin/internal/modules/tasks/port/in"
	"pomocoin/internal/modules/tasks/service"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/tx"
)

type Interactor struct {
	svc    *service.TaskService
	ledger ledgerin.Usecase
	tx     tx.Manager
	log    logrus.FieldLogger

	mu        sync.Mutex
	completed map[string]struct{}
}

func NewInteractor(svc *service.TaskService, ledger ledgerin.Usecase, txm tx.Manager, log logrus.FieldLogger) tasksin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, ledger: ledger, tx: txm, log: log, completed: map[string]struct{}{}}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddTaskInput) (dto.MutationOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var task domain.Task
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		task, err = i.svc.Add(ctx, input.Text, input.Value)
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	i.logMutation("task added", task, warning)
	return dto.MutationOutput{Task: toOutput(task), Warning: warning}, nil
}

func (i *Interactor) Edit(ctx context.Context, input dto.EditTaskInput) (dto.MutationOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var task domain.Task
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		task, err = i.svc.Edit(ctx, input.ID, input.Text, input.Value)
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	i.logMutation("task edited", task, warning)
	return dto.MutationOutput{Task: toOutput(task), Warning: warning}, nil
}

// Complete removes the task and credits its value in one write unit.
func (i *Interactor) Complete(ctx context.Context, id string) (dto.CompleteOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, done := i.completed[id]; done {
		return dto.CompleteOutput{}, fmt.Errorf("task %s: %w", id, apperrors.ErrAlreadyDone)
	}
	if i.ledger == nil {
		return dto.CompleteOutput{}, fmt.Errorf("ledger usecase is not configured")
	}

	var (
		task    domain.Task
		balance int
	)
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		task, err = i.svc.Complete(ctx, id)
		if err != nil {
			return err
		}
		credited, err := i.ledger.Credit(ctx, ledgerdto.CreditInput{Amount: task.Value, Reason: "task " + task.ID})
		if err != nil {
			return err
		}
		balance = credited.Balance
		return nil
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.CompleteOutput{}, err
	}
	i.completed[id] = struct{}{}
	i.logMutation("task completed", task, warning)
	return dto.CompleteOutput{Task: toOutput(task), Balance: balance, Warning: warning}, nil
}

func (i *Interactor) Delete(ctx context.Context, id string) (dto.MutationOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var task domain.Task
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		task, err = i.svc.Delete(ctx, id)
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	i.logMutation("task deleted", task, warning)
	return dto.MutationOutput{Task: toOutput(task), Warning: warning}, nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.TaskOutput, error) {
	tasks, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toOutput(task))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.TaskOutput, error) {
	task, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) logMutation(msg string, task domain.Task, warning string) {
	entry := i.log.WithFields(logrus.Fields{"task_id": task.ID, "value": task.Value})
	if warning != "" {
		entry.WithField("warning", warning).Warn(msg + " (not persisted yet)")
		return
	}
	entry.Info(msg)
}

func toOutput(task domain.Task) dto.TaskOutput {
	return dto.TaskOutput{ID: task.ID, Text: task.Text, Value: task.Value}
}
