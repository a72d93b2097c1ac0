package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	ledgerdto "pomocoin/internal/modules/ledger/dto"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
	"pomocoin/internal/modules/rewards/domain"
	"pomocoin/internal/modules/rewards/dto"
	rewardsin "pomocoin/internal/modules/rewards/port/in"
	"pomocoin/internal/modules/rewards/service"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/tx"
)

type Interactor struct {
	mu     sync.Mutex
	svc    *service.RewardService
	ledger ledgerin.Usecase
	tx     tx.Manager
	log    logrus.FieldLogger
}

func NewInteractor(svc *service.RewardService, ledger ledgerin.Usecase, txm tx.Manager, log logrus.FieldLogger) rewardsin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, ledger: ledger, tx: txm, log: log}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddRewardInput) (dto.MutationOutput, error) {
	return i.mutate(ctx, "reward added", func(ctx context.Context) (domain.Reward, error) {
		return i.svc.Add(ctx, input.Name, input.Cost)
	})
}

func (i *Interactor) Edit(ctx context.Context, input dto.EditRewardInput) (dto.MutationOutput, error) {
	return i.mutate(ctx, "reward edited", func(ctx context.Context) (domain.Reward, error) {
		return i.svc.Edit(ctx, input.ID, input.Name, input.Cost)
	})
}

func (i *Interactor) Delete(ctx context.Context, id string) (dto.MutationOutput, error) {
	return i.mutate(ctx, "reward deleted", func(ctx context.Context) (domain.Reward, error) {
		return i.svc.Delete(ctx, id)
	})
}

// Redeem re-checks the balance at call time, so a stale "affordable" flag in
// the UI can never overdraw the ledger.
func (i *Interactor) Redeem(ctx context.Context, id string) (dto.RedeemOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ledger == nil {
		return dto.RedeemOutput{}, fmt.Errorf("ledger usecase is not configured")
	}

	var (
		reward  domain.Reward
		balance int
	)
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		current, err := i.svc.Get(ctx, id)
		if err != nil {
			return err
		}
		debited, err := i.ledger.Debit(ctx, ledgerdto.DebitInput{Amount: current.Cost, Reason: "reward " + current.ID})
		if err != nil {
			return fmt.Errorf("redeem %q: %w", current.Name, err)
		}
		balance = debited.Balance
		reward, err = i.svc.MarkRedeemed(ctx, id)
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.RedeemOutput{}, err
	}
	i.logMutation("reward redeemed", reward, warning)
	out := toOutput(reward, balance)
	return dto.RedeemOutput{Reward: out, Balance: balance, Warning: warning}, nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.RewardOutput, error) {
	rewards, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := i.balance(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RewardOutput, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, toOutput(r, balance))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.RewardOutput, error) {
	reward, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.RewardOutput{}, err
	}
	balance, err := i.balance(ctx)
	if err != nil {
		return dto.RewardOutput{}, err
	}
	return toOutput(reward, balance), nil
}

func (i *Interactor) mutate(ctx context.Context, msg string, fn func(context.Context) (domain.Reward, error)) (dto.MutationOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var reward domain.Reward
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		reward, err = fn(ctx)
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	i.logMutation(msg, reward, warning)
	balance, err := i.balance(ctx)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	return dto.MutationOutput{Reward: toOutput(reward, balance), Warning: warning}, nil
}

func (i *Interactor) balance(ctx context.Context) (int, error) {
	if i.ledger == nil {
		return 0, nil
	}
	out, err := i.ledger.Balance(ctx)
	if err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func (i *Interactor) logMutation(msg string, reward domain.Reward, warning string) {
	entry := i.log.WithFields(logrus.Fields{"reward_id": reward.ID, "cost": reward.Cost})
	if warning != "" {
		entry.WithField("warning", warning).Warn(msg + " (not persisted yet)")
		return
	}
	entry.Info(msg)
}

func toOutput(r domain.Reward, balance int) dto.RewardOutput {
	return dto.RewardOutput{
		ID:         r.ID,
		Name:       r.Name,
		Cost:       r.Cost,
		Redeemed:   r.Redeemed,
		Affordable: r.Cost <= balance,
	}
}
