package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"pomocoin/internal/modules/ledger/domain"
	"pomocoin/internal/modules/ledger/dto"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
	"pomocoin/internal/modules/ledger/service"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/tx"
)

type Interactor struct {
	svc *service.LedgerService
	tx  tx.Manager
	log logrus.FieldLogger
}

// NewInteractor wires the ledger. Credit and Debit join the caller's write
// unit when called inside tx.Within, so a coupled task or reward change is
// persisted in the same update as the balance.
func NewInteractor(svc *service.LedgerService, txm tx.Manager, log logrus.FieldLogger) ledgerin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, tx: txm, log: log}
}

func (i *Interactor) Balance(ctx context.Context) (dto.BalanceOutput, error) {
	balance, err := i.svc.Balance(ctx)
	if err != nil {
		return dto.BalanceOutput{}, err
	}
	return dto.BalanceOutput{Balance: int(balance)}, nil
}

func (i *Interactor) Credit(ctx context.Context, input dto.CreditInput) (dto.BalanceOutput, error) {
	return i.apply(ctx, "credit", input.Amount, input.Reason, i.svc.Credit)
}

func (i *Interactor) Debit(ctx context.Context, input dto.DebitInput) (dto.BalanceOutput, error) {
	return i.apply(ctx, "debit", input.Amount, input.Reason, i.svc.Debit)
}

func (i *Interactor) apply(ctx context.Context, op string, amount int, reason string, fn func(context.Context, int) (domain.Balance, error)) (dto.BalanceOutput, error) {
	var balance domain.Balance
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		next, err := fn(ctx, amount)
		if err != nil {
			return err
		}
		balance = next
		return nil
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.BalanceOutput{}, err
	}
	entry := i.log.WithFields(logrus.Fields{"op": op, "amount": amount, "balance": int(balance), "reason": reason})
	if warning != "" {
		entry.WithField("warning", warning).Warn("ledger change not persisted yet")
	} else {
		entry.Debug("ledger updated")
	}
	return dto.BalanceOutput{Balance: int(balance), Warning: warning}, nil
}
