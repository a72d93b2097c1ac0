package service

import (
	"context"

	"pomocoin/internal/modules/ledger/domain"
	ledgerout "pomocoin/internal/modules/ledger/port/out"
)

type LedgerService struct {
	store ledgerout.BalanceStore
}

func NewLedgerService(store ledgerout.BalanceStore) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) Balance(ctx context.Context) (domain.Balance, error) {
	return s.store.Load(ctx)
}

func (s *LedgerService) Credit(ctx context.Context, amount int) (domain.Balance, error) {
	current, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	next, err := current.Credit(amount)
	if err != nil {
		return current, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}

func (s *LedgerService) Debit(ctx context.Context, amount int) (domain.Balance, error) {
	current, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	next, err := current.Debit(amount)
	if err != nil {
		return current, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}
