package out

import (
	"context"

	"pomocoin/internal/modules/ledger/domain"
)

type BalanceStore interface {
	Load(ctx context.Context) (domain.Balance, error)
	Save(ctx context.Context, balance domain.Balance) error
}
