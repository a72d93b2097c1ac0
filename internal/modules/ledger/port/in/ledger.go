package in

import (
	"context"

	"pomocoin/internal/modules/ledger/dto"
)

type Usecase interface {
	Balance(ctx context.Context) (dto.BalanceOutput, error)
	Credit(ctx context.Context, input dto.CreditInput) (dto.BalanceOutput, error)
	Debit(ctx context.Context, input dto.DebitInput) (dto.BalanceOutput, error)
}
