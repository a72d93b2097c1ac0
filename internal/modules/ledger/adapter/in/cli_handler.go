package in

import (
	"context"

	"pomocoin/internal/modules/ledger/dto"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
)

type CLIHandler struct {
	usecase ledgerin.Usecase
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Balance(ctx context.Context) (dto.BalanceOutput, error) {
	return h.usecase.Balance(ctx)
}
