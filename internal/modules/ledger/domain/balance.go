package domain

import (
	"fmt"

	apperrors "pomocoin/internal/platform/errors"
)

// Balance is the shared coin balance. It is never negative.
type Balance int

// Normalize turns a persisted value into a valid balance.
func Normalize(v int) Balance {
	if v < 0 {
		return 0
	}
	return Balance(v)
}

func (b Balance) Credit(amount int) (Balance, error) {
	if amount <= 0 {
		return b, fmt.Errorf("credit amount %d must be positive: %w", amount, apperrors.ErrInvalidInput)
	}
	return b + Balance(amount), nil
}

func (b Balance) Debit(amount int) (Balance, error) {
	if amount <= 0 {
		return b, fmt.Errorf("debit amount %d must be positive: %w", amount, apperrors.ErrInvalidInput)
	}
	if Balance(amount) > b {
		return b, fmt.Errorf("need %d coins, have %d: %w", amount, int(b), apperrors.ErrInsufficientFunds)
	}
	return b - Balance(amount), nil
}

func (b Balance) CanAfford(cost int) bool {
	return cost <= int(b)
}
