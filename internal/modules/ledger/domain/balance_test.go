package domain_test

import (
	"errors"
	"testing"

	"pomocoin/internal/modules/ledger/domain"
	apperrors "pomocoin/internal/platform/errors"
)

func TestCreditAndDebit(t *testing.T) {
	t.Parallel()
	b, err := domain.Balance(0).Credit(3)
	if err != nil || b != 3 {
		t.Fatalf("credit: got %d %v", b, err)
	}
	b, err = b.Debit(3)
	if err != nil || b != 0 {
		t.Fatalf("debit to zero: got %d %v", b, err)
	}
}

func TestDebitNeverGoesNegative(t *testing.T) {
	t.Parallel()
	b, err := domain.Balance(3).Debit(5)
	if !errors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if b != 3 {
		t.Fatalf("failed debit must keep balance, got %d", b)
	}
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	t.Parallel()
	for _, amount := range []int{0, -1} {
		if _, err := domain.Balance(10).Credit(amount); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("credit %d: expected invalid input, got %v", amount, err)
		}
		if _, err := domain.Balance(10).Debit(amount); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("debit %d: expected invalid input, got %v", amount, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	if domain.Normalize(-4) != 0 || domain.Normalize(8) != 8 {
		t.Fatalf("normalize must clamp negatives only")
	}
	if !domain.Balance(5).CanAfford(5) || domain.Balance(4).CanAfford(5) {
		t.Fatalf("can afford boundary is inclusive")
	}
}
