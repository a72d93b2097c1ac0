package domain_test

import (
	"errors"
	"testing"

	"pomocoin/internal/modules/rewards/domain"
	apperrors "pomocoin/internal/platform/errors"
)

func TestNewValidatesNameAndCost(t *testing.T) {
	t.Parallel()
	r, err := domain.New("r-1", " Coffee ", 5)
	if err != nil || r.Name != "Coffee" || r.Cost != 5 {
		t.Fatalf("unexpected reward %+v %v", r, err)
	}
	for _, tc := range []struct {
		name string
		cost int
	}{{"", 5}, {"  ", 5}, {"Cake", 0}, {"Cake", 1000}, {"Cake", -3}} {
		if _, err := domain.New("r", tc.name, tc.cost); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", tc, err)
		}
	}
	if _, err := domain.New("r", "Trip", 999); err != nil {
		t.Fatalf("999 is a valid cost: %v", err)
	}
}

func TestIndexUsesIDNotValue(t *testing.T) {
	t.Parallel()
	rewards := []domain.Reward{{ID: "a", Name: "Coffee", Cost: 5}, {ID: "b", Name: "Coffee", Cost: 5}}
	if domain.Index(rewards, "b") != 1 {
		t.Fatalf("lookup must match the id, not the first equal reward")
	}
	if domain.Index(rewards, "c") != -1 {
		t.Fatalf("unknown id must miss")
	}
}
