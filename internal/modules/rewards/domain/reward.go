package domain

import (
	"fmt"
	"strings"

	apperrors "pomocoin/internal/platform/errors"
)

const (
	MinCost = 1
	MaxCost = 999
)

// Reward is a shop item. Redeeming it spends Cost coins and leaves it in the
// catalog; Redeemed counts how often that happened.
type Reward struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Redeemed int    `json:"redeemed,omitempty"`
}

func New(id, name string, cost int) (Reward, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Reward{}, fmt.Errorf("reward name is required: %w", apperrors.ErrInvalidInput)
	}
	if cost < MinCost || cost > MaxCost {
		return Reward{}, fmt.Errorf("reward cost %d outside %d..%d: %w", cost, MinCost, MaxCost, apperrors.ErrInvalidInput)
	}
	return Reward{ID: id, Name: name, Cost: cost}, nil
}

// Index looks rewards up by id only; two rewards may share name and cost.
func Index(rewards []Reward, id string) int {
	for i, r := range rewards {
		if r.ID == id {
			return i
		}
	}
	return -1
}
