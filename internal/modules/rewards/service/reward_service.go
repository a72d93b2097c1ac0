package service

import (
	"context"
	"fmt"

	"pomocoin/internal/modules/rewards/domain"
	rewardsout "pomocoin/internal/modules/rewards/port/out"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/id"
)

type RewardService struct {
	idGen id.Generator
	store rewardsout.RewardStore
}

func NewRewardService(idGen id.Generator, store rewardsout.RewardStore) *RewardService {
	return &RewardService{idGen: idGen, store: store}
}

// Import gives legacy rewards a stable id and pulls their cost into range.
// Older data stored neither ids nor validated costs.
func (s *RewardService) Import(ctx context.Context) (int, error) {
	rewards, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range rewards {
		r := &rewards[i]
		before := *r
		if r.ID == "" {
			r.ID = s.idGen.New()
		}
		r.Cost = min(max(r.Cost, domain.MinCost), domain.MaxCost)
		if *r != before {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.store.Save(ctx, rewards)
}

func (s *RewardService) List(ctx context.Context) ([]domain.Reward, error) {
	return s.store.Load(ctx)
}

func (s *RewardService) Get(ctx context.Context, rewardID string) (domain.Reward, error) {
	rewards, err := s.store.Load(ctx)
	if err != nil {
		return domain.Reward{}, err
	}
	idx := domain.Index(rewards, rewardID)
	if idx < 0 {
		return domain.Reward{}, fmt.Errorf("reward %s: %w", rewardID, apperrors.ErrNotFound)
	}
	return rewards[idx], nil
}

func (s *RewardService) Add(ctx context.Context, name string, cost int) (domain.Reward, error) {
	reward, err := domain.New(s.idGen.New(), name, cost)
	if err != nil {
		return domain.Reward{}, err
	}
	rewards, err := s.store.Load(ctx)
	if err != nil {
		return domain.Reward{}, err
	}
	if err := s.store.Save(ctx, append(rewards, reward)); err != nil {
		return reward, err
	}
	return reward, nil
}

func (s *RewardService) Edit(ctx context.Context, rewardID string, name *string, cost *int) (domain.Reward, error) {
	rewards, err := s.store.Load(ctx)
	if err != nil {
		return domain.Reward{}, err
	}
	idx := domain.Index(rewards, rewardID)
	if idx < 0 {
		return domain.Reward{}, fmt.Errorf("reward %s: %w", rewardID, apperrors.ErrNotFound)
	}
	current := rewards[idx]
	nextName, nextCost := current.Name, current.Cost
	if name != nil {
		nextName = *name
	}
	if cost != nil {
		nextCost = *cost
	}
	edited, err := domain.New(current.ID, nextName, nextCost)
	if err != nil {
		return domain.Reward{}, err
	}
	edited.Redeemed = current.Redeemed
	rewards[idx] = edited
	if err := s.store.Save(ctx, rewards); err != nil {
		return edited, err
	}
	return edited, nil
}

// MarkRedeemed bumps the redemption count. Debiting the ledger is the
// caller's job.
func (s *RewardService) MarkRedeemed(ctx context.Context, rewardID string) (domain.Reward, error) {
	rewards, err := s.store.Load(ctx)
	if err != nil {
		return domain.Reward{}, err
	}
	idx := domain.Index(rewards, rewardID)
	if idx < 0 {
		return domain.Reward{}, fmt.Errorf("reward %s: %w", rewardID, apperrors.ErrNotFound)
	}
	rewards[idx].Redeemed++
	if err := s.store.Save(ctx, rewards); err != nil {
		return rewards[idx], err
	}
	return rewards[idx], nil
}

func (s *RewardService) Delete(ctx context.Context, rewardID string) (domain.Reward, error) {
	rewards, err := s.store.Load(ctx)
	if err != nil {
		return domain.Reward{}, err
	}
	idx := domain.Index(rewards, rewardID)
	if idx < 0 {
		return domain.Reward{}, fmt.Errorf("reward %s: %w", rewardID, apperrors.ErrNotFound)
	}
	removed := rewards[idx]
	rewards = append(rewards[:idx], rewards[idx+1:]...)
	if err := s.store.Save(ctx, rewards); err != nil {
		return removed, err
	}
	return removed, nil
}
