package service

import (
	"context"
	"time"

	"pomocoin/internal/modules/timer/domain"
	timerout "pomocoin/internal/modules/timer/port/out"
	"pomocoin/internal/platform/clock"
)

type TimerService struct {
	clock    clock.Clock
	store    timerout.SessionStore
	settings domain.Settings
}

func NewTimerService(clk clock.Clock, store timerout.SessionStore, settings domain.Settings) *TimerService {
	return &TimerService{clock: clk, store: store, settings: settings}
}

func (s *TimerService) Settings() domain.Settings { return s.settings }

func (s *TimerService) Now() time.Time { return s.clock.Now() }

func (s *TimerService) Load(ctx context.Context) (domain.Session, error) {
	return s.store.Load(ctx)
}

func (s *TimerService) Start(ctx context.Context) (domain.Session, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	next, err := session.Start(s.clock.Now())
	if err != nil {
		return session, err
	}
	return next, s.store.Save(ctx, next)
}

func (s *TimerService) Pause(ctx context.Context) (domain.Session, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	next, err := session.Pause(s.clock.Now())
	if err != nil {
		return session, err
	}
	return next, s.store.Save(ctx, next)
}

func (s *TimerService) Reset(ctx context.Context, mode domain.Mode) (domain.Session, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	next := session.Reset(mode, s.settings)
	return next, s.store.Save(ctx, next)
}

// Complete finishes session and persists the follow-up session.
func (s *TimerService) Complete(ctx context.Context, session domain.Session) (domain.Session, domain.Completion, error) {
	next, completion := session.Complete(s.settings)
	if err := s.store.Save(ctx, next); err != nil {
		return session, domain.Completion{}, err
	}
	return next, completion, nil
}
