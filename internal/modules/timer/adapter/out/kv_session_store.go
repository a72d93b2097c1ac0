package out

import (
	"context"
	"time"

	"pomocoin/internal/modules/timer/domain"
	timerout "pomocoin/internal/modules/timer/port/out"
	"pomocoin/internal/platform/kv"
)

// KVSessionStore maps a session onto the endTime/paused/pausedTime/mode/cycles
// keys. Missing keys fall back to a fresh session.
type KVSessionStore struct {
	cache    *kv.Cache
	settings domain.Settings
}

func NewKVSessionStore(cache *kv.Cache, settings domain.Settings) timerout.SessionStore {
	return &KVSessionStore{cache: cache, settings: settings}
}

func (s *KVSessionStore) Load(ctx context.Context) (domain.Session, error) {
	session := domain.NewSession(s.settings)

	var mode string
	if ok, err := s.cache.Get(ctx, kv.KeyMode, &mode); err != nil {
		return domain.Session{}, err
	} else if ok {
		session.Mode = domain.Mode(mode)
		session.Remaining = s.settings.Duration(session.Mode)
	}
	if _, err := s.cache.Get(ctx, kv.KeyCycles, &session.Cycles); err != nil {
		return domain.Session{}, err
	}

	paused := true
	if _, err := s.cache.Get(ctx, kv.KeyPaused, &paused); err != nil {
		return domain.Session{}, err
	}
	var endMillis int64
	if _, err := s.cache.Get(ctx, kv.KeyEndTime, &endMillis); err != nil {
		return domain.Session{}, err
	}
	if !paused && endMillis > 0 {
		session.Running = true
		session.EndTime = time.UnixMilli(endMillis).UTC()
	}

	var pausedSeconds int
	if ok, err := s.cache.Get(ctx, kv.KeyPausedTime, &pausedSeconds); err != nil {
		return domain.Session{}, err
	} else if ok && !session.Running {
		session.Remaining = time.Duration(pausedSeconds) * time.Second
	}
	return session.Normalize(s.settings), nil
}

func (s *KVSessionStore) Save(ctx context.Context, session domain.Session) error {
	values := map[string]any{
		kv.KeyMode:   string(session.Mode),
		kv.KeyCycles: session.Cycles,
		kv.KeyPaused: !session.Running,
	}
	if session.Running {
		values[kv.KeyEndTime] = session.EndTime.UnixMilli()
	} else {
		values[kv.KeyEndTime] = int64(0)
		values[kv.KeyPausedTime] = session.RemainingAt(time.Time{})
	}
	return s.cache.Set(ctx, values)
}
