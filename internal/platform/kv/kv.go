package kv

import (
	"context"
	"encoding/json"
)

// Persisted keys. Each module owns its own subset.
const (
	KeyCoins      = "coins"
	KeyTasks      = "tasks"
	KeyRewards    = "rewards"
	KeyEndTime    = "endTime"
	KeyPaused     = "paused"
	KeyPausedTime = "pausedTime"
	KeyMode       = "mode"
	KeyCycles     = "cycles"
)

// AllKeys is the full state blob read once at startup.
var AllKeys = []string{
	KeyCoins,
	KeyTasks,
	KeyRewards,
	KeyEndTime,
	KeyPaused,
	KeyPausedTime,
	KeyMode,
	KeyCycles,
}

// Gateway is a key-value persistence backend. Keys missing from the store are
// absent from the Get result. Set applies all values as one update.
type Gateway interface {
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]json.RawMessage) error
	Close() error
}
