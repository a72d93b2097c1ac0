package kv

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryGateway keeps state in process memory only.
type MemoryGateway struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{values: map[string]json.RawMessage{}}
}

func (g *MemoryGateway) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := g.values[k]; ok {
			out[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out, nil
}

func (g *MemoryGateway) Set(_ context.Context, values map[string]json.RawMessage) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k, v := range values {
		g.values[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

func (g *MemoryGateway) Close() error { return nil }
