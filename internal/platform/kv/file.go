package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileGateway keeps the whole state as one JSON object. Set rewrites the file
// through a temp file and rename so a crash leaves either the old or the new
// snapshot.
type FileGateway struct {
	path string
	mu   sync.Mutex
}

func NewFileGateway(path string) *FileGateway {
	return &FileGateway{path: path}
}

func (g *FileGateway) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	state, err := g.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := state[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (g *FileGateway) Set(_ context.Context, values map[string]json.RawMessage) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	state, err := g.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		state[k] = v
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (g *FileGateway) Close() error { return nil }

func (g *FileGateway) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	state := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}
