package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "pomocoin/internal/platform/errors"
)

type batchKey struct{}

type batch struct {
	values map[string]json.RawMessage
}

// Cache is the in-memory session state in front of a Gateway. It is loaded
// once at startup and stays authoritative for the life of the process: reads
// never touch the backend, writes go through to it in issue order.
//
// Writes that fail to reach the backend are kept as dirty keys and merged into
// the next write.
type Cache struct {
	gw Gateway

	writeMu sync.Mutex // serializes write units

	mu     sync.RWMutex
	values map[string]json.RawMessage
	dirty  map[string]struct{}
}

func NewCache(gw Gateway) *Cache {
	return &Cache{
		gw:     gw,
		values: map[string]json.RawMessage{},
		dirty:  map[string]struct{}{},
	}
}

// Load reads every known key from the backend, replacing the cached state.
func (c *Cache) Load(ctx context.Context) error {
	loaded, err := c.gw.Get(ctx, AllKeys)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]json.RawMessage, len(loaded))
	for k, v := range loaded {
		c.values[k] = v
	}
	c.dirty = map[string]struct{}{}
	return nil
}

// Get decodes key into dst. It reports false when the key was never persisted,
// leaving dst untouched. Inside Within, values staged by the transaction win.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok := c.lookup(ctx, key)
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores values. Outside a transaction the write goes straight to the
// backend; inside Within it is staged until the transaction commits.
func (c *Cache) Set(ctx context.Context, values map[string]any) error {
	encoded := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		encoded[k] = raw
	}
	if b, ok := ctx.Value(batchKey{}).(*batch); ok {
		for k, v := range encoded {
			b.values[k] = v
		}
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.commit(ctx, encoded)
}

// Within runs fn as one write unit: every Set made with the context passed to
// fn is persisted in a single backend update once fn returns nil. Nothing is
// written when fn fails. Nested calls join the outer unit.
func (c *Cache) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(batchKey{}).(*batch); ok {
		return fn(ctx)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	b := &batch{values: map[string]json.RawMessage{}}
	if err := fn(context.WithValue(ctx, batchKey{}, b)); err != nil {
		return err
	}
	if len(b.values) == 0 {
		return nil
	}
	return c.commit(ctx, b.values)
}

// Flush retries any write that previously failed to reach the backend.
func (c *Cache) Flush(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.commit(ctx, nil)
}

// Pending lists keys whose latest value has not reached the backend yet.
func (c *Cache) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Cache) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	if b, ok := ctx.Value(batchKey{}).(*batch); ok {
		if v, staged := b.values[key]; staged {
			return v, true
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// commit must be called with writeMu held.
func (c *Cache) commit(ctx context.Context, values map[string]json.RawMessage) error {
	c.mu.Lock()
	for k, v := range values {
		c.values[k] = v
		c.dirty[k] = struct{}{}
	}
	payload := make(map[string]json.RawMessage, len(c.dirty))
	for k := range c.dirty {
		payload[k] = c.values[k]
	}
	c.mu.Unlock()

	if len(payload) == 0 {
		return nil
	}
	if err := c.gw.Set(ctx, payload); err != nil {
		return fmt.Errorf("persist %s: %v: %w", strings.Join(sortedKeys(payload), ","), err, apperrors.ErrPersistenceDegraded)
	}

	c.mu.Lock()
	for k := range payload {
		delete(c.dirty, k)
	}
	c.mu.Unlock()
	return nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
