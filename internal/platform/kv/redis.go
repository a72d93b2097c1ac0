package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisGateway stores keys under a common prefix. Set is sent as one MSET
// inside MULTI/EXEC.
type RedisGateway struct {
	client *redis.Client
	prefix string
}

func NewRedisGateway(addr string, db int, prefix string) *RedisGateway {
	return NewRedisGatewayWithClient(redis.NewClient(&redis.Options{Addr: addr, DB: db}), prefix)
}

func NewRedisGatewayWithClient(client *redis.Client, prefix string) *RedisGateway {
	return &RedisGateway{client: client, prefix: prefix}
}

func (g *RedisGateway) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = g.prefix + k
	}
	values, err := g.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[keys[i]] = json.RawMessage(s)
	}
	return out, nil
}

func (g *RedisGateway) Set(ctx context.Context, values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, g.prefix+k, string(v))
	}
	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.MSet(ctx, pairs...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (g *RedisGateway) Close() error {
	return g.client.Close()
}
