package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
)

// schemaVersion tags the persisted payload so future CartItem changes have
// a migration path. Unknown versions are treated as corrupt.
const schemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Items   []cart.CartItem `json:"items"`
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{
		client:  client,
		baseTTL: 24 * time.Hour,
	}
}

// RedisStorage keeps one serialized cart per session slot. Carts are
// session-scoped, so entries expire rather than accumulate.
type RedisStorage struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisStorage) Load(ctx context.Context, slot string) ([]cart.CartItem, error) {
	data, err := r.client.Get(ctx, slotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var env envelope
	if err2 := json.Unmarshal(data, &env); err2 != nil {
		return nil, fmt.Errorf("%w: %v", cart.ErrCorrupt, err2)
	}
	if env.Version != schemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", cart.ErrCorrupt, env.Version)
	}

	return env.Items, nil
}

func (r RedisStorage) Save(ctx context.Context, slot string, items []cart.CartItem) error {
	payload, err := json.Marshal(envelope{Version: schemaVersion, Items: items})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Minute
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, slotKey(slot), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisStorage) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, slotKey(slot)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func slotKey(slot string) string {
	return fmt.Sprintf("cart:%s", slot)
}
