package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/storefront-gateway/internal/domain"
)

// LocalStore persists the line set of anonymous carts. Lines survive
// across requests and browser reloads until the TTL lapses or the
// cart is merged into an authenticated one.
type LocalStore interface {
	Lines(ctx context.Context, owner string) ([]domain.CartLine, error)
	Save(ctx context.Context, owner string, lines []domain.CartLine) error
	Clear(ctx context.Context, owner string) error
}

type redisLocalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocalStore returns a Redis-backed local cart store with
// JSON-serialized line sets.
func NewRedisLocalStore(client *redis.Client, ttl time.Duration) LocalStore {
	return &redisLocalStore{client: client, ttl: ttl}
}

func localKey(owner string) string { return "cart:local:" + owner }

func (s *redisLocalStore) Lines(ctx context.Context, owner string) ([]domain.CartLine, error) {
	raw, err := s.client.Get(ctx, localKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode local cart: %w", err)
	}
	return lines, nil
}

func (s *redisLocalStore) Save(ctx context.Context, owner string, lines []domain.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode local cart: %w", err)
	}
	return s.client.Set(ctx, localKey(owner), raw, s.ttl).Err()
}

func (s *redisLocalStore) Clear(ctx context.Context, owner string) error {
	return s.client.Del(ctx, localKey(owner)).Err()
}
