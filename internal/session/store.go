package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore persists the opaque upstream token pair per browser
// session. Each token has its own expiry, mirroring independent
// cookie lifetimes.
type TokenStore interface {
	Tokens(ctx context.Context, sid string) (access, refresh string, err error)
	SaveAccess(ctx context.Context, sid, token string) error
	SaveRefresh(ctx context.Context, sid, token string) error
	Clear(ctx context.Context, sid string) error
}

type redisTokenStore struct {
	client     *redis.Client
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewRedisTokenStore returns a Redis-backed token store. Access and
// refresh tokens are written under separate keys so their TTLs expire
// independently.
func NewRedisTokenStore(client *redis.Client, accessTTL, refreshTTL time.Duration) TokenStore {
	return &redisTokenStore{client: client, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func accessKey(sid string) string  { return "session:" + sid + ":access" }
func refreshKey(sid string) string { return "session:" + sid + ":refresh" }

func (s *redisTokenStore) Tokens(ctx context.Context, sid string) (string, string, error) {
	access, err := s.client.Get(ctx, accessKey(sid)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", "", err
	}
	refresh, err := s.client.Get(ctx, refreshKey(sid)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *redisTokenStore) SaveAccess(ctx context.Context, sid, token string) error {
	return s.client.Set(ctx, accessKey(sid), token, s.accessTTL).Err()
}

func (s *redisTokenStore) SaveRefresh(ctx context.Context, sid, token string) error {
	return s.client.Set(ctx, refreshKey(sid), token, s.refreshTTL).Err()
}

func (s *redisTokenStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, accessKey(sid), refreshKey(sid)).Err()
}
