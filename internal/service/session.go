package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks live sessions by token ID so that logout actually
// revokes a bearer token instead of waiting for it to expire.
type TokenStore interface {
	Save(ctx context.Context, jti string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Delete(ctx context.Context, jti string) error
}

// RedisTokenStore keeps session entries in Redis with the token's TTL.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) key(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func (s *RedisTokenStore) Save(ctx context.Context, jti string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(jti), "1", ttl).Err()
}

func (s *RedisTokenStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, jti string) error {
	return s.client.Del(ctx, s.key(jti)).Err()
}
