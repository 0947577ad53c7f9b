package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

// セッションの値をredisのハッシュに持つ。キーは session:{sid}。
// 書き込み/読み込みのたびにTTLを延ばす（アイドルタイムアウト）。
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

var _ repo.SessionStore = (*RedisSessionStore)(nil)

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (s *RedisSessionStore) GetValue(ctx context.Context, sessionID, key string) (string, bool, error) {
	k := sessionKey(sessionID)
	v, err := s.client.HGet(ctx, k, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	s.client.Expire(ctx, k, s.ttl)
	return v, true, nil
}

func (s *RedisSessionStore) SetValue(ctx context.Context, sessionID, key, value string) error {
	k := sessionKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisSessionStore) ClearValue(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, sessionKey(sessionID), key).Err(); err != nil {
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return nil
}
