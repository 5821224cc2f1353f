package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thriftedhq/thrifted/internal/common"
)

// RedisStore keeps sessions in Redis so multiple server instances share
// one session table. Expiry rides on the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(token string) string { return "session:" + token }

func (s *RedisStore) Create(ctx context.Context, snap Snapshot) (string, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNoSession
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
