package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/batch-transcriber-wrapper/internal/secure"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/redis/go-redis/v9"
)

// RedisResultCache stores completed job results in Redis, encrypted at rest
type RedisResultCache struct {
	client  *redis.Client
	ttl     time.Duration
	crypter *secure.Crypter
}

// NewRedisResultCache creates a result cache over a Redis connection
func NewRedisResultCache(connStr string, encryptionKey string, ttl time.Duration) (*RedisResultCache, error) {
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	goapp.Log.Info().Str("redis", opt.Addr).Int("db", opt.DB).Send()
	rdb := redis.NewClient(opt)

	crypter, err := secure.NewCrypter(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("create crypter: %w", err)
	}

	return &RedisResultCache{
		client:  rdb,
		ttl:     ttl,
		crypter: crypter,
	}, nil
}

func (r *RedisResultCache) key(id string) string {
	return fmt.Sprintf("results:%s", id)
}

// Get returns a cached result or nil when there is none
func (r *RedisResultCache) Get(ctx context.Context, id string) (*api.JobResult, error) {
	goapp.Log.Trace().Str("id", id).Msg("Get cached result")
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	decrypted, err := r.crypter.Decrypt(b)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	var res api.JobResult
	if err := json.Unmarshal(decrypted, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &res, nil
}

// Save stores a result with the configured TTL
func (r *RedisResultCache) Save(ctx context.Context, id string, res *api.JobResult) error {
	goapp.Log.Trace().Str("id", id).Msg("Save result")
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	encrypted, err := r.crypter.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	return r.client.Set(ctx, r.key(id), encrypted, r.ttl).Err()
}

func (r *RedisResultCache) Close() error {
	return r.client.Close()
}
