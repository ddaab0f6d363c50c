// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package kvs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// redisKeyPrefix is the default prefix for all document keys
	redisKeyPrefix = "daily_progression:kv:"
	// redisMaxTxRetries bounds optimistic retries in Update
	redisMaxTxRetries = 10
)

// RedisStore keeps documents as JSON strings in Redis.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

type RedisStoreConfig struct {
	// KeyPrefix defaults to "daily_progression:kv:".
	KeyPrefix string
	// TTL of zero keeps documents forever.
	TTL time.Duration
}

// NewRedisStore creates a new Redis-backed document store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = redisKeyPrefix
	}
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) makeKey(key string) string {
	return fmt.Sprintf("%s%s", r.cfg.KeyPrefix, key)
}

// Ping checks Redis is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := r.client.Ping(ctx).Result(); err != nil {
		logrus.Errorf("Redis health check failed: %v", err)
		return err
	}
	logrus.Debugf("Redis health check passed")
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.makeKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logrus.Errorf("failed to get document %s: %v", key, err)
		return nil, false
	}
	return data, true
}

func (r *RedisStore) Set(ctx context.Context, key string, doc []byte) error {
	if err := r.client.Set(ctx, r.makeKey(key), doc, r.cfg.TTL).Err(); err != nil {
		logrus.Errorf("failed to set document %s: %v", key, err)
		return fmt.Errorf("failed to set document: %w", err)
	}
	logrus.Debugf("updated document %s", key)
	return nil
}

// Update uses WATCH/MULTI and retries when another writer touched the key.
func (r *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	redisKey := r.makeKey(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, redisKey).Bytes()
		ok := true
		if err == redis.Nil {
			ok = false
		} else if err != nil {
			return err
		}

		next, err := fn(current, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, next, r.cfg.TTL)
			return nil
		})
		return err
	}

	for i := 0; i < redisMaxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, redisKey)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logrus.Debugf("concurrent write on %s, retrying (attempt %d)", key, i+1)
			continue
		}
		return fmt.Errorf("failed to update document %s: %w", key, err)
	}
	return fmt.Errorf("failed to update document %s: too many concurrent writers", key)
}
