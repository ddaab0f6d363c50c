// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-daily-progression/internal/config"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Storage is the layered document store and the connections behind it.
type Storage struct {
	Store kvs.Store

	sql   *kvs.SQLStore
	redis *redis.Client
}

// OpenStore builds the document store from configuration.
//
// ============================================================
// DEVELOPER: Storage layering
// ============================================================
// The primary is chosen in this order:
// 1. DATABASE_URL (postgres://... or sqlite://...)
// 2. REDIS_HOST
//
// The file store under DATA_DIR is always the last layer, so an
// unreachable primary degrades to local files instead of failing
// startup. If DATA_DIR is not writable, an in-memory store is used.
// ============================================================
func OpenStore(ctx context.Context, cfg *config.Config) (*Storage, error) {
	s := &Storage{}
	var layers []kvs.Store

	switch {
	case cfg.DatabaseURL != "":
		store, err := openSQL(ctx, cfg.DatabaseURL, cfg.DBMaxRetries)
		if err != nil {
			logrus.Warnf("relational store unavailable, using file storage: %v", err)
			break
		}
		s.sql = store
		layers = append(layers, store)
	case cfg.RedisAddr() != "":
		client, err := openRedis(ctx, cfg)
		if err != nil {
			logrus.Warnf("redis store unavailable, using file storage: %v", err)
			break
		}
		s.redis = client
		layers = append(layers, kvs.NewRedisStore(client, kvs.RedisStoreConfig{KeyPrefix: cfg.RedisKeyPrefix}))
	}

	file, err := kvs.NewFileStore(cfg.DataDir)
	if err != nil {
		logrus.Warnf("file store unavailable, keeping documents in memory: %v", err)
		layers = append(layers, kvs.NewMemoryStore())
	} else {
		layers = append(layers, file)
	}

	if len(layers) == 1 {
		s.Store = layers[0]
	} else {
		s.Store = kvs.NewLayeredStore(layers...)
	}
	logrus.Infof("document store ready with %d layer(s)", len(layers))
	return s, nil
}

func retryPolicy(maxRetries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithMaxRetries(b, uint64(maxRetries))
}

func openSQL(ctx context.Context, dsn string, maxRetries int) (*kvs.SQLStore, error) {
	var store *kvs.SQLStore
	err := backoff.Retry(
		func() error {
			var err error
			store, err = kvs.OpenSQL(ctx, dsn)
			if err != nil {
				if errors.Is(err, kvs.ErrUnsupportedDSN) {
					return backoff.Permanent(err)
				}
				logrus.Warnf("database connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		backoff.WithContext(retryPolicy(maxRetries), ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           0,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	err := backoff.Retry(
		func() error {
			if _, err := client.Ping(ctx).Result(); err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		backoff.WithContext(retryPolicy(cfg.DBMaxRetries), ctx),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr(), err)
	}
	logrus.Info("Redis client initialized")
	return client, nil
}

// Close releases the primary connection.
func (s *Storage) Close() error {
	var errs []error
	if s.sql != nil {
		if err := s.sql.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
