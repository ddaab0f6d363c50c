// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AccelByte/extend-daily-progression/internal/config"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTPPort:             8080,
		Environment:          "test",
		ServiceName:          "DailyProgressionTest",
		LogLevel:             "info",
		DBMaxRetries:         0,
		DataDir:              t.TempDir(),
		RedisPort:            "6379",
		RedisKeyPrefix:       "test:kv:",
		KafkaTopic:           "progression-events",
		Timezone:             "UTC",
		ProgressionConfig:    filepath.Join(t.TempDir(), "missing.yaml"),
		GuestCleanupInterval: time.Hour,
	}
}

func layerNames(s kvs.Store) []string {
	layered, ok := s.(*kvs.LayeredStore)
	if !ok {
		return []string{s.(kvs.Namer).Name()}
	}
	var names []string
	for _, l := range layered.Layers() {
		names = append(names, l.(kvs.Namer).Name())
	}
	return names
}

func assertLayers(t *testing.T, s kvs.Store, want ...string) {
	t.Helper()
	got := layerNames(s)
	if len(got) != len(want) {
		t.Fatalf("layers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("layers = %v, want %v", got, want)
		}
	}
}

func TestOpenStore_FileOnly(t *testing.T) {
	storage, err := OpenStore(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer storage.Close()

	assertLayers(t, storage.Store, "file")
}

func TestOpenStore_SQLitePrimary(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "kv.db")

	ctx := context.Background()
	storage, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer storage.Close()

	assertLayers(t, storage.Store, "sql:sqlite", "file")

	if err := storage.Store.Set(ctx, kvs.KeyUsers, []byte(`{"kid-1":{}}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	doc, ok := storage.Store.Get(ctx, kvs.KeyUsers)
	if !ok || string(doc) != `{"kid-1":{}}` {
		t.Errorf("Get() = %s, %v", doc, ok)
	}
}

func TestOpenStore_RedisPrimary(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	cfg := testConfig(t)
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = mr.Port()

	ctx := context.Background()
	storage, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer storage.Close()

	assertLayers(t, storage.Store, "redis", "file")

	if err := storage.Store.Set(ctx, kvs.KeyTasks, []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("test:kv:" + kvs.KeyTasks) {
		t.Errorf("document should be written under the configured prefix, keys = %v", mr.Keys())
	}
}

func TestOpenStore_UnreachablePrimaryFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{
			name:   "unsupported database url",
			mutate: func(cfg *config.Config) { cfg.DatabaseURL = "mysql://localhost/kv" },
		},
		{
			name: "unreachable redis",
			mutate: func(cfg *config.Config) {
				cfg.RedisHost = "127.0.0.1"
				cfg.RedisPort = "1"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			storage, err := OpenStore(context.Background(), cfg)
			if err != nil {
				t.Fatalf("OpenStore() error = %v", err)
			}
			defer storage.Close()

			assertLayers(t, storage.Store, "file")
		})
	}
}

func TestApp_NewAndCleanup(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	repo := a.Repository()
	if _, _, err := repo.Create(ctx, "kid-1"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := repo.Create(ctx, "Guest-abcd1234"); err != nil {
		t.Fatal(err)
	}

	ran, removed, err := a.CleanupGuests(ctx)
	if err != nil || !ran || removed != 1 {
		t.Errorf("CleanupGuests() = %v, %d, %v", ran, removed, err)
	}
	ran, _, err = a.CleanupGuests(ctx)
	if err != nil || ran {
		t.Errorf("second CleanupGuests() = %v, %v", ran, err)
	}
	if !repo.Exists(ctx, "kid-1") {
		t.Error("learner profile should survive guest cleanup")
	}

	if err := a.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
