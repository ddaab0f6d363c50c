// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/AccelByte/extend-daily-progression/pkg/events"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/AccelByte/extend-daily-progression/pkg/reward"
)

func TestLoadRewardConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadRewardConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadRewardConfig() error = %v", err)
	}
	if len(config.Bundles) != len(reward.DefaultConfig().Bundles) {
		t.Errorf("bundles = %d", len(config.Bundles))
	}
}

func TestLoadRewardConfig_InvalidFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progression.yaml")
	if err := os.WriteFile(path, []byte("bundles: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRewardConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestInitRewardExecutor(t *testing.T) {
	executor, registry, err := InitRewardExecutor(reward.DefaultConfig())
	if err != nil {
		t.Fatalf("InitRewardExecutor() error = %v", err)
	}
	if registry.Count() != len(reward.DefaultConfig().Rewards) {
		t.Errorf("registered grants = %d", registry.Count())
	}
	if !executor.HasBundle(reward.BundleDailyComplete) {
		t.Error("daily_complete bundle should be configured")
	}
}

func TestInitRewardExecutor_BrokenWiring(t *testing.T) {
	config := reward.DefaultConfig()
	config.Bundles["broken"] = []string{"does_not_exist"}

	if _, _, err := InitRewardExecutor(config); err == nil {
		t.Error("expected wiring validation to fail")
	}
}

func TestInitTaskBank(t *testing.T) {
	ctx := context.Background()
	store := kvs.NewMemoryStore()

	bank := InitTaskBank(ctx, store, "")
	if !bank.Empty() {
		t.Error("bank from an empty store should be empty")
	}

	doc := map[string]map[string][]any{"maths": {"7-9": {"2+2?"}}}
	if err := kvs.SetJSON(ctx, store, kvs.KeyTasks, doc); err != nil {
		t.Fatal(err)
	}
	bank = InitTaskBank(ctx, store, filepath.Join(t.TempDir(), "missing.yaml"))
	if tasks, ok := bank.Lookup("maths", "7-9"); !ok || len(tasks) != 1 {
		t.Errorf("Lookup() = %v, %v", tasks, ok)
	}
}

func TestInitEventSink(t *testing.T) {
	sink, closer := InitEventSink("", "topic")
	if multi, ok := sink.(events.MultiSink); !ok || len(multi) != 1 {
		t.Errorf("sink without brokers = %#v", sink)
	}
	if err := closer(); err != nil {
		t.Errorf("closer() error = %v", err)
	}

	sink, _ = InitEventSink("localhost:9092, other:9092", "topic")
	if multi, ok := sink.(events.MultiSink); !ok || len(multi) != 2 {
		t.Errorf("sink with brokers = %#v", sink)
	}
}
