// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-daily-progression/internal/config"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
)

func testOptions(t *testing.T) (*RootOptions, string) {
	t.Helper()
	dir := t.TempDir()
	return &RootOptions{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{
				HTTPPort:             8080,
				ServiceName:          "DailyProgressionTest",
				LogLevel:             "info",
				DataDir:              dir,
				RedisPort:            "6379",
				KafkaTopic:           "progression-events",
				Timezone:             "UTC",
				ProgressionConfig:    filepath.Join(dir, "missing.yaml"),
				GuestCleanupInterval: time.Hour,
			}, nil
		},
	}, dir
}

func execute(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedUsers(t *testing.T, dir string, doc string) {
	t.Helper()
	store, err := kvs.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), kvs.KeyUsers, []byte(doc)); err != nil {
		t.Fatal(err)
	}
}

func TestKVGet(t *testing.T) {
	opts, dir := testOptions(t)
	seedUsers(t, dir, `{"kid-1":{"id":"kid-1","xp":12}}`)

	out, err := execute(t, opts, "kv", "get", kvs.KeyUsers)
	if err != nil {
		t.Fatalf("kv get error = %v", err)
	}
	var users map[string]map[string]any
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if users["kid-1"]["xp"] != float64(12) {
		t.Errorf("users = %v", users)
	}
}

func TestKVGet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "missing key", key: "nothing_here", wantErr: "not found"},
		{name: "invalid key", key: "../etc", wantErr: "invalid key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := testOptions(t)
			_, err := execute(t, opts, "kv", "get", tt.key)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCleanupGuests(t *testing.T) {
	opts, dir := testOptions(t)
	seedUsers(t, dir, `{"kid-1":{"id":"kid-1"},"Guest-1a2b3c4d":{"id":"Guest-1a2b3c4d"}}`)

	out, err := execute(t, opts, "cleanup-guests")
	if err != nil {
		t.Fatalf("cleanup-guests error = %v", err)
	}
	var result struct {
		Ran     bool `json:"ran"`
		Removed int  `json:"removed"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !result.Ran || result.Removed != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestLogLevelFlagIsValidated(t *testing.T) {
	opts, _ := testOptions(t)
	_, err := execute(t, opts, "--log-level", "loud", "kv", "get", kvs.KeyUsers)
	if err == nil || !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error = %v", err)
	}
}
