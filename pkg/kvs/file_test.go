// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package kvs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileStore_RoundTripAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	users := map[string]any{"kid-1": map[string]any{"xp": float64(12)}}
	if err := SetJSON(ctx, store, KeyUsers, users); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	// a fresh store over the same directory stands in for a process restart
	restarted, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	got := map[string]any{}
	if !GetJSON(ctx, restarted, KeyUsers, &got) {
		t.Fatal("GetJSON() reported absent after restart")
	}

	want, _ := json.Marshal(users)
	have, _ := json.Marshal(got)
	if string(want) != string(have) {
		t.Errorf("document = %s, expected %s", have, want)
	}
}

func TestFileStore_GetDefaults(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	tests := []struct {
		name  string
		key   string
		setup func()
	}{
		{"missing file", "donors", func() {}},
		{"corrupt file", "draws", func() {
			_ = os.WriteFile(filepath.Join(dir, "draws.json"), []byte("{not json"), 0o644)
		}},
		{"invalid key", "../escape", func() {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			got := map[string]int{"default": 1}
			if GetJSON(ctx, store, tt.key, &got) {
				t.Fatal("GetJSON() should report absent")
			}
			if got["default"] != 1 {
				t.Errorf("default was overwritten: %v", got)
			}
		})
	}
}

func TestFileStore_SetRejectsInvalidKey(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	if err := store.Set(context.Background(), "a/b", []byte(`{}`)); err == nil {
		t.Error("Set() should reject keys with path separators")
	}
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	for i := 0; i < 3; i++ {
		if err := store.Set(ctx, KeyTasks, []byte(`{"n":1}`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != "tasks.json" && e.Name() != "tasks.json.lock" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())

	type counter struct {
		N int `json:"n"`
	}

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := UpdateJSON(ctx, store, "counter", func(c *counter) error {
				c.N++
				return nil
			})
			if err != nil {
				t.Errorf("UpdateJSON() error = %v", err)
			}
		}()
	}
	wg.Wait()

	var got counter
	GetJSON(ctx, store, "counter", &got)
	if got.N != writers {
		t.Errorf("counter = %d, expected %d (lost updates)", got.N, writers)
	}
}
