// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package kvs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileStore keeps one JSON file per key under a directory. Writes replace the
// file atomically while holding an advisory lock on "<file>.lock".
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	logrus.Infof("file store initialized at %s", dir)
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(key string) (string, error) {
	if !ValidKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads key. Missing, unreadable and non-JSON files all report absent.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, bool) {
	path, err := f.path(key)
	if err != nil {
		logrus.Warnf("file store get rejected: %v", err)
		return nil, false
	}
	return readDocument(path)
}

func readDocument(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("failed to read %s: %v", path, err)
		}
		return nil, false
	}
	if !json.Valid(data) {
		logrus.Warnf("ignoring corrupt document %s", path)
		return nil, false
	}
	return data, true
}

// Set replaces key under the key lock.
func (f *FileStore) Set(ctx context.Context, key string, doc []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	unlock, err := lockFile(path + ".lock")
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}
	defer unlock()

	return writeAtomic(path, doc)
}

// Update holds the key lock across the read and the write.
func (f *FileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	unlock, err := lockFile(path + ".lock")
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}
	defer unlock()

	current, ok := readDocument(path)
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	return writeAtomic(path, next)
}

// writeAtomic writes a sibling temp file, syncs it and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		logrus.Debugf("directory sync skipped for %s: %v", dir, err)
	}
}
