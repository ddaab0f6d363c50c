// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package kvs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Well-known collection keys.
const (
	KeyUsers               = "users"
	KeyTasks               = "tasks"
	KeyDonors              = "donors"
	KeyDraws               = "draws"
	KeyContestParticipants = "contest_participants"
	KeyGuestSignups        = "guest_signups"
	KeyLastGuestCleanup    = "last_guest_cleanup_date"
)

var (
	// ErrInvalidKey is returned for keys that cannot be mapped to a storage location.
	ErrInvalidKey = errors.New("invalid key")

	// ErrAllLayersFailed is returned by LayeredStore when no layer accepted a write.
	ErrAllLayersFailed = errors.New("all store layers failed")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidKey reports whether key is usable by every backend.
func ValidKey(key string) bool {
	return key != "" && key != "." && key != ".." && keyPattern.MatchString(key)
}

// Store is a durable mapping from string keys to JSON documents.
//
// Get never fails: any backend problem is reported as absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, doc []byte) error
}

// UpdateFunc receives the current document (ok=false when absent) and returns the replacement.
type UpdateFunc func(current []byte, ok bool) ([]byte, error)

// Updater is implemented by stores that can run a read-modify-write without
// interleaving another writer of the same key.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Namer lets layered stores label metrics and logs.
type Namer interface {
	Name() string
}

// Update runs fn against the latest value of key, using the store's atomic
// path when it has one.
func Update(ctx context.Context, s Store, key string, fn UpdateFunc) error {
	if u, ok := s.(Updater); ok {
		return u.Update(ctx, key, fn)
	}

	current, ok := s.Get(ctx, key)
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next)
}

// GetJSON decodes key into out. On absence or a decode failure out is left as
// the caller's default and false is returned.
func GetJSON(ctx context.Context, s Store, key string, out any) bool {
	data, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logrus.Warnf("failed to decode document %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// UpdateJSON is Update for a typed document. fn receives a zero T when the key
// is absent or unreadable.
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(doc *T) error) error {
	return Update(ctx, s, key, func(current []byte, ok bool) ([]byte, error) {
		var doc T
		if ok {
			if err := json.Unmarshal(current, &doc); err != nil {
				logrus.Warnf("discarding unreadable document %s: %v", key, err)
				var zero T
				doc = zero
			}
		}
		if err := fn(&doc); err != nil {
			return nil, err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document %s: %w", key, err)
		}
		return data, nil
	})
}

func storeName(s Store) string {
	if n, ok := s.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
