// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInternalKey is returned when an operation targets a reserved "_" entry.
	ErrInternalKey = errors.New("internal entries cannot be modified")

	// ErrEmptyID is returned for profiles without an identifier.
	ErrEmptyID = errors.New("profile id is empty")
)

// usersDoc is the "users" collection: profile id to raw profile document.
type usersDoc map[string]json.RawMessage

// Repository stores every profile inside the users collection document.
type Repository struct {
	store kvs.Store
	clock calendar.Clock
}

// NewRepository creates a profile repository on top of store.
func NewRepository(store kvs.Store, clock calendar.Clock) *Repository {
	return &Repository{
		store: store,
		clock: clock,
	}
}

// Store exposes the underlying document store.
func (r *Repository) Store() kvs.Store {
	return r.store
}

func isInternal(id string) bool {
	return strings.HasPrefix(id, "_")
}

func (r *Repository) load(ctx context.Context) usersDoc {
	users := usersDoc{}
	kvs.GetJSON(ctx, r.store, kvs.KeyUsers, &users)
	return users
}

func (r *Repository) update(ctx context.Context, fn func(users usersDoc) error) error {
	return kvs.UpdateJSON(ctx, r.store, kvs.KeyUsers, func(users *usersDoc) error {
		if *users == nil {
			*users = usersDoc{}
		}
		return fn(*users)
	})
}

func decodeProfile(id string, raw json.RawMessage) (UserProfile, error) {
	var p UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return UserProfile{}, fmt.Errorf("failed to decode profile %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// Get returns the stored profile. A missing, unreadable or unreachable
// profile reports false.
func (r *Repository) Get(ctx context.Context, id string) (UserProfile, bool) {
	raw, ok := r.load(ctx)[id]
	if !ok {
		return UserProfile{}, false
	}
	p, err := decodeProfile(id, raw)
	if err != nil {
		logrus.Warnf("%v", err)
		return UserProfile{}, false
	}
	return p, true
}

// Exists reports whether id has a stored profile.
func (r *Repository) Exists(ctx context.Context, id string) bool {
	_, ok := r.load(ctx)[id]
	return ok
}

// List returns all non-internal profile ids, sorted.
func (r *Repository) List(ctx context.Context) []string {
	var ids []string
	for id := range r.load(ctx) {
		if !isInternal(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Create stores a zero-valued profile for id unless one exists.
func (r *Repository) Create(ctx context.Context, id string) (UserProfile, bool, error) {
	if id == "" {
		return UserProfile{}, false, ErrEmptyID
	}
	if isInternal(id) {
		return UserProfile{}, false, ErrInternalKey
	}

	var result UserProfile
	created := false
	err := r.update(ctx, func(users usersDoc) error {
		if raw, ok := users[id]; ok {
			p, err := decodeProfile(id, raw)
			if err == nil {
				result = p
				return nil
			}
			logrus.Warnf("replacing unreadable profile %s: %v", id, err)
		}

		result = New(id, r.clock.Now())
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal profile %s: %w", id, err)
		}
		users[id] = data
		created = true
		return nil
	})
	if err != nil {
		return UserProfile{}, false, fmt.Errorf("failed to create profile %s: %w", id, err)
	}

	if created {
		logrus.Infof("created profile %s", id)
	}
	return result, created, nil
}

// Set replaces the profile document with p.
func (r *Repository) Set(ctx context.Context, p UserProfile) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if isInternal(p.ID) {
		return ErrInternalKey
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile %s: %w", p.ID, err)
	}

	err = r.update(ctx, func(users usersDoc) error {
		users[p.ID] = data
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}
	return nil
}

// Patch deep-merges patch into the latest stored document of id. Fields the
// patch does not name are left exactly as stored.
func (r *Repository) Patch(ctx context.Context, id string, patch map[string]any) (UserProfile, error) {
	if isInternal(id) {
		return UserProfile{}, ErrInternalKey
	}

	var result UserProfile
	err := r.update(ctx, func(users usersDoc) error {
		base := map[string]any{}
		if raw, ok := users[id]; ok {
			if err := json.Unmarshal(raw, &base); err != nil {
				logrus.Warnf("patching over unreadable profile %s: %v", id, err)
				base = map[string]any{}
			}
		} else {
			fresh, err := toMap(New(id, r.clock.Now()))
			if err != nil {
				return err
			}
			base = fresh
		}

		merged := DeepMerge(base, patch)
		merged["id"] = id

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to marshal profile %s: %w", id, err)
		}
		p, err := decodeProfile(id, data)
		if err != nil {
			return err
		}
		result = p
		users[id] = data
		return nil
	})
	if err != nil {
		return UserProfile{}, fmt.Errorf("failed to patch profile %s: %w", id, err)
	}
	return result, nil
}

// Mutate reads the latest profile, applies fn and writes the result back in
// one step. A missing profile starts from zero values. Stored fields unknown
// to UserProfile survive. If fn fails nothing is written.
func (r *Repository) Mutate(ctx context.Context, id string, fn func(p *UserProfile) error) (UserProfile, error) {
	if id == "" {
		return UserProfile{}, ErrEmptyID
	}
	if isInternal(id) {
		return UserProfile{}, ErrInternalKey
	}

	var result UserProfile
	err := r.update(ctx, func(users usersDoc) error {
		p := New(id, r.clock.Now())
		stored := map[string]any{}

		if raw, ok := users[id]; ok {
			decoded, err := decodeProfile(id, raw)
			if err != nil {
				logrus.Warnf("%v, starting from defaults", err)
			} else {
				p = decoded
				_ = json.Unmarshal(raw, &stored)
			}
		}

		if err := fn(&p); err != nil {
			return err
		}

		typed, err := toMap(p)
		if err != nil {
			return err
		}
		data, err := json.Marshal(overlayTyped(stored, typed))
		if err != nil {
			return fmt.Errorf("failed to marshal profile %s: %w", id, err)
		}

		users[id] = data
		result = p
		return nil
	})
	if err != nil {
		return UserProfile{}, err
	}
	return result, nil
}

// Delete removes one profile. Internal entries are refused.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	if isInternal(id) {
		return false, ErrInternalKey
	}

	deleted := false
	err := r.update(ctx, func(users usersDoc) error {
		if _, ok := users[id]; ok {
			delete(users, id)
			deleted = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete profile %s: %w", id, err)
	}

	if deleted {
		logrus.Infof("deleted profile %s", id)
	}
	return deleted, nil
}

// ClearAll removes every profile and keeps internal entries.
func (r *Repository) ClearAll(ctx context.Context) (int, error) {
	return r.deleteWhere(ctx, func(id string) bool { return !isInternal(id) })
}

func (r *Repository) deleteWhere(ctx context.Context, match func(id string) bool) (int, error) {
	removed := 0
	err := r.update(ctx, func(users usersDoc) error {
		for id := range users {
			if match(id) {
				delete(users, id)
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove profiles: %w", err)
	}
	return removed, nil
}

func toMap(p UserProfile) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile %s: %w", p.ID, err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to convert profile %s: %w", p.ID, err)
	}
	return out, nil
}
