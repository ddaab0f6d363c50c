// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"context"
	"sync"
	"time"
)

// DefaultAutosaveInterval is the minimum time between debounced writes.
const DefaultAutosaveInterval = 2 * time.Second

// Autosaver batches low-value profile mutations (activity log, preferences)
// and writes them at most once per interval.
type Autosaver struct {
	repo     *Repository
	userID   string
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	pending   []func(p *UserProfile)
	lastFlush time.Time
}

// NewAutosaver creates a debounced writer for one profile.
func NewAutosaver(repo *Repository, userID string, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		repo:     repo,
		userID:   userID,
		interval: interval,
		now:      time.Now,
	}
}

// Stage queues a mutation for the next flush.
func (a *Autosaver) Stage(fn func(p *UserProfile)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, fn)
}

// Dirty reports whether staged mutations are waiting.
func (a *Autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending) > 0
}

// Flush writes staged mutations if the interval has elapsed or force is set.
// Returns whether a write happened. On failure the mutations stay staged.
func (a *Autosaver) Flush(ctx context.Context, force bool) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.pending) == 0 {
		return false, nil
	}
	now := a.now()
	if !force && now.Sub(a.lastFlush) < a.interval {
		return false, nil
	}

	pending := a.pending
	_, err := a.repo.Mutate(ctx, a.userID, func(p *UserProfile) error {
		for _, fn := range pending {
			fn(p)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	a.pending = nil
	a.lastFlush = now
	return true, nil
}
