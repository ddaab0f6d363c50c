// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/AccelByte/extend-daily-progression/pkg/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GuestPrefix marks ephemeral guest identities.
const GuestPrefix = "Guest-"

// NewGuestID returns a fresh guest identity.
func NewGuestID() string {
	return GuestPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// IsGuest reports whether id is a guest identity. The empty id counts as a guest.
func IsGuest(id string) bool {
	return id == "" || strings.HasPrefix(id, GuestPrefix)
}

// DeleteGuests removes every stored guest profile.
func (r *Repository) DeleteGuests(ctx context.Context) (int, error) {
	return r.deleteWhere(ctx, func(id string) bool {
		return strings.HasPrefix(id, GuestPrefix)
	})
}

// RecordGuestSignup increments the guest counter of day.
func (r *Repository) RecordGuestSignup(ctx context.Context, day calendar.Day) error {
	err := kvs.UpdateJSON(ctx, r.store, kvs.KeyGuestSignups, func(counts *map[string]int) error {
		if *counts == nil {
			*counts = map[string]int{}
		}
		(*counts)[day.String()]++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record guest signup: %w", err)
	}
	return nil
}

// GuestSignups returns the per-day guest counter.
func (r *Repository) GuestSignups(ctx context.Context) map[string]int {
	counts := map[string]int{}
	kvs.GetJSON(ctx, r.store, kvs.KeyGuestSignups, &counts)
	return counts
}

// RunDailyGuestCleanup removes guest profiles at most once per day.
func (r *Repository) RunDailyGuestCleanup(ctx context.Context, today calendar.Day) (bool, int, error) {
	var last calendar.Day
	kvs.GetJSON(ctx, r.store, kvs.KeyLastGuestCleanup, &last)
	if last == today {
		logrus.Debugf("guest cleanup already ran on %s", today)
		return false, 0, nil
	}

	removed, err := r.DeleteGuests(ctx)
	if err != nil {
		return false, 0, err
	}
	if err := kvs.SetJSON(ctx, r.store, kvs.KeyLastGuestCleanup, today); err != nil {
		return true, removed, fmt.Errorf("failed to record guest cleanup date: %w", err)
	}

	metrics.GuestCleanupRemovedTotal.Add(float64(removed))
	logrus.Infof("guest cleanup for %s removed %d profiles", today, removed)
	return true, removed, nil
}
