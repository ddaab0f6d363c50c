// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// KVSFallbacksTotal counts store layers that failed and were skipped.
	KVSFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_kvs_fallback_total",
			Help: "Total number of key-value store layer failures absorbed by fallback",
		},
		[]string{"op", "layer"},
	)

	// RewardsGrantedTotal counts applied reward bundles.
	RewardsGrantedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_rewards_granted_total",
			Help: "Total number of reward bundles applied to profiles",
		},
		[]string{"bundle"},
	)

	// StreakEventsTotal counts retention transitions by event kind.
	StreakEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_streak_events_total",
			Help: "Total number of streak transitions by event",
		},
		[]string{"event"},
	)

	// MissionTransitionsTotal counts mission controller mode changes.
	MissionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_mission_transitions_total",
			Help: "Total number of mission controller mode transitions",
		},
		[]string{"mode"},
	)

	GuestCleanupRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_guest_cleanup_removed_total",
			Help: "Total number of guest profiles removed by scheduled cleanup",
		},
	)
)

// Collectors returns every progression collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		KVSFallbacksTotal,
		RewardsGrantedTotal,
		StreakEventsTotal,
		MissionTransitionsTotal,
		GuestCleanupRemovedTotal,
	}
}
