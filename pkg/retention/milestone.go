// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package retention

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"sort"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

// DefaultFreezeDropPercent is the chance of a bonus freeze token on a milestone.
const DefaultFreezeDropPercent = 25

// Milestone maps a streak threshold to the reward bundle granted once when it is reached.
type Milestone struct {
	Streak int    `yaml:"streak" json:"streak"`
	Bundle string `yaml:"bundle" json:"bundle"`
}

// MilestoneTable is the set of rewarded thresholds.
type MilestoneTable struct {
	Milestones        []Milestone
	FreezeDropPercent int
}

// DefaultMilestones rewards 3, 7, 14 and 30 day streaks.
func DefaultMilestones() MilestoneTable {
	return MilestoneTable{
		Milestones: []Milestone{
			{Streak: 3, Bundle: "streak_3"},
			{Streak: 7, Bundle: "streak_7"},
			{Streak: 14, Bundle: "streak_14"},
			{Streak: 30, Bundle: "streak_30"},
		},
		FreezeDropPercent: DefaultFreezeDropPercent,
	}
}

// Lookup returns the milestone for an exact streak value.
func (t MilestoneTable) Lookup(streak int) (Milestone, bool) {
	for _, m := range t.Milestones {
		if m.Streak == streak {
			return m, true
		}
	}
	return Milestone{}, false
}

// Claim is the result of a granted milestone.
type Claim struct {
	Milestone     Milestone
	FreezeDropped bool
}

// ClaimMilestone grants the milestone for state.Streak if it has one and it was
// never claimed. The claim is recorded in the returned state; the caller must
// persist that state together with the bundle it applies.
func ClaimMilestone(state State, userID string, today calendar.Day, table MilestoneTable) (State, *Claim) {
	m, ok := table.Lookup(state.Streak)
	if !ok || state.HasClaimed(m.Streak) {
		return state, nil
	}

	next := state.Clone()
	next.ClaimedMilestones = append(next.ClaimedMilestones, m.Streak)
	sort.Ints(next.ClaimedMilestones)

	claim := &Claim{Milestone: m}
	if FreezeDrop(userID, m.Streak, today, table.FreezeDropPercent) {
		next.FreezeCount++
		claim.FreezeDropped = true
	}
	return next, claim
}

// FreezeDrop is a replayable draw: the same user, streak and day always give
// the same answer.
func FreezeDrop(userID string, streak int, day calendar.Day, percent int) bool {
	if percent <= 0 {
		return false
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("freeze_drop::%s::%d::%s", userID, streak, day)))
	roll := new(big.Int).Mod(new(big.Int).SetBytes(sum[:]), big.NewInt(100)).Int64()
	return int(roll) < percent
}
