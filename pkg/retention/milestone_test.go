// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package retention

import (
	"testing"
)

func TestClaimMilestone_SingleGrant(t *testing.T) {
	table := DefaultMilestones()
	state := State{Streak: 7, LastCompletedDay: day("2024-01-07")}

	first, claim := ClaimMilestone(state, "kid-1", day("2024-01-07"), table)
	if claim == nil {
		t.Fatal("first claim at streak 7 should grant")
	}
	if claim.Milestone.Bundle != "streak_7" {
		t.Errorf("bundle = %s, expected streak_7", claim.Milestone.Bundle)
	}
	if !first.HasClaimed(7) {
		t.Error("claimedMilestones should contain 7")
	}

	second, again := ClaimMilestone(first, "kid-1", day("2024-01-07"), table)
	if again != nil {
		t.Error("second claim at streak 7 must not grant again")
	}
	if !second.HasClaimed(7) {
		t.Error("claimedMilestones should still contain 7")
	}
	if second.FreezeCount != first.FreezeCount {
		t.Errorf("freezeCount changed on repeated claim: %d -> %d", first.FreezeCount, second.FreezeCount)
	}
}

func TestClaimMilestone_NonMilestoneStreak(t *testing.T) {
	state := State{Streak: 5}
	next, claim := ClaimMilestone(state, "kid-1", day("2024-01-05"), DefaultMilestones())
	if claim != nil {
		t.Errorf("streak 5 is not a milestone, got %+v", claim)
	}
	if len(next.ClaimedMilestones) != 0 {
		t.Errorf("claimedMilestones = %v", next.ClaimedMilestones)
	}
}

func TestClaimMilestone_FreezeDropRecorded(t *testing.T) {
	table := DefaultMilestones()
	today := day("2024-02-01")

	for _, user := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		state := State{Streak: 3}
		next, claim := ClaimMilestone(state, user, today, table)
		if claim == nil {
			t.Fatalf("user %s: claim expected", user)
		}
		want := FreezeDrop(user, 3, today, table.FreezeDropPercent)
		if claim.FreezeDropped != want {
			t.Errorf("user %s: FreezeDropped = %v, expected %v", user, claim.FreezeDropped, want)
		}
		if want && next.FreezeCount != 1 {
			t.Errorf("user %s: dropped freeze not added", user)
		}
	}
}

func TestFreezeDrop_DeterministicAndBounded(t *testing.T) {
	d := day("2024-05-05")
	if FreezeDrop("kid", 7, d, 25) != FreezeDrop("kid", 7, d, 25) {
		t.Error("FreezeDrop must be replayable")
	}
	if FreezeDrop("kid", 7, d, 0) {
		t.Error("0 percent must never drop")
	}
	if !FreezeDrop("kid", 7, d, 100) {
		t.Error("100 percent must always drop")
	}

	drops := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		if FreezeDrop("kid", i, d, 25) {
			drops++
		}
	}
	rate := float64(drops) / trials
	if rate < 0.18 || rate > 0.32 {
		t.Errorf("drop rate = %.3f, expected roughly 0.25", rate)
	}
}
