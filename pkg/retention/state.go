// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package retention

import (
	"sort"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

// historyDays bounds how long dailyDone entries are kept.
const historyDays = 60

// State is a learner's streak bookkeeping. A zero LastCompletedDay means the
// learner has never completed a daily cycle.
type State struct {
	Streak            int            `json:"streak"`
	LastCompletedDay  calendar.Day   `json:"lastCompletedDay"`
	FreezeCount       int            `json:"freezeCount"`
	FreezeUsedDays    []calendar.Day `json:"freezeUsedDays,omitempty"`
	ClaimedMilestones []int          `json:"claimedMilestones,omitempty"`
	DailyDone         []calendar.Day `json:"dailyDone,omitempty"`

	// XPDay and XPGainedToday track the daily XP cap.
	XPDay         calendar.Day `json:"xpDay"`
	XPGainedToday int          `json:"xpGainedToday"`
}

// Clone returns a deep copy so transitions never alias the caller's slices.
func (s State) Clone() State {
	out := s
	out.FreezeUsedDays = append([]calendar.Day(nil), s.FreezeUsedDays...)
	out.ClaimedMilestones = append([]int(nil), s.ClaimedMilestones...)
	out.DailyDone = append([]calendar.Day(nil), s.DailyDone...)
	return out
}

func (s State) freezeUsedOn(day calendar.Day) bool {
	return containsDay(s.FreezeUsedDays, day)
}

// HasClaimed reports whether the milestone reward for threshold was granted.
func (s State) HasClaimed(threshold int) bool {
	for _, m := range s.ClaimedMilestones {
		if m == threshold {
			return true
		}
	}
	return false
}

// DoneOn reports whether the daily cycle was completed on day.
func (s State) DoneOn(day calendar.Day) bool {
	return containsDay(s.DailyDone, day)
}

func containsDay(days []calendar.Day, day calendar.Day) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func addDay(days []calendar.Day, day calendar.Day) []calendar.Day {
	if containsDay(days, day) {
		return days
	}
	days = append(days, day)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func pruneBefore(days []calendar.Day, cutoff calendar.Day) []calendar.Day {
	out := days[:0]
	for _, d := range days {
		if !d.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out
}
