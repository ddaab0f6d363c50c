// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package retention

import (
	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

// Event names the streak transition taken by Update.
type Event string

const (
	EventFirst    Event = "first"
	EventContinue Event = "continue"
	EventFreeze   Event = "freeze"
	EventReset    Event = "reset"
	EventSameDay  Event = "same_day"
)

// Update applies one completed daily cycle on today. The returned day is the
// missed day saved by a freeze, or nil.
func Update(state State, today calendar.Day) (State, Event, *calendar.Day) {
	next := state.Clone()

	if !state.LastCompletedDay.IsZero() && state.LastCompletedDay == today {
		return next, EventSameDay, nil
	}

	if state.LastCompletedDay.IsZero() {
		next.Streak = 1
		next.LastCompletedDay = today
		return next, EventFirst, nil
	}

	gap := today.Sub(state.LastCompletedDay)
	next.LastCompletedDay = today

	switch {
	case gap < 0:
		// clock skew: keep the streak and move on
		if next.Streak < 1 {
			next.Streak = 1
		}
		return next, EventSameDay, nil

	case gap == 1:
		next.Streak++
		return next, EventContinue, nil

	case gap == 2:
		missed := today.AddDays(-1)
		if state.FreezeCount > 0 && !state.freezeUsedOn(missed) {
			next.FreezeCount--
			next.FreezeUsedDays = addDay(next.FreezeUsedDays, missed)
			next.Streak++
			return next, EventFreeze, &missed
		}
	}

	next.Streak = 1
	return next, EventReset, nil
}

// MarkDailyDone records today's completed daily cycle and applies Update.
// Calling it again on the same day is a no-op.
func MarkDailyDone(state State, today calendar.Day) (State, Event, *calendar.Day) {
	next, event, saved := Update(state, today)
	next.DailyDone = pruneBefore(addDay(next.DailyDone, today), today.AddDays(-historyDays))
	return next, event, saved
}
