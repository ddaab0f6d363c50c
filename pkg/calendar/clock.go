// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package calendar

import (
	"fmt"
	"time"
)

// DefaultTimezone is the zone all "today" comparisons use unless configured otherwise.
const DefaultTimezone = "Europe/Warsaw"

// Clock provides the current instant and calendar day.
type Clock interface {
	Now() time.Time
	Today() Day
}

// ZoneClock reports the wall clock in a fixed location.
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock returns a clock for the given location.
func NewZoneClock(loc *time.Location) *ZoneClock {
	if loc == nil {
		loc = time.UTC
	}
	return &ZoneClock{loc: loc}
}

// LoadClock resolves an IANA zone name into a ZoneClock.
func LoadClock(name string) (*ZoneClock, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", name, err)
	}
	return NewZoneClock(loc), nil
}

func (c *ZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *ZoneClock) Today() Day {
	return FromTime(c.Now())
}

func (c *ZoneClock) Location() *time.Location {
	return c.loc
}

// FixedClock always reports the same day. Used by tests and replay tooling.
type FixedClock struct {
	Day  Day
	Time time.Time
}

func (c *FixedClock) Now() time.Time {
	if !c.Time.IsZero() {
		return c.Time
	}
	return time.Date(c.Day.year, c.Day.month, c.Day.day, 12, 0, 0, 0, time.UTC)
}

func (c *FixedClock) Today() Day {
	return c.Day
}

// Advance moves the fixed clock forward by n days.
func (c *FixedClock) Advance(n int) {
	c.Day = c.Day.AddDays(n)
	if !c.Time.IsZero() {
		c.Time = c.Time.AddDate(0, 0, n)
	}
}
