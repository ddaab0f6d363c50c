// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package calendar

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Epoch is day index zero for rotations keyed by day number.
var Epoch = Date(2025, time.January, 1)

// Day is a calendar date without time or zone. The zero value means "no day".
type Day struct {
	year  int
	month time.Month
	day   int
}

// Date builds a Day, normalizing out-of-range values the way time.Date does.
func Date(year int, month time.Month, day int) Day {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// ParseDay parses YYYY-MM-DD.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("failed to parse day %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParseDay is ParseDay for literals in tests and defaults.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

func (d Day) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(dayLayout)
}

// AddDays returns the day n days after d (before, for negative n).
func (d Day) AddDays(n int) Day {
	return FromTime(d.time().AddDate(0, 0, n))
}

// Sub returns the number of whole days from other to d.
func (d Day) Sub(other Day) int {
	return int(d.time().Sub(other.time()).Hours() / 24)
}

func (d Day) Before(other Day) bool {
	return d.time().Before(other.time())
}

func (d Day) Equal(other Day) bool {
	return d == other
}

// Index is the number of days since Epoch.
func (d Day) Index() int {
	return d.Sub(Epoch)
}

// MarshalText renders the day as YYYY-MM-DD, which also makes Day usable as a JSON map key.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
