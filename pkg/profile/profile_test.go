// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

func TestAddXP_DailyCap(t *testing.T) {
	day1 := calendar.MustParseDay("2024-03-10")
	day2 := day1.AddDays(1)

	tests := []struct {
		name    string
		prior   int
		amount  int
		day     calendar.Day
		cap     int
		granted int
	}{
		{"under cap", 0, 50, day1, 120, 50},
		{"clipped at cap", 100, 50, day1, 120, 20},
		{"cap reached", 120, 5, day1, 120, 0},
		{"new day resets", 120, 5, day2, 120, 5},
		{"cap disabled", 500, 50, day1, 0, 50},
		{"non-positive ignored", 0, -3, day1, 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("kid", time.Now())
			p.Retention.XPDay = day1
			p.Retention.XPGainedToday = tt.prior

			got := p.AddXP(tt.amount, tt.day, tt.cap)
			if got != tt.granted {
				t.Errorf("AddXP() = %d, expected %d", got, tt.granted)
			}
			if p.XP != tt.granted {
				t.Errorf("xp = %d, expected %d", p.XP, tt.granted)
			}
		})
	}
}

func TestUnlockGame(t *testing.T) {
	p := New("kid", time.Now())
	p.Gems = 5

	if _, err := p.UnlockGame("memory", 8); !errors.Is(err, ErrInsufficientGems) {
		t.Errorf("UnlockGame() error = %v, expected ErrInsufficientGems", err)
	}
	if p.Gems != 5 {
		t.Errorf("gems = %d after failed unlock", p.Gems)
	}

	unlocked, err := p.UnlockGame("memory", 3)
	if err != nil || !unlocked || p.Gems != 2 {
		t.Errorf("UnlockGame() = %v, %v; gems = %d", unlocked, err, p.Gems)
	}

	unlocked, err = p.UnlockGame("memory", 3)
	if err != nil || unlocked || p.Gems != 2 {
		t.Errorf("repeat UnlockGame() = %v, %v; gems = %d", unlocked, err, p.Gems)
	}
}

func TestBadgesAreSets(t *testing.T) {
	p := New("kid", time.Now())
	if !p.GrantBadge("streak_7") || p.GrantBadge("streak_7") {
		t.Error("GrantBadge should add once")
	}
	p.Stickers = []string{"sticker_z", "sticker_a"}
	if p.GrantSticker("sticker_z") {
		t.Error("GrantSticker should detect an existing sticker in unsorted input")
	}
	if len(p.Stickers) != 2 {
		t.Errorf("stickers = %v", p.Stickers)
	}
}

func TestLedgerAndClaims(t *testing.T) {
	day := calendar.MustParseDay("2024-03-10")
	p := New("kid", time.Now())

	if !p.MarkTaskDone(day, "math", "abc123") {
		t.Error("first MarkTaskDone should report new")
	}
	if p.MarkTaskDone(day, "math", "abc123") {
		t.Error("second MarkTaskDone should report existing")
	}
	if !p.IsTaskDone(day, "math", "abc123") || p.IsTaskDone(day.AddDays(1), "math", "abc123") {
		t.Error("IsTaskDone should be scoped to the day")
	}
	if p.TotalTasksDone("math") != 1 {
		t.Errorf("TotalTasksDone = %d", p.TotalTasksDone("math"))
	}

	old := ClaimKey(day.AddDays(-90), "daily_step", "0")
	p.Claims = []string{old}

	key := ClaimKey(day, "daily_step", "0")
	if key != "2024-03-10/daily_step/0" {
		t.Errorf("ClaimKey() = %s", key)
	}
	if !p.Claim(key, day) || p.Claim(key, day) {
		t.Error("Claim should succeed exactly once")
	}
	if p.HasClaim(old) {
		t.Error("claims older than the retention window should be pruned")
	}
}

func TestLevelCurve(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{5, 1},
		{11, 2},
		{XPForLevel(10), 10},
		{XPForLevel(10) - 1, 9},
		{XPForLevel(60), 60},
		{1_000_000, 100},
	}
	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, expected %d", tt.xp, got, tt.want)
		}
	}

	// past the soft cap XP counts at 40%
	capXP := XPForLevel(60)
	if EffectiveXP(capXP+100) != capXP+40 {
		t.Errorf("EffectiveXP() = %d, expected %d", EffectiveXP(capXP+100), capXP+40)
	}

	prog := LevelProgress(XPForLevel(3) + 1)
	if prog.Level != 3 || prog.Fraction <= 0 || prog.Fraction >= 1 {
		t.Errorf("LevelProgress() = %+v", prog)
	}
}

func TestAgeToGroup(t *testing.T) {
	tests := map[int]string{0: "7-9", 8: "7-9", 10: "10-12", 12: "10-12", 13: "13-14", 30: "13-14"}
	for age, want := range tests {
		if got := AgeToGroup(age); got != want {
			t.Errorf("AgeToGroup(%d) = %s, expected %s", age, got, want)
		}
	}
}

func TestAutosaver_Debounce(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepository(t)

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	saver := NewAutosaver(repo, "kid-1", 2*time.Second)
	saver.now = func() time.Time { return now }

	stage := func(kind string) {
		saver.Stage(func(p *UserProfile) { p.LogActivity(now, kind, "") })
	}

	stage("open")
	if wrote, err := saver.Flush(ctx, false); err != nil || !wrote {
		t.Fatalf("first Flush() = %v, %v", wrote, err)
	}

	stage("answer")
	now = now.Add(time.Second)
	if wrote, _ := saver.Flush(ctx, false); wrote {
		t.Error("Flush() inside the interval should be debounced")
	}
	if !saver.Dirty() {
		t.Error("debounced mutation should stay staged")
	}

	now = now.Add(2 * time.Second)
	if wrote, _ := saver.Flush(ctx, false); !wrote {
		t.Error("Flush() after the interval should write")
	}

	stage("close")
	if wrote, _ := saver.Flush(ctx, true); !wrote {
		t.Error("forced Flush() should write")
	}

	p, _ := repo.Get(ctx, "kid-1")
	if len(p.Activity) != 3 {
		t.Errorf("activity = %v, expected 3 entries", p.Activity)
	}
}
