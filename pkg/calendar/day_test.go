// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDay_Sub(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same day", "2024-01-01", "2024-01-01", 0},
		{"next day", "2024-01-02", "2024-01-01", 1},
		{"across month", "2024-03-01", "2024-02-28", 2},
		{"across DST change", "2024-03-31", "2024-03-30", 1},
		{"negative", "2024-01-01", "2024-01-05", -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseDay(tt.a).Sub(MustParseDay(tt.b))
			if got != tt.want {
				t.Errorf("Sub() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestDay_Index(t *testing.T) {
	if Epoch.Index() != 0 {
		t.Errorf("Epoch.Index() = %d, expected 0", Epoch.Index())
	}
	if got := MustParseDay("2025-01-11").Index(); got != 10 {
		t.Errorf("Index() = %d, expected 10", got)
	}
	if got := MustParseDay("2024-12-31").Index(); got != -1 {
		t.Errorf("Index() = %d, expected -1", got)
	}
}

func TestDay_JSONMapKey(t *testing.T) {
	in := map[Day]int{MustParseDay("2024-05-06"): 3}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"2024-05-06":3}` {
		t.Errorf("Marshal() = %s", data)
	}

	var out map[Day]int
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out[MustParseDay("2024-05-06")] != 3 {
		t.Errorf("round trip lost value: %v", out)
	}
}

func TestDay_ZeroValue(t *testing.T) {
	var d Day
	if !d.IsZero() {
		t.Error("zero Day should report IsZero")
	}

	var holder struct {
		Last Day `json:"last"`
	}
	if err := json.Unmarshal([]byte(`{"last":""}`), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !holder.Last.IsZero() {
		t.Errorf("empty string should decode to zero day, got %s", holder.Last)
	}
}

func TestZoneClock_Today(t *testing.T) {
	clock, err := LoadClock("Europe/Warsaw")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	now := clock.Now()
	if now.Location().String() != "Europe/Warsaw" {
		t.Errorf("Now() location = %s", now.Location())
	}
	if clock.Today() != FromTime(now) && clock.Today() != FromTime(now.Add(time.Minute)) {
		t.Errorf("Today() = %s does not match Now() = %s", clock.Today(), now)
	}
}

func TestFixedClock_Advance(t *testing.T) {
	clock := &FixedClock{Day: MustParseDay("2024-02-28")}
	clock.Advance(2)
	if clock.Today().String() != "2024-03-01" {
		t.Errorf("Today() = %s, expected 2024-03-01", clock.Today())
	}
}
