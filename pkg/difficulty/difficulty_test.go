// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package difficulty

import (
	"math"
	"strings"
	"testing"
)

func TestUpdateScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		ok    bool
		want  float64
	}{
		{"success from initial", InitialScore, true, 0.575},
		{"failure from initial", InitialScore, false, 0.425},
		{"success at ceiling", 1.0, true, 1.0},
		{"failure at floor", 0.0, false, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdateScore(tt.score, tt.ok)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("UpdateScore() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{0.0, Easy},
		{0.399, Easy},
		{0.40, Medium},
		{0.5, Medium},
		{0.699, Medium},
		{0.70, Hard},
		{1.0, Hard},
	}

	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%v) = %s, expected %s", tt.score, got, tt.want)
		}
	}
}

func TestSkills_Record(t *testing.T) {
	var skills Skills
	if skills.Tier("school::math") != Medium {
		t.Errorf("unknown domain should start at medium")
	}

	next := skills.Record("school::math", false)
	if len(skills) != 0 {
		t.Error("Record must not mutate the receiver")
	}
	for i := 0; i < 5; i++ {
		next = next.Record("school::math", false)
	}
	if next.Tier("school::math") != Easy {
		t.Errorf("tier after repeated failures = %s, expected easy (score %v)", next.Tier("school::math"), next.Score("school::math"))
	}
	if next.Score("school::history") != InitialScore {
		t.Error("other domains must be unaffected")
	}
}

func TestQuizLevel_Adaptation(t *testing.T) {
	tests := []struct {
		name      string
		start     QuizLevel
		outcomes  []bool
		wantLevel int
	}{
		{"five correct promote", NewQuizLevel(), []bool{true, true, true, true, true}, 2},
		{"four correct do nothing", NewQuizLevel(), []bool{true, true, true, true}, 1},
		{"five wrong demote", QuizLevel{Level: 2}, []bool{false, false, false, false, false}, 1},
		{"four wrong do nothing", QuizLevel{Level: 2}, []bool{false, false, false, false}, 2},
		{"never above max", QuizLevel{Level: 3}, []bool{true, true, true, true, true}, 3},
		{"never below min", NewQuizLevel(), []bool{false, false, false, false, false}, 1},
		{"mixed stays", QuizLevel{Level: 2}, []bool{true, false, true, false, true, false}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.start
			for _, ok := range tt.outcomes {
				q = q.Record(ok)
			}
			if q.Level != tt.wantLevel {
				t.Errorf("level = %d, expected %d", q.Level, tt.wantLevel)
			}
		})
	}
}

func TestQuizLevel_WindowBounded(t *testing.T) {
	q := NewQuizLevel()
	for i := 0; i < 25; i++ {
		q = q.Record(i%2 == 0)
	}
	if len(q.Window) != 10 {
		t.Errorf("window length = %d, expected 10", len(q.Window))
	}
}

func TestEstimateLevel(t *testing.T) {
	long := strings.Repeat("ż", 140)
	tests := []struct {
		name    string
		prompt  string
		options []string
		want    int
	}{
		{"true/false", "Is it?", []string{"yes", "no"}, 1},
		{"four options", "Pick", []string{"a", "b", "c", "d"}, 2},
		{"six options", "Pick", []string{"a", "b", "c", "d", "e", "f"}, 3},
		{"long prompt bumps", long, []string{"a", "b"}, 2},
		{"clamped", long, []string{"a", "b", "c", "d", "e"}, 3},
		{"no options", "Say", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateLevel(tt.prompt, tt.options); got != tt.want {
				t.Errorf("EstimateLevel() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	e, m, h := Split(10)
	if e != 3 || m != 5 || h != 2 {
		t.Errorf("Split(10) = %d/%d/%d, expected 3/5/2", e, m, h)
	}
	e, m, h = Split(7)
	if e+m+h != 7 {
		t.Errorf("Split(7) = %d/%d/%d does not sum to 7", e, m, h)
	}
}

func TestParseTier(t *testing.T) {
	if tier, ok := ParseTier(" Hard "); !ok || tier != Hard {
		t.Errorf("ParseTier(Hard) = %s, %v", tier, ok)
	}
	if _, ok := ParseTier("extreme"); ok {
		t.Error("ParseTier should reject unknown tiers")
	}
	if TierForLevel(0) != Easy || TierForLevel(2) != Medium || TierForLevel(9) != Hard {
		t.Error("TierForLevel should clamp")
	}
}
