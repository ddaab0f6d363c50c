// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package difficulty

import "strings"

// Tier is a content difficulty label.
type Tier string

const (
	Easy   Tier = "easy"
	Medium Tier = "medium"
	Hard   Tier = "hard"
)

const (
	// Alpha is the EMA smoothing factor.
	Alpha = 0.15
	// InitialScore is the score of a domain with no history.
	InitialScore = 0.5

	easyBelow   = 0.40
	mediumBelow = 0.70
)

// ParseTier accepts tier names case-insensitively. Unknown names report false.
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, true
	case Medium:
		return Medium, true
	case Hard:
		return Hard, true
	}
	return "", false
}

// Level returns the 1..3 level matching the tier. Empty means medium.
func (t Tier) Level() int {
	switch t {
	case Easy:
		return 1
	case Hard:
		return 3
	}
	return 2
}

// TierForLevel is the inverse of Tier.Level, clamping out-of-range levels.
func TierForLevel(level int) Tier {
	switch {
	case level <= 1:
		return Easy
	case level >= 3:
		return Hard
	}
	return Medium
}

// UpdateScore moves score toward 1 on success and toward 0 on failure.
func UpdateScore(score float64, ok bool) float64 {
	target := 0.0
	if ok {
		target = 1.0
	}
	next := (1-Alpha)*score + Alpha*target
	if next < 0 {
		return 0
	}
	if next > 1 {
		return 1
	}
	return next
}

// TierFor maps a score to a tier.
func TierFor(score float64) Tier {
	switch {
	case score < easyBelow:
		return Easy
	case score < mediumBelow:
		return Medium
	}
	return Hard
}

// Skills holds one EMA score per domain (e.g. "school::math").
type Skills map[string]float64

// Score returns the domain score or InitialScore.
func (s Skills) Score(domain string) float64 {
	if v, ok := s[domain]; ok {
		return v
	}
	return InitialScore
}

// Tier is TierFor(Score(domain)).
func (s Skills) Tier(domain string) Tier {
	return TierFor(s.Score(domain))
}

// Record returns a copy of s with the domain updated.
func (s Skills) Record(domain string, ok bool) Skills {
	out := make(Skills, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[domain] = UpdateScore(s.Score(domain), ok)
	return out
}
