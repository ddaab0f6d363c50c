// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

const (
	MaxLevel     = 100
	softcapLevel = 60
	softcapRate  = 0.40
)

// XPForLevel is the cumulative XP needed to reach level (clamped to 0..100).
func XPForLevel(level int) int {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return int(0.30*float64(level*level) + 5*float64(level))
}

// EffectiveXP discounts XP earned past the level-60 threshold.
func EffectiveXP(xp int) int {
	if xp < 0 {
		return 0
	}
	capXP := XPForLevel(softcapLevel)
	if xp > capXP {
		return capXP + int(float64(xp-capXP)*softcapRate)
	}
	return xp
}

// Level is the highest level whose threshold is covered by the effective XP.
func Level(xp int) int {
	effective := EffectiveXP(xp)
	lo, hi := 0, MaxLevel
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if XPForLevel(mid) <= effective {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Progress describes the position inside the current level.
type Progress struct {
	Level      int     `json:"level"`
	Effective  int     `json:"xpEffective"`
	LevelStart int     `json:"xpLevelStart"`
	NextLevel  int     `json:"xpNextLevel"`
	Fraction   float64 `json:"progress"`
	ToNext     int     `json:"toNext"`
}

func LevelProgress(xp int) Progress {
	level := Level(xp)
	effective := EffectiveXP(xp)
	start := XPForLevel(level)
	next := XPForLevel(level + 1)

	span := next - start
	if span < 1 {
		span = 1
	}
	frac := float64(effective-start) / float64(span)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	toNext := next - effective
	if toNext < 0 {
		toNext = 0
	}

	return Progress{
		Level:      level,
		Effective:  effective,
		LevelStart: start,
		NextLevel:  next,
		Fraction:   frac,
		ToNext:     toNext,
	}
}

// AgeToGroup buckets an age into a content age group.
func AgeToGroup(age int) string {
	switch {
	case age <= 9:
		return "7-9"
	case age <= 12:
		return "10-12"
	}
	return "13-14"
}
