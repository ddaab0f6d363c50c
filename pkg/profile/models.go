// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"sort"
	"time"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/difficulty"
	"github.com/AccelByte/extend-daily-progression/pkg/retention"
)

// activityLimit bounds the activity log kept on a profile.
const activityLimit = 400

// UserProfile is the long-term state of one learner.
type UserProfile struct {
	ID               string                          `json:"id"`
	XP               int                             `json:"xp"`
	Gems             int                             `json:"gems"`
	Badges           []string                        `json:"badges"`
	Stickers         []string                        `json:"stickers"`
	Retention        retention.State                 `json:"retention"`
	CompletionLedger CompletionLedger                `json:"completionLedger,omitempty"`
	UnlockedGames    []string                        `json:"unlockedGames,omitempty"`
	UnlockedAvatars  []string                        `json:"unlockedAvatars,omitempty"`
	Skills           difficulty.Skills               `json:"skills,omitempty"`
	QuizLevels       map[string]difficulty.QuizLevel `json:"quizLevels,omitempty"`
	Claims           []string                        `json:"claims,omitempty"`
	AgeGroup         string                          `json:"ageGroup,omitempty"`
	CreatedAt        time.Time                       `json:"createdAt"`
	Activity         []Activity                      `json:"activity,omitempty"`
}

// Activity is one entry of the profile's activity log.
type Activity struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

// New returns a zero-valued profile for id.
func New(id string, now time.Time) UserProfile {
	return UserProfile{
		ID:        id,
		Badges:    []string{},
		Stickers:  []string{},
		CreatedAt: now.UTC(),
	}
}

// Clone returns a deep copy.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Badges = append([]string(nil), p.Badges...)
	out.Stickers = append([]string(nil), p.Stickers...)
	out.Retention = p.Retention.Clone()
	out.CompletionLedger = p.CompletionLedger.clone()
	out.UnlockedGames = append([]string(nil), p.UnlockedGames...)
	out.UnlockedAvatars = append([]string(nil), p.UnlockedAvatars...)
	out.Claims = append([]string(nil), p.Claims...)
	out.Activity = append([]Activity(nil), p.Activity...)
	if p.Skills != nil {
		out.Skills = make(difficulty.Skills, len(p.Skills))
		for k, v := range p.Skills {
			out.Skills[k] = v
		}
	}
	if p.QuizLevels != nil {
		out.QuizLevels = make(map[string]difficulty.QuizLevel, len(p.QuizLevels))
		for k, v := range p.QuizLevels {
			v.Window = append([]int(nil), v.Window...)
			out.QuizLevels[k] = v
		}
	}
	return out
}

// GrantBadge adds a badge code. Returns false if it was already held.
func (p *UserProfile) GrantBadge(code string) bool {
	var added bool
	p.Badges, added = addToSet(p.Badges, code)
	return added
}

// GrantSticker adds a sticker code. Returns false if it was already held.
func (p *UserProfile) GrantSticker(code string) bool {
	var added bool
	p.Stickers, added = addToSet(p.Stickers, code)
	return added
}

func (p *UserProfile) HasBadge(code string) bool {
	return inSet(p.Badges, code)
}

func (p *UserProfile) HasSticker(code string) bool {
	return inSet(p.Stickers, code)
}

// RecordSkill updates the EMA score of a domain.
func (p *UserProfile) RecordSkill(domain string, ok bool) {
	p.Skills = p.Skills.Record(domain, ok)
}

// QuizLevel returns the discrete level state of a quiz.
func (p *UserProfile) QuizLevel(quiz string) difficulty.QuizLevel {
	if q, ok := p.QuizLevels[quiz]; ok {
		return q
	}
	return difficulty.NewQuizLevel()
}

// RecordQuiz feeds one outcome into a quiz level.
func (p *UserProfile) RecordQuiz(quiz string, ok bool) difficulty.QuizLevel {
	if p.QuizLevels == nil {
		p.QuizLevels = make(map[string]difficulty.QuizLevel)
	}
	q := p.QuizLevel(quiz).Record(ok)
	p.QuizLevels[quiz] = q
	return q
}

// LogActivity appends to the bounded activity log.
func (p *UserProfile) LogActivity(at time.Time, kind, detail string) {
	p.Activity = append(p.Activity, Activity{At: at.UTC(), Kind: kind, Detail: detail})
	if len(p.Activity) > activityLimit {
		p.Activity = p.Activity[len(p.Activity)-activityLimit:]
	}
}

// DailyDone reports whether the daily cycle was completed on day.
func (p *UserProfile) DailyDone(day calendar.Day) bool {
	return p.Retention.DoneOn(day)
}

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// addToSet inserts v keeping set sorted. Unsorted input is sorted first.
func addToSet(set []string, v string) ([]string, bool) {
	if !sort.StringsAreSorted(set) {
		set = append([]string(nil), set...)
		sort.Strings(set)
	}
	i := sort.SearchStrings(set, v)
	if i < len(set) && set[i] == v {
		return set, false
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = v
	return set, true
}
