package reward

import (
	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
)

// Grant credits one kind of reward to a profile.
// Grants are registered in a Registry and applied in bundles by the Executor.
type Grant interface {
	// ID returns unique grant identifier.
	ID() string

	// Name returns human-readable grant name.
	Name() string

	// Apply credits the reward to p and reports what was actually credited.
	// Apply must not touch storage; the caller persists p.
	Apply(p *profile.UserProfile, gctx Context) Outcome

	// Config returns the grant's configuration.
	Config() GrantConfig
}

// Context carries the inputs a grant needs besides the profile.
type Context struct {
	Day   calendar.Day
	XPCap int
}

// Kind classifies an outcome.
type Kind string

const (
	KindXP      Kind = "xp"
	KindGems    Kind = "gems"
	KindBadge   Kind = "badge"
	KindSticker Kind = "sticker"
	KindFreeze  Kind = "freeze"
)

// Outcome is what one grant credited. Amount is zero and Code empty when
// nothing changed (XP cap reached, badge already held).
type Outcome struct {
	GrantID string `json:"grantId"`
	Kind    Kind   `json:"kind"`
	Amount  int    `json:"amount,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Summary aggregates the outcomes of one bundle.
type Summary struct {
	Bundle   string    `json:"bundle"`
	XP       int       `json:"xp"`
	Gems     int       `json:"gems"`
	Freezes  int       `json:"freezes"`
	Badges   []string  `json:"badges,omitempty"`
	Stickers []string  `json:"stickers,omitempty"`
	Outcomes []Outcome `json:"outcomes"`
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Kind {
	case KindXP:
		s.XP += o.Amount
	case KindGems:
		s.Gems += o.Amount
	case KindFreeze:
		s.Freezes += o.Amount
	case KindBadge:
		if o.Code != "" {
			s.Badges = append(s.Badges, o.Code)
		}
	case KindSticker:
		if o.Code != "" {
			s.Stickers = append(s.Stickers, o.Code)
		}
	}
}

// Empty reports whether the bundle credited nothing.
func (s Summary) Empty() bool {
	return s.XP == 0 && s.Gems == 0 && s.Freezes == 0 && len(s.Badges) == 0 && len(s.Stickers) == 0
}
