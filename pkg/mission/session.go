// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mission

import (
	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
)

// Session is everything the controller knows about one learner's session.
// It is passed explicitly into every controller call.
type Session struct {
	UserID   string
	AgeGroup string
	Clock    calendar.Clock
	Repo     *profile.Repository

	// State is the transient mission state; nil means not started.
	State *State

	// shadow holds the profile of a guest, or of a logged-in learner whose
	// writes failed. It never reaches the repository.
	shadow   *profile.UserProfile
	degraded bool

	// lastStored is the last profile read from or written to the repository.
	lastStored *profile.UserProfile
}

// NewSession creates a session for userID. An empty id or a "Guest-" id is a guest.
func NewSession(userID, ageGroup string, clock calendar.Clock, repo *profile.Repository) *Session {
	return &Session{
		UserID:   userID,
		AgeGroup: ageGroup,
		Clock:    clock,
		Repo:     repo,
	}
}

// Guest reports whether the session belongs to a guest.
func (s *Session) Guest() bool {
	return profile.IsGuest(s.UserID)
}

// SwitchUser changes the active identity. The next controller call rebuilds
// the mission state and drops any shadow profile.
func (s *Session) SwitchUser(userID, ageGroup string) {
	s.UserID = userID
	s.AgeGroup = ageGroup
}

// Degraded reports whether writes failed and progress is session-only.
func (s *Session) Degraded() bool {
	return s.degraded
}

func (s *Session) today() calendar.Day {
	return s.Clock.Today()
}

func (s *Session) ephemeral() bool {
	return s.Guest() || s.Repo == nil || s.degraded
}

func (s *Session) dropShadow() {
	s.shadow = nil
	s.degraded = false
	s.lastStored = nil
}

func (s *Session) remember(p profile.UserProfile) {
	stored := p.Clone()
	s.lastStored = &stored
}

// fallback returns the profile to continue from once the repository fails.
func (s *Session) fallback() (profile.UserProfile, bool) {
	if s.lastStored == nil || s.lastStored.ID != s.UserID {
		return profile.UserProfile{}, false
	}
	return s.lastStored.Clone(), true
}
