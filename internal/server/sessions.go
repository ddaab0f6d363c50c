// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"sync"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/mission"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
)

// sessionEntry serializes the requests of one learner.
type sessionEntry struct {
	mu      sync.Mutex
	session *mission.Session
	saver   *profile.Autosaver
}

// Sessions keeps one mission session per learner id in memory.
type Sessions struct {
	repo  *profile.Repository
	clock calendar.Clock

	mu     sync.Mutex
	byUser map[string]*sessionEntry
}

// NewSessions creates an empty session table.
func NewSessions(repo *profile.Repository, clock calendar.Clock) *Sessions {
	return &Sessions{
		repo:   repo,
		clock:  clock,
		byUser: make(map[string]*sessionEntry),
	}
}

// acquire returns the locked entry of userID, creating it on first use.
// The caller must unlock it.
func (s *Sessions) acquire(userID, ageGroup string) *sessionEntry {
	s.mu.Lock()
	entry, ok := s.byUser[userID]
	if !ok {
		entry = &sessionEntry{
			session: mission.NewSession(userID, ageGroup, s.clock, s.repo),
		}
		if !profile.IsGuest(userID) {
			entry.saver = profile.NewAutosaver(s.repo, userID, profile.DefaultAutosaveInterval)
		}
		s.byUser[userID] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	if ageGroup != "" && entry.session.AgeGroup != ageGroup {
		entry.session.AgeGroup = ageGroup
	}
	return entry
}

// DropGuests forgets every guest session.
func (s *Sessions) DropGuests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id := range s.byUser {
		if profile.IsGuest(id) {
			delete(s.byUser, id)
			n++
		}
	}
	return n
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}
