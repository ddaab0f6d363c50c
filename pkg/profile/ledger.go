// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"sort"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

// claimRetentionDays bounds how long idempotence keys are kept.
const claimRetentionDays = 60

// CompletionLedger records task fingerprints completed per day and subject.
type CompletionLedger map[calendar.Day]map[string][]string

func (l CompletionLedger) clone() CompletionLedger {
	if l == nil {
		return nil
	}
	out := make(CompletionLedger, len(l))
	for day, subjects := range l {
		inner := make(map[string][]string, len(subjects))
		for subject, ids := range subjects {
			inner[subject] = append([]string(nil), ids...)
		}
		out[day] = inner
	}
	return out
}

// MarkTaskDone records fingerprint for (day, subject). Returns false if it was
// already recorded, which callers use to skip the reward.
func (p *UserProfile) MarkTaskDone(day calendar.Day, subject, fingerprint string) bool {
	if p.CompletionLedger == nil {
		p.CompletionLedger = make(CompletionLedger)
	}
	subjects := p.CompletionLedger[day]
	if subjects == nil {
		subjects = make(map[string][]string)
		p.CompletionLedger[day] = subjects
	}

	ids, added := addToSet(subjects[subject], fingerprint)
	subjects[subject] = ids
	return added
}

// IsTaskDone reports whether fingerprint was completed on day.
func (p *UserProfile) IsTaskDone(day calendar.Day, subject, fingerprint string) bool {
	return inSet(p.CompletionLedger[day][subject], fingerprint)
}

// TasksDone returns the fingerprints completed for (day, subject).
func (p *UserProfile) TasksDone(day calendar.Day, subject string) []string {
	return append([]string(nil), p.CompletionLedger[day][subject]...)
}

// TotalTasksDone counts completions of subject across all days.
func (p *UserProfile) TotalTasksDone(subject string) int {
	total := 0
	for _, subjects := range p.CompletionLedger {
		total += len(subjects[subject])
	}
	return total
}

// ClaimKey builds an idempotence key scoped to a day.
func ClaimKey(day calendar.Day, parts ...string) string {
	return day.String() + "/" + strings.Join(parts, "/")
}

// HasClaim reports whether key was already claimed.
func (p *UserProfile) HasClaim(key string) bool {
	return inSet(p.Claims, key)
}

// Claim records key and reports whether it was new. Keys older than the
// retention window are dropped at the same time.
func (p *UserProfile) Claim(key string, today calendar.Day) bool {
	if p.HasClaim(key) {
		return false
	}
	p.Claims, _ = addToSet(p.Claims, key)
	p.pruneClaims(today)
	return true
}

func (p *UserProfile) pruneClaims(today calendar.Day) {
	cutoff := today.AddDays(-claimRetentionDays)
	kept := p.Claims[:0]
	for _, key := range p.Claims {
		prefix, _, _ := strings.Cut(key, "/")
		if day, err := calendar.ParseDay(prefix); err == nil && day.Before(cutoff) {
			continue
		}
		kept = append(kept, key)
	}
	p.Claims = kept
	sort.Strings(p.Claims)
}
