// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mission

import (
	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/content"
)

// Mode is the screen the mission controller is on.
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeBonus   Mode = "bonus"
	ModeSubject Mode = "subject"
	ModeFree    Mode = "free"
	ModeDone    Mode = "done"
)

func (m Mode) valid() bool {
	switch m {
	case ModeDaily, ModeBonus, ModeSubject, ModeFree, ModeDone:
		return true
	}
	return false
}

const (
	// StateVersion is the schema of State. Other versions are discarded.
	StateVersion = 1

	// DailySteps is the length of the guided daily sequence.
	DailySteps = 3

	// PackSize is the number of tasks in a bonus or subject pack.
	PackSize = 3
)

// Question kinds of the daily sequence, one per step.
const (
	KindUnique   = "unique"
	KindFrequent = "frequent"
	KindMax      = "max"
)

// Question is a generated daily question. A skipped question has no prompt.
type Question struct {
	Kind    string   `json:"kind"`
	Column  string   `json:"column,omitempty"`
	Prompt  string   `json:"prompt,omitempty"`
	Options []string `json:"options,omitempty"`
	Correct string   `json:"correct,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
}

// PackTask is one task of a pack with its answer state.
type PackTask struct {
	Task     content.Task `json:"task"`
	Answer   string       `json:"answer,omitempty"`
	Checked  bool         `json:"checked"`
	Correct  bool         `json:"correct"`
	Practice bool         `json:"practice"`
}

// cleared reports whether the learner may move past the task.
func (t PackTask) cleared() bool {
	return t.Correct || t.Practice || !t.Task.HasAnswer
}

// Pack is the ordered task list of bonus or subject mode.
type Pack struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject,omitempty"`
	Tasks       []PackTask `json:"tasks"`
	ActiveIndex int        `json:"activeIndex"`
}

func (p *Pack) active() *PackTask {
	return &p.Tasks[p.ActiveIndex]
}

func (p *Pack) clearedCount() int {
	n := 0
	for _, t := range p.Tasks {
		if t.cleared() {
			n++
		}
	}
	return n
}

// State is the transient mission state of one session.
type State struct {
	Version       int              `json:"version"`
	User          string           `json:"user"`
	Day           calendar.Day     `json:"day"`
	Mode          Mode             `json:"mode"`
	Step          int              `json:"step"`
	Questions     map[int]Question `json:"questions"`
	Feedback      string           `json:"feedback,omitempty"`
	Info          string           `json:"info,omitempty"`
	Interstitial  bool             `json:"interstitial"`
	FinishNotice  string           `json:"finishNotice,omitempty"`
	RewardedSteps []string         `json:"rewardedSteps,omitempty"`
	Pack          *Pack            `json:"pack,omitempty"`
	DoneFrom      Mode             `json:"doneFrom,omitempty"`
}

func newState(user string, day calendar.Day) *State {
	return &State{
		Version:   StateVersion,
		User:      user,
		Day:       day,
		Questions: make(map[int]Question),
	}
}

// corrupt reports a state that cannot be trusted: wrong schema or a cursor
// outside its bounds.
func (s *State) corrupt() bool {
	if s.Version != StateVersion || s.Questions == nil {
		return true
	}
	if s.Mode != "" && !s.Mode.valid() {
		return true
	}
	if s.Step < 0 || s.Step >= DailySteps {
		return true
	}
	if s.Pack != nil && (s.Pack.ActiveIndex < 0 || s.Pack.ActiveIndex >= len(s.Pack.Tasks)) {
		return true
	}
	return false
}

func (s *State) rewarded(key string) bool {
	for _, k := range s.RewardedSteps {
		if k == key {
			return true
		}
	}
	return false
}

func (s *State) markRewarded(key string) {
	if !s.rewarded(key) {
		s.RewardedSteps = append(s.RewardedSteps, key)
	}
}

// resetScreen clears per-screen feedback.
func (s *State) resetScreen() {
	s.Feedback = ""
	s.Info = ""
	s.Interstitial = false
}
