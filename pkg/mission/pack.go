// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mission

import (
	"fmt"

	"github.com/AccelByte/extend-daily-progression/pkg/common"
	"github.com/AccelByte/extend-daily-progression/pkg/content"
	"github.com/AccelByte/extend-daily-progression/pkg/events"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/AccelByte/extend-daily-progression/pkg/reward"
	"github.com/AccelByte/extend-daily-progression/pkg/selector"
)

const (
	bonusPackID = "bonus"

	infoNoTasks       = "No tasks are available for this pack right now."
	feedbackPackWrong = "Not quite, try again."
	feedbackLocked    = "Answer this task correctly before moving on."
)

func skillDomain(subject string) string {
	return "school::" + subject
}

// enterPack builds the bonus pack or the pack of one subject for today.
// Re-entering the pack that is already active resumes it.
func (c *Controller) enterPack(scope *common.Scope, s *Session, mode Mode, subject string) {
	st := s.State
	st.resetScreen()

	id := bonusPackID
	if mode == ModeSubject {
		id = skillDomain(subject)
	}
	if st.Mode == mode && st.Pack != nil && st.Pack.ID == id {
		return
	}
	c.setMode(st, mode)

	p := c.current(scope, s)
	group := c.ageGroup(s, p)

	var pool []content.Task
	salt := id
	switch mode {
	case ModeBonus:
		salt = "bonus::" + group
		for _, subj := range c.bank.Subjects() {
			tasks, ok := c.bank.Lookup(subj, group)
			if !ok {
				continue
			}
			pool = append(pool, content.FilterByTier(tasks, p.Skills.Tier(skillDomain(subj)))...)
		}
	case ModeSubject:
		if tasks, ok := c.bank.Lookup(subject, group); ok {
			pool = content.FilterByTier(tasks, p.Skills.Tier(id))
			pool = content.FilterByLevel(pool, p.QuizLevel(id).Level)
		}
	}

	if len(pool) == 0 {
		scope.Log.Infof("no tasks for pack %s (age group %s)", id, group)
		st.Pack = nil
		st.Info = infoNoTasks
		return
	}

	pack := &Pack{ID: id, Subject: subject}
	for _, task := range selector.Pick(pool, PackSize, st.Day.Index(), salt) {
		pack.Tasks = append(pack.Tasks, PackTask{
			Task:     task,
			Practice: p.IsTaskDone(st.Day, task.Subject, task.Fingerprint()),
		})
	}
	st.Pack = pack
	scope.SetAttributes("pack.id", id)
}

// submitPack checks answer against the active task. A correct task not yet
// done today pays its reward once.
func (c *Controller) submitPack(scope *common.Scope, s *Session, answer string) {
	st := s.State
	if st.Pack == nil || len(st.Pack.Tasks) == 0 {
		return
	}
	pack := st.Pack
	task := pack.active()
	ok := task.Task.Check(answer)
	// only the first attempt of a task counts towards skill and quiz level
	firstAttempt := !task.Checked

	task.Answer = answer
	task.Checked = true
	if ok {
		task.Correct = true
	}

	var (
		credited int
		isNew    bool
	)
	c.mutate(scope, s, func(p *profile.UserProfile) {
		credited, isNew = 0, false
		if firstAttempt {
			p.RecordSkill(skillDomain(task.Task.Subject), ok)
			p.RecordQuiz(pack.ID, ok)
		}
		if ok && p.MarkTaskDone(st.Day, task.Task.Subject, task.Task.Fingerprint()) {
			isNew = true
			credited = p.AddXP(task.Task.RewardAmount, st.Day, c.rewards.Config().XPDailyCap)
		}
	})

	switch {
	case !ok:
		st.Feedback = feedbackPackWrong
	case isNew:
		st.Feedback = fmt.Sprintf("Correct! +%d XP", credited)
		c.publish(scope, s, events.TaskCompleted, credited, task.Task.Fingerprint())
	default:
		st.Feedback = "Correct!"
	}
}

// advancePack moves the cursor forward once the active task is cleared.
// Moving past the last task completes the pack.
func (c *Controller) advancePack(scope *common.Scope, s *Session) {
	st := s.State
	if st.Pack == nil || len(st.Pack.Tasks) == 0 {
		return
	}
	pack := st.Pack
	if !pack.active().cleared() {
		st.Feedback = feedbackLocked
		return
	}

	st.Feedback = ""
	if pack.ActiveIndex < len(pack.Tasks)-1 {
		pack.ActiveIndex++
		return
	}
	if pack.clearedCount() < len(pack.Tasks) {
		for i, t := range pack.Tasks {
			if !t.cleared() {
				pack.ActiveIndex = i
				break
			}
		}
		st.Feedback = feedbackLocked
		return
	}
	c.finishPack(scope, s)
}

// finishPack grants pack_complete once per day and pack, and for subject
// packs the section bonus once per day and subject.
func (c *Controller) finishPack(scope *common.Scope, s *Session) {
	st := s.State
	pack := st.Pack
	packKey := profile.ClaimKey(st.Day, "pack_complete", pack.ID)
	sectionKey := profile.ClaimKey(st.Day, "section_complete", pack.Subject)

	var xp, gems int
	var granted bool
	c.mutate(scope, s, func(p *profile.UserProfile) {
		xp, gems, granted = 0, 0, false
		apply := func(bundle string) {
			summary := c.grant(scope, p, bundle, st.Day)
			xp += summary.XP
			gems += summary.Gems
		}
		if p.Claim(packKey, st.Day) {
			granted = true
			apply(reward.BundlePackComplete)
		}
		if pack.Subject != "" && p.Claim(sectionKey, st.Day) {
			granted = true
			apply(reward.BundleSectionComplete)
		}
		if granted {
			p.LogActivity(s.Clock.Now(), "pack_complete", pack.ID)
		}
	})

	if granted {
		st.FinishNotice = fmt.Sprintf("Pack complete! +%d XP, +%d gems.", xp, gems)
		c.publish(scope, s, events.PackCompleted, xp, pack.ID)
	} else {
		st.FinishNotice = "Pack complete! You already earned today's pack bonus."
	}
	st.DoneFrom = st.Mode
	c.setMode(st, ModeDone)
}
