// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mission

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/common"
	"github.com/AccelByte/extend-daily-progression/pkg/content"
	"github.com/AccelByte/extend-daily-progression/pkg/events"
	"github.com/AccelByte/extend-daily-progression/pkg/metrics"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/AccelByte/extend-daily-progression/pkg/retention"
	"github.com/AccelByte/extend-daily-progression/pkg/reward"
	"github.com/AccelByte/extend-daily-progression/pkg/selector"
)

const (
	infoNoData      = "There is no data for today's mission yet. Try a bonus pack instead."
	feedbackWrong   = "Not quite. Look at the data again and try once more."
	noticeDailyDone = "You already finished today's mission. Come back tomorrow!"

	maxDistractors = 3
	frequentTopN   = 8
)

var stepKinds = [DailySteps]string{KindUnique, KindFrequent, KindMax}

func stepClaimKey(day calendar.Day, step int) string {
	return profile.ClaimKey(day, "daily_step", strconv.Itoa(step))
}

// enterDaily starts the guided sequence at the first step not yet paid out.
func (c *Controller) enterDaily(scope *common.Scope, s *Session) {
	st := s.State
	p := c.current(scope, s)

	st.resetScreen()
	st.Step = DailySteps - 1
	for i := 0; i < DailySteps; i++ {
		q, ok := c.question(scope, s, i)
		if ok && q.Skipped {
			continue
		}
		key := stepClaimKey(st.Day, i)
		if !ok || (!p.HasClaim(key) && !st.rewarded(key)) {
			st.Step = i
			break
		}
	}
	c.setMode(st, ModeDaily)
}

// question returns the cached question of step, generating it on first use.
// It reports false when the day's dataset has nothing to ask about.
func (c *Controller) question(scope *common.Scope, s *Session, step int) (Question, bool) {
	st := s.State
	if q, ok := st.Questions[step]; ok {
		return q, true
	}

	group := c.ageGroup(s, c.current(scope, s))
	ds := content.MakeDataset(
		content.DefaultRows,
		c.columns(group),
		selector.Seed("dataset::"+group, st.Day.Index()),
	)
	r := selector.Rand(fmt.Sprintf("daily::%s::step%d", group, step), st.Day.Index())

	q, ok := buildQuestion(ds, stepKinds[step], r)
	if !ok {
		scope.Log.Warnf("no usable dataset columns for the %s question of %s", stepKinds[step], st.Day)
		return Question{}, false
	}
	st.Questions[step] = q
	return q, true
}

func buildQuestion(ds content.Dataset, kind string, r *rand.Rand) (Question, bool) {
	switch kind {
	case KindUnique:
		return uniqueQuestion(ds, r)
	case KindFrequent:
		return frequentQuestion(ds, r)
	case KindMax:
		return maxQuestion(ds, r)
	}
	return Question{}, false
}

func uniqueQuestion(ds content.Dataset, r *rand.Rand) (Question, bool) {
	cols := ds.Varied()
	if len(cols) == 0 {
		return Question{}, false
	}
	col := cols[r.IntN(len(cols))]
	correct := col.Unique()

	var pool []int
	for _, v := range []int{max(1, correct-2), max(1, correct-1), correct + 1, correct + 2, correct + 3} {
		if v != correct && !containsInt(pool, v) {
			pool = append(pool, v)
		}
	}
	pool = selector.Shuffle(pool, r)
	pool = pool[:min(maxDistractors, len(pool))]

	options := []string{strconv.Itoa(correct)}
	for _, v := range pool {
		options = append(options, strconv.Itoa(v))
	}

	return Question{
		Kind:    KindUnique,
		Column:  col.Name,
		Prompt:  fmt.Sprintf("How many different values are there in the %q column?", col.Name),
		Options: selector.Shuffle(options, r),
		Correct: strconv.Itoa(correct),
	}, true
}

func frequentQuestion(ds content.Dataset, r *rand.Rand) (Question, bool) {
	cols := ds.TextColumns()
	if len(cols) == 0 {
		return Question{Kind: KindFrequent, Skipped: true}, true
	}
	col := cols[r.IntN(len(cols))]
	ranked := col.Ranked()
	counts := col.Frequencies()
	correct := ranked[0]

	var pool []string
	for _, v := range ranked[1:min(frequentTopN, len(ranked))] {
		if counts[v] == counts[correct] {
			continue
		}
		pool = append(pool, v)
	}
	pool = selector.Shuffle(pool, r)
	pool = pool[:min(maxDistractors, len(pool))]

	return Question{
		Kind:    KindFrequent,
		Column:  col.Name,
		Prompt:  fmt.Sprintf("Which value appears most often in the %q column?", col.Name),
		Options: selector.Shuffle(append([]string{correct}, pool...), r),
		Correct: correct,
	}, true
}

func maxQuestion(ds content.Dataset, r *rand.Rand) (Question, bool) {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return Question{}, false
	}
	col := cols[r.IntN(len(cols))]
	top, ok := col.Max()
	if !ok {
		return Question{}, false
	}

	var values []float64
	if top == math.Trunc(top) {
		values = []float64{top, top - 1, top + 1, top + 2, top - 2, top + 3}
		sort.Float64s(values)
	} else {
		noise := math.Round((top+(r.Float64()*4-2))*100) / 100
		for _, v := range []float64{top, top - 0.5, top + 0.5, top - 1, top + 1, noise} {
			if !containsFloat(values, v) {
				values = append(values, v)
			}
		}
		values = selector.Shuffle(values, r)
	}

	options := make([]string, 0, len(values))
	for _, v := range values {
		options = append(options, formatNumber(v))
	}

	return Question{
		Kind:    KindMax,
		Column:  col.Name,
		Prompt:  fmt.Sprintf("What is the largest value in the %q column?", col.Name),
		Options: options,
		Correct: formatNumber(top),
	}, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func containsInt(set []int, v int) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func containsFloat(set []float64, v float64) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func (c *Controller) nextStep(scope *common.Scope, s *Session, from int) (int, bool) {
	for i := from + 1; i < DailySteps; i++ {
		if q, ok := c.question(scope, s, i); ok && q.Skipped {
			continue
		}
		return i, true
	}
	return 0, false
}

func (c *Controller) previousStep(scope *common.Scope, s *Session, from int) (int, bool) {
	for i := from - 1; i >= 0; i-- {
		if q, ok := c.question(scope, s, i); ok && q.Skipped {
			continue
		}
		return i, true
	}
	return 0, false
}

// submitDaily checks answer against the active step of daily or free mode.
func (c *Controller) submitDaily(scope *common.Scope, s *Session, answer string) {
	st := s.State
	if st.Interstitial {
		return
	}
	q, ok := c.question(scope, s, st.Step)
	if !ok || q.Skipped {
		return
	}

	if !strings.EqualFold(strings.TrimSpace(answer), q.Correct) {
		st.Feedback = feedbackWrong
		return
	}
	st.Feedback = ""

	if st.Mode == ModeDaily {
		c.rewardStep(scope, s, st.Step)
	}

	if _, more := c.nextStep(scope, s, st.Step); more {
		st.Interstitial = true
		return
	}

	if st.Mode == ModeDaily {
		c.finishDaily(scope, s)
	} else {
		c.finishFree(scope, s)
	}
}

// rewardStep pays the step reward at most once per user, day and step. The
// persisted claim is the guard; rewardedSteps only saves a round trip.
func (c *Controller) rewardStep(scope *common.Scope, s *Session, step int) {
	st := s.State
	key := stepClaimKey(st.Day, step)
	if st.rewarded(key) {
		return
	}

	var (
		granted bool
		summary reward.Summary
	)
	c.mutate(scope, s, func(p *profile.UserProfile) {
		granted = false
		if !p.Claim(key, st.Day) {
			return
		}
		granted = true
		summary = c.grant(scope, p, reward.BundleDailyStep, st.Day)
	})
	st.markRewarded(key)

	if granted {
		scope.TraceEvent("step rewarded")
		c.publish(scope, s, events.StepRewarded, summary.XP, strconv.Itoa(step))
	}
}

func (c *Controller) leaveInterstitial(scope *common.Scope, s *Session) {
	st := s.State
	st.Interstitial = false
	st.Feedback = ""
	if next, ok := c.nextStep(scope, s, st.Step); ok {
		st.Step = next
	}
}

// finishDaily closes the guided sequence: streak update, milestone, freeze
// sticker and the daily completion bonus, all in one profile write.
func (c *Controller) finishDaily(scope *common.Scope, s *Session) {
	st := s.State
	day := st.Day
	table := c.rewards.Config().MilestoneTable()

	var (
		event     retention.Event
		saved     *calendar.Day
		claim     *retention.Claim
		completed bool
		xp, gems  int
	)
	p := c.mutate(scope, s, func(p *profile.UserProfile) {
		claim, completed, xp, gems = nil, false, 0, 0
		apply := func(bundle string) {
			summary := c.grant(scope, p, bundle, day)
			xp += summary.XP
			gems += summary.Gems
		}

		var next retention.State
		next, event, saved = retention.MarkDailyDone(p.Retention, day)
		next, claim = retention.ClaimMilestone(next, p.ID, day, table)
		p.Retention = next

		if claim != nil {
			apply(claim.Milestone.Bundle)
		}
		if saved != nil {
			apply(reward.BundleFreezeSaved)
		}
		if p.Claim(profile.ClaimKey(day, "daily_complete"), day) {
			apply(reward.BundleDailyComplete)
			completed = true
			p.LogActivity(s.Clock.Now(), "daily_complete", string(event))
		}
	})

	if event != retention.EventSameDay {
		metrics.StreakEventsTotal.WithLabelValues(string(event)).Inc()
	}
	scope.SetAttributes("streak.event", string(event))

	if completed {
		notice := fmt.Sprintf("Daily mission complete! +%d XP, +%d gems. Streak: %d days.", xp, gems, p.Retention.Streak)
		if saved != nil {
			notice += fmt.Sprintf(" A freeze saved %s.", saved)
		}
		if claim != nil {
			notice += fmt.Sprintf(" Milestone reached: %d days!", claim.Milestone.Streak)
		}
		st.FinishNotice = notice
		c.publish(scope, s, events.DailyCompleted, xp, "")
	} else {
		st.FinishNotice = noticeDailyDone
	}
	if event != retention.EventSameDay {
		c.publish(scope, s, events.StreakUpdated, p.Retention.Streak, string(event))
	}
	if claim != nil {
		c.publish(scope, s, events.MilestoneClaimed, claim.Milestone.Streak, claim.Milestone.Bundle)
	}

	st.Interstitial = false
	st.DoneFrom = ModeDaily
	c.setMode(st, ModeDone)
}

// finishFree closes a replay of the daily questions. Streaks are untouched.
func (c *Controller) finishFree(scope *common.Scope, s *Session) {
	st := s.State
	key := profile.ClaimKey(st.Day, "free_complete")

	var (
		granted bool
		summary reward.Summary
	)
	c.mutate(scope, s, func(p *profile.UserProfile) {
		granted = false
		if p.Claim(key, st.Day) {
			granted = true
			summary = c.grant(scope, p, reward.BundleFreeComplete, st.Day)
		}
	})

	if granted {
		st.FinishNotice = fmt.Sprintf("Free practice complete! +%d XP, +%d gems.", summary.XP, summary.Gems)
		c.publish(scope, s, events.FreeCompleted, summary.XP, "")
	} else {
		st.FinishNotice = "Free practice complete!"
	}
	st.Interstitial = false
	st.DoneFrom = ModeFree
	c.setMode(st, ModeDone)
}
