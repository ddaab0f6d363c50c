// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mission

import (
	"context"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/common"
	"github.com/AccelByte/extend-daily-progression/pkg/content"
	"github.com/AccelByte/extend-daily-progression/pkg/events"
	"github.com/AccelByte/extend-daily-progression/pkg/metrics"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/AccelByte/extend-daily-progression/pkg/reward"
)

// DefaultAgeGroup is used when neither the session nor the profile names one.
const DefaultAgeGroup = "7-9"

// View is what the presentation layer renders.
type View struct {
	Mode             Mode     `json:"mode"`
	VisiblePrompt    string   `json:"visiblePrompt,omitempty"`
	Options          []string `json:"options,omitempty"`
	ProgressFraction float64  `json:"progressFraction"`
	Notice           string   `json:"notice,omitempty"`
	Info             string   `json:"info,omitempty"`
	Feedback         string   `json:"feedback,omitempty"`
	Interstitial     bool     `json:"interstitial,omitempty"`
	Step             int      `json:"step"`
	Total            int      `json:"total"`
	Subject          string   `json:"subject,omitempty"`
	XP               int      `json:"xp"`
	Gems             int      `json:"gems"`
	Streak           int      `json:"streak"`
}

// Input is one user interaction. Exactly one field is expected to be set;
// navigation wins over an answer, an answer over the buttons.
type Input struct {
	SelectedAnswer   *string `json:"selectedAnswer,omitempty"`
	NavigationIntent Mode    `json:"navigationIntent,omitempty"`
	Subject          string  `json:"subject,omitempty"`
	Acknowledge      bool    `json:"acknowledge,omitempty"`
	Advance          bool    `json:"advance,omitempty"`
	Back             bool    `json:"back,omitempty"`
}

// Controller drives the daily, bonus, subject and free mission modes.
// Its operations never fail: problems degrade to an informational view.
type Controller struct {
	rewards *reward.Executor
	bank    *content.Bank
	sink    events.Sink

	// columns picks the daily dataset columns for an age group.
	columns func(ageGroup string) []string
}

// NewController creates a controller. A nil bank behaves as an empty bank and
// a nil sink drops events.
func NewController(rewards *reward.Executor, bank *content.Bank, sink events.Sink) *Controller {
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Controller{
		rewards: rewards,
		bank:    bank,
		sink:    sink,
		columns: content.PresetColumns,
	}
}

// Handle dispatches one input and returns the resulting view.
func (c *Controller) Handle(ctx context.Context, s *Session, in Input) View {
	switch {
	case in.NavigationIntent != "":
		return c.Navigate(ctx, s, in.NavigationIntent, in.Subject)
	case in.SelectedAnswer != nil:
		return c.Submit(ctx, s, *in.SelectedAnswer)
	case in.Acknowledge:
		return c.Acknowledge(ctx, s)
	case in.Advance:
		return c.Advance(ctx, s)
	case in.Back:
		return c.Back(ctx, s)
	}
	return c.View(ctx, s)
}

// View renders the current state, entering the automatic mode if needed.
func (c *Controller) View(ctx context.Context, s *Session) View {
	scope := c.begin(ctx, s, "mission.view")
	defer scope.Finish()

	c.ensureState(scope, s)
	return c.render(scope, s)
}

// Navigate switches mode on an explicit intent.
func (c *Controller) Navigate(ctx context.Context, s *Session, intent Mode, subject string) View {
	scope := c.begin(ctx, s, "mission.navigate")
	defer scope.Finish()
	scope.SetAttributes("intent", string(intent))

	c.ensureState(scope, s)
	st := s.State
	st.resetScreen()

	switch intent {
	case ModeDaily:
		c.enterDaily(scope, s)
	case ModeFree:
		st.Step = 0
		c.setMode(st, ModeFree)
	case ModeBonus:
		c.enterPack(scope, s, ModeBonus, "")
	case ModeSubject:
		c.enterPack(scope, s, ModeSubject, subject)
	case ModeDone:
		c.setMode(st, ModeDone)
	default:
		scope.Log.Warnf("ignoring unknown navigation intent %q", intent)
	}
	return c.render(scope, s)
}

// Submit checks an answer for the active question or task.
func (c *Controller) Submit(ctx context.Context, s *Session, answer string) View {
	scope := c.begin(ctx, s, "mission.submit")
	defer scope.Finish()

	c.ensureState(scope, s)
	switch s.State.Mode {
	case ModeDaily, ModeFree:
		c.submitDaily(scope, s, answer)
	case ModeBonus, ModeSubject:
		c.submitPack(scope, s, answer)
	}
	return c.render(scope, s)
}

// Acknowledge dismisses an interstitial or the finish notice.
func (c *Controller) Acknowledge(ctx context.Context, s *Session) View {
	scope := c.begin(ctx, s, "mission.acknowledge")
	defer scope.Finish()

	c.ensureState(scope, s)
	st := s.State
	switch {
	case st.Interstitial:
		c.leaveInterstitial(scope, s)
	case st.Mode == ModeDone && st.FinishNotice != "":
		st.FinishNotice = ""
		// a notice carried over from an earlier day hides today's mission
		if st.DoneFrom == "" {
			c.autoEnter(scope, s)
		}
	}
	return c.render(scope, s)
}

// Advance moves to the next pack task, or past a daily interstitial.
func (c *Controller) Advance(ctx context.Context, s *Session) View {
	scope := c.begin(ctx, s, "mission.advance")
	defer scope.Finish()

	c.ensureState(scope, s)
	switch s.State.Mode {
	case ModeBonus, ModeSubject:
		c.advancePack(scope, s)
	case ModeDaily, ModeFree:
		if s.State.Interstitial {
			c.leaveInterstitial(scope, s)
		}
	}
	return c.render(scope, s)
}

// Back returns to the previous step or task. Rewards are never granted twice.
func (c *Controller) Back(ctx context.Context, s *Session) View {
	scope := c.begin(ctx, s, "mission.back")
	defer scope.Finish()

	c.ensureState(scope, s)
	st := s.State
	switch st.Mode {
	case ModeBonus, ModeSubject:
		if st.Pack != nil && st.Pack.ActiveIndex > 0 {
			st.Pack.ActiveIndex--
			st.resetScreen()
		}
	case ModeDaily, ModeFree:
		if prev, ok := c.previousStep(scope, s, st.Step); ok {
			st.Step = prev
			st.resetScreen()
		}
	case ModeDone:
		if st.DoneFrom == ModeBonus || st.DoneFrom == ModeSubject {
			if st.Pack != nil {
				st.resetScreen()
				c.setMode(st, st.DoneFrom)
			}
		}
	}
	return c.render(scope, s)
}

func (c *Controller) begin(ctx context.Context, s *Session, name string) *common.Scope {
	return common.NewScope(ctx, name).WithUser(s.UserID)
}

// ensureState rebuilds the transient state when it is missing, corrupt, owned
// by another identity or from an earlier day.
func (c *Controller) ensureState(scope *common.Scope, s *Session) {
	today := s.today()
	st := s.State

	switch {
	case st == nil:
		s.State = newState(s.UserID, today)
	case st.corrupt():
		scope.Log.Warnf("discarding corrupt mission state (version %d, step %d)", st.Version, st.Step)
		s.State = newState(s.UserID, today)
	case st.User != s.UserID:
		scope.Log.Infof("identity changed from %q, rebuilding mission state", st.User)
		s.dropShadow()
		s.State = newState(s.UserID, today)
	case st.Day != today:
		scope.Log.Infof("day rolled over from %s to %s", st.Day, today)
		next := newState(s.UserID, today)
		next.FinishNotice = st.FinishNotice
		s.State = next
	case st.Mode != "":
		return
	}

	if s.shadow != nil && s.shadow.ID != s.UserID {
		s.dropShadow()
	}
	c.autoEnter(scope, s)
}

// autoEnter picks the mode of a fresh state.
func (c *Controller) autoEnter(scope *common.Scope, s *Session) {
	st := s.State
	p := c.current(scope, s)

	switch {
	case st.FinishNotice != "":
		c.setMode(st, ModeDone)
	case p.DailyDone(st.Day) && !s.Guest():
		c.enterPack(scope, s, ModeBonus, "")
	case p.DailyDone(st.Day):
		st.DoneFrom = ModeDaily
		c.setMode(st, ModeDone)
	default:
		c.enterDaily(scope, s)
	}
}

func (c *Controller) setMode(st *State, mode Mode) {
	if st.Mode != mode {
		metrics.MissionTransitionsTotal.WithLabelValues(string(mode)).Inc()
	}
	st.Mode = mode
}

func (c *Controller) ageGroup(s *Session, p profile.UserProfile) string {
	switch {
	case s.AgeGroup != "":
		return s.AgeGroup
	case p.AgeGroup != "":
		return p.AgeGroup
	}
	return DefaultAgeGroup
}

// current returns the profile the session sees.
func (c *Controller) current(scope *common.Scope, s *Session) profile.UserProfile {
	if s.shadow != nil {
		return s.shadow.Clone()
	}
	if !s.ephemeral() {
		if p, ok := s.Repo.Get(scope.Ctx, s.UserID); ok {
			s.remember(p)
			return p
		}
		if p, ok := s.fallback(); ok {
			return p
		}
	}
	return profile.New(s.UserID, s.Clock.Now())
}

// mutate applies fn to the learner's profile. Guests only change the session
// shadow. A failed write switches the session to the shadow so the reward is
// still visible; the session stays there to keep claims consistent.
func (c *Controller) mutate(scope *common.Scope, s *Session, fn func(p *profile.UserProfile)) profile.UserProfile {
	apply := func(p *profile.UserProfile) error {
		fn(p)
		return nil
	}

	if !s.ephemeral() {
		updated, err := s.Repo.Mutate(scope.Ctx, s.UserID, apply)
		if err == nil {
			s.remember(updated)
			return updated
		}
		scope.TraceError(err)
		scope.Log.Warnf("failed to persist progress, keeping it in the session: %v", err)
		last, ok := s.fallback()
		if !ok {
			last = c.current(scope, s)
		}
		s.degraded = true
		fn(&last)
		s.shadow = &last
		return last.Clone()
	}

	p := c.current(scope, s)
	fn(&p)
	s.shadow = &p
	return p.Clone()
}

// grant applies bundle inside a mutation and reports what was credited.
func (c *Controller) grant(scope *common.Scope, p *profile.UserProfile, bundle string, day calendar.Day) reward.Summary {
	child := scope.NewChildScope("mission.grant")
	defer child.Finish()
	child.SetAttributes("bundle", bundle)

	summary, err := c.rewards.Apply(bundle, p, reward.Context{Day: day})
	if err != nil {
		child.TraceError(err)
		child.Log.Errorf("failed to apply bundle %s: %v", bundle, err)
		return reward.Summary{Bundle: bundle}
	}
	return summary
}

func (c *Controller) publish(scope *common.Scope, s *Session, typ events.Type, amount int, detail string) {
	c.sink.Publish(scope.Ctx, events.Event{
		Type:   typ,
		User:   s.UserID,
		Day:    s.State.Day.String(),
		Amount: amount,
		Detail: detail,
		At:     s.Clock.Now().UTC(),
	})
}

func (c *Controller) render(scope *common.Scope, s *Session) View {
	st := s.State
	p := c.current(scope, s)

	v := View{
		Mode:     st.Mode,
		Notice:   st.FinishNotice,
		Info:     st.Info,
		Feedback: st.Feedback,
		XP:       p.XP,
		Gems:     p.Gems,
		Streak:   p.Retention.Streak,
	}

	switch st.Mode {
	case ModeDaily, ModeFree:
		v.Total = DailySteps
		v.Step = st.Step
		v.Interstitial = st.Interstitial
		done := st.Step
		if st.Interstitial {
			done++
		}
		v.ProgressFraction = float64(done) / float64(DailySteps)
		q, ok := c.question(scope, s, st.Step)
		if !ok {
			v.Info = infoNoData
		} else if !st.Interstitial && !q.Skipped {
			v.VisiblePrompt = q.Prompt
			v.Options = append([]string(nil), q.Options...)
		}
	case ModeBonus, ModeSubject:
		if st.Pack != nil && len(st.Pack.Tasks) > 0 {
			pack := st.Pack
			task := pack.active()
			v.Total = len(pack.Tasks)
			v.Step = pack.ActiveIndex
			v.Subject = task.Task.Subject
			v.VisiblePrompt = task.Task.Prompt
			v.Options = append([]string(nil), task.Task.Options...)
			v.ProgressFraction = float64(pack.clearedCount()) / float64(len(pack.Tasks))
		}
	case ModeDone:
		v.ProgressFraction = 1
	}
	return v
}
