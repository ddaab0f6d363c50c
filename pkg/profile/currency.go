// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"errors"
	"fmt"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
)

// DefaultXPDailyCap limits XP earned per calendar day.
const DefaultXPDailyCap = 120

var (
	ErrInsufficientGems = errors.New("insufficient gems")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

// AddXP credits up to amount XP, respecting the daily cap (dailyCap <= 0 disables
// it). Returns the XP actually credited.
func (p *UserProfile) AddXP(amount int, day calendar.Day, dailyCap int) int {
	if amount <= 0 {
		return 0
	}

	if dailyCap > 0 {
		if p.Retention.XPDay != day {
			p.Retention.XPDay = day
			p.Retention.XPGainedToday = 0
		}
		room := dailyCap - p.Retention.XPGainedToday
		if room <= 0 {
			return 0
		}
		if amount > room {
			amount = room
		}
		p.Retention.XPGainedToday += amount
	}

	p.XP += amount
	return amount
}

// AddGems credits gems. Non-positive amounts are ignored.
func (p *UserProfile) AddGems(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.Gems += amount
	return amount
}

// SpendGems debits gems or fails without changing the balance.
func (p *UserProfile) SpendGems(cost int) error {
	if cost < 0 {
		return ErrInvalidAmount
	}
	if p.Gems < cost {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientGems, p.Gems, cost)
	}
	p.Gems -= cost
	return nil
}

// UnlockGame buys a game. Already-unlocked games cost nothing and report false.
func (p *UserProfile) UnlockGame(id string, cost int) (bool, error) {
	if inSet(p.UnlockedGames, id) {
		return false, nil
	}
	if err := p.SpendGems(cost); err != nil {
		return false, err
	}
	p.UnlockedGames, _ = addToSet(p.UnlockedGames, id)
	return true, nil
}

// UnlockAvatar buys an avatar, with the same rules as UnlockGame.
func (p *UserProfile) UnlockAvatar(id string, cost int) (bool, error) {
	if inSet(p.UnlockedAvatars, id) {
		return false, nil
	}
	if err := p.SpendGems(cost); err != nil {
		return false, err
	}
	p.UnlockedAvatars, _ = addToSet(p.UnlockedAvatars, id)
	return true, nil
}
