package builtin

import (
	"fmt"

	"github.com/AccelByte/extend-daily-progression/pkg/reward"
)

// RegisterGrants registers the built-in grant factories.
func RegisterGrants() {
	reward.RegisterGrantType(reward.TypeXP, func(config reward.GrantConfig) (reward.Grant, error) {
		if config.GetParameterInt("amount", 0) <= 0 {
			return nil, fmt.Errorf("%w: grant %s needs a positive amount", reward.ErrInvalidConfig, config.ID)
		}
		return NewXPGrant(config), nil
	})

	reward.RegisterGrantType(reward.TypeGems, func(config reward.GrantConfig) (reward.Grant, error) {
		if config.GetParameterInt("amount", 0) <= 0 {
			return nil, fmt.Errorf("%w: grant %s needs a positive amount", reward.ErrInvalidConfig, config.ID)
		}
		return NewGemsGrant(config), nil
	})

	reward.RegisterGrantType(reward.TypeBadge, func(config reward.GrantConfig) (reward.Grant, error) {
		return NewBadgeGrant(config), nil
	})

	reward.RegisterGrantType(reward.TypeSticker, func(config reward.GrantConfig) (reward.Grant, error) {
		return NewStickerGrant(config), nil
	})

	reward.RegisterGrantType(reward.TypeFreeze, func(config reward.GrantConfig) (reward.Grant, error) {
		return NewFreezeGrant(config), nil
	})
}
