package builtin

import (
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/AccelByte/extend-daily-progression/pkg/reward"
)

// XPGrant credits XP, clipped by the daily cap.
type XPGrant struct {
	config reward.GrantConfig
	amount int
}

// NewXPGrant creates an XP grant from config parameter "amount".
func NewXPGrant(config reward.GrantConfig) *XPGrant {
	return &XPGrant{config: config, amount: config.GetParameterInt("amount", 0)}
}

func (g *XPGrant) ID() string                 { return g.config.ID }
func (g *XPGrant) Name() string               { return nameOr(g.config, "XP") }
func (g *XPGrant) Config() reward.GrantConfig { return g.config }

// Apply credits up to amount XP.
func (g *XPGrant) Apply(p *profile.UserProfile, gctx reward.Context) reward.Outcome {
	granted := p.AddXP(g.amount, gctx.Day, gctx.XPCap)
	return reward.Outcome{GrantID: g.ID(), Kind: reward.KindXP, Amount: granted}
}

// GemsGrant credits gems.
type GemsGrant struct {
	config reward.GrantConfig
	amount int
}

// NewGemsGrant creates a gems grant from config parameter "amount".
func NewGemsGrant(config reward.GrantConfig) *GemsGrant {
	return &GemsGrant{config: config, amount: config.GetParameterInt("amount", 0)}
}

func (g *GemsGrant) ID() string                 { return g.config.ID }
func (g *GemsGrant) Name() string               { return nameOr(g.config, "Gems") }
func (g *GemsGrant) Config() reward.GrantConfig { return g.config }

// Apply credits the gems.
func (g *GemsGrant) Apply(p *profile.UserProfile, _ reward.Context) reward.Outcome {
	return reward.Outcome{GrantID: g.ID(), Kind: reward.KindGems, Amount: p.AddGems(g.amount)}
}

// BadgeGrant adds a badge code once.
type BadgeGrant struct {
	config reward.GrantConfig
	code   string
}

// NewBadgeGrant creates a badge grant from config parameter "code".
func NewBadgeGrant(config reward.GrantConfig) *BadgeGrant {
	return &BadgeGrant{config: config, code: config.GetParameterString("code", config.ID)}
}

func (g *BadgeGrant) ID() string                 { return g.config.ID }
func (g *BadgeGrant) Name() string               { return nameOr(g.config, "Badge") }
func (g *BadgeGrant) Config() reward.GrantConfig { return g.config }

// Apply adds the badge; an already held badge yields an empty outcome code.
func (g *BadgeGrant) Apply(p *profile.UserProfile, _ reward.Context) reward.Outcome {
	out := reward.Outcome{GrantID: g.ID(), Kind: reward.KindBadge}
	if p.GrantBadge(g.code) {
		out.Code = g.code
	}
	return out
}

// StickerGrant adds a sticker code once.
type StickerGrant struct {
	config reward.GrantConfig
	code   string
}

// NewStickerGrant creates a sticker grant from config parameter "code".
func NewStickerGrant(config reward.GrantConfig) *StickerGrant {
	return &StickerGrant{config: config, code: config.GetParameterString("code", config.ID)}
}

func (g *StickerGrant) ID() string                 { return g.config.ID }
func (g *StickerGrant) Name() string               { return nameOr(g.config, "Sticker") }
func (g *StickerGrant) Config() reward.GrantConfig { return g.config }

func (g *StickerGrant) Apply(p *profile.UserProfile, _ reward.Context) reward.Outcome {
	out := reward.Outcome{GrantID: g.ID(), Kind: reward.KindSticker}
	if p.GrantSticker(g.code) {
		out.Code = g.code
	}
	return out
}

// FreezeGrant adds streak freeze tokens.
type FreezeGrant struct {
	config reward.GrantConfig
	count  int
}

// NewFreezeGrant creates a freeze grant from config parameter "count".
func NewFreezeGrant(config reward.GrantConfig) *FreezeGrant {
	return &FreezeGrant{config: config, count: config.GetParameterInt("count", 1)}
}

func (g *FreezeGrant) ID() string                 { return g.config.ID }
func (g *FreezeGrant) Name() string               { return nameOr(g.config, "Streak Freeze") }
func (g *FreezeGrant) Config() reward.GrantConfig { return g.config }

func (g *FreezeGrant) Apply(p *profile.UserProfile, _ reward.Context) reward.Outcome {
	if g.count <= 0 {
		return reward.Outcome{GrantID: g.ID(), Kind: reward.KindFreeze}
	}
	p.Retention.FreezeCount += g.count
	return reward.Outcome{GrantID: g.ID(), Kind: reward.KindFreeze, Amount: g.count}
}

func nameOr(config reward.GrantConfig, fallback string) string {
	if config.Name != "" {
		return config.Name
	}
	return fallback
}
