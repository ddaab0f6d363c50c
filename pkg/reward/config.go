package reward

import (
	"fmt"
	"os"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/AccelByte/extend-daily-progression/pkg/retention"
	"gopkg.in/yaml.v3"
)

// GrantConfig is the base configuration for all grants.
// This is typically loaded from config/progression.yaml.
type GrantConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name,omitempty" json:"name,omitempty"`
	Type       string                 `yaml:"type" json:"type"` // e.g., "builtin.xp"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// GetParameterInt retrieves an integer parameter with a default.
func (c *GrantConfig) GetParameterInt(key string, defaultValue int) int {
	if val, ok := c.Parameters[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultValue
}

// GetParameterString retrieves a string parameter with a default.
func (c *GrantConfig) GetParameterString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetParameterBool retrieves a boolean parameter with a default.
func (c *GrantConfig) GetParameterBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// Config is the progression tuning: grant definitions, the bundles that
// group them, streak milestones and the daily XP cap.
type Config struct {
	Rewards           []GrantConfig         `yaml:"rewards"`
	Bundles           map[string][]string   `yaml:"bundles"`
	Milestones        []retention.Milestone `yaml:"milestones"`
	XPDailyCap        int                   `yaml:"xpDailyCap"`
	FreezeDropPercent int                   `yaml:"freezeDropPercent"`
}

// LoadConfig loads progression configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates YAML progression configuration.
func ParseConfig(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	grantIDs := make(map[string]bool)
	for _, grant := range c.Rewards {
		if grant.ID == "" {
			return fmt.Errorf("grant with empty ID found")
		}
		if grantIDs[grant.ID] {
			return fmt.Errorf("duplicate grant ID: %s", grant.ID)
		}
		grantIDs[grant.ID] = true

		if grant.Type == "" {
			return fmt.Errorf("grant %s has empty type", grant.ID)
		}
	}

	for bundle, ids := range c.Bundles {
		for _, id := range ids {
			if !grantIDs[id] {
				return fmt.Errorf("bundle %s references unknown grant: %s", bundle, id)
			}
		}
	}

	seen := make(map[int]bool)
	for _, m := range c.Milestones {
		if m.Streak <= 0 {
			return fmt.Errorf("milestone streak must be positive, got %d", m.Streak)
		}
		if seen[m.Streak] {
			return fmt.Errorf("duplicate milestone streak: %d", m.Streak)
		}
		seen[m.Streak] = true

		if _, ok := c.Bundles[m.Bundle]; !ok {
			return fmt.Errorf("milestone %d references unknown bundle: %s", m.Streak, m.Bundle)
		}
	}

	if c.XPDailyCap < 0 {
		return fmt.Errorf("xpDailyCap must not be negative")
	}
	if c.FreezeDropPercent < 0 || c.FreezeDropPercent > 100 {
		return fmt.Errorf("freezeDropPercent must be within 0..100")
	}

	return nil
}

// MilestoneTable returns the streak milestones in retention form.
func (c *Config) MilestoneTable() retention.MilestoneTable {
	return retention.MilestoneTable{
		Milestones:        append([]retention.Milestone(nil), c.Milestones...),
		FreezeDropPercent: c.FreezeDropPercent,
	}
}

// DefaultConfig is the shipped progression tuning.
func DefaultConfig() *Config {
	xp := func(id string, amount int) GrantConfig {
		return GrantConfig{ID: id, Type: TypeXP, Enabled: true, Parameters: map[string]interface{}{"amount": amount}}
	}
	gems := func(id string, amount int) GrantConfig {
		return GrantConfig{ID: id, Type: TypeGems, Enabled: true, Parameters: map[string]interface{}{"amount": amount}}
	}
	code := func(id, grantType, value string) GrantConfig {
		return GrantConfig{ID: id, Type: grantType, Enabled: true, Parameters: map[string]interface{}{"code": value}}
	}

	milestones := retention.DefaultMilestones()

	return &Config{
		Rewards: []GrantConfig{
			xp("xp_2", 2),
			xp("xp_5", 5),
			xp("xp_10", 10),
			xp("xp_12", 12),
			xp("xp_20", 20),
			xp("xp_40", 40),
			gems("gems_1", 1),
			gems("gems_2", 2),
			gems("gems_3", 3),
			code("sticker_daily", TypeSticker, "sticker_daily"),
			code("sticker_bonus_master", TypeSticker, "sticker_bonus_master"),
			code("sticker_freeze", TypeSticker, "sticker_freeze"),
			code("sticker_lootbox", TypeSticker, "sticker_lootbox"),
			code("badge_streak_3", TypeBadge, "streak_3"),
			code("badge_streak_7", TypeBadge, "streak_7"),
			code("badge_streak_14", TypeBadge, "streak_14"),
			code("badge_streak_30", TypeBadge, "streak_30"),
		},
		Bundles: map[string][]string{
			BundleDailyStep:       {"xp_2"},
			BundleDailyComplete:   {"xp_12", "gems_3", "sticker_daily"},
			BundlePackComplete:    {"xp_10", "gems_1", "sticker_bonus_master"},
			BundleFreeComplete:    {"xp_10", "gems_2"},
			BundleSectionComplete: {"xp_12", "gems_1"},
			BundleFreezeSaved:     {"sticker_freeze"},
			"streak_3":            {"xp_5", "badge_streak_3", "sticker_lootbox"},
			"streak_7":            {"xp_10", "badge_streak_7", "sticker_lootbox"},
			"streak_14":           {"xp_20", "badge_streak_14", "sticker_lootbox"},
			"streak_30":           {"xp_40", "badge_streak_30", "sticker_lootbox"},
		},
		Milestones:        milestones.Milestones,
		XPDailyCap:        profile.DefaultXPDailyCap,
		FreezeDropPercent: milestones.FreezeDropPercent,
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(parts[0]); value != "" {
			return value
		}
		return defaultValue
	})
}
