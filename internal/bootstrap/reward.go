// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/AccelByte/extend-daily-progression/pkg/reward"
	rewardBuiltin "github.com/AccelByte/extend-daily-progression/pkg/reward/builtin"
	"github.com/sirupsen/logrus"
)

// LoadRewardConfig reads the progression tuning from path. A missing file
// falls back to the shipped defaults.
func LoadRewardConfig(path string) (*reward.Config, error) {
	config, err := reward.LoadConfig(path)
	if err == nil {
		logrus.Infof("loaded progression configuration from %s", path)
		return config, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("progression configuration %s not found, using defaults", path)
		return reward.DefaultConfig(), nil
	}
	return nil, err
}

// InitRewardExecutor creates and initializes a reward executor with grants from
// the progression config.
//
// ============================================================
// DEVELOPER: Register custom grant types here.
// ============================================================
// Grants are the smallest reward unit; bundles group them and
// the mission controller applies bundles by name.
//
// Steps to add a new grant:
// 1. Create your grant in pkg/reward/builtin/ (see grants.go)
// 2. Implement the reward.Grant interface
// 3. Register the grant type in pkg/reward/builtin/init.go
// 4. Add the grant to config/progression.yaml
// 5. Reference it from a bundle in config/progression.yaml
//
// The builtin grants:
// - builtin.xp      → XP, subject to the daily cap
// - builtin.gems    → gem currency
// - builtin.badge   → one-time badge code
// - builtin.sticker → one-time sticker code
// - builtin.freeze  → streak freeze tokens
// ============================================================
func InitRewardExecutor(config *reward.Config) (*reward.Executor, *reward.Registry, error) {
	rewardBuiltin.RegisterGrants()

	registry := reward.NewRegistry()
	if err := reward.RegisterGrants(registry, config.Rewards); err != nil {
		return nil, nil, fmt.Errorf("failed to register grants: %w", err)
	}
	logrus.Infof("registered %d grants", registry.Count())

	// ============================================================
	// Validate bundle wiring
	// ============================================================
	// This ensures every bundle and milestone in
	// config/progression.yaml references registered grants.
	// ============================================================
	if err := reward.ValidateWiring(registry, config); err != nil {
		return nil, nil, fmt.Errorf("failed to validate reward wiring: %w", err)
	}
	logrus.Info("reward wiring validation passed")

	executor := reward.NewExecutor(registry, config)
	logrus.Infof("initialized reward executor with %d bundles", len(config.Bundles))

	return executor, registry, nil
}
