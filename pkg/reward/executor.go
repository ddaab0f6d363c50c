package reward

import (
	"fmt"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/metrics"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/sirupsen/logrus"
)

// Builtin grant types.
const (
	TypeXP      = "builtin.xp"
	TypeGems    = "builtin.gems"
	TypeBadge   = "builtin.badge"
	TypeSticker = "builtin.sticker"
	TypeFreeze  = "builtin.freeze"
)

// Bundles applied by the mission controller.
const (
	BundleDailyStep       = "daily_step"
	BundleDailyComplete   = "daily_complete"
	BundlePackComplete    = "pack_complete"
	BundleFreeComplete    = "free_complete"
	BundleSectionComplete = "section_complete"
	BundleFreezeSaved     = "freeze_saved"
)

// Executor applies named bundles of grants to profiles.
type Executor struct {
	registry *Registry
	config   *Config
}

// NewExecutor creates a new bundle executor.
func NewExecutor(registry *Registry, config *Config) *Executor {
	return &Executor{
		registry: registry,
		config:   config,
	}
}

// Apply credits every grant of bundle to p. It only mutates p; persisting it
// is up to the caller. A zero XPCap in gctx uses the configured cap.
func (e *Executor) Apply(bundle string, p *profile.UserProfile, gctx Context) (Summary, error) {
	ids, ok := e.config.Bundles[bundle]
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrBundleNotFound, bundle)
	}

	grants, err := e.registry.Resolve(ids)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to resolve bundle %s: %w", bundle, err)
	}

	if gctx.XPCap == 0 {
		gctx.XPCap = e.config.XPDailyCap
	}

	summary := Summary{Bundle: bundle}
	for _, grant := range grants {
		summary.add(grant.Apply(p, gctx))
	}

	metrics.RewardsGrantedTotal.WithLabelValues(bundle).Inc()
	logrus.Debugf("applied bundle %s to %s: xp=%d gems=%d", bundle, p.ID, summary.XP, summary.Gems)
	return summary, nil
}

// HasBundle reports whether bundle is configured.
func (e *Executor) HasBundle(bundle string) bool {
	_, ok := e.config.Bundles[bundle]
	return ok
}

// Config returns the progression configuration used by this executor.
func (e *Executor) Config() *Config {
	return e.config
}

// ValidateWiring checks that every enabled grant in config has a registered
// instance and every bundle resolves to registered grants.
func ValidateWiring(registry *Registry, config *Config) error {
	var errs []string

	enabled := make(map[string]bool)
	for _, gc := range config.Rewards {
		if !gc.Enabled {
			continue
		}
		enabled[gc.ID] = true

		if registry.Get(gc.ID) == nil {
			errs = append(errs, fmt.Sprintf("grant '%s' (type=%s) is enabled in config but not registered", gc.ID, gc.Type))
		}
	}

	for bundle, ids := range config.Bundles {
		for _, id := range ids {
			if !enabled[id] {
				errs = append(errs, fmt.Sprintf("bundle '%s' uses disabled grant '%s'", bundle, id))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("reward wiring validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
