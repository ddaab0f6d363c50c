package reward

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// GrantFactory is a function that creates a grant from a configuration.
type GrantFactory func(config GrantConfig) (Grant, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]GrantFactory)
)

// RegisterGrantType registers a factory function for a grant type.
// This allows external packages to register their grant types without creating import cycles.
func RegisterGrantType(grantType string, factory GrantFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[grantType] = factory
	logrus.Debugf("registered grant type: %s", grantType)
}

// CreateGrant creates a grant instance based on the configuration.
// Disabled grants yield nil without an error.
func CreateGrant(config GrantConfig) (Grant, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled grant: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown grant type: %s", config.Type)
	}

	logrus.Debugf("creating grant: id=%s, type=%s", config.ID, config.Type)
	return factory(config)
}

// CreateGrants creates multiple grant instances from a list of configurations.
// Returns all successfully created grants and any errors encountered.
func CreateGrants(configs []GrantConfig) ([]Grant, []error) {
	var grants []Grant
	var errs []error

	for _, config := range configs {
		grant, err := CreateGrant(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create grant %s: %w", config.ID, err))
			continue
		}

		if grant != nil {
			grants = append(grants, grant)
		}
	}

	return grants, errs
}

// RegisterGrants creates grants from configs and adds them to registry.
func RegisterGrants(registry *Registry, configs []GrantConfig) error {
	grants, errs := CreateGrants(configs)

	if len(errs) > 0 {
		logrus.Warnf("encountered %d errors while creating grants", len(errs))
		for _, err := range errs {
			logrus.Warnf("grant creation error: %v", err)
		}
	}

	for _, grant := range grants {
		if err := registry.Register(grant); err != nil {
			return fmt.Errorf("failed to register grant %s: %w", grant.ID(), err)
		}
	}

	logrus.Infof("registered %d grants", len(grants))
	return nil
}
