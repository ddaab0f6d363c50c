package reward

import "errors"

var (
	// ErrGrantNotFound indicates that a requested grant doesn't exist in the registry.
	ErrGrantNotFound = errors.New("grant not found in registry")

	// ErrGrantExists indicates that a grant ID was registered twice.
	ErrGrantExists = errors.New("grant already registered")

	// ErrBundleNotFound indicates that a bundle name is not configured.
	ErrBundleNotFound = errors.New("reward bundle not found")

	// ErrInvalidConfig indicates that the progression configuration is invalid.
	ErrInvalidConfig = errors.New("invalid progression configuration")
)
