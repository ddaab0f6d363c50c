package reward

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the grant instances built from the reward config, keyed by
// grant ID. Bundles are resolved against it on every Apply.
type Registry struct {
	mu     sync.RWMutex
	grants map[string]Grant
}

func NewRegistry() *Registry {
	return &Registry{grants: make(map[string]Grant)}
}

// Register adds grant. IDs are unique across all grant types.
func (r *Registry) Register(grant Grant) error {
	if grant == nil {
		return fmt.Errorf("%w: nil grant", ErrInvalidConfig)
	}
	id := grant.ID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.grants[id]; dup {
		return fmt.Errorf("%w: %s", ErrGrantExists, id)
	}
	r.grants[id] = grant
	return nil
}

// Get returns the grant registered as id, or nil.
func (r *Registry) Get(id string) Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[id]
}

// Resolve maps ids to grants in order, failing on the first unknown one.
func (r *Registry) Resolve(ids []string) ([]Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grants := make([]Grant, len(ids))
	for i, id := range ids {
		g, ok := r.grants[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrGrantNotFound, id)
		}
		grants[i] = g
	}
	return grants, nil
}

// IDs returns the registered grant IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.grants))
	for id := range r.grants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.grants)
}
