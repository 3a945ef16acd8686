package repositories

import (
	domainRepos "github.com/rios0rios0/lockupdate/internal/domain/repositories"
)

// EcosystemRegistry manages all registered ecosystem implementations.
type EcosystemRegistry struct {
	ecosystems map[string]domainRepos.EcosystemRepository
	order      []string
}

// NewEcosystemRegistry creates an empty ecosystem registry.
func NewEcosystemRegistry() *EcosystemRegistry {
	return &EcosystemRegistry{
		ecosystems: make(map[string]domainRepos.EcosystemRepository),
	}
}

// Register adds an ecosystem under its name, replacing any previous one.
func (r *EcosystemRegistry) Register(e domainRepos.EcosystemRepository) {
	if _, exists := r.ecosystems[e.Name()]; !exists {
		r.order = append(r.order, e.Name())
	}
	r.ecosystems[e.Name()] = e
}

// Get returns the ecosystem with the given name, or nil if not registered.
func (r *EcosystemRegistry) Get(name string) domainRepos.EcosystemRepository {
	return r.ecosystems[name]
}

// Detect returns the first registered ecosystem claiming the manifest, or nil.
func (r *EcosystemRegistry) Detect(manifestPath string) domainRepos.EcosystemRepository {
	for _, name := range r.order {
		if e := r.ecosystems[name]; e.Detect(manifestPath) {
			return e
		}
	}
	return nil
}

// All returns every registered ecosystem in registration order.
func (r *EcosystemRegistry) All() []domainRepos.EcosystemRepository {
	result := make([]domainRepos.EcosystemRepository, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.ecosystems[name])
	}
	return result
}

// Names returns the list of registered ecosystem names in registration order.
func (r *EcosystemRegistry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
