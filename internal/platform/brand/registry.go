package brand

import (
	"fmt"
	"strings"
)

// Registry is the process-wide brand lookup table. It is immutable after
// construction: read accessors only, no setters.
type Registry struct {
	byID     map[ID]*Config
	byDomain map[string]ID
}

// NewRegistry validates and indexes the given brand configs. IDs must be
// unique, schemas non-empty, and each email domain may belong to exactly one
// brand across the whole registry.
func NewRegistry(configs []Config) (*Registry, error) {
	r := &Registry{
		byID:     make(map[ID]*Config, len(configs)),
		byDomain: make(map[string]ID),
	}

	for i := range configs {
		cfg := configs[i]
		if cfg.ID == "" {
			return nil, fmt.Errorf("brand config at index %d has empty id", i)
		}
		if cfg.Schema == "" {
			return nil, fmt.Errorf("brand %q has empty schema", cfg.ID)
		}
		if _, exists := r.byID[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate brand id %q", cfg.ID)
		}
		r.byID[cfg.ID] = &cfg

		for _, domain := range cfg.EmailDomains {
			domain = strings.ToLower(domain)
			if owner, exists := r.byDomain[domain]; exists {
				return nil, fmt.Errorf("email domain %q claimed by both %q and %q", domain, owner, cfg.ID)
			}
			r.byDomain[domain] = cfg.ID
		}
	}

	return r, nil
}

// Get returns the config for the given brand, or nil if the id is unknown.
func (r *Registry) Get(id ID) *Config {
	return r.byID[id]
}

// ResolveDomain returns the brand owning the given email domain. The lookup
// is exact-match on the lowercased domain; no wildcard or subdomain matching.
func (r *Registry) ResolveDomain(domain string) (ID, bool) {
	id, ok := r.byDomain[strings.ToLower(domain)]
	return id, ok
}

// All returns the configs of every registered brand.
func (r *Registry) All() []*Config {
	configs := make([]*Config, 0, len(r.byID))
	for _, cfg := range r.byID {
		configs = append(configs, cfg)
	}
	return configs
}

var defaultRegistry = mustNewRegistry(brandTable)

func mustNewRegistry(configs []Config) *Registry {
	r, err := NewRegistry(configs)
	if err != nil {
		panic("brand: invalid registry table: " + err.Error())
	}
	return r
}

// Default returns the registry built from the compiled-in brand table.
func Default() *Registry {
	return defaultRegistry
}
