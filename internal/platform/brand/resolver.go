package brand

import "strings"

// Resolver maps an email address to the brand owning its domain. Pure lookup
// over the registry; no side effects, no syntax validation beyond finding the
// domain part. Format validation belongs to the form layer.
type Resolver struct {
	registry *Registry
}

func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve extracts the substring after the last '@', lowercases it, and looks
// it up in the registry. Returns ("", false) when the email has no '@', an
// empty domain part, or a domain no brand owns.
func (r *Resolver) Resolve(email string) (ID, bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", false
	}

	domain := email[at+1:]
	if domain == "" {
		return "", false
	}

	return r.registry.ResolveDomain(domain)
}

// IsEmailDomainAllowed reports whether some brand owns the email's domain.
func (r *Resolver) IsEmailDomainAllowed(email string) bool {
	_, ok := r.Resolve(email)
	return ok
}
