package normalize

import (
	"golang.org/x/exp/slices"

	"github.com/tallyops/advicenorm/advice"
)

// Registry resolves a vendor group to its normalizer. It is a constructed
// value with no package-level mutable state, so tests can substitute rule
// sets without touching globals.
type Registry struct {
	normalizers map[advice.VendorGroup]Normalizer
	fallback    Normalizer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithNormalizer installs (or replaces) the normalizer for its group.
func WithNormalizer(n Normalizer) RegistryOption {
	return func(r *Registry) {
		r.normalizers[n.Group()] = n
	}
}

// WithDistributorClient sets the legal-entity identity used to filter
// distributor settlement rows. Rows for other entities are skipped.
func WithDistributorClient(name string) RegistryOption {
	return func(r *Registry) {
		r.normalizers[advice.GroupDistributor] = &distributor{client: name}
	}
}

// NewRegistry builds a registry with the built-in group normalizers
// installed. Resolution is a pure lookup; an unknown or zero group yields
// the default normalizer, whose result is an empty line list.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		normalizers: map[advice.VendorGroup]Normalizer{
			advice.GroupMarketplace:   marketplace{},
			advice.GroupQuickCommerce: quickCommerce{},
			advice.GroupDistributor:   &distributor{},
		},
		fallback: defaultNormalizer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalizer returns the normalizer for group, or the default normalizer
// when the group is unknown. It never returns nil.
func (r *Registry) Normalizer(group advice.VendorGroup) Normalizer {
	if n, ok := r.normalizers[group]; ok {
		return n
	}
	return r.fallback
}

// Groups lists the registered groups in stable order.
func (r *Registry) Groups() []advice.VendorGroup {
	groups := make([]advice.VendorGroup, 0, len(r.normalizers))
	for g := range r.normalizers {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}
