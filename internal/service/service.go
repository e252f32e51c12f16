package service

import (
	"strings"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"
)

// QueryKind selects one of the supported queries.
type QueryKind string

const (
	QueryShow     QueryKind = "show"
	QueryRelated  QueryKind = "related"
	QueryPhysical QueryKind = "physical"
)

// ParseQueryKind validates a query name.
func ParseQueryKind(s string) (QueryKind, error) {
	switch k := QueryKind(s); k {
	case QueryShow, QueryRelated, QueryPhysical:
		return k, nil
	default:
		return "", errs.Invalid("unknown query %q (use show, related or physical)", s)
	}
}

// NetPlan answers queries over one parsed configuration.
type NetPlan struct {
	registry *domain.Registry
	resolver *domain.Resolver
}

// New wraps reg. The registry must not be modified afterwards.
func New(reg *domain.Registry) *NetPlan {
	return &NetPlan{
		registry: reg,
		resolver: domain.NewResolver(reg),
	}
}

// Registry returns the underlying registry.
func (n *NetPlan) Registry() *domain.Registry {
	return n.registry
}

// All returns every declared interface.
func (n *NetPlan) All() *domain.QueryResult {
	return domain.NewQueryResult(n.registry)
}

// Interfaces returns the records for exactly the requested names.
// Undeclared names are skipped.
func (n *NetPlan) Interfaces(names []string) *domain.QueryResult {
	return domain.NewQueryResult(n.registry.Filter(names))
}

// Related returns the requested interfaces together with everything
// they are connected to through links and memberships.
func (n *NetPlan) Related(names []string) *domain.QueryResult {
	return domain.NewQueryResult(n.registry.Filter(n.resolver.Related(names)))
}

// Physical returns the physical devices among the related interfaces.
func (n *NetPlan) Physical(names []string) *domain.QueryResult {
	related := n.resolver.Related(names)
	result := domain.NewQueryResult(n.registry.Filter(n.resolver.PhysicalOnly(related)))
	result.PhysicalKinds = domain.PhysicalSections()
	return result
}

// Query runs the query of the given kind. A show query without names
// returns every interface; related and physical need at least one name.
// When strict is set, every requested name must be declared.
func (n *NetPlan) Query(kind QueryKind, names []string, strict bool) (*domain.QueryResult, error) {
	if kind == QueryShow && len(names) == 0 {
		return n.All(), nil
	}
	if len(names) == 0 {
		return nil, errs.Invalid("%s needs at least one interface name", kind)
	}

	if strict {
		if missing := n.registry.Missing(names); len(missing) > 0 {
			return nil, errs.NotFound("interface(s) not found: %s", strings.Join(missing, ", "))
		}
	}

	switch kind {
	case QueryShow:
		return n.Interfaces(names), nil
	case QueryRelated:
		return n.Related(names), nil
	case QueryPhysical:
		return n.Physical(names), nil
	default:
		return nil, errs.Invalid("unknown query %q", kind)
	}
}
