package domain

// Resolver answers relationship queries over a Registry. It indexes the
// registry's relations once, in both directions.
type Resolver struct {
	registry *Registry
	forward  map[string][]string
	reverse  map[string][]string
}

// NewResolver builds the adjacency index for reg.
func NewResolver(reg *Registry) *Resolver {
	res := &Resolver{
		registry: reg,
		forward:  make(map[string][]string),
		reverse:  make(map[string][]string),
	}
	for _, rel := range reg.Relations() {
		res.forward[rel.From] = append(res.forward[rel.From], rel.To)
		res.reverse[rel.To] = append(res.reverse[rel.To], rel.From)
	}
	return res
}

// Related returns the smallest superset of seeds closed under the
// link, member and reverse rules. Names missing from the registry stay
// in the result once reached but are not expanded. Seeds come first in
// the given order, followed by the rest in discovery order.
func (res *Resolver) Related(seeds []string) []string {
	visited := make(map[string]bool, len(seeds))
	result := make([]string, 0, len(seeds))
	queue := make([]string, 0, len(seeds))

	visit := func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		result = append(result, name)
		queue = append(queue, name)
	}

	for _, s := range seeds {
		visit(s)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if !res.registry.Has(name) {
			continue
		}
		for _, next := range res.forward[name] {
			visit(next)
		}
		for _, next := range res.reverse[name] {
			visit(next)
		}
	}

	return result
}

// PhysicalOnly keeps the names whose section is a physical kind. Names
// missing from the registry cannot be classified and are dropped.
func (res *Resolver) PhysicalOnly(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		rec, ok := res.registry.Get(name)
		if ok && rec.Section.IsPhysical() {
			out = append(out, name)
		}
	}
	return out
}
