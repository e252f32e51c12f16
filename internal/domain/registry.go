package domain

import (
	"fmt"
	"sort"

	"netplan-parser/internal/errs"
)

// SupportedVersion is the only netplan format version accepted.
const SupportedVersion = 2

// Registry is the merged, name-keyed view of all documents. It is built
// once by Build and never mutated afterwards, so it is safe for
// concurrent readers.
type Registry struct {
	records   map[string]InterfaceRecord
	order     []string
	relations []Relation
}

// Build merges documents into a Registry. Documents are processed in
// ascending filename order regardless of the order given; when a name is
// declared more than once the last definition replaces the earlier one
// entirely.
func Build(docs []RawDocument) (*Registry, error) {
	sorted := make([]RawDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Filename < sorted[j].Filename
	})

	records := make(map[string]InterfaceRecord)
	lastWrite := make(map[string]int)
	seq := 0

	for _, doc := range sorted {
		net, err := networkOf(doc)
		if err != nil {
			return nil, err
		}

		for _, key := range sortedKeys(net) {
			if reservedKeys[key] {
				continue
			}
			section := Section(key)

			ifaces, err := sectionOf(doc, section, net[key])
			if err != nil {
				return nil, err
			}

			for _, name := range sortedKeys(ifaces) {
				data, err := interfaceOf(doc, section, name, ifaces[name])
				if err != nil {
					return nil, err
				}
				records[name] = InterfaceRecord{
					Name:       name,
					Section:    section,
					Data:       data,
					SourceFile: doc.Filename,
				}
				lastWrite[name] = seq
				seq++
			}
		}
	}

	order := make([]string, 0, len(records))
	for name := range records {
		order = append(order, name)
	}
	sort.Slice(order, func(i, j int) bool {
		return lastWrite[order[i]] < lastWrite[order[j]]
	})

	return newRegistry(records, order), nil
}

func newRegistry(records map[string]InterfaceRecord, order []string) *Registry {
	r := &Registry{records: records, order: order}
	for _, name := range order {
		r.relations = append(r.relations, records[name].References()...)
	}
	return r
}

func networkOf(doc RawDocument) (map[string]any, error) {
	raw, ok := doc.Content["network"]
	if !ok {
		return nil, errs.Malformed("%s: no \"network\" top-level element", doc.Filename)
	}
	net, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.Malformed("%s: \"network\" is not a mapping", doc.Filename)
	}
	if v, ok := net["version"]; ok && !isSupportedVersion(v) {
		return nil, errs.Malformed("%s: unsupported format version %v", doc.Filename, v)
	}
	return net, nil
}

func sectionOf(doc RawDocument, section Section, raw any) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	ifaces, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.Malformed("%s: section %q is not a mapping of interface names", doc.Filename, section)
	}
	return ifaces, nil
}

func interfaceOf(doc RawDocument, section Section, name string, raw any) (map[string]any, error) {
	if raw == nil {
		return map[string]any{}, nil
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.Malformed("%s: %s/%s is not a mapping", doc.Filename, section, name)
	}
	return data, nil
}

func isSupportedVersion(v any) bool {
	switch n := v.(type) {
	case int:
		return n == SupportedVersion
	case int64:
		return n == SupportedVersion
	case uint64:
		return n == SupportedVersion
	case float64:
		return n == SupportedVersion
	default:
		return fmt.Sprint(v) == fmt.Sprint(SupportedVersion)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the record for name.
func (r *Registry) Get(name string) (InterfaceRecord, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

// Has reports whether name is declared.
func (r *Registry) Has(name string) bool {
	_, ok := r.records[name]
	return ok
}

// Len returns the number of interfaces.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns all interface names in insertion order, where an
// overwritten name takes the position of its last definition.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every record in insertion order.
func (r *Registry) All() []InterfaceRecord {
	out := make([]InterfaceRecord, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.records[name])
	}
	return out
}

// Relations returns every declared reference, including those whose
// target is not declared.
func (r *Registry) Relations() []Relation {
	out := make([]Relation, len(r.relations))
	copy(out, r.relations)
	return out
}

// Filter returns a registry restricted to the given names. Names that
// are not declared are ignored.
func (r *Registry) Filter(names []string) *Registry {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	records := make(map[string]InterfaceRecord, len(want))
	order := make([]string, 0, len(want))
	for _, name := range r.order {
		if want[name] {
			records[name] = r.records[name]
			order = append(order, name)
		}
	}
	return newRegistry(records, order)
}

// Missing returns the names that are not declared, sorted and deduplicated.
func (r *Registry) Missing(names []string) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, n := range names {
		if !r.Has(n) && !seen[n] {
			seen[n] = true
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	return missing
}
