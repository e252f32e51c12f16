package domain

import "sort"

// QueryResult is the answer to a single query: the matching records
// ordered by name.
type QueryResult struct {
	Interfaces []InterfaceRecord `json:"interfaces"`
	// PhysicalKinds is set when the result was filtered to physical devices.
	PhysicalKinds []Section `json:"physical_kinds,omitempty"`
}

// NewQueryResult collects the records of reg into a result.
func NewQueryResult(reg *Registry) *QueryResult {
	recs := reg.All()
	sort.Slice(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })
	return &QueryResult{Interfaces: recs}
}

// Names returns the interface names of the result, in order.
func (q *QueryResult) Names() []string {
	names := make([]string, len(q.Interfaces))
	for i, rec := range q.Interfaces {
		names[i] = rec.Name
	}
	return names
}

// Map returns the result as name → configuration data, the shape used
// when the result is serialized.
func (q *QueryResult) Map() map[string]map[string]any {
	out := make(map[string]map[string]any, len(q.Interfaces))
	for _, rec := range q.Interfaces {
		out[rec.Name] = rec.Data
	}
	return out
}

// Len returns the number of interfaces in the result.
func (q *QueryResult) Len() int {
	return len(q.Interfaces)
}
