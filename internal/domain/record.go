package domain

// RawDocument is one deserialized configuration file.
type RawDocument struct {
	Filename string         `json:"filename"` // base name, the merge order key
	Path     string         `json:"path,omitempty"`
	Content  map[string]any `json:"content"`
}

// InterfaceRecord is the effective configuration of one named interface.
type InterfaceRecord struct {
	Name       string         `json:"name"`
	Section    Section        `json:"section"`
	Data       map[string]any `json:"data"`
	SourceFile string         `json:"source_file"`
}

// Link returns the parent device named by the "link" key, if any.
func (r InterfaceRecord) Link() (string, bool) {
	link, ok := r.Data[keyLink].(string)
	if !ok || link == "" {
		return "", false
	}
	return link, true
}

// Members returns the names listed under the "interfaces" key. Entries
// that are not strings are skipped.
func (r InterfaceRecord) Members() []string {
	list, ok := r.Data[keyInterfaces].([]any)
	if !ok {
		return nil
	}
	members := make([]string, 0, len(list))
	for _, v := range list {
		if name, ok := v.(string); ok && name != "" {
			members = append(members, name)
		}
	}
	return members
}

// References returns the names this record points at according to the
// rule of its section.
func (r InterfaceRecord) References() []Relation {
	switch r.Section.Info().Rule {
	case RuleLink:
		if link, ok := r.Link(); ok {
			return []Relation{{From: r.Name, To: link, Kind: RelationLink}}
		}
	case RuleMembers:
		members := r.Members()
		rels := make([]Relation, 0, len(members))
		for _, m := range members {
			rels = append(rels, Relation{From: r.Name, To: m, Kind: RelationMember})
		}
		return rels
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r InterfaceRecord) Clone() InterfaceRecord {
	r.Data = cloneMap(r.Data)
	return r
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}
