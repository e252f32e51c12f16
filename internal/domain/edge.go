package domain

// RelationKind is the type of reference between two interfaces.
type RelationKind string

const (
	// RelationLink is a VLAN pointing at its parent device.
	RelationLink RelationKind = "link"
	// RelationMember is a bond or bridge listing a member interface.
	RelationMember RelationKind = "member"
)

// Relation is a declared reference from one interface to another. The
// target may be absent from the registry.
type Relation struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Kind RelationKind `json:"kind"`
}
