package domain

import "sort"

// Section is the netplan section an interface is declared in, which
// doubles as its device kind.
type Section string

const (
	SectionEthernets        Section = "ethernets"
	SectionModems           Section = "modems"
	SectionWifis            Section = "wifis"
	SectionVLANs            Section = "vlans"
	SectionBonds            Section = "bonds"
	SectionBridges          Section = "bridges"
	SectionTunnels          Section = "tunnels"
	SectionDummyDevices     Section = "dummy-devices"
	SectionVirtualEthernets Section = "virtual-ethernets"
)

// Rule selects how an interface of a given kind references other interfaces.
type Rule int

const (
	// RuleNone means the kind references nothing.
	RuleNone Rule = iota
	// RuleLink follows the single "link" key (VLAN parent device).
	RuleLink
	// RuleMembers follows the "interfaces" list (bond and bridge members).
	RuleMembers
)

const (
	keyLink       = "link"
	keyInterfaces = "interfaces"
)

// SectionInfo describes how a kind of device is classified and traversed.
type SectionInfo struct {
	Physical bool
	Rule     Rule
}

// sections is the kind table. Adding a device kind is one line here.
var sections = map[Section]SectionInfo{
	SectionEthernets:        {Physical: true},
	SectionModems:           {Physical: true},
	SectionWifis:            {Physical: true},
	SectionVLANs:            {Rule: RuleLink},
	SectionBonds:            {Rule: RuleMembers},
	SectionBridges:          {Rule: RuleMembers},
	SectionTunnels:          {},
	SectionDummyDevices:     {},
	SectionVirtualEthernets: {},
}

// Info returns the table entry for a section. Unknown sections are
// synthetic and reference nothing.
func (s Section) Info() SectionInfo {
	return sections[s]
}

// IsPhysical reports whether the section describes devices backed by a
// real adapter.
func (s Section) IsPhysical() bool {
	return sections[s].Physical
}

// IsKnown reports whether the section is in the kind table.
func (s Section) IsKnown() bool {
	_, ok := sections[s]
	return ok
}

// PhysicalSections returns the physical kinds, sorted.
func PhysicalSections() []Section {
	var out []Section
	for s, info := range sections {
		if info.Physical {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// reservedKeys are the keys under "network" that are metadata, not sections.
var reservedKeys = map[string]bool{
	"version":  true,
	"renderer": true,
}
