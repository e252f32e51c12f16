package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterfaceRecordReferences(t *testing.T) {
	tests := []struct {
		name   string
		record InterfaceRecord
		want   []Relation
	}{
		{
			name:   "vlan link",
			record: InterfaceRecord{Name: "vlan10", Section: SectionVLANs, Data: map[string]any{"link": "eth0", "id": 10}},
			want:   []Relation{{From: "vlan10", To: "eth0", Kind: RelationLink}},
		},
		{
			name:   "vlan without link",
			record: InterfaceRecord{Name: "vlan10", Section: SectionVLANs, Data: map[string]any{"id": 10}},
			want:   nil,
		},
		{
			name: "bridge members keep order",
			record: InterfaceRecord{Name: "br0", Section: SectionBridges, Data: map[string]any{
				"interfaces": []any{"eth1", "eth0"},
			}},
			want: []Relation{
				{From: "br0", To: "eth1", Kind: RelationMember},
				{From: "br0", To: "eth0", Kind: RelationMember},
			},
		},
		{
			name: "bond with a scalar interfaces value",
			record: InterfaceRecord{Name: "bond0", Section: SectionBonds, Data: map[string]any{
				"interfaces": "eth0",
			}},
			want: []Relation{},
		},
		{
			name: "physical kinds reference nothing",
			record: InterfaceRecord{Name: "eth0", Section: SectionEthernets, Data: map[string]any{
				"link": "eth1", "interfaces": []any{"eth2"},
			}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.References())
		})
	}
}

func TestInterfaceRecordClone(t *testing.T) {
	orig := InterfaceRecord{
		Name:    "br0",
		Section: SectionBridges,
		Data: map[string]any{
			"interfaces": []any{"eth0"},
			"parameters": map[string]any{"stp": true},
		},
	}

	c := orig.Clone()
	c.Data["interfaces"].([]any)[0] = "eth9"
	c.Data["parameters"].(map[string]any)["stp"] = false

	assert.Equal(t, "eth0", orig.Data["interfaces"].([]any)[0])
	assert.Equal(t, true, orig.Data["parameters"].(map[string]any)["stp"])
}

func TestSectionTable(t *testing.T) {
	assert.Equal(t, []Section{SectionEthernets, SectionModems, SectionWifis}, PhysicalSections())

	for _, s := range []Section{SectionVLANs, SectionBonds, SectionBridges, SectionTunnels, SectionDummyDevices, SectionVirtualEthernets} {
		assert.True(t, s.IsKnown(), s)
		assert.False(t, s.IsPhysical(), s)
	}
	assert.Equal(t, RuleLink, SectionVLANs.Info().Rule)
	assert.Equal(t, RuleMembers, SectionBonds.Info().Rule)
	assert.Equal(t, RuleMembers, SectionBridges.Info().Rule)
	assert.False(t, Section("vrfs").IsKnown())
	assert.Equal(t, RuleNone, Section("vrfs").Info().Rule)
}
