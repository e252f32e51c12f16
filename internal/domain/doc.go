// Package domain defines the netplan configuration model and its
// relationship resolution.
//
// # Core Types
//
// RawDocument is one deserialized netplan file. Build merges a set of
// them into a Registry: a name-keyed map of InterfaceRecord values, each
// remembering the Section it was declared in and the file it came from.
// Documents are merged in ascending filename order and the last
// definition of a name wins outright; there is no field-level merge.
//
// Section is a closed set of device kinds with a lookup table deciding
// whether a kind is physical and which key (link or interfaces) it uses
// to reference other interfaces.
//
// # Relationships
//
// Resolver computes the closure of a set of names over the declared
// relations (VLAN parents, bond and bridge members) and their reverse.
// References to undeclared interfaces are tolerated: the name is kept
// but nothing is expanded from it.
//
// # Design Principles
//
//   - A Registry is immutable once built
//   - Per-interface data is kept as generic maps so unknown keys pass through
//   - No filesystem or serialization concerns
package domain
