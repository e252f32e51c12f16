package codec

import (
	"fmt"
	"io"

	"netplan-parser/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// Export writes the result as a YAML mapping keyed by interface name
func (c *YAMLCodec) Export(result *domain.QueryResult, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(result.Map()); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// NetplanCodec writes records back in the netplan document shape,
// grouped by section, so the output can be dropped into a netplan
// directory.
type NetplanCodec struct{}

// NewNetplanCodec creates a new netplan document codec
func NewNetplanCodec() *NetplanCodec {
	return &NetplanCodec{}
}

// Format returns the codec format identifier
func (c *NetplanCodec) Format() string {
	return FormatNetplan
}

// Export writes a single network/version 2 document
func (c *NetplanCodec) Export(result *domain.QueryResult, w io.Writer) error {
	network := map[string]any{"version": domain.SupportedVersion}
	for _, rec := range result.Interfaces {
		section, _ := network[string(rec.Section)].(map[string]any)
		if section == nil {
			section = make(map[string]any)
			network[string(rec.Section)] = section
		}
		section[rec.Name] = rec.Data
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(map[string]any{"network": network}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
