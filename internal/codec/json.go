package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"netplan-parser/internal/domain"
)

// JSONCodec handles JSON export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return FormatJSON
}

// Export writes the result as a JSON object keyed by interface name
func (c *JSONCodec) Export(result *domain.QueryResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(result.Map()); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
