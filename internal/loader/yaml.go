package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads and decodes a single netplan document
func LoadYAML(path string) (domain.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RawDocument{}, errs.New(errs.KindNotFound, fmt.Errorf("netplan file %s: %w", path, err))
		}
		return domain.RawDocument{}, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := ParseYAML(filepath.Base(path), data)
	if err != nil {
		return domain.RawDocument{}, err
	}
	doc.Path = path
	return doc, nil
}

// ParseYAML decodes document bytes into generic mappings. The top level
// must be a mapping.
func ParseYAML(filename string, data []byte) (domain.RawDocument, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.RawDocument{}, errs.New(errs.KindParse,
			fmt.Errorf("could not parse the %s netplan config file: %w", filename, err))
	}

	content, ok := normalize(raw).(map[string]any)
	if !ok {
		return domain.RawDocument{}, errs.Malformed("%s: the contents is not a YAML mapping", filename)
	}

	return domain.RawDocument{
		Filename: filename,
		Content:  content,
	}, nil
}

// normalize converts any map[any]any produced for non-string keys into
// map[string]any, recursively.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			val[k] = normalize(e)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range val {
			val[i] = normalize(e)
		}
		return val
	default:
		return val
	}
}
