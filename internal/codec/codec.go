package codec

import (
	"io"
	"sort"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"
)

// Exporter renders a query result in one output format
type Exporter interface {
	Export(result *domain.QueryResult, w io.Writer) error
	Format() string
}

// Format names
const (
	FormatYAML    = "yaml"
	FormatJSON    = "json"
	FormatNames   = "names"
	FormatBrief   = "brief"
	FormatNetplan = "netplan"
)

var exporters = map[string]func() Exporter{
	FormatYAML:    func() Exporter { return NewYAMLCodec() },
	FormatJSON:    func() Exporter { return NewJSONCodec() },
	FormatNames:   func() Exporter { return NewNamesCodec() },
	FormatBrief:   func() Exporter { return NewBriefCodec() },
	FormatNetplan: func() Exporter { return NewNetplanCodec() },
}

// ForFormat returns the exporter for a format name
func ForFormat(format string) (Exporter, error) {
	newExporter, ok := exporters[format]
	if !ok {
		return nil, errs.Invalid("unknown output format %q (use one of %v)", format, Formats())
	}
	return newExporter(), nil
}

// Formats lists the supported format names
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
