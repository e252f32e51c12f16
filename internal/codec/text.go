package codec

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"netplan-parser/internal/domain"
)

// NamesCodec prints only the interface names, space separated
type NamesCodec struct{}

// NewNamesCodec creates a new names codec
func NewNamesCodec() *NamesCodec {
	return &NamesCodec{}
}

// Format returns the codec format identifier
func (c *NamesCodec) Format() string {
	return FormatNames
}

// Export writes the sorted names on one line
func (c *NamesCodec) Export(result *domain.QueryResult, w io.Writer) error {
	_, err := fmt.Fprintln(w, strings.Join(result.Names(), " "))
	return err
}

// BriefCodec prints one summary line per interface
type BriefCodec struct{}

// NewBriefCodec creates a new brief codec
func NewBriefCodec() *BriefCodec {
	return &BriefCodec{}
}

// Format returns the codec format identifier
func (c *BriefCodec) Format() string {
	return FormatBrief
}

// Export writes name, section, related names and source file per line
func (c *BriefCodec) Export(result *domain.QueryResult, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, rec := range result.Interfaces {
		refs := make([]string, 0)
		for _, rel := range rec.References() {
			refs = append(refs, rel.To)
		}
		related := "-"
		if len(refs) > 0 {
			related = strings.Join(refs, ",")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Name, rec.Section, related, rec.SourceFile); err != nil {
			return err
		}
	}
	return tw.Flush()
}
