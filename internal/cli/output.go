package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pfrederiksen/fix-tags/internal/dictionary"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Entry is a single tag and its field name
type Entry struct {
	Tag  int    `json:"tag"`
	Name string `json:"name"`
}

// OutputResult contains data to be output
type OutputResult struct {
	Version    string  `json:"version"`
	Entries    []Entry `json:"entries"`
	EntryCount int     `json:"entry_count"`
	Missing    []int   `json:"missing,omitempty"`
}

// NewOutputResult selects entries from mapping. With no tags, every entry is
// included in tag order; otherwise the requested tags are looked up in the
// order given and unknown ones are collected in Missing.
func NewOutputResult(version string, mapping dictionary.VersionMapping, tags []int) *OutputResult {
	result := &OutputResult{Version: version, Entries: []Entry{}}

	if len(tags) == 0 {
		tags = mapping.Tags()
	}
	for _, tag := range tags {
		name, ok := mapping[tag]
		if !ok {
			result.Missing = append(result.Missing, tag)
			continue
		}
		result.Entries = append(result.Entries, Entry{Tag: tag, Name: name})
	}
	result.EntryCount = len(result.Entries)

	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as an aligned tag/name listing
func writeText(w io.Writer, result *OutputResult) error {
	if result.EntryCount == 0 && len(result.Missing) == 0 {
		fmt.Fprintf(w, "FIX %s: no entries.\n", result.Version)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range result.Entries {
		fmt.Fprintf(tw, "%d\t%s\n", e.Tag, e.Name)
	}
	for _, tag := range result.Missing {
		fmt.Fprintf(tw, "%d\t(unknown)\n", tag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d entries in FIX %s\n", result.EntryCount, result.Version)
	return nil
}
