// Package scraper provides HTTP fetching and HTML parsing for the OnixS FIX
// field dictionary.
//
// The scraper package fetches a version's "fields by tag" page and extracts
// the first table on it into a tag number → field name mapping. Rows whose
// first cell is not a base-10 integer are treated as non-data rows and skipped
// without error.
package scraper
