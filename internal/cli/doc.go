// Package cli implements the command-line interface for fix-tags.
//
// The root command scrapes the configured FIX versions, prints one progress
// line per version, and writes each successful version's tag mapping to the
// output directory (and optionally a SQLite database). The show subcommand
// reads a previously written file back.
package cli
